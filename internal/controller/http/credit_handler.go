package http

import (
	"net/http"

	"petit-marche/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CreditHandler struct {
	creditUseCase usecase.CreditUseCase
}

func NewCreditHandler(creditUseCase usecase.CreditUseCase) *CreditHandler {
	return &CreditHandler{
		creditUseCase: creditUseCase,
	}
}

// Balance godoc
// @Summary      Get the current user's credit balance
// @Tags         credits
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.CreditBalance
// @Failure      401  {object}  map[string]string
// @Router       /me/credits [get]
func (h *CreditHandler) Balance(c *gin.Context) {
	userID := c.GetString("user_id")

	balance, err := h.creditUseCase.GetBalance(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, balance)
}

// Packs godoc
// @Summary      List available credit packs
// @Tags         credits
// @Produce      json
// @Success      200  {array}  entity.CreditPack
// @Router       /credits/packs [get]
func (h *CreditHandler) Packs(c *gin.Context) {
	c.JSON(http.StatusOK, h.creditUseCase.ListPacks())
}
