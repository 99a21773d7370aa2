package http

import (
	"io"
	"net/http"
	"strconv"

	"petit-marche/internal/entity"
	"petit-marche/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentUseCase usecase.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

type CreateInvoiceRequest struct {
	UserID      string `json:"userId" binding:"required"`
	Type        string `json:"type" binding:"required"`
	AnnonceID   string `json:"annonceId"`
	BoostOption string `json:"boostOption"`
	Credits     int    `json:"credits"`
	PackName    string `json:"packName"`
}

type CreateInvoiceResponse struct {
	Success     bool   `json:"success"`
	CheckoutURL string `json:"checkout_url"`
	Token       string `json:"token"`
	Amount      int    `json:"amount"`
	Description string `json:"description"`
}

type CreditRequestBody struct {
	SelectedPack       string `json:"selectedPack" binding:"required"`
	PhoneNumber        string `json:"phoneNumber" binding:"required"`
	Email              string `json:"email" binding:"required"`
	FullName           string `json:"fullName" binding:"required"`
	ScreenshotBase64   string `json:"screenshotBase64" binding:"required"`
	ScreenshotFilename string `json:"screenshotFilename"`
}

type CreditRequestResponse struct {
	Success       bool   `json:"success"`
	TeamEmailID   string `json:"teamEmailId"`
	ClientEmailID string `json:"clientEmailId,omitempty"`
	Pack          string `json:"pack"`
}

type ManualPaymentRequest struct {
	Phone              string `json:"phone" binding:"required"`
	Account            string `json:"account" binding:"required"`
	Pack               string `json:"pack" binding:"required"`
	UserEmail          string `json:"userEmail"`
	ScreenshotBase64   string `json:"screenshotBase64" binding:"required"`
	ScreenshotFilename string `json:"screenshotFilename"`
}

type ManualPaymentResponse struct {
	Success bool   `json:"success"`
	EmailID string `json:"emailId"`
}

// CreateInvoice godoc
// @Summary      Create a PayDunya checkout invoice
// @Description  Register a hosted checkout session for a listing publication, a boost or a credit pack
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Payment intent"
// @Success      200  {object}  CreateInvoiceResponse
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /payments/create-invoice [post]
func (h *PaymentHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.paymentUseCase.CreateInvoice(c.Request.Context(), usecase.InvoiceRequest{
		UserID:      req.UserID,
		Type:        entity.PurchaseType(req.Type),
		ListingID:   req.AnnonceID,
		BoostOption: req.BoostOption,
		Credits:     req.Credits,
		PackName:    req.PackName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreateInvoiceResponse{
		Success:     true,
		CheckoutURL: result.CheckoutURL,
		Token:       result.Token,
		Amount:      result.Amount,
		Description: result.Description,
	})
}

// Callback godoc
// @Summary      PayDunya IPN callback
// @Description  Receives payment notifications from the gateway. Business no-ops (duplicates, unknown tokens) still answer 200 so the gateway stops retrying.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /payments/callback [post]
func (h *PaymentHandler) Callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read callback body"})
		return
	}

	result, err := h.paymentUseCase.HandleCallback(c.Request.Context(), body, c.ContentType())
	if err != nil {
		// Parse failures and storage errors get a 500 so the gateway retries.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"processed": result.Processed,
		"status":    result.Status,
	})
}

// Transactions godoc
// @Summary      List the current user's transactions
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200  {array}  entity.Transaction
// @Failure      401  {object}  map[string]string
// @Router       /me/transactions [get]
func (h *PaymentHandler) Transactions(c *gin.Context) {
	userID := c.GetString("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	transactions, err := h.paymentUseCase.ListTransactions(userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transactions)
}

// CreditRequest godoc
// @Summary      Submit a manual credit pack request
// @Description  Relays a pack purchase request with a payment screenshot to the operator, and confirms reception to the client by email
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body CreditRequestBody true "Credit request with a base64 screenshot"
// @Success      200  {object}  CreditRequestResponse
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /payments/credit-request [post]
func (h *PaymentHandler) CreditRequest(c *gin.Context) {
	var req CreditRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.paymentUseCase.SendCreditRequest(c.Request.Context(), usecase.CreditRequestInput{
		Pack:               req.SelectedPack,
		PhoneNumber:        req.PhoneNumber,
		Email:              req.Email,
		FullName:           req.FullName,
		ScreenshotBase64:   req.ScreenshotBase64,
		ScreenshotFilename: req.ScreenshotFilename,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, CreditRequestResponse{
		Success:       true,
		TeamEmailID:   receipt.TeamEmailID,
		ClientEmailID: receipt.ClientEmailID,
		Pack:          req.SelectedPack,
	})
}

// ManualPayment godoc
// @Summary      Relay a proof-of-payment screenshot
// @Description  Forwards a payment screenshot to the operator inbox for manual reconciliation
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request body ManualPaymentRequest true "Payment proof"
// @Success      200  {object}  ManualPaymentResponse
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /payments/manual [post]
func (h *PaymentHandler) ManualPayment(c *gin.Context) {
	var req ManualPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	emailID, err := h.paymentUseCase.SendManualPayment(c.Request.Context(), usecase.ManualPaymentInput{
		Phone:              req.Phone,
		Account:            req.Account,
		Pack:               req.Pack,
		UserEmail:          req.UserEmail,
		ScreenshotBase64:   req.ScreenshotBase64,
		ScreenshotFilename: req.ScreenshotFilename,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ManualPaymentResponse{
		Success: true,
		EmailID: emailID,
	})
}
