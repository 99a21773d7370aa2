package http

import (
	"net/http"

	"petit-marche/internal/usecase"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageUseCase usecase.MessageUseCase
}

func NewMessageHandler(messageUseCase usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
	}
}

type SendMessageRequest struct {
	ListingID  string `json:"listing_id" binding:"required"`
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content" binding:"required"`
}

// Send godoc
// @Summary      Send a message about a listing
// @Description  Buyer inquiries go to the listing owner; the owner replies by naming the buyer as receiver
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SendMessageRequest true "Message"
// @Success      201  {object}  entity.Message
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.messageUseCase.Send(userID, req.ListingID, req.ReceiverID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// Thread godoc
// @Summary      Get a message thread
// @Description  All messages between the current user and another user about one listing. Reading marks the thread as read.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        listing_id path string true "Listing ID"
// @Param        user_id path string true "Other participant ID"
// @Success      200  {array}  entity.Message
// @Failure      401  {object}  map[string]string
// @Router       /messages/{listing_id}/{user_id} [get]
func (h *MessageHandler) Thread(c *gin.Context) {
	userID := c.GetString("user_id")

	messages, err := h.messageUseCase.GetThread(userID, c.Param("listing_id"), c.Param("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Conversations godoc
// @Summary      List the current user's conversations
// @Description  One entry per listing and correspondent, with last message and unread count
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.Conversation
// @Failure      401  {object}  map[string]string
// @Router       /messages [get]
func (h *MessageHandler) Conversations(c *gin.Context) {
	userID := c.GetString("user_id")

	conversations, err := h.messageUseCase.GetConversations(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, conversations)
}
