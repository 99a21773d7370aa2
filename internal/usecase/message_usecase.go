package usecase

import (
	"fmt"
	"strings"

	"petit-marche/internal/entity"
	"petit-marche/internal/repo/persistent"
	"petit-marche/pkg/logger"
	"petit-marche/pkg/queue"
)

type MessageUseCase interface {
	Send(senderID, listingID, receiverID, content string) (*entity.Message, error)
	GetThread(userID, listingID, otherUserID string) ([]*entity.Message, error)
	GetConversations(userID string) ([]*entity.Conversation, error)
}

type messageUseCase struct {
	messageRepo persistent.MessageRepository
	listingRepo persistent.ListingRepository
	queueClient *queue.Client
	logger      *logger.Logger
}

func NewMessageUseCase(
	messageRepo persistent.MessageRepository,
	listingRepo persistent.ListingRepository,
	queueClient *queue.Client,
	logger *logger.Logger,
) MessageUseCase {
	return &messageUseCase{
		messageRepo: messageRepo,
		listingRepo: listingRepo,
		queueClient: queueClient,
		logger:      logger,
	}
}

// Send delivers a buyer inquiry to the listing owner, or a seller reply back
// to a buyer. For inquiries the receiver is derived from the listing; only
// the listing owner may address an arbitrary receiver, and only to reply.
func (uc *messageUseCase) Send(senderID, listingID, receiverID, content string) (*entity.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}
	if len(content) > 2000 {
		return nil, fmt.Errorf("%w: message too long", ErrValidation)
	}

	listing, err := uc.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, ErrNotFound
	}

	if senderID == listing.UserID {
		if receiverID == "" || receiverID == senderID {
			return nil, fmt.Errorf("%w: a reply requires the buyer as receiver", ErrValidation)
		}
	} else {
		receiverID = listing.UserID
	}

	message := &entity.Message{
		ListingID:  listingID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
	}

	if err := uc.messageRepo.Create(message); err != nil {
		uc.logger.Error("Failed to create message from %s on %s: %v", senderID, listingID, err)
		return nil, fmt.Errorf("failed to send message")
	}

	if uc.queueClient != nil {
		go uc.publishMessageNotification(message)
	}

	return message, nil
}

func (uc *messageUseCase) GetThread(userID, listingID, otherUserID string) ([]*entity.Message, error) {
	messages, err := uc.messageRepo.ListThread(listingID, userID, otherUserID)
	if err != nil {
		uc.logger.Error("Failed to load thread %s/%s: %v", listingID, otherUserID, err)
		return nil, fmt.Errorf("failed to load conversation")
	}

	if err := uc.messageRepo.MarkRead(listingID, userID, otherUserID); err != nil {
		uc.logger.Warn("Failed to mark thread read for %s: %v", userID, err)
	}

	return messages, nil
}

func (uc *messageUseCase) GetConversations(userID string) ([]*entity.Conversation, error) {
	return uc.messageRepo.ListConversations(userID)
}

func (uc *messageUseCase) publishMessageNotification(message *entity.Message) {
	task := map[string]interface{}{
		"type":       "new_message",
		"user_id":    message.ReceiverID,
		"sender_id":  message.SenderID,
		"listing_id": message.ListingID,
		"priority":   6,
	}
	if err := uc.queueClient.PublishNotificationTask(task); err != nil {
		uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish message task: %v (receiver=%s)", err, message.ReceiverID)
	}
}
