package persistent

import (
	"petit-marche/internal/entity"
	"petit-marche/internal/model"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *entity.Message) error
	ListThread(listingID, userA, userB string) ([]*entity.Message, error)
	ListConversations(userID string) ([]*entity.Conversation, error)
	MarkRead(listingID, readerID, senderID string) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *entity.Message) error {
	messageModel := ToMessageModel(message)
	if err := r.db.Create(messageModel).Error; err != nil {
		return err
	}
	message.ID = messageModel.ID
	message.CreatedAt = messageModel.CreatedAt
	return nil
}

func (r *messageRepository) ListThread(listingID, userA, userB string) ([]*entity.Message, error) {
	var messageModels []model.MessageModel
	err := r.db.Where(
		"listing_id = ? AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
		listingID, userA, userB, userB, userA,
	).Order("created_at ASC").Find(&messageModels).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*entity.Message, len(messageModels))
	for i := range messageModels {
		messages[i] = ToMessageEntity(&messageModels[i])
	}
	return messages, nil
}

// ListConversations groups the user's messages into one row per
// (listing, other participant) pair with the latest message and unread count.
func (r *messageRepository) ListConversations(userID string) ([]*entity.Conversation, error) {
	var messageModels []model.MessageModel
	err := r.db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").Find(&messageModels).Error
	if err != nil {
		return nil, err
	}

	type threadKey struct {
		listingID string
		otherID   string
	}

	seen := make(map[threadKey]*entity.Conversation)
	var conversations []*entity.Conversation
	for i := range messageModels {
		msg := &messageModels[i]
		otherID := msg.SenderID
		if msg.SenderID == userID {
			otherID = msg.ReceiverID
		}
		key := threadKey{listingID: msg.ListingID, otherID: otherID}

		conv, ok := seen[key]
		if !ok {
			conv = &entity.Conversation{
				ListingID:   msg.ListingID,
				OtherUserID: otherID,
				LastMessage: msg.Content,
				LastAt:      msg.CreatedAt,
			}
			seen[key] = conv
			conversations = append(conversations, conv)
		}
		if msg.ReceiverID == userID && !msg.Read {
			conv.UnreadCount++
		}
	}

	return conversations, nil
}

func (r *messageRepository) MarkRead(listingID, readerID, senderID string) error {
	return r.db.Model(&model.MessageModel{}).
		Where("listing_id = ? AND receiver_id = ? AND sender_id = ? AND read = ?", listingID, readerID, senderID, false).
		Update("read", true).Error
}
