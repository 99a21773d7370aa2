package persistent

import (
	"petit-marche/internal/entity"
	"petit-marche/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	return &entity.User{
		ID:             m.ID,
		Email:          m.Email,
		Password:       m.Password,
		FullName:       m.FullName,
		Phone:          m.Phone,
		District:       m.District,
		FirstListingAt: m.FirstListingAt,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	return &model.UserModel{
		ID:             e.ID,
		Email:          e.Email,
		Password:       e.Password,
		FullName:       e.FullName,
		Phone:          e.Phone,
		District:       e.District,
		FirstListingAt: e.FirstListingAt,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToListingEntity(m *model.ListingModel) *entity.Listing {
	if m == nil {
		return nil
	}

	listing := &entity.Listing{
		ID:           m.ID,
		UserID:       m.UserID,
		Title:        m.Title,
		Description:  m.Description,
		Price:        m.Price,
		Category:     m.Category,
		Condition:    m.Condition,
		District:     m.District,
		Status:       entity.ListingStatus(m.Status),
		BoostedUntil: m.BoostedUntil,
		Views:        m.Views,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}

	if len(m.Photos) > 0 {
		listing.Photos = make([]entity.ListingPhoto, len(m.Photos))
		for i, photo := range m.Photos {
			listing.Photos[i] = ToListingPhotoEntity(&photo)
		}
	}

	return listing
}

func ToListingModel(e *entity.Listing) *model.ListingModel {
	if e == nil {
		return nil
	}

	listing := &model.ListingModel{
		ID:           e.ID,
		UserID:       e.UserID,
		Title:        e.Title,
		Description:  e.Description,
		Price:        e.Price,
		Category:     e.Category,
		Condition:    e.Condition,
		District:     e.District,
		Status:       string(e.Status),
		BoostedUntil: e.BoostedUntil,
		Views:        e.Views,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}

	if len(e.Photos) > 0 {
		listing.Photos = make([]model.ListingPhotoModel, len(e.Photos))
		for i, photo := range e.Photos {
			listing.Photos[i] = *ToListingPhotoModel(&photo)
		}
	}

	return listing
}

func ToListingPhotoEntity(m *model.ListingPhotoModel) entity.ListingPhoto {
	if m == nil {
		return entity.ListingPhoto{}
	}

	return entity.ListingPhoto{
		ID:        m.ID,
		ListingID: m.ListingID,
		PhotoURL:  m.PhotoURL,
		Order:     m.Order,
		CreatedAt: m.CreatedAt,
	}
}

func ToListingPhotoModel(e *entity.ListingPhoto) *model.ListingPhotoModel {
	if e == nil {
		return nil
	}

	return &model.ListingPhotoModel{
		ID:        e.ID,
		ListingID: e.ListingID,
		PhotoURL:  e.PhotoURL,
		Order:     e.Order,
		CreatedAt: e.CreatedAt,
	}
}

func ToCreditBalanceEntity(m *model.CreditBalanceModel) *entity.CreditBalance {
	if m == nil {
		return nil
	}

	return &entity.CreditBalance{
		ID:        m.ID,
		UserID:    m.UserID,
		Credits:   m.Credits,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToTransactionEntity(m *model.TransactionModel) *entity.Transaction {
	if m == nil {
		return nil
	}

	return &entity.Transaction{
		ID:            m.ID,
		UserID:        m.UserID,
		ListingID:     m.ListingID,
		Amount:        m.Amount,
		Type:          entity.PurchaseType(m.Type),
		Status:        entity.TransactionStatus(m.Status),
		PayDunyaToken: m.PayDunyaToken,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToTransactionModel(e *entity.Transaction) *model.TransactionModel {
	if e == nil {
		return nil
	}

	return &model.TransactionModel{
		ID:            e.ID,
		UserID:        e.UserID,
		ListingID:     e.ListingID,
		Amount:        e.Amount,
		Type:          string(e.Type),
		Status:        string(e.Status),
		PayDunyaToken: e.PayDunyaToken,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func ToMessageEntity(m *model.MessageModel) *entity.Message {
	if m == nil {
		return nil
	}

	return &entity.Message{
		ID:         m.ID,
		ListingID:  m.ListingID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Content:    m.Content,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

func ToMessageModel(e *entity.Message) *model.MessageModel {
	if e == nil {
		return nil
	}

	return &model.MessageModel{
		ID:         e.ID,
		ListingID:  e.ListingID,
		SenderID:   e.SenderID,
		ReceiverID: e.ReceiverID,
		Content:    e.Content,
		Read:       e.Read,
		CreatedAt:  e.CreatedAt,
	}
}

func ToReviewEntity(m *model.ReviewModel) *entity.Review {
	if m == nil {
		return nil
	}

	return &entity.Review{
		ID:         m.ID,
		ReviewerID: m.ReviewerID,
		ReviewedID: m.ReviewedID,
		ListingID:  m.ListingID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
	}
}

func ToReviewModel(e *entity.Review) *model.ReviewModel {
	if e == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:         e.ID,
		ReviewerID: e.ReviewerID,
		ReviewedID: e.ReviewedID,
		ListingID:  e.ListingID,
		Rating:     e.Rating,
		Comment:    e.Comment,
		CreatedAt:  e.CreatedAt,
	}
}
