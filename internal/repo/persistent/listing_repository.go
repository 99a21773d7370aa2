package persistent

import (
	"time"

	"petit-marche/internal/entity"
	"petit-marche/internal/model"

	"gorm.io/gorm"
)

type ListingFilter struct {
	Category string
	District string
	Query    string
	Limit    int
	Offset   int
}

type ListingRepository interface {
	Create(listing *entity.Listing) error
	GetByID(listingID string) (*entity.Listing, error)
	ListActive(filter ListingFilter) ([]*entity.Listing, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Listing, error)
	UpdatePrice(listingID, userID string, price int) (bool, error)
	UpdateStatus(listingID, userID string, status entity.ListingStatus) (bool, error)
	SetBoost(listingID, userID string, until time.Time) (bool, error)
	Delete(listingID, userID string) (bool, error)
	IncrementView(listingID string) error
}

type listingRepository struct {
	db *gorm.DB
}

func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(listing *entity.Listing) error {
	listingModel := ToListingModel(listing)
	if err := r.db.Create(listingModel).Error; err != nil {
		return err
	}
	created := ToListingEntity(listingModel)
	*listing = *created
	return nil
}

func (r *listingRepository) GetByID(listingID string) (*entity.Listing, error) {
	var listingModel model.ListingModel
	err := r.db.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("photo_order ASC")
	}).Where("id = ?", listingID).First(&listingModel).Error
	if err != nil {
		return nil, err
	}
	return ToListingEntity(&listingModel), nil
}

// ListActive returns publicly visible listings, boosted ones first.
func (r *listingRepository) ListActive(filter ListingFilter) ([]*entity.Listing, error) {
	query := r.db.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("photo_order ASC")
	}).Where("status = ?", string(entity.ListingStatusActive))

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.District != "" {
		query = query.Where("district = ?", filter.District)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	query = query.Order("boosted_until DESC NULLS LAST").Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var listingModels []model.ListingModel
	if err := query.Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*entity.Listing, len(listingModels))
	for i := range listingModels {
		listings[i] = ToListingEntity(&listingModels[i])
	}
	return listings, nil
}

func (r *listingRepository) ListByUser(userID string, limit, offset int) ([]*entity.Listing, error) {
	query := r.db.Preload("Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("photo_order ASC")
	}).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var listingModels []model.ListingModel
	if err := query.Find(&listingModels).Error; err != nil {
		return nil, err
	}

	listings := make([]*entity.Listing, len(listingModels))
	for i := range listingModels {
		listings[i] = ToListingEntity(&listingModels[i])
	}
	return listings, nil
}

// UpdatePrice mutates price for the owner only; the user_id clause enforces
// ownership at the storage layer.
func (r *listingRepository) UpdatePrice(listingID, userID string, price int) (bool, error) {
	result := r.db.Model(&model.ListingModel{}).
		Where("id = ? AND user_id = ?", listingID, userID).
		Update("price", price)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *listingRepository) UpdateStatus(listingID, userID string, status entity.ListingStatus) (bool, error) {
	result := r.db.Model(&model.ListingModel{}).
		Where("id = ? AND user_id = ?", listingID, userID).
		Update("status", string(status))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *listingRepository) SetBoost(listingID, userID string, until time.Time) (bool, error) {
	result := r.db.Model(&model.ListingModel{}).
		Where("id = ? AND user_id = ?", listingID, userID).
		Updates(map[string]interface{}{
			"boosted_until": until,
			"status":        string(entity.ListingStatusActive),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *listingRepository) Delete(listingID, userID string) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", listingID, userID).
		Delete(&model.ListingModel{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *listingRepository) IncrementView(listingID string) error {
	return r.db.Model(&model.ListingModel{}).
		Where("id = ?", listingID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}
