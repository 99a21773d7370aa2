package persistent

import (
	"petit-marche/internal/entity"
	"petit-marche/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *entity.Review) error
	Exists(reviewerID, listingID string) (bool, error)
	ListForUser(reviewedID string, limit, offset int) ([]*entity.Review, error)
	AverageForUser(reviewedID string) (*float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *entity.Review) error {
	reviewModel := ToReviewModel(review)
	if err := r.db.Create(reviewModel).Error; err != nil {
		return err
	}
	review.ID = reviewModel.ID
	review.CreatedAt = reviewModel.CreatedAt
	return nil
}

func (r *reviewRepository) Exists(reviewerID, listingID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.ReviewModel{}).
		Where("reviewer_id = ? AND listing_id = ?", reviewerID, listingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reviewRepository) ListForUser(reviewedID string, limit, offset int) ([]*entity.Review, error) {
	query := r.db.Where("reviewed_id = ?", reviewedID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var reviewModels []model.ReviewModel
	if err := query.Find(&reviewModels).Error; err != nil {
		return nil, err
	}

	reviews := make([]*entity.Review, len(reviewModels))
	for i := range reviewModels {
		reviews[i] = ToReviewEntity(&reviewModels[i])
	}
	return reviews, nil
}

func (r *reviewRepository) AverageForUser(reviewedID string) (*float64, error) {
	var result struct {
		Avg   *float64
		Count int64
	}
	err := r.db.Model(&model.ReviewModel{}).
		Select("AVG(rating) as avg, COUNT(*) as count").
		Where("reviewed_id = ?", reviewedID).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	if result.Count == 0 {
		return nil, nil
	}
	return result.Avg, nil
}
