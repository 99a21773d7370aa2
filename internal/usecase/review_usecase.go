package usecase

import (
	"fmt"
	"strings"

	"petit-marche/internal/entity"
	"petit-marche/internal/repo/persistent"
	"petit-marche/pkg/logger"
)

type ReviewUseCase interface {
	Create(reviewerID, listingID string, rating int, comment string) (*entity.Review, error)
	ListForUser(userID string, limit, offset int) ([]*entity.Review, error)
}

type reviewUseCase struct {
	reviewRepo  persistent.ReviewRepository
	listingRepo persistent.ListingRepository
	logger      *logger.Logger
}

func NewReviewUseCase(
	reviewRepo persistent.ReviewRepository,
	listingRepo persistent.ListingRepository,
	logger *logger.Logger,
) ReviewUseCase {
	return &reviewUseCase{
		reviewRepo:  reviewRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// Create records a buyer's review of a seller after a sale. One review per
// reviewer per listing; sellers cannot review themselves.
func (uc *reviewUseCase) Create(reviewerID, listingID string, rating int, comment string) (*entity.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	listing, err := uc.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, ErrNotFound
	}

	if listing.UserID == reviewerID {
		return nil, fmt.Errorf("%w: cannot review your own listing", ErrForbidden)
	}

	if listing.Status != entity.ListingStatusSold {
		return nil, fmt.Errorf("%w: only sold listings can be reviewed", ErrValidation)
	}

	exists, err := uc.reviewRepo.Exists(reviewerID, listingID)
	if err != nil {
		uc.logger.Error("Failed to check review existence for %s/%s: %v", reviewerID, listingID, err)
		return nil, fmt.Errorf("failed to create review")
	}
	if exists {
		return nil, fmt.Errorf("%w: listing already reviewed", ErrAlreadyExists)
	}

	review := &entity.Review{
		ReviewerID: reviewerID,
		ReviewedID: listing.UserID,
		ListingID:  listingID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}

	if err := uc.reviewRepo.Create(review); err != nil {
		uc.logger.Error("Failed to create review for %s: %v", listingID, err)
		return nil, fmt.Errorf("failed to create review")
	}

	return review, nil
}

func (uc *reviewUseCase) ListForUser(userID string, limit, offset int) ([]*entity.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.reviewRepo.ListForUser(userID, limit, offset)
}
