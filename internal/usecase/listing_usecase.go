package usecase

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"petit-marche/internal/entity"
	"petit-marche/internal/repo/persistent"
	"petit-marche/pkg/logger"
	"petit-marche/pkg/queue"
	"petit-marche/pkg/s3"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const maxListingPhotos = 5

type ListingInput struct {
	Title       string
	Description string
	Price       int
	Category    string
	Condition   string
	District    string
	Photos      []*multipart.FileHeader
}

type ListingUseCase interface {
	Publish(userID string, input ListingInput) (*entity.PublishResult, error)
	GetListing(listingID string) (*entity.Listing, error)
	Browse(filter persistent.ListingFilter) ([]*entity.Listing, error)
	MyListings(userID string, limit, offset int) ([]*entity.Listing, error)
	UpdatePrice(listingID, userID string, price int) error
	MarkSold(listingID, userID string) error
	Delete(listingID, userID string) error
	ActivateAfterPayment(listingID, userID string) error
	ApplyBoost(listingID, userID, option string) error
}

// PhotoStorage uploads listing photos and returns their public URL.
type PhotoStorage interface {
	UploadFile(key string, file io.Reader, contentType string) (string, error)
}

var _ PhotoStorage = (*s3.Client)(nil)

type listingUseCase struct {
	listingRepo persistent.ListingRepository
	userRepo    persistent.UserRepository
	creditRepo  persistent.CreditRepository
	storage     PhotoStorage
	redisClient *redis.Client
	queueClient *queue.Client
	logger      *logger.Logger
}

func NewListingUseCase(
	listingRepo persistent.ListingRepository,
	userRepo persistent.UserRepository,
	creditRepo persistent.CreditRepository,
	storage PhotoStorage,
	redisClient *redis.Client,
	queueClient *queue.Client,
	logger *logger.Logger,
) ListingUseCase {
	return &listingUseCase{
		listingRepo: listingRepo,
		userRepo:    userRepo,
		creditRepo:  creditRepo,
		storage:     storage,
		redisClient: redisClient,
		queueClient: queueClient,
		logger:      logger,
	}
}

// Publish runs the publication gate. Funding is resolved in strict order:
// the one-time free first listing, then a stored credit, then a pending
// listing that the payment flow must activate. Both the free-listing stamp
// and the credit decrement are single atomic statements, so two concurrent
// submissions can never both ride the same funding source.
func (uc *listingUseCase) Publish(userID string, input ListingInput) (*entity.PublishResult, error) {
	if err := validateListingInput(input); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	photos, err := uc.uploadPhotos(userID, input.Photos)
	if err != nil {
		return nil, err
	}

	listing := &entity.Listing{
		UserID:      userID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		Category:    input.Category,
		Condition:   input.Condition,
		District:    input.District,
		Photos:      photos,
	}

	charge := entity.ChargePaymentRequired

	if !user.HasUsedFreeListing() {
		won, err := uc.userRepo.StampFirstListing(userID, time.Now())
		if err != nil {
			uc.logger.Error("Failed to stamp first listing for %s: %v", userID, err)
			return nil, fmt.Errorf("failed to publish listing")
		}
		if won {
			charge = entity.ChargeFirstListingFree
		}
	}

	if charge == entity.ChargePaymentRequired {
		debited, err := uc.creditRepo.DecrementIfPositive(userID)
		if err != nil {
			uc.logger.Error("Failed to debit credit for %s: %v", userID, err)
			return nil, fmt.Errorf("failed to publish listing")
		}
		if debited {
			charge = entity.ChargeCredit
		}
	}

	if charge == entity.ChargePaymentRequired {
		listing.Status = entity.ListingStatusPending
	} else {
		listing.Status = entity.ListingStatusActive
	}

	if err := uc.listingRepo.Create(listing); err != nil {
		uc.logger.Error("Failed to create listing for %s: %v", userID, err)
		uc.refundCharge(userID, charge)
		return nil, fmt.Errorf("failed to publish listing")
	}

	result := &entity.PublishResult{Listing: listing, Charge: charge}
	if charge == entity.ChargePaymentRequired {
		result.PaymentOptions = []string{"paydunya", "credits"}
	} else {
		uc.cacheListing(listing)
		if uc.queueClient != nil {
			go uc.publishListingNotification(listing)
		}
	}

	return result, nil
}

// refundCharge releases whichever funding source the gate consumed when the
// listing row itself could not be persisted, so a storage failure does not
// silently eat the user's free listing or credit.
func (uc *listingUseCase) refundCharge(userID string, charge entity.PublishCharge) {
	switch charge {
	case entity.ChargeFirstListingFree:
		if err := uc.userRepo.ClearFirstListing(userID); err != nil {
			uc.logger.Error("Failed to release free listing for %s: %v", userID, err)
		}
	case entity.ChargeCredit:
		if err := uc.creditRepo.Add(userID, 1); err != nil {
			uc.logger.Error("Failed to refund credit for %s: %v", userID, err)
		}
	}
}

func (uc *listingUseCase) GetListing(listingID string) (*entity.Listing, error) {
	listing, err := uc.listingRepo.GetByID(listingID)
	if err != nil {
		return nil, ErrNotFound
	}

	if err := uc.listingRepo.IncrementView(listingID); err != nil {
		uc.logger.Warn("Failed to increment views for %s: %v", listingID, err)
	} else {
		listing.Views++
	}

	return listing, nil
}

func (uc *listingUseCase) Browse(filter persistent.ListingFilter) ([]*entity.Listing, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.listingRepo.ListActive(filter)
}

func (uc *listingUseCase) MyListings(userID string, limit, offset int) ([]*entity.Listing, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.listingRepo.ListByUser(userID, limit, offset)
}

func (uc *listingUseCase) UpdatePrice(listingID, userID string, price int) error {
	if price < entity.MinListingPrice {
		return fmt.Errorf("%w: price must be at least %d FCFA", ErrValidation, entity.MinListingPrice)
	}
	ok, err := uc.listingRepo.UpdatePrice(listingID, userID, price)
	if err != nil {
		uc.logger.Error("Failed to update price for %s: %v", listingID, err)
		return fmt.Errorf("failed to update price")
	}
	if !ok {
		return ErrForbidden
	}
	uc.invalidateListing(listingID)
	return nil
}

func (uc *listingUseCase) MarkSold(listingID, userID string) error {
	ok, err := uc.listingRepo.UpdateStatus(listingID, userID, entity.ListingStatusSold)
	if err != nil {
		uc.logger.Error("Failed to mark %s sold: %v", listingID, err)
		return fmt.Errorf("failed to mark listing sold")
	}
	if !ok {
		return ErrForbidden
	}
	uc.invalidateListing(listingID)
	return nil
}

func (uc *listingUseCase) Delete(listingID, userID string) error {
	ok, err := uc.listingRepo.Delete(listingID, userID)
	if err != nil {
		uc.logger.Error("Failed to delete %s: %v", listingID, err)
		return fmt.Errorf("failed to delete listing")
	}
	if !ok {
		return ErrForbidden
	}
	uc.invalidateListing(listingID)
	return nil
}

// ActivateAfterPayment flips a pending listing to active once its payment
// settles. It is invoked by the payment reconciler, never by a client call.
// The userID comes from the settled transaction, so a token that references
// someone else's listing matches no row.
func (uc *listingUseCase) ActivateAfterPayment(listingID, userID string) error {
	ok, err := uc.listingRepo.UpdateStatus(listingID, userID, entity.ListingStatusActive)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if uc.redisClient != nil {
		if listing, err := uc.listingRepo.GetByID(listingID); err == nil {
			uc.cacheListing(listing)
		}
	}
	return nil
}

// ApplyBoost extends the listing's promotion window for the given option.
func (uc *listingUseCase) ApplyBoost(listingID, userID, option string) error {
	until := time.Now().Add(entity.BoostDuration(option))
	ok, err := uc.listingRepo.SetBoost(listingID, userID, until)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	uc.invalidateListing(listingID)
	return nil
}

func (uc *listingUseCase) uploadPhotos(userID string, files []*multipart.FileHeader) ([]entity.ListingPhoto, error) {
	if len(files) > maxListingPhotos {
		return nil, fmt.Errorf("%w: maximum %d photos allowed", ErrValidation, maxListingPhotos)
	}

	var photos []entity.ListingPhoto
	for i, file := range files {
		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open photo: %w", err)
		}

		fileKey := fmt.Sprintf("listings/%s/%s%s", userID, uuid.New().String(), getFileExtension(file.Filename))
		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}

		photoURL, err := uc.storage.UploadFile(fileKey, src, contentType)
		src.Close()
		if err != nil {
			uc.logger.Error("Failed to upload photo for %s: %v", userID, err)
			return nil, fmt.Errorf("failed to upload photo")
		}

		photos = append(photos, entity.ListingPhoto{
			ID:       uuid.New().String(),
			PhotoURL: photoURL,
			Order:    i,
		})
	}
	return photos, nil
}

func (uc *listingUseCase) cacheListing(listing *entity.Listing) {
	if uc.redisClient == nil {
		return
	}
	ctx := context.Background()
	key := fmt.Sprintf("listing:%s", listing.ID)
	data := map[string]interface{}{
		"id":       listing.ID,
		"user_id":  listing.UserID,
		"title":    listing.Title,
		"price":    listing.Price,
		"category": listing.Category,
		"district": listing.District,
		"status":   string(listing.Status),
	}
	for k, v := range data {
		uc.redisClient.HSet(ctx, key, k, v)
	}
	uc.redisClient.Expire(ctx, key, 24*time.Hour)
}

func (uc *listingUseCase) invalidateListing(listingID string) {
	if uc.redisClient == nil {
		return
	}
	uc.redisClient.Del(context.Background(), fmt.Sprintf("listing:%s", listingID))
}

func (uc *listingUseCase) publishListingNotification(listing *entity.Listing) {
	task := map[string]interface{}{
		"type":       "new_listing",
		"listing_id": listing.ID,
		"user_id":    listing.UserID,
		"category":   listing.Category,
		"priority":   5,
	}

	if err := uc.queueClient.PublishNotificationTask(task); err != nil {
		uc.logger.Error("[NOTIFICATION QUEUE] Failed to publish listing task: %v (listing_id=%s)", err, listing.ID)
	}
}

func validateListingInput(input ListingInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if input.Price < entity.MinListingPrice {
		return fmt.Errorf("%w: price must be at least %d FCFA", ErrValidation, entity.MinListingPrice)
	}
	if strings.TrimSpace(input.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if len(input.Photos) == 0 {
		return fmt.Errorf("%w: at least one photo is required", ErrValidation)
	}
	return nil
}

func getFileExtension(filename string) string {
	if len(filename) == 0 {
		return ""
	}
	for i := len(filename) - 1; i >= 0; i-- {
		if filename[i] == '.' {
			return filename[i:]
		}
	}
	return ""
}
