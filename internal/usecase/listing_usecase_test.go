package usecase

import (
	"bytes"
	"errors"
	"mime/multipart"
	"testing"
	"time"

	"petit-marche/internal/entity"
	"petit-marche/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func someTime() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func newListingUseCaseForTest(
	listingRepo *MockListingRepository,
	userRepo *MockUserRepository,
	creditRepo *MockCreditRepository,
) ListingUseCase {
	storage := new(MockPhotoStorage)
	storage.On("UploadFile", mock.Anything, mock.Anything, mock.Anything).
		Return("https://cdn.petit-marche.test/photo.jpg", nil)
	return NewListingUseCase(listingRepo, userRepo, creditRepo, storage, nil, nil, logger.New())
}

// photoUpload builds a real multipart file header the way gin hands them to
// the publish handler.
func photoUpload(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photos", filename)
	assert.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	reader := multipart.NewReader(&buf, writer.Boundary())
	form, err := reader.ReadForm(1 << 20)
	assert.NoError(t, err)
	return form.File["photos"][0]
}

func validInput(t *testing.T) ListingInput {
	t.Helper()
	return ListingInput{
		Title:    "Vélo en bon état",
		Price:    5000,
		Category: "sport",
		District: "Cocody",
		Photos:   []*multipart.FileHeader{photoUpload(t, "velo.jpg")},
	}
}

func TestPublish_FirstListingFree(t *testing.T) {
	listingRepo := new(MockListingRepository)
	userRepo := new(MockUserRepository)
	creditRepo := new(MockCreditRepository)

	userRepo.On("GetByID", "user-1").Return(&entity.User{ID: "user-1"}, nil)
	userRepo.On("StampFirstListing", "user-1", mock.AnythingOfType("time.Time")).Return(true, nil)
	listingRepo.On("Create", mock.AnythingOfType("*entity.Listing")).Return(nil)

	uc := newListingUseCaseForTest(listingRepo, userRepo, creditRepo)
	result, err := uc.Publish("user-1", validInput(t))

	assert.NoError(t, err)
	assert.Equal(t, entity.ChargeFirstListingFree, result.Charge)
	assert.Equal(t, entity.ListingStatusActive, result.Listing.Status)
	assert.Len(t, result.Listing.Photos, 1)
	assert.Empty(t, result.PaymentOptions)
	creditRepo.AssertNotCalled(t, "DecrementIfPositive", mock.Anything)
}

func TestPublish_CreditCharge(t *testing.T) {
	listingRepo := new(MockListingRepository)
	userRepo := new(MockUserRepository)
	creditRepo := new(MockCreditRepository)

	used := someTime()
	userRepo.On("GetByID", "user-1").Return(&entity.User{ID: "user-1", FirstListingAt: &used}, nil)
	creditRepo.On("DecrementIfPositive", "user-1").Return(true, nil)
	listingRepo.On("Create", mock.AnythingOfType("*entity.Listing")).Return(nil)

	uc := newListingUseCaseForTest(listingRepo, userRepo, creditRepo)
	result, err := uc.Publish("user-1", validInput(t))

	assert.NoError(t, err)
	assert.Equal(t, entity.ChargeCredit, result.Charge)
	assert.Equal(t, entity.ListingStatusActive, result.Listing.Status)
	userRepo.AssertNotCalled(t, "StampFirstListing", mock.Anything, mock.Anything)
}

func TestPublish_PaymentRequired(t *testing.T) {
	listingRepo := new(MockListingRepository)
	userRepo := new(MockUserRepository)
	creditRepo := new(MockCreditRepository)

	used := someTime()
	userRepo.On("GetByID", "user-1").Return(&entity.User{ID: "user-1", FirstListingAt: &used}, nil)
	creditRepo.On("DecrementIfPositive", "user-1").Return(false, nil)
	listingRepo.On("Create", mock.AnythingOfType("*entity.Listing")).Return(nil)

	uc := newListingUseCaseForTest(listingRepo, userRepo, creditRepo)
	result, err := uc.Publish("user-1", validInput(t))

	assert.NoError(t, err)
	assert.Equal(t, entity.ChargePaymentRequired, result.Charge)
	assert.Equal(t, entity.ListingStatusPending, result.Listing.Status)
	assert.Contains(t, result.PaymentOptions, "paydunya")
}

func TestPublish_LostFreeRaceFallsBackToCredit(t *testing.T) {
	listingRepo := new(MockListingRepository)
	userRepo := new(MockUserRepository)
	creditRepo := new(MockCreditRepository)

	// The user looks eligible for the free listing, but another concurrent
	// submission wins the stamp. The gate must fall through to credits.
	userRepo.On("GetByID", "user-1").Return(&entity.User{ID: "user-1"}, nil)
	userRepo.On("StampFirstListing", "user-1", mock.AnythingOfType("time.Time")).Return(false, nil)
	creditRepo.On("DecrementIfPositive", "user-1").Return(true, nil)
	listingRepo.On("Create", mock.AnythingOfType("*entity.Listing")).Return(nil)

	uc := newListingUseCaseForTest(listingRepo, userRepo, creditRepo)
	result, err := uc.Publish("user-1", validInput(t))

	assert.NoError(t, err)
	assert.Equal(t, entity.ChargeCredit, result.Charge)
}

func TestPublish_CreateFailureReleasesFreeListing(t *testing.T) {
	listingRepo := new(MockListingRepository)
	userRepo := new(MockUserRepository)
	creditRepo := new(MockCreditRepository)

	userRepo.On("GetByID", "user-1").Return(&entity.User{ID: "user-1"}, nil)
	userRepo.On("StampFirstListing", "user-1", mock.AnythingOfType("time.Time")).Return(true, nil)
	listingRepo.On("Create", mock.AnythingOfType("*entity.Listing")).Return(errors.New("connection reset"))
	userRepo.On("ClearFirstListing", "user-1").Return(nil)

	uc := newListingUseCaseForTest(listingRepo, userRepo, creditRepo)
	_, err := uc.Publish("user-1", validInput(t))

	assert.Error(t, err)
	userRepo.AssertCalled(t, "ClearFirstListing", "user-1")
}

func TestPublish_CreateFailureRefundsCredit(t *testing.T) {
	listingRepo := new(MockListingRepository)
	userRepo := new(MockUserRepository)
	creditRepo := new(MockCreditRepository)

	used := someTime()
	userRepo.On("GetByID", "user-1").Return(&entity.User{ID: "user-1", FirstListingAt: &used}, nil)
	creditRepo.On("DecrementIfPositive", "user-1").Return(true, nil)
	listingRepo.On("Create", mock.AnythingOfType("*entity.Listing")).Return(errors.New("connection reset"))
	creditRepo.On("Add", "user-1", 1).Return(nil)

	uc := newListingUseCaseForTest(listingRepo, userRepo, creditRepo)
	_, err := uc.Publish("user-1", validInput(t))

	assert.Error(t, err)
	creditRepo.AssertCalled(t, "Add", "user-1", 1)
}

func TestPublish_RejectsBelowMinimumPrice(t *testing.T) {
	uc := newListingUseCaseForTest(new(MockListingRepository), new(MockUserRepository), new(MockCreditRepository))

	input := validInput(t)
	input.Price = 150

	_, err := uc.Publish("user-1", input)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPublish_RejectsMissingTitle(t *testing.T) {
	uc := newListingUseCaseForTest(new(MockListingRepository), new(MockUserRepository), new(MockCreditRepository))

	input := validInput(t)
	input.Title = "   "

	_, err := uc.Publish("user-1", input)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPublish_RejectsMissingPhotos(t *testing.T) {
	listingRepo := new(MockListingRepository)
	uc := newListingUseCaseForTest(listingRepo, new(MockUserRepository), new(MockCreditRepository))

	input := validInput(t)
	input.Photos = nil

	_, err := uc.Publish("user-1", input)
	assert.ErrorIs(t, err, ErrValidation)
	listingRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUpdatePrice_NotOwner(t *testing.T) {
	listingRepo := new(MockListingRepository)
	listingRepo.On("UpdatePrice", "listing-1", "intruder", 900).Return(false, nil)

	uc := newListingUseCaseForTest(listingRepo, new(MockUserRepository), new(MockCreditRepository))
	err := uc.UpdatePrice("listing-1", "intruder", 900)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestMarkSold_Owner(t *testing.T) {
	listingRepo := new(MockListingRepository)
	listingRepo.On("UpdateStatus", "listing-1", "user-1", entity.ListingStatusSold).Return(true, nil)

	uc := newListingUseCaseForTest(listingRepo, new(MockUserRepository), new(MockCreditRepository))
	err := uc.MarkSold("listing-1", "user-1")

	assert.NoError(t, err)
	listingRepo.AssertExpectations(t)
}

func TestActivateAfterPayment_OwnerMismatch(t *testing.T) {
	listingRepo := new(MockListingRepository)
	// The transaction's user does not own this listing: the conditional
	// update matches no row and nothing is activated.
	listingRepo.On("UpdateStatus", "listing-1", "other-user", entity.ListingStatusActive).Return(false, nil)

	uc := newListingUseCaseForTest(listingRepo, new(MockUserRepository), new(MockCreditRepository))
	err := uc.ActivateAfterPayment("listing-1", "other-user")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActivateAfterPayment_Owner(t *testing.T) {
	listingRepo := new(MockListingRepository)
	listingRepo.On("UpdateStatus", "listing-1", "user-1", entity.ListingStatusActive).Return(true, nil)

	uc := newListingUseCaseForTest(listingRepo, new(MockUserRepository), new(MockCreditRepository))
	err := uc.ActivateAfterPayment("listing-1", "user-1")

	assert.NoError(t, err)
	listingRepo.AssertExpectations(t)
}
