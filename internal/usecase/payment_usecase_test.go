package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"petit-marche/internal/entity"
	"petit-marche/internal/mailer"
	"petit-marche/internal/paydunya"
	"petit-marche/internal/repo/persistent"
	"petit-marche/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockListingUseCase is a mock implementation of ListingUseCase
type MockListingUseCase struct {
	mock.Mock
}

func (m *MockListingUseCase) Publish(userID string, input ListingInput) (*entity.PublishResult, error) {
	args := m.Called(userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PublishResult), args.Error(1)
}

func (m *MockListingUseCase) GetListing(listingID string) (*entity.Listing, error) {
	args := m.Called(listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) Browse(filter persistent.ListingFilter) ([]*entity.Listing, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) MyListings(userID string, limit, offset int) ([]*entity.Listing, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingUseCase) UpdatePrice(listingID, userID string, price int) error {
	args := m.Called(listingID, userID, price)
	return args.Error(0)
}

func (m *MockListingUseCase) MarkSold(listingID, userID string) error {
	args := m.Called(listingID, userID)
	return args.Error(0)
}

func (m *MockListingUseCase) Delete(listingID, userID string) error {
	args := m.Called(listingID, userID)
	return args.Error(0)
}

func (m *MockListingUseCase) ActivateAfterPayment(listingID, userID string) error {
	args := m.Called(listingID, userID)
	return args.Error(0)
}

func (m *MockListingUseCase) ApplyBoost(listingID, userID, option string) error {
	args := m.Called(listingID, userID, option)
	return args.Error(0)
}

var _ ListingUseCase = (*MockListingUseCase)(nil)

func newPaymentUseCaseForTest(
	transactionRepo *MockTransactionRepository,
	creditRepo *MockCreditRepository,
	userRepo *MockUserRepository,
	listingUC *MockListingUseCase,
	gatewayURL string,
) PaymentUseCase {
	gateway := paydunya.NewClient(paydunya.Config{
		MasterKey:  "mk",
		PrivateKey: "pk",
		Token:      "tk",
		Mode:       "test",
		BaseURL:    gatewayURL,
	}, logger.New())
	// The mailer carries no API key, so relay paths that reach the send step
	// fail with the configuration sentinel instead of touching the network.
	mail := mailer.New("", "noreply@petit-marche.test", "ops@petit-marche.test", logger.New())
	return NewPaymentUseCase(transactionRepo, creditRepo, userRepo, listingUC, gateway, mail, nil, "https://petit-marche.example", logger.New())
}

func TestCreateInvoice_Annonce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/checkout-invoice/create", r.URL.Path)
		assert.Equal(t, "mk", r.Header.Get("PAYDUNYA-MASTER-KEY"))
		w.Write([]byte(`{"response_code":"00","response_text":"https://paydunya.test/checkout/abc","token":"tok-abc"}`))
	}))
	defer server.Close()

	transactionRepo := new(MockTransactionRepository)
	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", "user-1").Return(&entity.User{ID: "user-1", Email: "a@b.c", FullName: "Awa"}, nil)
	transactionRepo.On("Create", mock.AnythingOfType("*entity.Transaction")).Return(nil)

	uc := newPaymentUseCaseForTest(transactionRepo, new(MockCreditRepository), userRepo, new(MockListingUseCase), server.URL)
	result, err := uc.CreateInvoice(context.Background(), InvoiceRequest{
		UserID:    "user-1",
		Type:      entity.PurchaseAnnonce,
		ListingID: "listing-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, "https://paydunya.test/checkout/abc", result.CheckoutURL)
	assert.Equal(t, "tok-abc", result.Token)
	assert.Equal(t, AnnoncePrice, result.Amount)

	transactionRepo.AssertCalled(t, "Create", mock.MatchedBy(func(tx *entity.Transaction) bool {
		return tx.PayDunyaToken == "tok-abc" &&
			tx.Status == entity.TransactionPending &&
			tx.Type == entity.PurchaseAnnonce &&
			tx.Amount == AnnoncePrice &&
			tx.ListingID != nil && *tx.ListingID == "listing-1"
	}))
}

func TestCreateInvoice_PackPricing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response_code":"00","response_text":"https://paydunya.test/checkout/p","token":"tok-pack"}`))
	}))
	defer server.Close()

	transactionRepo := new(MockTransactionRepository)
	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", "user-1").Return(&entity.User{ID: "user-1"}, nil)
	transactionRepo.On("Create", mock.AnythingOfType("*entity.Transaction")).Return(nil)

	uc := newPaymentUseCaseForTest(transactionRepo, new(MockCreditRepository), userRepo, new(MockListingUseCase), server.URL)
	result, err := uc.CreateInvoice(context.Background(), InvoiceRequest{
		UserID:   "user-1",
		Type:     entity.PurchasePack,
		Credits:  10,
		PackName: "regular",
	})

	assert.NoError(t, err)
	assert.Equal(t, 1500, result.Amount)
}

func TestCreateInvoice_GatewayRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response_code":"1001","response_text":"invalid keys"}`))
	}))
	defer server.Close()

	userRepo := new(MockUserRepository)
	userRepo.On("GetByID", "user-1").Return(&entity.User{ID: "user-1"}, nil)

	uc := newPaymentUseCaseForTest(new(MockTransactionRepository), new(MockCreditRepository), userRepo, new(MockListingUseCase), server.URL)
	_, err := uc.CreateInvoice(context.Background(), InvoiceRequest{
		UserID:    "user-1",
		Type:      entity.PurchaseAnnonce,
		ListingID: "listing-1",
	})

	assert.ErrorIs(t, err, ErrProvider)
}

func TestCreateInvoice_ValidationErrors(t *testing.T) {
	uc := newPaymentUseCaseForTest(new(MockTransactionRepository), new(MockCreditRepository), new(MockUserRepository), new(MockListingUseCase), "http://unused")

	_, err := uc.CreateInvoice(context.Background(), InvoiceRequest{Type: entity.PurchaseAnnonce})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.CreateInvoice(context.Background(), InvoiceRequest{UserID: "u", Type: entity.PurchaseAnnonce})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.CreateInvoice(context.Background(), InvoiceRequest{UserID: "u", Type: entity.PurchasePack})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = uc.CreateInvoice(context.Background(), InvoiceRequest{UserID: "u", Type: "subscription"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHandleCallback_CompletedAnnonceActivatesListing(t *testing.T) {
	transactionRepo := new(MockTransactionRepository)
	listingUC := new(MockListingUseCase)

	listingID := "listing-1"
	transactionRepo.On("SettleByToken", "tok-1", entity.TransactionCompleted).Return(true, nil)
	transactionRepo.On("GetByToken", "tok-1").Return(&entity.Transaction{
		ID:        "tx-1",
		UserID:    "user-1",
		ListingID: &listingID,
		Type:      entity.PurchaseAnnonce,
		Status:    entity.TransactionCompleted,
	}, nil)
	listingUC.On("ActivateAfterPayment", "listing-1", "user-1").Return(nil)

	uc := newPaymentUseCaseForTest(transactionRepo, new(MockCreditRepository), new(MockUserRepository), listingUC, "http://unused")
	result, err := uc.HandleCallback(context.Background(), []byte(`{"status":"completed","token":"tok-1","custom_data":{"type":"annonce"}}`), "application/json")

	assert.NoError(t, err)
	assert.True(t, result.Processed)
	listingUC.AssertExpectations(t)
}

func TestHandleCallback_DuplicateDeliverySkipsSideEffects(t *testing.T) {
	transactionRepo := new(MockTransactionRepository)
	listingUC := new(MockListingUseCase)

	// Second delivery: the conditional settle matches no pending row.
	transactionRepo.On("SettleByToken", "tok-1", entity.TransactionCompleted).Return(false, nil)

	uc := newPaymentUseCaseForTest(transactionRepo, new(MockCreditRepository), new(MockUserRepository), listingUC, "http://unused")
	result, err := uc.HandleCallback(context.Background(), []byte(`{"status":"completed","token":"tok-1"}`), "application/json")

	assert.NoError(t, err)
	assert.False(t, result.Processed)
	listingUC.AssertNotCalled(t, "ActivateAfterPayment", mock.Anything, mock.Anything)
	transactionRepo.AssertNotCalled(t, "GetByToken", mock.Anything)
}

func TestHandleCallback_PackAddsCredits(t *testing.T) {
	transactionRepo := new(MockTransactionRepository)
	creditRepo := new(MockCreditRepository)

	transactionRepo.On("SettleByToken", "tok-2", entity.TransactionCompleted).Return(true, nil)
	transactionRepo.On("GetByToken", "tok-2").Return(&entity.Transaction{
		ID:     "tx-2",
		UserID: "user-2",
		Type:   entity.PurchasePack,
		Status: entity.TransactionCompleted,
	}, nil)
	creditRepo.On("Add", "user-2", 30).Return(nil)

	uc := newPaymentUseCaseForTest(transactionRepo, creditRepo, new(MockUserRepository), new(MockListingUseCase), "http://unused")
	result, err := uc.HandleCallback(context.Background(), []byte(`{"status":"completed","token":"tok-2","custom_data":{"type":"pack","credits":30}}`), "application/json")

	assert.NoError(t, err)
	assert.True(t, result.Processed)
	creditRepo.AssertExpectations(t)
}

func TestHandleCallback_PackCreditsFromPackName(t *testing.T) {
	transactionRepo := new(MockTransactionRepository)
	creditRepo := new(MockCreditRepository)

	transactionRepo.On("SettleByToken", "tok-3", entity.TransactionCompleted).Return(true, nil)
	transactionRepo.On("GetByToken", "tok-3").Return(&entity.Transaction{
		ID:     "tx-3",
		UserID: "user-3",
		Type:   entity.PurchasePack,
		Status: entity.TransactionCompleted,
	}, nil)
	creditRepo.On("Add", "user-3", 10).Return(nil)

	uc := newPaymentUseCaseForTest(transactionRepo, creditRepo, new(MockUserRepository), new(MockListingUseCase), "http://unused")
	_, err := uc.HandleCallback(context.Background(), []byte(`{"status":"completed","token":"tok-3","custom_data":{"type":"pack","pack_name":"regular"}}`), "application/json")

	assert.NoError(t, err)
	creditRepo.AssertExpectations(t)
}

func TestHandleCallback_BoostAppliesWindow(t *testing.T) {
	transactionRepo := new(MockTransactionRepository)
	listingUC := new(MockListingUseCase)

	listingID := "listing-9"
	transactionRepo.On("SettleByToken", "tok-4", entity.TransactionCompleted).Return(true, nil)
	transactionRepo.On("GetByToken", "tok-4").Return(&entity.Transaction{
		ID:        "tx-4",
		UserID:    "user-4",
		ListingID: &listingID,
		Type:      entity.PurchaseBoost,
		Status:    entity.TransactionCompleted,
	}, nil)
	listingUC.On("ApplyBoost", "listing-9", "user-4", "7d").Return(nil)

	uc := newPaymentUseCaseForTest(transactionRepo, new(MockCreditRepository), new(MockUserRepository), listingUC, "http://unused")
	_, err := uc.HandleCallback(context.Background(), []byte(`{"status":"completed","token":"tok-4","custom_data":{"type":"boost","boost_option":"7d"}}`), "application/json")

	assert.NoError(t, err)
	listingUC.AssertExpectations(t)
}

func TestHandleCallback_FailedStatusMarksTransaction(t *testing.T) {
	transactionRepo := new(MockTransactionRepository)
	transactionRepo.On("SettleByToken", "tok-5", entity.TransactionFailed).Return(true, nil)

	uc := newPaymentUseCaseForTest(transactionRepo, new(MockCreditRepository), new(MockUserRepository), new(MockListingUseCase), "http://unused")
	result, err := uc.HandleCallback(context.Background(), []byte(`{"status":"failed","token":"tok-5"}`), "application/json")

	assert.NoError(t, err)
	assert.True(t, result.Processed)
	transactionRepo.AssertNotCalled(t, "GetByToken", mock.Anything)
}

func TestHandleCallback_InterimStatusIsNoOp(t *testing.T) {
	transactionRepo := new(MockTransactionRepository)

	// An early "pending" notification must leave the transaction pending so
	// the eventual completed delivery still finds a row to settle.
	uc := newPaymentUseCaseForTest(transactionRepo, new(MockCreditRepository), new(MockUserRepository), new(MockListingUseCase), "http://unused")
	result, err := uc.HandleCallback(context.Background(), []byte(`{"status":"pending","token":"tok-pending"}`), "application/json")

	assert.NoError(t, err)
	assert.False(t, result.Processed)
	assert.Equal(t, "pending", result.Status)
	transactionRepo.AssertNotCalled(t, "SettleByToken", mock.Anything, mock.Anything)
}

func TestHandleCallback_CancelledMarksTransactionFailed(t *testing.T) {
	transactionRepo := new(MockTransactionRepository)
	transactionRepo.On("SettleByToken", "tok-6", entity.TransactionFailed).Return(true, nil)

	uc := newPaymentUseCaseForTest(transactionRepo, new(MockCreditRepository), new(MockUserRepository), new(MockListingUseCase), "http://unused")
	result, err := uc.HandleCallback(context.Background(), []byte(`{"status":"cancelled","token":"tok-6"}`), "application/json")

	assert.NoError(t, err)
	assert.True(t, result.Processed)
	transactionRepo.AssertExpectations(t)
}

func TestHandleCallback_UnparsableBody(t *testing.T) {
	uc := newPaymentUseCaseForTest(new(MockTransactionRepository), new(MockCreditRepository), new(MockUserRepository), new(MockListingUseCase), "http://unused")

	_, err := uc.HandleCallback(context.Background(), []byte("   "), "application/json")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestHandleCallback_FormEncodedDelivery(t *testing.T) {
	transactionRepo := new(MockTransactionRepository)
	creditRepo := new(MockCreditRepository)

	transactionRepo.On("SettleByToken", "tok-form", entity.TransactionCompleted).Return(true, nil)
	transactionRepo.On("GetByToken", "tok-form").Return(&entity.Transaction{
		ID:     "tx-form",
		UserID: "user-9",
		Type:   entity.PurchasePack,
		Status: entity.TransactionCompleted,
	}, nil)
	creditRepo.On("Add", "user-9", 3).Return(nil)

	body := "status=completed&token=tok-form&custom_data%5Btype%5D=pack&custom_data%5Bcredits%5D=3"

	uc := newPaymentUseCaseForTest(transactionRepo, creditRepo, new(MockUserRepository), new(MockListingUseCase), "http://unused")
	result, err := uc.HandleCallback(context.Background(), []byte(body), "application/x-www-form-urlencoded")

	assert.NoError(t, err)
	assert.True(t, result.Processed)
	creditRepo.AssertExpectations(t)
}

func TestSendCreditRequest_MissingFields(t *testing.T) {
	uc := newPaymentUseCaseForTest(new(MockTransactionRepository), new(MockCreditRepository), new(MockUserRepository), new(MockListingUseCase), "http://unused")

	base := CreditRequestInput{
		Pack:             "regular",
		PhoneNumber:      "+2250707070707",
		Email:            "a@b.c",
		FullName:         "Awa Diop",
		ScreenshotBase64: "aGVsbG8=",
	}

	for _, strip := range []func(*CreditRequestInput){
		func(in *CreditRequestInput) { in.Pack = "" },
		func(in *CreditRequestInput) { in.PhoneNumber = "" },
		func(in *CreditRequestInput) { in.Email = "" },
		func(in *CreditRequestInput) { in.FullName = "" },
		func(in *CreditRequestInput) { in.ScreenshotBase64 = "" },
	} {
		input := base
		strip(&input)
		_, err := uc.SendCreditRequest(context.Background(), input)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestSendCreditRequest_UnknownPack(t *testing.T) {
	uc := newPaymentUseCaseForTest(new(MockTransactionRepository), new(MockCreditRepository), new(MockUserRepository), new(MockListingUseCase), "http://unused")

	_, err := uc.SendCreditRequest(context.Background(), CreditRequestInput{
		Pack:             "mega",
		PhoneNumber:      "+2250707070707",
		Email:            "a@b.c",
		FullName:         "Awa Diop",
		ScreenshotBase64: "aGVsbG8=",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSendManualPayment_MissingFields(t *testing.T) {
	uc := newPaymentUseCaseForTest(new(MockTransactionRepository), new(MockCreditRepository), new(MockUserRepository), new(MockListingUseCase), "http://unused")

	base := ManualPaymentInput{
		Phone:            "+2250101010101",
		Account:          "wave",
		Pack:             "starter",
		ScreenshotBase64: "aGVsbG8=",
	}

	for _, strip := range []func(*ManualPaymentInput){
		func(in *ManualPaymentInput) { in.Phone = "" },
		func(in *ManualPaymentInput) { in.Account = "" },
		func(in *ManualPaymentInput) { in.Pack = "" },
		func(in *ManualPaymentInput) { in.ScreenshotBase64 = "" },
	} {
		input := base
		strip(&input)
		_, err := uc.SendManualPayment(context.Background(), input)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestSendManualPayment_MalformedScreenshotIsSkipped(t *testing.T) {
	uc := newPaymentUseCaseForTest(new(MockTransactionRepository), new(MockCreditRepository), new(MockUserRepository), new(MockListingUseCase), "http://unused")

	// A screenshot that fails to decode is dropped, not rejected: the request
	// proceeds to the send step, which here fails on the unconfigured mailer.
	_, err := uc.SendManualPayment(context.Background(), ManualPaymentInput{
		Phone:            "+2250101010101",
		Account:          "wave",
		Pack:             "starter",
		ScreenshotBase64: "data:image/png,not-base64-at-all",
	})

	assert.ErrorIs(t, err, ErrConfig)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestPricingTables(t *testing.T) {
	assert.Equal(t, 300, BoostPrice("24h"))
	assert.Equal(t, 800, BoostPrice("7d"))
	assert.Equal(t, 2500, BoostPrice("30d"))
	assert.Equal(t, 500, BoostPrice("2h"))

	assert.Equal(t, 500, PackPrice(3))
	assert.Equal(t, 1500, PackPrice(10))
	assert.Equal(t, 3500, PackPrice(30))
	assert.Equal(t, 1000, PackPrice(5))

	assert.Equal(t, 200, PurchaseAmount(entity.PurchaseAnnonce, "", 0))
}
