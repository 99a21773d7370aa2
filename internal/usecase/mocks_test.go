package usecase

import (
	"io"
	"time"

	"petit-marche/internal/entity"
	"petit-marche/internal/repo/persistent"

	"github.com/stretchr/testify/mock"
)

// MockPhotoStorage is a mock implementation of PhotoStorage
type MockPhotoStorage struct {
	mock.Mock
}

func (m *MockPhotoStorage) UploadFile(key string, file io.Reader, contentType string) (string, error) {
	args := m.Called(key, file, contentType)
	return args.String(0), args.Error(1)
}

var _ PhotoStorage = (*MockPhotoStorage)(nil)

// MockUserRepository is a mock implementation of persistent.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(userID string) (*entity.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) StampFirstListing(userID string, at time.Time) (bool, error) {
	args := m.Called(userID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ClearFirstListing(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

var _ persistent.UserRepository = (*MockUserRepository)(nil)

// MockListingRepository is a mock implementation of persistent.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(listing *entity.Listing) error {
	args := m.Called(listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(listingID string) (*entity.Listing, error) {
	args := m.Called(listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) ListActive(filter persistent.ListingFilter) ([]*entity.Listing, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) ListByUser(userID string, limit, offset int) ([]*entity.Listing, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) UpdatePrice(listingID, userID string, price int) (bool, error) {
	args := m.Called(listingID, userID, price)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) UpdateStatus(listingID, userID string, status entity.ListingStatus) (bool, error) {
	args := m.Called(listingID, userID, status)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) SetBoost(listingID, userID string, until time.Time) (bool, error) {
	args := m.Called(listingID, userID, until)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) Delete(listingID, userID string) (bool, error) {
	args := m.Called(listingID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockListingRepository) IncrementView(listingID string) error {
	args := m.Called(listingID)
	return args.Error(0)
}

var _ persistent.ListingRepository = (*MockListingRepository)(nil)

// MockCreditRepository is a mock implementation of persistent.CreditRepository
type MockCreditRepository struct {
	mock.Mock
}

func (m *MockCreditRepository) GetOrCreate(userID string) (*entity.CreditBalance, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CreditBalance), args.Error(1)
}

func (m *MockCreditRepository) DecrementIfPositive(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCreditRepository) Add(userID string, credits int) error {
	args := m.Called(userID, credits)
	return args.Error(0)
}

var _ persistent.CreditRepository = (*MockCreditRepository)(nil)

// MockTransactionRepository is a mock implementation of persistent.TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(transaction *entity.Transaction) error {
	args := m.Called(transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByToken(token string) (*entity.Transaction, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByUser(userID string, limit, offset int) ([]*entity.Transaction, error) {
	args := m.Called(userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SettleByToken(token string, status entity.TransactionStatus) (bool, error) {
	args := m.Called(token, status)
	return args.Bool(0), args.Error(1)
}

var _ persistent.TransactionRepository = (*MockTransactionRepository)(nil)

// MockReviewRepository is a mock implementation of persistent.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(review *entity.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) Exists(reviewerID, listingID string) (bool, error) {
	args := m.Called(reviewerID, listingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) ListForUser(reviewedID string, limit, offset int) ([]*entity.Review, error) {
	args := m.Called(reviewedID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Review), args.Error(1)
}

func (m *MockReviewRepository) AverageForUser(reviewedID string) (*float64, error) {
	args := m.Called(reviewedID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

var _ persistent.ReviewRepository = (*MockReviewRepository)(nil)

// MockMessageRepository is a mock implementation of persistent.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(message *entity.Message) error {
	args := m.Called(message)
	return args.Error(0)
}

func (m *MockMessageRepository) ListThread(listingID, userA, userB string) ([]*entity.Message, error) {
	args := m.Called(listingID, userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Message), args.Error(1)
}

func (m *MockMessageRepository) ListConversations(userID string) ([]*entity.Conversation, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Conversation), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(listingID, readerID, senderID string) error {
	args := m.Called(listingID, readerID, senderID)
	return args.Error(0)
}

var _ persistent.MessageRepository = (*MockMessageRepository)(nil)
