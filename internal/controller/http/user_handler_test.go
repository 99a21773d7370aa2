package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"petit-marche/internal/entity"
	"petit-marche/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserUseCase is a mock implementation of UserUseCase
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(email, password, fullName, phone, district string) (*entity.User, string, error) {
	args := m.Called(email, password, fullName, phone, district)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockUserUseCase) Login(email, password string) (*entity.User, string, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockUserUseCase) GetUser(userID string) (*entity.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) UpdateProfile(userID string, fullName, phone, district *string) (*entity.User, error) {
	args := m.Called(userID, fullName, phone, district)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) GetSellerProfile(sellerID string) (*usecase.SellerProfile, error) {
	args := m.Called(sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SellerProfile), args.Error(1)
}

var _ usecase.UserUseCase = (*MockUserUseCase)(nil)

func setupUserRouter(uc usecase.UserUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewUserHandler(uc)

	r := gin.New()
	r.POST("/api/v1/auth/register", handler.Register)
	r.POST("/api/v1/auth/login", handler.Login)
	r.GET("/api/v1/sellers/:id", handler.GetSeller)
	r.GET("/api/v1/me", func(c *gin.Context) {
		c.Set("user_id", "user-1")
		handler.Me(c)
	})
	return r
}

func TestRegisterEndpoint_Success(t *testing.T) {
	mockUC := new(MockUserUseCase)
	mockUC.On("Register", "awa@example.com", "secret123", "Awa Diop", "", "").
		Return(&entity.User{ID: "user-1", Email: "awa@example.com", FullName: "Awa Diop"}, "jwt-token", nil)

	router := setupUserRouter(mockUC)

	body, _ := json.Marshal(map[string]string{
		"email":     "awa@example.com",
		"password":  "secret123",
		"full_name": "Awa Diop",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp AuthResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, "user-1", resp.User.ID)
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	mockUC := new(MockUserUseCase)
	mockUC.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, "", usecase.ErrAlreadyExists)

	router := setupUserRouter(mockUC)

	body, _ := json.Marshal(map[string]string{
		"email":     "awa@example.com",
		"password":  "secret123",
		"full_name": "Awa Diop",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	mockUC := new(MockUserUseCase)
	mockUC.On("Login", "awa@example.com", "wrong").Return(nil, "", usecase.ErrUnauthorized)

	router := setupUserRouter(mockUC)

	body, _ := json.Marshal(map[string]string{"email": "awa@example.com", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetSellerEndpoint(t *testing.T) {
	rating := 4.5
	mockUC := new(MockUserUseCase)
	mockUC.On("GetSellerProfile", "seller-1").Return(&usecase.SellerProfile{
		User:        &entity.User{ID: "seller-1", FullName: "Moussa"},
		Rating:      &rating,
		ReviewCount: 12,
		Listings:    []*entity.Listing{{ID: "listing-1", Status: entity.ListingStatusActive}},
	}, nil)

	router := setupUserRouter(mockUC)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sellers/seller-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var profile usecase.SellerProfile
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "seller-1", profile.User.ID)
	assert.Equal(t, 12, profile.ReviewCount)
	assert.NotNil(t, profile.Rating)
	assert.Equal(t, 4.5, *profile.Rating)
}

func TestMeEndpoint(t *testing.T) {
	mockUC := new(MockUserUseCase)
	mockUC.On("GetUser", "user-1").Return(&entity.User{ID: "user-1", Email: "awa@example.com"}, nil)

	router := setupUserRouter(mockUC)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
