package usecase

import (
	"fmt"
	"strings"

	"petit-marche/internal/entity"
	"petit-marche/internal/repo/persistent"
	"petit-marche/pkg/jwt"
	"petit-marche/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type SellerProfile struct {
	User        *entity.User      `json:"user"`
	Rating      *float64          `json:"rating,omitempty"`
	ReviewCount int               `json:"review_count"`
	Listings    []*entity.Listing `json:"listings"`
}

type UserUseCase interface {
	Register(email, password, fullName, phone, district string) (*entity.User, string, error)
	Login(email, password string) (*entity.User, string, error)
	GetUser(userID string) (*entity.User, error)
	UpdateProfile(userID string, fullName, phone, district *string) (*entity.User, error)
	GetSellerProfile(sellerID string) (*SellerProfile, error)
}

type userUseCase struct {
	userRepo    persistent.UserRepository
	listingRepo persistent.ListingRepository
	reviewRepo  persistent.ReviewRepository
	jwtService  *jwt.Service
	logger      *logger.Logger
}

func NewUserUseCase(
	userRepo persistent.UserRepository,
	listingRepo persistent.ListingRepository,
	reviewRepo persistent.ReviewRepository,
	jwtService *jwt.Service,
	logger *logger.Logger,
) UserUseCase {
	return &userUseCase{
		userRepo:    userRepo,
		listingRepo: listingRepo,
		reviewRepo:  reviewRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

func (uc *userUseCase) Register(email, password, fullName, phone, district string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: valid email is required", ErrValidation)
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, "", fmt.Errorf("%w: full name is required", ErrValidation)
	}

	if _, err := uc.userRepo.GetByEmail(email); err == nil {
		return nil, "", fmt.Errorf("%w: email already registered", ErrAlreadyExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, "", fmt.Errorf("failed to process registration")
	}

	user := &entity.User{
		Email:    email,
		Password: string(hashedPassword),
		FullName: strings.TrimSpace(fullName),
		Phone:    strings.TrimSpace(phone),
		District: strings.TrimSpace(district),
	}

	if err := uc.userRepo.Create(user); err != nil {
		uc.logger.Error("Failed to create user: %v", err)
		return nil, "", fmt.Errorf("failed to create user")
	}

	token, err := uc.jwtService.GenerateToken(user.ID, "user")
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *userUseCase) Login(email, password string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.userRepo.GetByEmail(email)
	if err != nil {
		return nil, "", ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrUnauthorized
	}

	token, err := uc.jwtService.GenerateToken(user.ID, "user")
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *userUseCase) GetUser(userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	user.Password = ""
	return user, nil
}

func (uc *userUseCase) UpdateProfile(userID string, fullName, phone, district *string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}

	if fullName != nil {
		if strings.TrimSpace(*fullName) == "" {
			return nil, fmt.Errorf("%w: full name cannot be empty", ErrValidation)
		}
		user.FullName = strings.TrimSpace(*fullName)
	}
	if phone != nil {
		user.Phone = strings.TrimSpace(*phone)
	}
	if district != nil {
		user.District = strings.TrimSpace(*district)
	}

	if err := uc.userRepo.Update(user); err != nil {
		uc.logger.Error("Failed to update user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to update profile")
	}

	user.Password = ""
	return user, nil
}

func (uc *userUseCase) GetSellerProfile(sellerID string) (*SellerProfile, error) {
	user, err := uc.userRepo.GetByID(sellerID)
	if err != nil {
		return nil, ErrNotFound
	}
	user.Password = ""

	rating, err := uc.reviewRepo.AverageForUser(sellerID)
	if err != nil {
		uc.logger.Warn("Failed to load rating for %s: %v", sellerID, err)
	}
	user.Rating = rating

	reviews, err := uc.reviewRepo.ListForUser(sellerID, 100, 0)
	if err != nil {
		uc.logger.Warn("Failed to load reviews for %s: %v", sellerID, err)
	}

	listings, err := uc.listingRepo.ListByUser(sellerID, 50, 0)
	if err != nil {
		uc.logger.Warn("Failed to load listings for %s: %v", sellerID, err)
	}

	active := make([]*entity.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Status == entity.ListingStatusActive {
			active = append(active, l)
		}
	}

	return &SellerProfile{
		User:        user,
		Rating:      rating,
		ReviewCount: len(reviews),
		Listings:    active,
	}, nil
}
