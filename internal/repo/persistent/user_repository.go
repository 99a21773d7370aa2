package persistent

import (
	"time"

	"petit-marche/internal/entity"
	"petit-marche/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *entity.User) error
	GetByID(userID string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	StampFirstListing(userID string, at time.Time) (bool, error)
	ClearFirstListing(userID string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *entity.User) error {
	userModel := ToUserModel(user)
	if userModel.ID == "" {
		userModel.ID = uuid.New().String()
	}
	if err := r.db.Create(userModel).Error; err != nil {
		return err
	}
	user.ID = userModel.ID
	user.CreatedAt = userModel.CreatedAt
	return nil
}

func (r *userRepository) GetByID(userID string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("id = ?", userID).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByEmail(email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("email = ?", email).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) Update(user *entity.User) error {
	return r.db.Save(ToUserModel(user)).Error
}

// StampFirstListing sets first_listing_at once. The WHERE clause guards
// against a concurrent publish stamping it twice; the caller learns via the
// return value whether this call consumed the free listing.
func (r *userRepository) StampFirstListing(userID string, at time.Time) (bool, error) {
	result := r.db.Model(&model.UserModel{}).
		Where("id = ? AND first_listing_at IS NULL", userID).
		Update("first_listing_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ClearFirstListing releases the free-listing stamp after a publish that
// consumed it could not persist its listing row.
func (r *userRepository) ClearFirstListing(userID string) error {
	return r.db.Model(&model.UserModel{}).
		Where("id = ?", userID).
		Update("first_listing_at", nil).Error
}
