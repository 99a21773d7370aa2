package persistent

import (
	"errors"

	"petit-marche/internal/entity"
	"petit-marche/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreditRepository interface {
	GetOrCreate(userID string) (*entity.CreditBalance, error)
	DecrementIfPositive(userID string) (bool, error)
	Add(userID string, credits int) error
}

type creditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) GetOrCreate(userID string) (*entity.CreditBalance, error) {
	var balanceModel model.CreditBalanceModel
	if err := r.db.Where("user_id = ?", userID).First(&balanceModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			balanceModel = model.CreditBalanceModel{
				ID:      uuid.New().String(),
				UserID:  userID,
				Credits: 0,
			}
			if err := r.db.Create(&balanceModel).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return ToCreditBalanceEntity(&balanceModel), nil
}

// DecrementIfPositive spends one credit. The balance check lives inside the
// UPDATE so two concurrent publishes at balance 1 cannot both succeed and the
// balance can never go negative.
func (r *creditRepository) DecrementIfPositive(userID string) (bool, error) {
	result := r.db.Model(&model.CreditBalanceModel{}).
		Where("user_id = ? AND credits > 0", userID).
		UpdateColumn("credits", gorm.Expr("credits - 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Add credits atomically, creating the balance row on first reference.
func (r *creditRepository) Add(userID string, credits int) error {
	result := r.db.Model(&model.CreditBalanceModel{}).
		Where("user_id = ?", userID).
		UpdateColumn("credits", gorm.Expr("credits + ?", credits))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		balanceModel := model.CreditBalanceModel{
			ID:      uuid.New().String(),
			UserID:  userID,
			Credits: credits,
		}
		return r.db.Create(&balanceModel).Error
	}
	return nil
}
