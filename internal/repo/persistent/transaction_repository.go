package persistent

import (
	"petit-marche/internal/entity"
	"petit-marche/internal/model"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(transaction *entity.Transaction) error
	GetByToken(token string) (*entity.Transaction, error)
	ListByUser(userID string, limit, offset int) ([]*entity.Transaction, error)
	// SettleByToken moves a pending transaction to a terminal status. It
	// returns false when no pending transaction matches the token, which is
	// how redelivered webhooks are detected and skipped.
	SettleByToken(token string, status entity.TransactionStatus) (bool, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(transaction *entity.Transaction) error {
	transactionModel := ToTransactionModel(transaction)
	if err := r.db.Create(transactionModel).Error; err != nil {
		return err
	}
	transaction.ID = transactionModel.ID
	transaction.CreatedAt = transactionModel.CreatedAt
	return nil
}

func (r *transactionRepository) GetByToken(token string) (*entity.Transaction, error) {
	var transactionModel model.TransactionModel
	if err := r.db.Where("paydunya_token = ?", token).First(&transactionModel).Error; err != nil {
		return nil, err
	}
	return ToTransactionEntity(&transactionModel), nil
}

func (r *transactionRepository) ListByUser(userID string, limit, offset int) ([]*entity.Transaction, error) {
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var transactionModels []model.TransactionModel
	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = ToTransactionEntity(&transactionModels[i])
	}
	return transactions, nil
}

func (r *transactionRepository) SettleByToken(token string, status entity.TransactionStatus) (bool, error) {
	result := r.db.Model(&model.TransactionModel{}).
		Where("paydunya_token = ? AND status = ?", token, string(entity.TransactionPending)).
		Update("status", string(status))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
