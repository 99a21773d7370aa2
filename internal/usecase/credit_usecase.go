package usecase

import (
	"sort"

	"petit-marche/internal/entity"
	"petit-marche/internal/repo/persistent"
	"petit-marche/pkg/logger"
)

type CreditUseCase interface {
	GetBalance(userID string) (*entity.CreditBalance, error)
	ListPacks() []entity.CreditPack
}

type creditUseCase struct {
	creditRepo persistent.CreditRepository
	logger     *logger.Logger
}

func NewCreditUseCase(creditRepo persistent.CreditRepository, logger *logger.Logger) CreditUseCase {
	return &creditUseCase{creditRepo: creditRepo, logger: logger}
}

func (uc *creditUseCase) GetBalance(userID string) (*entity.CreditBalance, error) {
	balance, err := uc.creditRepo.GetOrCreate(userID)
	if err != nil {
		uc.logger.Error("Failed to load credit balance for %s: %v", userID, err)
		return nil, err
	}
	return balance, nil
}

func (uc *creditUseCase) ListPacks() []entity.CreditPack {
	packs := make([]entity.CreditPack, 0, len(entity.CreditPacks))
	for _, pack := range entity.CreditPacks {
		packs = append(packs, pack)
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Credits < packs[j].Credits })
	return packs
}
