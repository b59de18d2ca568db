package usecase

import (
	"food-ordering/internal/data/otpstore"
	"food-ordering/internal/data/repository"
	"food-ordering/pkg/sms"
	"food-ordering/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth  AuthService
	Token TokenService
}

func NewService(repo *repository.Repository, provider sms.Provider, config *utils.Config, log *zap.Logger) *Service {
	ledger := otpstore.NewLedger(log)
	tokens := NewTokenService(repo, config, log)

	return &Service{
		Auth:  NewAuthService(repo, ledger, tokens, provider, config, log),
		Token: tokens,
	}
}
