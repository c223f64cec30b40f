package service

import (
	"github.com/startrader/backend/internal/config"
	"github.com/startrader/backend/internal/pg"
	"github.com/startrader/backend/internal/repo"
	"github.com/startrader/backend/internal/service/authservice"
	"github.com/startrader/backend/internal/service/ledgerservice"
	pkgauth "github.com/startrader/backend/pkg/auth"
)

type Services struct {
	AuthService   *authservice.Service
	LedgerService *ledgerservice.Service
}

func New(repo *repo.Repositories, txManager pg.TXManager, cfg *config.Config) *Services {
	ledgerService := ledgerservice.New(repo.UserRepo, repo.TransactionRepo, txManager, cfg.MinDeposit, cfg.MinWithdrawal)
	authService := authservice.New(repo.UserRepo, &pkgauth.HashService{}, &pkgauth.JWTService{})

	return &Services{
		AuthService:   authService,
		LedgerService: ledgerService,
	}
}
