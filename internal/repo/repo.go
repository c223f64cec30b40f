package repo

import (
	"github.com/startrader/backend/internal/pg"
	transactionrepo "github.com/startrader/backend/internal/repo/transaction-repo"
	userrepo "github.com/startrader/backend/internal/repo/user-repo"
)

type Repositories struct {
	UserRepo        *userrepo.Repository
	TransactionRepo *transactionrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		UserRepo:        userrepo.New(conn),
		TransactionRepo: transactionrepo.New(conn),
	}
}
