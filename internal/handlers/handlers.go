package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/startrader/backend/docs"
	adminhandlers "github.com/startrader/backend/internal/handlers/admin"
	authhandlers "github.com/startrader/backend/internal/handlers/auth"
	ledgerhandlers "github.com/startrader/backend/internal/handlers/ledger"
	"github.com/startrader/backend/internal/service"
	"github.com/startrader/backend/pkg/auth"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
}

type LedgerHandler interface {
	Deposit(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	GetUsers(w http.ResponseWriter, r *http.Request)
	UpdateBalance(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
	UpdateTransactionStatus(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler   AuthHandler
	LedgerHandler LedgerHandler
	AdminHandler  AdminHandler
}

func New(s *service.Services) *Handlers {
	return &Handlers{
		AuthHandler:   authhandlers.New(s.AuthService),
		LedgerHandler: ledgerhandlers.New(s.LedgerService),
		AdminHandler:  adminhandlers.New(s.AuthService, s.LedgerService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Get("/me", h.AuthHandler.Me)
			r.Post("/deposit", h.LedgerHandler.Deposit)
			r.Post("/withdraw", h.LedgerHandler.Withdraw)
			r.Get("/transactions", h.LedgerHandler.GetTransactions)
		})
	})
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.AuthMiddleware, auth.AdminMiddleware)
		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.AdminHandler.GetUsers)
			r.Post("/{id}/balance", h.AdminHandler.UpdateBalance)
			r.Delete("/{id}", h.AdminHandler.DeleteUser)
		})
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", h.AdminHandler.GetTransactions)
			r.Post("/{id}/status", h.AdminHandler.UpdateTransactionStatus)
		})
	})

	return r
}
