package ledgerservice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/startrader/backend/internal/domain"
	"github.com/startrader/backend/internal/pg"
)

type UserRepo interface {
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindByIDForUpdate(ctx context.Context, id int) (*domain.User, error)
	DebitBalance(ctx context.Context, userID int, amount float64) (bool, error)
	CreditBalance(ctx context.Context, userID int, amount float64) (float64, error)
	SetBalance(ctx context.Context, userID int, balance float64) (float64, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	FindByIDForUpdate(ctx context.Context, id int) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error)
	FindAll(ctx context.Context) ([]domain.Transaction, error)
}

const (
	// TypeDeposit funds added after admin approval;
	TypeDeposit string = "deposit"
	// TypeWithdrawal funds reserved at submission, released or reinstated on review;
	TypeWithdrawal string = "withdrawal"
	// TypeProfit positive admin balance adjustment;
	TypeProfit string = "profit"
	// TypeLoss negative admin balance adjustment;
	TypeLoss string = "loss"

	// StatusPending awaiting admin review;
	StatusPending string = "pending"
	// StatusCompleted approved, terminal;
	StatusCompleted string = "completed"
	// StatusFailed rejected, terminal;
	StatusFailed string = "failed"
	// StatusCancelled reserved for user-initiated cancellation, never emitted;
	StatusCancelled string = "cancelled"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrAmountBelowMinimum  = errors.New("amount below minimum")
	ErrEmptyDestination    = errors.New("account details required")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyProcessed    = errors.New("transaction already processed")
	ErrInvalidStatus       = errors.New("invalid target status")
	ErrNegativeBalance     = errors.New("balance cannot be negative")
)

// InsufficientBalanceError carries the balance recorded at rejection time so
// the caller can correct the amount.
type InsufficientBalanceError struct {
	Balance float64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %.2f", e.Balance)
}

type Service struct {
	userRepo        UserRepo
	transactionRepo TransactionRepo
	txManager       pg.TXManager
	minDeposit      float64
	minWithdrawal   float64
}

func New(userRepo UserRepo, transactionRepo TransactionRepo, txManager pg.TXManager, minDeposit, minWithdrawal float64) *Service {
	return &Service{
		userRepo:        userRepo,
		transactionRepo: transactionRepo,
		txManager:       txManager,
		minDeposit:      minDeposit,
		minWithdrawal:   minWithdrawal,
	}
}

// SubmitDeposit records a pending deposit request. The balance is untouched
// until an admin approves the transaction.
func (s *Service) SubmitDeposit(ctx context.Context, userID int, amount float64, paymentMethod string) (*domain.Transaction, error) {
	if err := validateAmount(amount, s.minDeposit); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		zap.L().Error("can't find user for deposit", zap.Error(err))
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	transaction := &domain.Transaction{
		UserID:      userID,
		Type:        TypeDeposit,
		Amount:      amount,
		Status:      StatusPending,
		Reference:   newReference("DEP"),
		Description: "deposit via " + paymentMethod,
	}
	created, err := s.transactionRepo.Create(ctx, transaction)
	if err != nil {
		zap.L().Error("can't create deposit transaction", zap.Error(err))
		return nil, err
	}

	zap.L().Info("deposit request submitted",
		zap.Int("userID", userID),
		zap.String("reference", created.Reference),
		zap.Float64("amount", amount),
	)
	return created, nil
}

// SubmitWithdrawal reserves the requested amount immediately and records a
// pending withdrawal. The conditional debit and the insert run in one
// database transaction, so concurrent withdrawals against the same account
// can't jointly overdraw it.
func (s *Service) SubmitWithdrawal(ctx context.Context, userID int, amount float64, method, destination string) (*domain.Transaction, error) {
	if err := validateAmount(amount, s.minWithdrawal); err != nil {
		return nil, err
	}
	if destination == "" {
		return nil, ErrEmptyDestination
	}

	var created *domain.Transaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		debited, err := s.userRepo.DebitBalance(ctx, userID, amount)
		if err != nil {
			return err
		}
		if !debited {
			user, err := s.userRepo.FindByID(ctx, userID)
			if err != nil {
				return err
			}
			if user == nil {
				return ErrUserNotFound
			}
			return &InsufficientBalanceError{Balance: user.Balance}
		}

		transaction := &domain.Transaction{
			UserID:      userID,
			Type:        TypeWithdrawal,
			Amount:      amount,
			Status:      StatusPending,
			Reference:   newReference("WITH"),
			Description: "withdrawal via " + method + " to " + destination,
		}
		created, err = s.transactionRepo.Create(ctx, transaction)
		return err
	})
	if err != nil {
		var insufficientErr *InsufficientBalanceError
		if !errors.As(err, &insufficientErr) && !errors.Is(err, ErrUserNotFound) {
			zap.L().Error("can't submit withdrawal", zap.Error(err))
		}
		return nil, err
	}

	zap.L().Info("withdrawal request submitted",
		zap.Int("userID", userID),
		zap.String("reference", created.Reference),
		zap.Float64("amount", amount),
	)
	return created, nil
}

// ReviewTransaction moves a pending transaction to a terminal status and
// applies the matching balance effect. The row is locked for the duration of
// the review, so a second review of the same transaction observes the
// terminal status and fails instead of double-crediting.
func (s *Service) ReviewTransaction(ctx context.Context, transactionID int, newStatus string) (*domain.Transaction, error) {
	if newStatus != StatusCompleted && newStatus != StatusFailed {
		return nil, ErrInvalidStatus
	}

	var reviewed *domain.Transaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		transaction, err := s.transactionRepo.FindByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if transaction == nil {
			return ErrTransactionNotFound
		}
		if transaction.Status != StatusPending {
			return ErrAlreadyProcessed
		}

		if err := s.transactionRepo.UpdateStatus(ctx, transactionID, newStatus); err != nil {
			return err
		}

		switch {
		case transaction.Type == TypeDeposit && newStatus == StatusCompleted:
			if _, err := s.userRepo.CreditBalance(ctx, transaction.UserID, transaction.Amount); err != nil {
				return err
			}
		case transaction.Type == TypeWithdrawal && newStatus == StatusFailed:
			// Reinstate the funds reserved at submission.
			if _, err := s.userRepo.CreditBalance(ctx, transaction.UserID, transaction.Amount); err != nil {
				return err
			}
		}

		transaction.Status = newStatus
		reviewed = transaction
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrTransactionNotFound) && !errors.Is(err, ErrAlreadyProcessed) {
			zap.L().Error("can't review transaction", zap.Error(err))
		}
		return nil, err
	}

	zap.L().Info("transaction reviewed",
		zap.Int("transactionID", transactionID),
		zap.String("status", newStatus),
	)
	return reviewed, nil
}

// SetBalance overrides the account balance and records the delta as a
// completed profit or loss transaction, so the full history stays
// reconstructible from the transaction log.
func (s *Service) SetBalance(ctx context.Context, userID int, newBalance float64) (float64, error) {
	if math.IsNaN(newBalance) || math.IsInf(newBalance, 0) {
		return 0, ErrInvalidAmount
	}
	if newBalance < 0 {
		return 0, ErrNegativeBalance
	}

	var updated float64
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		updated, err = s.userRepo.SetBalance(ctx, userID, newBalance)
		if err != nil {
			return err
		}

		delta := newBalance - user.Balance
		if delta == 0 {
			return nil
		}
		adjustmentType := TypeProfit
		if delta < 0 {
			adjustmentType = TypeLoss
			delta = -delta
		}
		_, err = s.transactionRepo.Create(ctx, &domain.Transaction{
			UserID:      userID,
			Type:        adjustmentType,
			Amount:      delta,
			Status:      StatusCompleted,
			Reference:   newReference("ADJ"),
			Description: "admin adjustment",
		})
		return err
	})
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			zap.L().Error("can't set balance", zap.Error(err))
		}
		return 0, err
	}

	zap.L().Info("balance overridden", zap.Int("userID", userID), zap.Float64("balance", updated))
	return updated, nil
}

func (s *Service) GetTransactions(ctx context.Context, userID int) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

func (s *Service) GetAllTransactions(ctx context.Context) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.FindAll(ctx)
	if err != nil {
		zap.L().Error("failed to fetch all transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

func validateAmount(amount, minimum float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrInvalidAmount
	}
	if amount < minimum {
		return ErrAmountBelowMinimum
	}
	return nil
}

func newReference(prefix string) string {
	return fmt.Sprintf("%s%d%d", prefix, time.Now().Unix(), rand.Intn(900)+100)
}
