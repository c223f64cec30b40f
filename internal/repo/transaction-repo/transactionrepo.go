package transactionrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/startrader/backend/internal/domain"
	"github.com/startrader/backend/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, type, amount, status, reference, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		transaction.UserID, transaction.Type, transaction.Amount,
		transaction.Status, transaction.Reference, transaction.Description).
		Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return nil, err
	}
	return transaction, nil
}

// FindByIDForUpdate locks the transaction row so concurrent reviews of the
// same transaction serialize. Callers must run it through the TXManager.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id int) (*domain.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, status, reference, description, notified_at, created_at
		FROM transactions
		WHERE id = $1
		FOR UPDATE
	`
	var transaction domain.Transaction
	err := r.db.QueryRow(ctx, query, id).
		Scan(&transaction.ID, &transaction.UserID, &transaction.Type, &transaction.Amount,
			&transaction.Status, &transaction.Reference, &transaction.Description,
			&transaction.NotifiedAt, &transaction.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't lock transaction row", zap.Error(err))
		return nil, err
	}
	return &transaction, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `
		UPDATE transactions
		SET status = $2
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		zap.L().Error("can't update transaction status", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, status, reference, description, notified_at, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, status, reference, description, notified_at, created_at
		FROM transactions
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't get all transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *Repository) FindPendingUnnotified(ctx context.Context, limit uint32) ([]domain.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, status, reference, description, notified_at, created_at
		FROM transactions
		WHERE status = 'pending' AND notified_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, int(limit))
	if err != nil {
		zap.L().Error("can't get transactions for notification", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *Repository) MarkNotified(ctx context.Context, id int, notifiedAt time.Time) error {
	query := `
		UPDATE transactions
		SET notified_at = $2
		WHERE id = $1
	`
	_, err := r.db.Exec(ctx, query, id, notifiedAt)
	if err != nil {
		zap.L().Error("can't mark transaction notified", zap.Error(err))
		return err
	}
	return nil
}

func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		err := rows.Scan(&transaction.ID, &transaction.UserID, &transaction.Type, &transaction.Amount,
			&transaction.Status, &transaction.Reference, &transaction.Description,
			&transaction.NotifiedAt, &transaction.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan transaction row", zap.Error(err))
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, nil
}
