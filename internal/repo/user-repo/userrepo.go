package userrepo

import (
	"context"
	"errors"

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

func (r *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (full_name, email, password_hash, balance, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, user.FullName, user.Email, user.PasswordHash, user.Balance, user.Role, user.Status).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, full_name, email, password_hash, balance, role, status, created_at
		FROM users
		WHERE email = $1
	`
	var user domain.User
	err := r.db.QueryRow(ctx, query, email).
		Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.Balance, &user.Role, &user.Status, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by email", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	query := `
		SELECT id, full_name, email, password_hash, balance, role, status, created_at
		FROM users
		WHERE id = $1
	`
	var user domain.User
	err := r.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.Balance, &user.Role, &user.Status, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find user by id", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate locks the user row for the duration of the surrounding
// transaction. Callers must run it through the TXManager.
func (r *Repository) FindByIDForUpdate(ctx context.Context, id int) (*domain.User, error) {
	query := `
		SELECT id, full_name, email, password_hash, balance, role, status, created_at
		FROM users
		WHERE id = $1
		FOR UPDATE
	`
	var user domain.User
	err := r.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.Balance, &user.Role, &user.Status, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't lock user row", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT id, full_name, email, password_hash, balance, role, status, created_at
		FROM users
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		zap.L().Error("can't get users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.Balance, &user.Role, &user.Status, &user.CreatedAt)
		if err != nil {
			zap.L().Error("can't scan user row", zap.Error(err))
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// DebitBalance decrements the balance only when the current balance covers
// the amount. Check and decrement happen in a single statement, so two
// concurrent withdrawals can't both pass against a stale read.
func (r *Repository) DebitBalance(ctx context.Context, userID int, amount float64) (bool, error) {
	query := `
		UPDATE users
		SET balance = balance - $2
		WHERE id = $1 AND balance >= $2
		RETURNING balance
	`
	var balance float64
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		zap.L().Error("can't debit balance", zap.Error(err))
		return false, err
	}
	return true, nil
}

func (r *Repository) CreditBalance(ctx context.Context, userID int, amount float64) (float64, error) {
	query := `
		UPDATE users
		SET balance = balance + $2
		WHERE id = $1
		RETURNING balance
	`
	var balance float64
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(&balance)
	if err != nil {
		zap.L().Error("can't credit balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

func (r *Repository) SetBalance(ctx context.Context, userID int, balance float64) (float64, error) {
	query := `
		UPDATE users
		SET balance = $2
		WHERE id = $1
		RETURNING balance
	`
	var updated float64
	err := r.db.QueryRow(ctx, query, userID, balance).Scan(&updated)
	if err != nil {
		zap.L().Error("can't set balance", zap.Error(err))
		return 0, err
	}
	return updated, nil
}

func (r *Repository) Delete(ctx context.Context, userID int) (bool, error) {
	query := `
		DELETE FROM users
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't delete user", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
