package userrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/startrader/backend/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		user      *domain.User
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully creates user",
			user: &domain.User{
				FullName:     "John Doe",
				Email:        "john@example.com",
				PasswordHash: "hash",
				Balance:      0,
				Role:         "user",
				Status:       "active",
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			INSERT INTO users (full_name, email, password_hash, balance, role, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`)).
					WithArgs("John Doe", "john@example.com", "hash", 0.0, "user", "active").
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, now))
			},
			expectErr: false,
		},
		{
			name: "Database error",
			user: &domain.User{
				FullName:     "John Doe",
				Email:        "john@example.com",
				PasswordHash: "hash",
			},
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			INSERT INTO users (full_name, email, password_hash, balance, role, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at`)).
					WithArgs("John Doe", "john@example.com", "hash", 0.0, "", "").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), tt.user)

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, 1, result.ID)
				assert.Equal(t, now, result.CreatedAt)
			}
		})
	}
}

func TestRepository_FindByEmail(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		email     string
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:  "Existing email returns user",
			email: "john@example.com",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "full_name", "email", "password_hash", "balance", "role", "status", "created_at"}).
					AddRow(1, "John Doe", "john@example.com", "hash", 100.0, "user", "active", now)
				mock.ExpectQuery(regexp.QuoteMeta(`
			SELECT id, full_name, email, password_hash, balance, role, status, created_at
			FROM users
			WHERE email = $1`)).
					WithArgs("john@example.com").
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.User{
				ID:           1,
				FullName:     "John Doe",
				Email:        "john@example.com",
				PasswordHash: "hash",
				Balance:      100.0,
				Role:         "user",
				Status:       "active",
				CreatedAt:    now,
			},
		},
		{
			name:  "Non-existing email returns nil",
			email: "missing@example.com",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			SELECT id, full_name, email, password_hash, balance, role, status, created_at
			FROM users
			WHERE email = $1`)).
					WithArgs("missing@example.com").
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:  "Database error",
			email: "john@example.com",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			SELECT id, full_name, email, password_hash, balance, role, status, created_at
			FROM users
			WHERE email = $1`)).
					WithArgs("john@example.com").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByEmail(context.Background(), tt.email)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_FindByID(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		userID    int
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:   "Existing userID returns user",
			userID: 1,
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "full_name", "email", "password_hash", "balance", "role", "status", "created_at"}).
					AddRow(1, "John Doe", "john@example.com", "hash", 100.0, "user", "active", now)
				mock.ExpectQuery(regexp.QuoteMeta(`
			SELECT id, full_name, email, password_hash, balance, role, status, created_at
			FROM users
			WHERE id = $1`)).
					WithArgs(1).
					WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.User{
				ID:           1,
				FullName:     "John Doe",
				Email:        "john@example.com",
				PasswordHash: "hash",
				Balance:      100.0,
				Role:         "user",
				Status:       "active",
				CreatedAt:    now,
			},
		},
		{
			name:   "Non-existing userID returns nil",
			userID: 99,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			SELECT id, full_name, email, password_hash, balance, role, status, created_at
			FROM users
			WHERE id = $1`)).
					WithArgs(99).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByID(context.Background(), tt.userID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.result, result)
		})
	}
}

func TestRepository_FindAll(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		count     int
	}{
		{
			name: "Returns all users",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "full_name", "email", "password_hash", "balance", "role", "status", "created_at"}).
					AddRow(2, "Jane Doe", "jane@example.com", "hash2", 50.0, "user", "active", now).
					AddRow(1, "John Doe", "john@example.com", "hash1", 100.0, "admin", "active", now)
				mock.ExpectQuery(regexp.QuoteMeta(`
			SELECT id, full_name, email, password_hash, balance, role, status, created_at
			FROM users
			ORDER BY created_at DESC`)).
					WillReturnRows(rows)
			},
			expectErr: false,
			count:     2,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			SELECT id, full_name, email, password_hash, balance, role, status, created_at
			FROM users
			ORDER BY created_at DESC`)).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			count:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindAll(context.Background())

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, result, tt.count)
			}
		})
	}
}

func TestRepository_DebitBalance(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		userID    int
		amount    float64
		mockSetup func()
		expectErr bool
		debited   bool
	}{
		{
			name:   "Sufficient balance debits",
			userID: 1,
			amount: 50.0,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			UPDATE users
			SET balance = balance - $2
			WHERE id = $1 AND balance >= $2
			RETURNING balance`)).
					WithArgs(1, 50.0).
					WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(50.0))
			},
			expectErr: false,
			debited:   true,
		},
		{
			name:   "Insufficient balance returns false",
			userID: 1,
			amount: 500.0,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			UPDATE users
			SET balance = balance - $2
			WHERE id = $1 AND balance >= $2
			RETURNING balance`)).
					WithArgs(1, 500.0).
					WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			debited:   false,
		},
		{
			name:   "Database error",
			userID: 1,
			amount: 50.0,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			UPDATE users
			SET balance = balance - $2
			WHERE id = $1 AND balance >= $2
			RETURNING balance`)).
					WithArgs(1, 50.0).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			debited:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			debited, err := repo.DebitBalance(context.Background(), tt.userID, tt.amount)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.debited, debited)
		})
	}
}

func TestRepository_CreditBalance(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		userID    int
		amount    float64
		mockSetup func()
		expectErr bool
		balance   float64
	}{
		{
			name:   "Successfully credits balance",
			userID: 1,
			amount: 50.0,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			UPDATE users
			SET balance = balance + $2
			WHERE id = $1
			RETURNING balance`)).
					WithArgs(1, 50.0).
					WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(150.0))
			},
			expectErr: false,
			balance:   150.0,
		},
		{
			name:   "Database error",
			userID: 1,
			amount: 50.0,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			UPDATE users
			SET balance = balance + $2
			WHERE id = $1
			RETURNING balance`)).
					WithArgs(1, 50.0).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			balance:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			balance, err := repo.CreditBalance(context.Background(), tt.userID, tt.amount)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.balance, balance)
		})
	}
}

func TestRepository_SetBalance(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		userID    int
		balance   float64
		mockSetup func()
		expectErr bool
	}{
		{
			name:    "Successfully sets balance",
			userID:  1,
			balance: 1000.0,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			UPDATE users
			SET balance = $2
			WHERE id = $1
			RETURNING balance`)).
					WithArgs(1, 1000.0).
					WillReturnRows(pgxmock.NewRows([]string{"balance"}).AddRow(1000.0))
			},
			expectErr: false,
		},
		{
			name:    "Database error",
			userID:  1,
			balance: 1000.0,
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`
			UPDATE users
			SET balance = $2
			WHERE id = $1
			RETURNING balance`)).
					WithArgs(1, 1000.0).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			updated, err := repo.SetBalance(context.Background(), tt.userID, tt.balance)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.balance, updated)
			}
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := NewMock(t)

	tests := []struct {
		name      string
		userID    int
		mockSetup func()
		expectErr bool
		deleted   bool
	}{
		{
			name:   "Successfully deletes user",
			userID: 1,
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`
			DELETE FROM users
			WHERE id = $1`)).
					WithArgs(1).
					WillReturnResult(pgxmock.NewResult("DELETE", 1))
			},
			expectErr: false,
			deleted:   true,
		},
		{
			name:   "Non-existing user returns false",
			userID: 99,
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`
			DELETE FROM users
			WHERE id = $1`)).
					WithArgs(99).
					WillReturnResult(pgxmock.NewResult("DELETE", 0))
			},
			expectErr: false,
			deleted:   false,
		},
		{
			name:   "Database error",
			userID: 1,
			mockSetup: func() {
				mock.ExpectExec(regexp.QuoteMeta(`
			DELETE FROM users
			WHERE id = $1`)).
					WithArgs(1).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			deleted:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			deleted, err := repo.Delete(context.Background(), tt.userID)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.deleted, deleted)
		})
	}
}
