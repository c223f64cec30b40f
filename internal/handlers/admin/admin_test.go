package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/startrader/backend/internal/domain"
	"github.com/startrader/backend/internal/service/authservice"
	"github.com/startrader/backend/internal/service/ledgerservice"
	"github.com/startrader/backend/pkg/utils"
)

func NewMock(t *testing.T) (*AdminHandler, *MockUserService, *MockLedgerService) {
	ctrl := gomock.NewController(t)
	userService := NewMockUserService(ctrl)
	ledgerService := NewMockLedgerService(ctrl)
	handler := New(userService, ledgerService)
	defer ctrl.Finish()
	return handler, userService, ledgerService
}

func newRequestWithID(method, target, body, id string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader([]byte(body)))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetUsersHandler(t *testing.T) {
	handler, userService, _ := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedCode  int
		expectedError string
		expectedCount int
	}{
		{
			name: "Returns all users",
			prepareMock: func() {
				userService.EXPECT().GetUsers(gomock.Any()).Return([]domain.User{
					{ID: 2, FullName: "Jane Doe", Email: "jane@example.com", Balance: 50, Role: "user", Status: "active"},
					{ID: 1, FullName: "John Doe", Email: "john@example.com", Balance: 100, Role: "admin", Status: "active"},
				}, nil)
			},
			expectedCode:  http.StatusOK,
			expectedCount: 2,
		},
		{
			name: "Internal error",
			prepareMock: func() {
				userService.EXPECT().GetUsers(gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Failed to fetch users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("GET", "/api/admin/users", nil)
			rr := httptest.NewRecorder()

			handler.GetUsers(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Error)
			} else {
				var resp struct {
					Success bool `json:"success"`
					Users   []struct {
						ID           int    `json:"id"`
						PasswordHash string `json:"password_hash"`
					} `json:"users"`
				}
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.True(t, resp.Success)
				assert.Len(t, resp.Users, tt.expectedCount)
				for _, user := range resp.Users {
					assert.Empty(t, user.PasswordHash)
				}
			}
		})
	}
}

func TestUpdateBalanceHandler(t *testing.T) {
	handler, _, ledgerService := NewMock(t)

	tests := []struct {
		name          string
		id            string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successfully overrides balance",
			id:   "1",
			body: `{"balance":1000}`,
			prepareMock: func() {
				ledgerService.EXPECT().SetBalance(gomock.Any(), 1, 1000.0).Return(1000.0, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Negative balance rejected",
			id:   "1",
			body: `{"balance":-10}`,
			prepareMock: func() {
				ledgerService.EXPECT().SetBalance(gomock.Any(), 1, -10.0).Return(0.0, ledgerservice.ErrNegativeBalance)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "balance cannot be negative",
		},
		{
			name: "User not found",
			id:   "99",
			body: `{"balance":1000}`,
			prepareMock: func() {
				ledgerService.EXPECT().SetBalance(gomock.Any(), 99, 1000.0).Return(0.0, ledgerservice.ErrUserNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "User not found",
		},
		{
			name: "Invalid user ID",
			id:   "abc",
			body: `{"balance":1000}`,
			prepareMock: func() {
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid user ID",
		},
		{
			name: "Invalid request body",
			id:   "1",
			body: `{invalid json`,
			prepareMock: func() {
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid request body",
		},
		{
			name: "Internal error",
			id:   "1",
			body: `{"balance":1000}`,
			prepareMock: func() {
				ledgerService.EXPECT().SetBalance(gomock.Any(), 1, 1000.0).Return(0.0, errors.New("database error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := httptest.NewRecorder()
			handler.UpdateBalance(rr, newRequestWithID("POST", "/api/admin/users/"+tt.id+"/balance", tt.body, tt.id))

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	handler, userService, _ := NewMock(t)

	tests := []struct {
		name          string
		id            string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successfully deletes user",
			id:   "1",
			prepareMock: func() {
				userService.EXPECT().DeleteUser(gomock.Any(), 1).Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "User not found",
			id:   "99",
			prepareMock: func() {
				userService.EXPECT().DeleteUser(gomock.Any(), 99).Return(authservice.ErrUserNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "User not found",
		},
		{
			name: "Invalid user ID",
			id:   "abc",
			prepareMock: func() {
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid user ID",
		},
		{
			name: "Internal error",
			id:   "1",
			prepareMock: func() {
				userService.EXPECT().DeleteUser(gomock.Any(), 1).Return(errors.New("database error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := httptest.NewRecorder()
			handler.DeleteUser(rr, newRequestWithID("DELETE", "/api/admin/users/"+tt.id, "", tt.id))

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestGetTransactionsHandler(t *testing.T) {
	handler, _, ledgerService := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedCode  int
		expectedError string
		expectedCount int
	}{
		{
			name: "Returns all transactions",
			prepareMock: func() {
				ledgerService.EXPECT().GetAllTransactions(gomock.Any()).Return([]domain.Transaction{
					{ID: 2, UserID: 2, Type: "withdrawal", Amount: 50, Status: "pending", Reference: "WITH1733745597456"},
					{ID: 1, UserID: 1, Type: "deposit", Amount: 100, Status: "pending", Reference: "DEP1733745597123"},
				}, nil)
			},
			expectedCode:  http.StatusOK,
			expectedCount: 2,
		},
		{
			name: "Internal error",
			prepareMock: func() {
				ledgerService.EXPECT().GetAllTransactions(gomock.Any()).Return(nil, errors.New("database error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Failed to fetch transactions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest("GET", "/api/admin/transactions", nil)
			rr := httptest.NewRecorder()

			handler.GetTransactions(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}

func TestUpdateTransactionStatusHandler(t *testing.T) {
	handler, _, ledgerService := NewMock(t)

	tests := []struct {
		name          string
		id            string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successfully approves transaction",
			id:   "1",
			body: `{"status":"completed"}`,
			prepareMock: func() {
				ledgerService.EXPECT().ReviewTransaction(gomock.Any(), 1, "completed").Return(&domain.Transaction{
					ID:     1,
					Status: "completed",
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Successfully rejects transaction",
			id:   "2",
			body: `{"status":"failed"}`,
			prepareMock: func() {
				ledgerService.EXPECT().ReviewTransaction(gomock.Any(), 2, "failed").Return(&domain.Transaction{
					ID:     2,
					Status: "failed",
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Invalid target status",
			id:   "1",
			body: `{"status":"cancelled"}`,
			prepareMock: func() {
				ledgerService.EXPECT().ReviewTransaction(gomock.Any(), 1, "cancelled").Return(nil, ledgerservice.ErrInvalidStatus)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid target status",
		},
		{
			name: "Transaction not found",
			id:   "99",
			body: `{"status":"completed"}`,
			prepareMock: func() {
				ledgerService.EXPECT().ReviewTransaction(gomock.Any(), 99, "completed").Return(nil, ledgerservice.ErrTransactionNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "Transaction not found",
		},
		{
			name: "Transaction already processed",
			id:   "1",
			body: `{"status":"failed"}`,
			prepareMock: func() {
				ledgerService.EXPECT().ReviewTransaction(gomock.Any(), 1, "failed").Return(nil, ledgerservice.ErrAlreadyProcessed)
			},
			expectedCode:  http.StatusConflict,
			expectedError: "Transaction already processed",
		},
		{
			name: "Invalid transaction ID",
			id:   "abc",
			body: `{"status":"completed"}`,
			prepareMock: func() {
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid transaction ID",
		},
		{
			name: "Internal error",
			id:   "1",
			body: `{"status":"completed"}`,
			prepareMock: func() {
				ledgerService.EXPECT().ReviewTransaction(gomock.Any(), 1, "completed").Return(nil, errors.New("database error"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := httptest.NewRecorder()
			handler.UpdateTransactionStatus(rr, newRequestWithID("POST", "/api/admin/transactions/"+tt.id+"/status", tt.body, tt.id))

			assert.Equal(t, tt.expectedCode, rr.Code)

			if tt.expectedError != "" {
				var resp utils.Response
				err := json.NewDecoder(rr.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedError, resp.Error)
			}
		})
	}
}
