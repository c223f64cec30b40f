package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/startrader/backend/internal/domain"
	"github.com/startrader/backend/internal/dto"
	"github.com/startrader/backend/internal/service/ledgerservice"
	"github.com/startrader/backend/pkg/auth"
	"github.com/startrader/backend/pkg/utils"
	"github.com/startrader/backend/pkg/validate"
)

type Service interface {
	SubmitDeposit(ctx context.Context, userID int, amount float64, paymentMethod string) (*domain.Transaction, error)
	SubmitWithdrawal(ctx context.Context, userID int, amount float64, method, destination string) (*domain.Transaction, error)
	GetTransactions(ctx context.Context, userID int) ([]domain.Transaction, error)
}

const cardMethod = "card"

type LedgerHandler struct {
	ledgerService Service
}

func New(ledgerService Service) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// Deposit godoc
//
//	@Summary		Submit a deposit request
//	@Description	Create a pending deposit transaction. The balance is credited only after admin approval.
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DepositRequestDTO	true	"Deposit request payload"
//	@Success		200		{object}	dto.SubmitTransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/deposit [post]
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.DepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	transaction, err := h.ledgerService.SubmitDeposit(r.Context(), userID, req.Amount, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrInvalidAmount), errors.Is(err, ledgerservice.ErrAmountBelowMinimum):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ledgerservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.SubmitTransactionResponseDTO{
		Success:       true,
		Message:       "Deposit request submitted",
		TransactionID: transaction.ID,
		Reference:     transaction.Reference,
	})
}

// Withdraw godoc
//
//	@Summary		Submit a withdrawal request
//	@Description	Reserve funds from the balance and create a pending withdrawal transaction for admin review.
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WithdrawRequestDTO	true	"Withdrawal request payload"
//	@Success		200		{object}	dto.SubmitTransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount or missing account details"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		422		{object}	utils.Response	"Invalid card number"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/withdraw [post]
func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	var req dto.WithdrawRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.WithdrawMethod == cardMethod && !validate.IsLuna(req.AccountDetails) {
		utils.RespondWithError(w, http.StatusUnprocessableEntity, "Invalid card number")
		return
	}

	transaction, err := h.ledgerService.SubmitWithdrawal(r.Context(), userID, req.Amount, req.WithdrawMethod, req.AccountDetails)
	if err != nil {
		var insufficientErr *ledgerservice.InsufficientBalanceError
		switch {
		case errors.As(err, &insufficientErr):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, ledgerservice.ErrInvalidAmount),
			errors.Is(err, ledgerservice.ErrAmountBelowMinimum),
			errors.Is(err, ledgerservice.ErrEmptyDestination):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ledgerservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.SubmitTransactionResponseDTO{
		Success:       true,
		Message:       "Withdrawal request submitted",
		TransactionID: transaction.ID,
		Reference:     transaction.Reference,
	})
}

// GetTransactions godoc
//
//	@Summary		Get transaction history
//	@Description	Get the transaction history for the authenticated user, newest first
//	@Tags			Ledger
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.GetTransactionsResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/transactions [get]
func (h *LedgerHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(auth.UserIDKey).(int)

	transactions, err := h.ledgerService.GetTransactions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.GetTransactionsResponseDTO{
		Success:      true,
		Transactions: dto.NewTransactionDTOs(transactions),
	})
}
