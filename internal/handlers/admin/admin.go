package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/startrader/backend/internal/domain"
	"github.com/startrader/backend/internal/dto"
	"github.com/startrader/backend/internal/service/authservice"
	"github.com/startrader/backend/internal/service/ledgerservice"
	"github.com/startrader/backend/pkg/utils"
)

type UserService interface {
	GetUsers(ctx context.Context) ([]domain.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type LedgerService interface {
	SetBalance(ctx context.Context, userID int, balance float64) (float64, error)
	ReviewTransaction(ctx context.Context, transactionID int, newStatus string) (*domain.Transaction, error)
	GetAllTransactions(ctx context.Context) ([]domain.Transaction, error)
}

type AdminHandler struct {
	userService   UserService
	ledgerService LedgerService
}

func New(userService UserService, ledgerService LedgerService) *AdminHandler {
	return &AdminHandler{
		userService:   userService,
		ledgerService: ledgerService,
	}
}

// GetUsers godoc
//
//	@Summary		List all accounts
//	@Description	Get all registered accounts, newest first, credentials stripped
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.GetUsersResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin role required"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/users [get]
func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.GetUsers(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	response := make([]dto.UserDTO, len(users))
	for i, user := range users {
		user := user
		response[i] = dto.NewUserDTO(&user)
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.GetUsersResponseDTO{
		Success: true,
		Users:   response,
	})
}

// UpdateBalance godoc
//
//	@Summary		Override an account balance
//	@Description	Set the account balance to an exact value. The delta is recorded as a profit or loss transaction for traceability.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"User ID"
//	@Param			request	body		dto.UpdateBalanceRequestDTO	true	"New balance"
//	@Success		200		{object}	dto.UpdateBalanceResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid balance"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Admin role required"
//	@Failure		404		{object}	utils.Response	"User not found"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/users/{id}/balance [post]
func (h *AdminHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req dto.UpdateBalanceRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance, err := h.ledgerService.SetBalance(r.Context(), userID, req.Balance)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrNegativeBalance), errors.Is(err, ledgerservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ledgerservice.ErrUserNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.UpdateBalanceResponseDTO{
		Success: true,
		Message: "Balance updated successfully",
		Balance: balance,
	})
}

// DeleteUser godoc
//
//	@Summary		Delete an account
//	@Description	Delete an account and, via cascade, its transactions
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"User ID"
//	@Success		200	{object}	dto.MessageResponseDTO
//	@Failure		400	{object}	utils.Response	"Invalid user ID"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin role required"
//	@Failure		404	{object}	utils.Response	"User not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if err := h.userService.DeleteUser(r.Context(), userID); err != nil {
		if errors.Is(err, authservice.ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.MessageResponseDTO{
		Success: true,
		Message: "User deleted successfully",
	})
}

// GetTransactions godoc
//
//	@Summary		List all transactions
//	@Description	Get every transaction across all accounts, newest first
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.GetTransactionsResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin role required"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/transactions [get]
func (h *AdminHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.ledgerService.GetAllTransactions(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.GetTransactionsResponseDTO{
		Success:      true,
		Transactions: dto.NewTransactionDTOs(transactions),
	})
}

// UpdateTransactionStatus godoc
//
//	@Summary		Review a pending transaction
//	@Description	Approve (completed) or reject (failed) a pending transaction. Approving a deposit credits the balance; rejecting a withdrawal reinstates the reserved funds.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int									true	"Transaction ID"
//	@Param			request	body		dto.UpdateTransactionStatusRequestDTO	true	"Target status"
//	@Success		200		{object}	dto.MessageResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid target status"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		403		{object}	utils.Response	"Admin role required"
//	@Failure		404		{object}	utils.Response	"Transaction not found"
//	@Failure		409		{object}	utils.Response	"Transaction already processed"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/transactions/{id}/status [post]
func (h *AdminHandler) UpdateTransactionStatus(w http.ResponseWriter, r *http.Request) {
	transactionID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid transaction ID")
		return
	}

	var req dto.UpdateTransactionStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err = h.ledgerService.ReviewTransaction(r.Context(), transactionID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ledgerservice.ErrInvalidStatus):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ledgerservice.ErrTransactionNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Transaction not found")
		case errors.Is(err, ledgerservice.ErrAlreadyProcessed):
			utils.RespondWithError(w, http.StatusConflict, "Transaction already processed")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.MessageResponseDTO{
		Success: true,
		Message: "Transaction status updated successfully",
	})
}
