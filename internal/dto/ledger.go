package dto

import (
	"time"

	"github.com/startrader/backend/internal/domain"
)

type DepositRequestDTO struct {
	Amount        float64 `json:"amount" example:"100"`
	PaymentMethod string  `json:"payment_method" example:"card"`
}

type WithdrawRequestDTO struct {
	Amount         float64 `json:"amount" example:"50"`
	WithdrawMethod string  `json:"withdraw_method" example:"bank"`
	AccountDetails string  `json:"account_details" example:"4561261212345467"`
}

type SubmitTransactionResponseDTO struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID int    `json:"transaction_id"`
	Reference     string `json:"reference"`
}

type TransactionDTO struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Type        string    `json:"type" example:"deposit"`
	Amount      float64   `json:"amount" example:"100"`
	Status      string    `json:"status" example:"pending"`
	Reference   string    `json:"reference" example:"DEP1733745597123"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

type GetTransactionsResponseDTO struct {
	Success      bool             `json:"success"`
	Transactions []TransactionDTO `json:"transactions"`
}

func NewTransactionDTO(transaction *domain.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          transaction.ID,
		UserID:      transaction.UserID,
		Type:        transaction.Type,
		Amount:      transaction.Amount,
		Status:      transaction.Status,
		Reference:   transaction.Reference,
		Description: transaction.Description,
		CreatedAt:   transaction.CreatedAt,
	}
}

func NewTransactionDTOs(transactions []domain.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(transactions))
	for i, transaction := range transactions {
		transaction := transaction
		dtos[i] = NewTransactionDTO(&transaction)
	}
	return dtos
}
