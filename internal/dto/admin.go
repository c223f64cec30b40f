package dto

type UpdateBalanceRequestDTO struct {
	Balance float64 `json:"balance" example:"1000"`
}

type UpdateBalanceResponseDTO struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Balance float64 `json:"balance"`
}

type UpdateTransactionStatusRequestDTO struct {
	Status string `json:"status" example:"completed"`
}

type MessageResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type GetUsersResponseDTO struct {
	Success bool      `json:"success"`
	Users   []UserDTO `json:"users"`
}
