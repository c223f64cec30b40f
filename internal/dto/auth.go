package dto

import (
	"time"

	"github.com/startrader/backend/internal/domain"
)

type RegisterRequestDTO struct {
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type RegisterResponseDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  int    `json:"user_id"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginResponseDTO struct {
	Success bool    `json:"success"`
	User    UserDTO `json:"user"`
}

type GetUserResponseDTO struct {
	Success bool    `json:"success"`
	User    UserDTO `json:"user"`
}

// UserDTO is the account summary: the password hash never leaves the server.
type UserDTO struct {
	ID        int       `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Balance   float64   `json:"balance" example:"500.5"`
	Role      string    `json:"role" example:"user"`
	Status    string    `json:"status" example:"active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserDTO(user *domain.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		FullName:  user.FullName,
		Email:     user.Email,
		Balance:   user.Balance,
		Role:      user.Role,
		Status:    user.Status,
		CreatedAt: user.CreatedAt,
	}
}
