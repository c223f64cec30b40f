package domain

import "time"

type User struct {
	ID           int       `db:"id"`
	FullName     string    `db:"full_name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Balance      float64   `db:"balance"`
	Role         string    `db:"role"`
	Status       string    `db:"status"`
	CreatedAt    time.Time `db:"created_at"`
}

type Transaction struct {
	ID          int        `db:"id"`
	UserID      int        `db:"user_id"`
	Type        string     `db:"type"`
	Amount      float64    `db:"amount"`
	Status      string     `db:"status"`
	Reference   string     `db:"reference"`
	Description string     `db:"description"`
	NotifiedAt  *time.Time `db:"notified_at"`
	CreatedAt   time.Time  `db:"created_at"`
}
