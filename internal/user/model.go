package user

import "time"

type User struct {
	ID           uint
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Profile struct {
	UserID  uint   `json:"user_id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type RegisterParams struct {
	Email    string
	Password string
	Name     string
	Phone    string
}
