package models

import "time"

// User represents a user in the system
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Not serialized
	TelegramChat int64     `json:"telegramChat,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
