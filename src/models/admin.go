package models

import (
	"time"

	"github.com/google/uuid"
)

// Admin represents a market operator account. An admin owns zero or more
// shops; every shop operation is scoped to the owning admin.
type Admin struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"` // never expose
	MarketName   string     `json:"marketName"`
	TotalShops   int        `json:"totalShops"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
}
