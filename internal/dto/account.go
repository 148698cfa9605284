package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountID uuid.UUID `json:"accountID" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	Player    bool      `json:"player"`
}

// CreateSharedAccountRequest defines the data needed to create a shared
// (non-player) account with an initial owner.
type CreateSharedAccountRequest struct {
	AccountID uuid.UUID `json:"accountID" binding:"required"`
	Name      string    `json:"name" binding:"required"`
	Owner     uuid.UUID `json:"owner" binding:"required"`
}

// RenameAccountRequest updates the last-known display name of an account.
type RenameAccountRequest struct {
	Name string `json:"name" binding:"required"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID uuid.UUID `json:"accountID"`
	Name      string    `json:"name"`
	Player    bool      `json:"player"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		Name:      acc.Name,
		Player:    acc.Player,
		CreatedAt: acc.CreatedAt,
	}
}
