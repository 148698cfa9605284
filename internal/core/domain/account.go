package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account is a ledger account. Player is immutable after creation; Name is
// the last-known display name and may be updated. Balances live per
// (world, currency) pair and materialize lazily at zero on first touch.
type Account struct {
	AccountID uuid.UUID `json:"accountID"`
	Name      string    `json:"name"`
	Player    bool      `json:"player"`
	CreatedAt time.Time `json:"createdAt"`
}

// BalanceKey identifies one balance cell of an account. World and Currency
// are already resolved to their effective values (never empty).
type BalanceKey struct {
	AccountID uuid.UUID
	World     string
	Currency  string
}
