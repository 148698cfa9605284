package dto

import (
	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceScope carries the optional world/currency scoping of a ledger call.
// Empty fields resolve to the provider's defaults, centrally, in the services.
type BalanceScope struct {
	World    string `json:"world" form:"world"`
	Currency string `json:"currency" form:"currency"`
}

// TransactionRequest defines a deposit, withdrawal, or set operation against
// one account balance. Initiator is the acting subject for shared-account
// permission checks; nil means a server-level call that bypasses them.
type TransactionRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	World     string          `json:"world"`
	Currency  string          `json:"currency"`
	Initiator *uuid.UUID      `json:"initiator"`
}

// Scope extracts the balance scope of the transaction.
func (r TransactionRequest) Scope() BalanceScope {
	return BalanceScope{World: r.World, Currency: r.Currency}
}

// EconomyResponseDTO mirrors domain.EconomyResponse on the wire.
type EconomyResponseDTO struct {
	Amount       decimal.Decimal     `json:"amount"`
	Balance      decimal.Decimal     `json:"balance"`
	Type         domain.ResponseType `json:"type"`
	ErrorMessage string              `json:"errorMessage,omitempty"`
}

// ToEconomyResponseDTO converts a domain.EconomyResponse to its DTO.
func ToEconomyResponseDTO(resp domain.EconomyResponse) EconomyResponseDTO {
	return EconomyResponseDTO{
		Amount:       resp.Amount,
		Balance:      resp.Balance,
		Type:         resp.Type,
		ErrorMessage: resp.ErrorMessage,
	}
}

// BalanceResponse defines the data returned for a balance query.
type BalanceResponse struct {
	AccountID uuid.UUID       `json:"accountID"`
	World     string          `json:"world"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
}
