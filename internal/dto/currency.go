package dto

import (
	"github.com/openmc/treasury/internal/core/domain"
)

// RegisterCurrencyRequest defines the data needed to register a new currency.
type RegisterCurrencyRequest struct {
	Identifier   string `json:"identifier" binding:"required"`
	NameSingular string `json:"nameSingular" binding:"required"`
	NamePlural   string `json:"namePlural" binding:"required"`
	Symbol       string `json:"symbol"`
	// FractionalDigits is optional; nil falls back to the provider's
	// configured rounding policy. -1 disables rounding for this currency.
	FractionalDigits *int `json:"fractionalDigits"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	Identifier       string `json:"identifier"`
	NameSingular     string `json:"nameSingular"`
	NamePlural       string `json:"namePlural"`
	Symbol           string `json:"symbol"`
	FractionalDigits int    `json:"fractionalDigits"`
	IsDefault        bool   `json:"isDefault"`
}

// ToCurrencyResponse converts a domain.Currency to CurrencyResponse DTO.
func ToCurrencyResponse(curr *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		Identifier:       curr.Identifier,
		NameSingular:     curr.NameSingular,
		NamePlural:       curr.NamePlural,
		Symbol:           curr.Symbol,
		FractionalDigits: curr.FractionalDigits,
		IsDefault:        curr.IsDefault,
	}
}

// ToListCurrencyResponse converts a slice of domain.Currency to DTOs.
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	res := make([]CurrencyResponse, len(currencies))
	for i, curr := range currencies {
		res[i] = ToCurrencyResponse(&curr)
	}
	return res
}
