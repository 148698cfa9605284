package domain

// Currency represents a registered currency. Currencies are immutable once
// registered; exactly one is marked as the provider default.
type Currency struct {
	Identifier   string `json:"identifier"` // Primary key (e.g. "coins")
	NameSingular string `json:"nameSingular"`
	NamePlural   string `json:"namePlural"`
	Symbol       string `json:"symbol"`
	// FractionalDigits is the rounding policy for amounts in this currency.
	// -1 means unbounded (the provider does not round).
	FractionalDigits int  `json:"fractionalDigits"`
	IsDefault        bool `json:"isDefault"`
	AuditFields
}
