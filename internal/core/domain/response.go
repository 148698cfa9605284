package domain

import "github.com/shopspring/decimal"

// ResponseType classifies the outcome of a ledger operation.
type ResponseType string

const (
	ResponseSuccess        ResponseType = "SUCCESS"
	ResponseFailure        ResponseType = "FAILURE"
	ResponseNotImplemented ResponseType = "NOT_IMPLEMENTED"
	ResponseNotSupported   ResponseType = "NOT_SUPPORTED"
)

// EconomyResponse is the structured result of every mutating ledger call.
// Ledger failures travel here as ResponseType + message, never as Go errors
// crossing the service boundary.
type EconomyResponse struct {
	// Amount is the amount the operation actually applied (zero on failure).
	Amount decimal.Decimal `json:"amount"`
	// Balance is the account balance after the operation completed, or the
	// unchanged balance on failure when it is known.
	Balance      decimal.Decimal `json:"balance"`
	Type         ResponseType    `json:"type"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

// Success reports whether the operation applied.
func (r EconomyResponse) Success() bool {
	return r.Type == ResponseSuccess
}

// SuccessResponse builds a SUCCESS response with the applied amount and the
// resulting balance.
func SuccessResponse(amount, balance decimal.Decimal) EconomyResponse {
	return EconomyResponse{Amount: amount, Balance: balance, Type: ResponseSuccess}
}

// FailureResponse builds a FAILURE response. balance carries the unchanged
// balance when known, zero otherwise.
func FailureResponse(balance decimal.Decimal, message string) EconomyResponse {
	return EconomyResponse{Balance: balance, Type: ResponseFailure, ErrorMessage: message}
}

// NotImplementedResponse marks an optional extension point the provider does
// not implement.
func NotImplementedResponse(message string) EconomyResponse {
	return EconomyResponse{Type: ResponseNotImplemented, ErrorMessage: message}
}

// NotSupportedResponse marks a feature the provider does not support.
func NotSupportedResponse(message string) EconomyResponse {
	return EconomyResponse{Type: ResponseNotSupported, ErrorMessage: message}
}
