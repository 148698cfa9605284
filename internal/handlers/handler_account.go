package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/apperrors"
	portssvc "github.com/openmc/treasury/internal/core/ports/services"
	"github.com/openmc/treasury/internal/dto"
	"github.com/openmc/treasury/internal/middleware"
	"github.com/shopspring/decimal"
)

// accountHandler handles HTTP requests for account lifecycle and balances.
type accountHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newAccountHandler(ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{ledgerService: ls}
}

// registerAccountRoutes registers routes related to accounts and the ledger.
func registerAccountRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newAccountHandler(ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.POST("/shared", h.createSharedAccount)
		accounts.GET("", h.listAccountNames)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PUT("/:accountID/name", h.renameAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)

		accounts.GET("/:accountID/balance", h.getBalance)
		accounts.GET("/:accountID/funds", h.hasFunds)
		accounts.GET("/:accountID/supports", h.supportsCurrency)

		accounts.POST("/:accountID/deposit", h.deposit)
		accounts.POST("/:accountID/withdraw", h.withdraw)
		accounts.POST("/:accountID/set", h.setBalance)
		accounts.POST("/:accountID/can-accept", h.canAccept)
	}
}

// parseAccountID extracts and validates the accountID path parameter. It
// writes the 400 response itself so callers can simply return on !ok.
func parseAccountID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("accountID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.ledgerService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Account already exists"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account data"})
		default:
			logger.Error("Failed to create account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) createSharedAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSharedAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.ledgerService.CreateSharedAccount(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, gin.H{"error": "Account already exists"})
		case errors.Is(err, apperrors.ErrNotSupported):
			c.JSON(http.StatusNotImplemented, gin.H{"error": "This provider has no shared-account support"})
		default:
			logger.Error("Failed to create shared account in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shared account"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	account, err := h.ledgerService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve account"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccountNames(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	names, err := h.ledgerService.UUIDNameMap(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list account names", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}

	out := make(map[string]string, len(names))
	for id, name := range names {
		out[id.String()] = name
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

func (h *accountHandler) renameAccount(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	var req dto.RenameAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if err := h.ledgerService.RenameAccount(c.Request.Context(), accountID, req.Name); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rename account"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account renamed"})
}

func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteAccount(c.Request.Context(), accountID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		case errors.Is(err, apperrors.ErrAccountShared):
			c.JSON(http.StatusConflict, gin.H{"error": "Account is shared with other subjects and cannot be deleted"})
		default:
			logger.Error("Failed to delete account", slog.String("error", err.Error()), slog.String("account_id", accountID.String()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *accountHandler) getBalance(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	var scope dto.BalanceScope
	if err := c.ShouldBindQuery(&scope); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	balance, err := h.ledgerService.Balance(c.Request.Context(), accountID, scope)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account or currency not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve balance"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{
		AccountID: accountID,
		World:     scope.World,
		Currency:  scope.Currency,
		Balance:   balance,
	})
}

func (h *accountHandler) hasFunds(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
		return
	}
	scope := dto.BalanceScope{World: c.Query("world"), Currency: c.Query("currency")}

	enough, err := h.ledgerService.HasFunds(c.Request.Context(), accountID, scope, amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account or currency not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check funds"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"hasFunds": enough})
}

func (h *accountHandler) supportsCurrency(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	supported, err := h.ledgerService.AccountSupportsCurrency(c.Request.Context(), accountID, c.Query("currency"), c.Query("world"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check currency support"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"supported": supported})
}

// bindTransaction binds the shared transaction request body, writing the 400
// response itself on failure.
func bindTransaction(c *gin.Context) (dto.TransactionRequest, bool) {
	var req dto.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return req, false
	}
	return req, true
}

func (h *accountHandler) deposit(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	req, ok := bindTransaction(c)
	if !ok {
		return
	}

	resp := h.ledgerService.Deposit(c.Request.Context(), req.Initiator, accountID, req.Scope(), req.Amount)
	c.JSON(http.StatusOK, dto.ToEconomyResponseDTO(resp))
}

func (h *accountHandler) withdraw(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	req, ok := bindTransaction(c)
	if !ok {
		return
	}

	resp := h.ledgerService.Withdraw(c.Request.Context(), req.Initiator, accountID, req.Scope(), req.Amount)
	c.JSON(http.StatusOK, dto.ToEconomyResponseDTO(resp))
}

func (h *accountHandler) setBalance(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	req, ok := bindTransaction(c)
	if !ok {
		return
	}

	resp := h.ledgerService.Set(c.Request.Context(), req.Initiator, accountID, req.Scope(), req.Amount)
	c.JSON(http.StatusOK, dto.ToEconomyResponseDTO(resp))
}

func (h *accountHandler) canAccept(c *gin.Context) {
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}
	req, ok := bindTransaction(c)
	if !ok {
		return
	}

	resp := h.ledgerService.CanAccept(c.Request.Context(), accountID, req.Scope(), req.Amount)
	c.JSON(http.StatusOK, dto.ToEconomyResponseDTO(resp))
}
