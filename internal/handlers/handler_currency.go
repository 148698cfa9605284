package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/openmc/treasury/internal/apperrors"
	portssvc "github.com/openmc/treasury/internal/core/ports/services"
	"github.com/openmc/treasury/internal/dto"
	"github.com/openmc/treasury/internal/middleware"
)

// currencyHandler handles HTTP requests related to currencies.
type currencyHandler struct {
	currencyService portssvc.CurrencySvcFacade
}

func newCurrencyHandler(cs portssvc.CurrencySvcFacade) *currencyHandler {
	return &currencyHandler{currencyService: cs}
}

// registerCurrencyRoutes registers routes related to currencies.
func registerCurrencyRoutes(rg *gin.RouterGroup, currencyService portssvc.CurrencySvcFacade) {
	h := newCurrencyHandler(currencyService)

	currencies := rg.Group("/currencies")
	{
		currencies.POST("", h.registerCurrency)
		currencies.GET("", h.listCurrencies)
		currencies.GET("/:identifier", h.getCurrency)
		currencies.GET("/:identifier/fractional-digits", h.getFractionalDigits)
	}
}

func (h *currencyHandler) registerCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RegisterCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to register currency", slog.String("identifier", req.Identifier))

	created, err := h.currencyService.RegisterCurrency(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Attempted to register duplicate currency", slog.String("identifier", req.Identifier))
			c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Currency '%s' already exists", req.Identifier)})
		case errors.Is(err, apperrors.ErrNotSupported):
			c.JSON(http.StatusNotImplemented, gin.H{"error": "This provider has no multi-currency support"})
		default:
			logger.Error("Failed to register currency in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register currency"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToCurrencyResponse(created))
}

func (h *currencyHandler) getCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	identifier := c.Param("identifier")

	currency, err := h.currencyService.GetCurrencyByIdentifier(c.Request.Context(), identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		} else {
			logger.Error("Failed to get currency from service", slog.String("error", err.Error()), slog.String("identifier", identifier))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve currency"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyResponse(currency))
}

func (h *currencyHandler) getFractionalDigits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	identifier := c.Param("identifier")

	digits, err := h.currencyService.FractionalDigits(c.Request.Context(), identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Currency not found"})
		} else {
			logger.Error("Failed to get fractional digits from service", slog.String("error", err.Error()), slog.String("identifier", identifier))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fractional digits"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"identifier": identifier, "fractionalDigits": digits})
}

func (h *currencyHandler) listCurrencies(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	currencies, err := h.currencyService.ListCurrencies(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list currencies from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list currencies"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListCurrencyResponse(currencies))
}
