package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
	"github.com/openmc/treasury/internal/dto"
	"github.com/openmc/treasury/internal/middleware"
)

// CurrencyService is the currency registry. Resolve implements the single
// central fallback rule every ledger operation relies on: an absent currency,
// or any currency on a provider without multi-currency support, maps to the
// default.
type CurrencyService struct {
	CurrencyRepository portsrepo.CurrencyRepository

	multiCurrency    bool
	fractionalDigits int
}

// NewCurrencyService creates the registry service. fractionalDigits is the
// policy applied to currencies registered without an explicit one.
func NewCurrencyService(repo portsrepo.CurrencyRepository, multiCurrency bool, fractionalDigits int) *CurrencyService {
	return &CurrencyService{
		CurrencyRepository: repo,
		multiCurrency:      multiCurrency,
		fractionalDigits:   fractionalDigits,
	}
}

func (s *CurrencyService) RegisterCurrency(ctx context.Context, req dto.RegisterCurrencyRequest) (*domain.Currency, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.multiCurrency {
		logger.Warn("Currency registration rejected: no multi-currency support", slog.String("identifier", req.Identifier))
		return nil, apperrors.ErrNotSupported
	}

	digits := s.fractionalDigits
	if req.FractionalDigits != nil {
		digits = *req.FractionalDigits
	}

	now := time.Now()
	currency := domain.Currency{
		Identifier:       req.Identifier,
		NameSingular:     req.NameSingular,
		NamePlural:       req.NamePlural,
		Symbol:           req.Symbol,
		FractionalDigits: digits,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.CurrencyRepository.SaveCurrency(ctx, currency); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to save currency in repository", slog.String("error", err.Error()), slog.String("identifier", req.Identifier))
		}
		return nil, err
	}

	logger.Info("Currency registered successfully", slog.String("identifier", currency.Identifier))
	return &currency, nil
}

func (s *CurrencyService) GetCurrencyByIdentifier(ctx context.Context, identifier string) (*domain.Currency, error) {
	currency, err := s.CurrencyRepository.FindCurrencyByIdentifier(ctx, identifier)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find currency in repository", slog.String("error", err.Error()), slog.String("identifier", identifier))
		}
		return nil, err
	}
	return currency, nil
}

func (s *CurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.CurrencyRepository.ListCurrencies(ctx)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list currencies from repository", slog.String("error", err.Error()))
		return nil, err
	}
	if currencies == nil {
		return []domain.Currency{}, nil
	}
	return currencies, nil
}

func (s *CurrencyService) DefaultCurrency(ctx context.Context) (*domain.Currency, error) {
	return s.CurrencyRepository.DefaultCurrency(ctx)
}

func (s *CurrencyService) HasCurrency(ctx context.Context, identifier string) (bool, error) {
	_, err := s.CurrencyRepository.FindCurrencyByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Resolve maps an optional currency identifier to the effective currency.
// The empty identifier and every identifier on a single-currency provider
// resolve to the default; anything else must name a registered currency.
func (s *CurrencyService) Resolve(ctx context.Context, identifier string) (*domain.Currency, error) {
	if identifier == "" || !s.multiCurrency {
		return s.CurrencyRepository.DefaultCurrency(ctx)
	}
	return s.GetCurrencyByIdentifier(ctx, identifier)
}

func (s *CurrencyService) FractionalDigits(ctx context.Context, identifier string) (int, error) {
	currency, err := s.Resolve(ctx, identifier)
	if err != nil {
		return -1, err
	}
	return currency.FractionalDigits, nil
}
