package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
	"github.com/openmc/treasury/internal/middleware"
)

// SharedAccountService manages ownership and membership on shared accounts.
// When the provider has no shared-account support, every boolean operation
// answers false rather than failing: callers cannot tell "unsupported" from
// "not permitted", and must assume no.
type SharedAccountService struct {
	AccessRepository portsrepo.AccessRepository

	sharedSupport bool
}

// NewSharedAccountService creates the membership service.
func NewSharedAccountService(accessRepo portsrepo.AccessRepository, sharedSupport bool) *SharedAccountService {
	return &SharedAccountService{AccessRepository: accessRepo, sharedSupport: sharedSupport}
}

func (s *SharedAccountService) SetOwner(ctx context.Context, accountID, subjectID uuid.UUID) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.sharedSupport {
		return false, nil
	}
	if err := s.AccessRepository.SetOwner(ctx, accountID, subjectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		logger.Error("Failed to set account owner", slog.String("error", err.Error()), slog.String("account_id", accountID.String()))
		return false, err
	}

	logger.Info("Account owner changed", slog.String("account_id", accountID.String()), slog.String("owner", subjectID.String()))
	return true, nil
}

func (s *SharedAccountService) IsAccountOwner(ctx context.Context, accountID, subjectID uuid.UUID) (bool, error) {
	if !s.sharedSupport {
		return false, nil
	}
	owner, err := s.AccessRepository.Owner(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return owner == subjectID, nil
}

func (s *SharedAccountService) AddAccountMember(ctx context.Context, accountID, subjectID uuid.UUID, permissions ...domain.AccountPermission) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.sharedSupport {
		return false, nil
	}
	if len(permissions) == 0 {
		permissions = []domain.AccountPermission{domain.PermissionBalance, domain.PermissionDeposit, domain.PermissionWithdraw}
	}
	if err := s.AccessRepository.AddMember(ctx, accountID, subjectID, permissions...); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		logger.Error("Failed to add account member", slog.String("error", err.Error()), slog.String("account_id", accountID.String()))
		return false, err
	}

	logger.Info("Account member added", slog.String("account_id", accountID.String()), slog.String("subject_id", subjectID.String()))
	return true, nil
}

func (s *SharedAccountService) RemoveAccountMember(ctx context.Context, accountID, subjectID uuid.UUID) (bool, error) {
	if !s.sharedSupport {
		return false, nil
	}
	removed, err := s.AccessRepository.RemoveMember(ctx, accountID, subjectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return removed, nil
}

func (s *SharedAccountService) IsAccountMember(ctx context.Context, accountID, subjectID uuid.UUID) (bool, error) {
	if !s.sharedSupport {
		return false, nil
	}
	entries, err := s.AccessRepository.Entries(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	for _, entry := range entries {
		if entry.SubjectID == subjectID {
			return true, nil
		}
	}
	return false, nil
}

func (s *SharedAccountService) HasAccountPermission(ctx context.Context, accountID, subjectID uuid.UUID, permission domain.AccountPermission) (bool, error) {
	if !s.sharedSupport {
		return false, nil
	}
	allowed, err := s.AccessRepository.HasPermission(ctx, accountID, subjectID, permission)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return allowed, nil
}

func (s *SharedAccountService) UpdateAccountPermission(ctx context.Context, accountID, subjectID uuid.UUID, permission domain.AccountPermission, value bool) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.sharedSupport {
		return false, nil
	}
	if err := s.AccessRepository.UpdatePermission(ctx, accountID, subjectID, permission, value); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrValidation) {
			return false, nil
		}
		logger.Error("Failed to update account permission", slog.String("error", err.Error()), slog.String("account_id", accountID.String()))
		return false, err
	}

	logger.Info("Account permission updated", slog.String("account_id", accountID.String()), slog.String("subject_id", subjectID.String()), slog.String("permission", string(permission)), slog.Bool("value", value))
	return true, nil
}

func (s *SharedAccountService) AccountsWithAccessTo(ctx context.Context, subjectID uuid.UUID, permissions ...domain.AccountPermission) ([]uuid.UUID, error) {
	if !s.sharedSupport {
		return []uuid.UUID{}, nil
	}
	accounts, err := s.AccessRepository.AccountsWithAccessTo(ctx, subjectID, permissions...)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		return []uuid.UUID{}, nil
	}
	return accounts, nil
}

func (s *SharedAccountService) AccountsWithOwnerOf(ctx context.Context, subjectID uuid.UUID) ([]uuid.UUID, error) {
	return s.AccountsWithAccessTo(ctx, subjectID, domain.PermissionOwner)
}

func (s *SharedAccountService) AccountsWithMembershipTo(ctx context.Context, subjectID uuid.UUID) ([]uuid.UUID, error) {
	return s.AccountsWithAccessTo(ctx, subjectID, domain.PermissionBalance, domain.PermissionDeposit, domain.PermissionWithdraw)
}

func (s *SharedAccountService) AccessEntries(ctx context.Context, accountID uuid.UUID) ([]domain.AccessEntry, error) {
	if !s.sharedSupport {
		return []domain.AccessEntry{}, nil
	}
	entries, err := s.AccessRepository.Entries(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.AccessEntry{}, nil
		}
		return nil, err
	}
	return entries, nil
}
