package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
	"github.com/openmc/treasury/internal/middleware"
)

// PermissionService is the context-scoped tri-state resolver. Resolution
// layers, in order: the subject's transient nodes, its persistent nodes, the
// same two layers against the global context (GLOBAL_FALLBACK only), then
// the subject's groups in priority order. Writes always target the exact
// (context, subject) pair; only reads walk the fallback chain.
type PermissionService struct {
	PermissionRepository portsrepo.PermissionRepository
}

// NewPermissionService creates the resolver.
func NewPermissionService(repo portsrepo.PermissionRepository) *PermissionService {
	return &PermissionService{PermissionRepository: repo}
}

func (s *PermissionService) Has(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string) (domain.TriState, error) {
	// Direct layers at the exact context.
	if v, ok, err := s.layers(ctx, pctx, subject, permission); err != nil || ok {
		return v, err
	}

	fallback := pctx.LookupMode() == domain.LookupGlobalFallback && !pctx.IsGlobal()
	if fallback {
		if v, ok, err := s.layers(ctx, domain.Global, subject, permission); err != nil || ok {
			return v, err
		}
	}

	// Group chain: first definitive answer wins, in registry priority order.
	groups, err := s.effectiveGroups(ctx, pctx, subject, fallback)
	if err != nil {
		return domain.Undefined, err
	}
	for _, group := range groups {
		v, err := s.resolveGroupNode(ctx, pctx, group, permission, fallback)
		if err != nil {
			return domain.Undefined, err
		}
		if v.Defined() {
			return v, nil
		}
	}

	return domain.Undefined, nil
}

func (s *PermissionService) HasAsync(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string) <-chan domain.TriState {
	ch := make(chan domain.TriState, 1)
	go func() {
		defer close(ch)
		v, err := s.Has(ctx, pctx, subject, permission)
		if err != nil {
			ch <- domain.Undefined
			return
		}
		ch <- v
	}()
	return ch
}

func (s *PermissionService) SetPermission(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.PermissionRepository.SetPersistentNode(ctx, pctx, subject, permission, value); err != nil {
		logger.Error("Failed to set permission node", slog.String("error", err.Error()), slog.String("subject", subject.Identifier), slog.String("permission", permission))
		return false, err
	}
	logger.Info("Permission node set", slog.String("subject", subject.Identifier), slog.String("permission", permission), slog.String("value", string(value)))
	return true, nil
}

func (s *PermissionService) SetPermissionAsync(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) <-chan bool {
	ch := make(chan bool, 1)
	go func() {
		defer close(ch)
		ok, _ := s.SetPermission(ctx, pctx, subject, permission, value)
		ch <- ok
	}()
	return ch
}

func (s *PermissionService) SetTransientPermission(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.PermissionRepository.SetTransientNode(ctx, pctx, subject, permission, value); err != nil {
		logger.Error("Failed to set transient permission node", slog.String("error", err.Error()), slog.String("subject", subject.Identifier), slog.String("permission", permission))
		return false, err
	}
	logger.Debug("Transient permission node set", slog.String("subject", subject.Identifier), slog.String("permission", permission), slog.String("value", string(value)))
	return true, nil
}

func (s *PermissionService) SetTransientPermissionAsync(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) <-chan bool {
	ch := make(chan bool, 1)
	go func() {
		defer close(ch)
		ok, _ := s.SetTransientPermission(ctx, pctx, subject, permission, value)
		ch <- ok
	}()
	return ch
}

// --- Groups ---

func (s *PermissionService) RegisterGroup(ctx context.Context, name string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.PermissionRepository.RegisterGroup(ctx, name); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			logger.Error("Failed to register group", slog.String("error", err.Error()), slog.String("group", name))
		}
		return err
	}
	logger.Info("Group registered", slog.String("group", name))
	return nil
}

func (s *PermissionService) Groups(ctx context.Context) ([]string, error) {
	return s.PermissionRepository.Groups(ctx)
}

func (s *PermissionService) GroupsOf(ctx context.Context, pctx domain.Context, subject domain.Subject) ([]string, error) {
	fallback := pctx.LookupMode() == domain.LookupGlobalFallback && !pctx.IsGlobal()
	return s.effectiveGroups(ctx, pctx, subject, fallback)
}

func (s *PermissionService) PrimaryGroup(ctx context.Context, pctx domain.Context, subject domain.Subject) (string, error) {
	groups, err := s.GroupsOf(ctx, pctx, subject)
	if err != nil {
		return "", err
	}
	if len(groups) == 0 {
		return "", nil
	}
	return groups[0], nil
}

func (s *PermissionService) InGroup(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error) {
	member, err := s.PermissionRepository.InGroup(ctx, pctx, subject, group)
	if err != nil || member {
		return member, err
	}
	if pctx.LookupMode() == domain.LookupGlobalFallback && !pctx.IsGlobal() {
		return s.PermissionRepository.InGroup(ctx, domain.Global, subject, group)
	}
	return false, nil
}

func (s *PermissionService) AddGroup(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	added, err := s.PermissionRepository.AddGroupMember(ctx, pctx, subject, group)
	if err != nil {
		logger.Error("Failed to add group member", slog.String("error", err.Error()), slog.String("group", group), slog.String("subject", subject.Identifier))
		return false, err
	}
	if added {
		logger.Info("Group member added", slog.String("group", group), slog.String("subject", subject.Identifier))
	}
	return added, nil
}

func (s *PermissionService) RemoveGroup(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error) {
	return s.PermissionRepository.RemoveGroupMember(ctx, pctx, subject, group)
}

func (s *PermissionService) GroupHas(ctx context.Context, pctx domain.Context, group, permission string) (domain.TriState, error) {
	fallback := pctx.LookupMode() == domain.LookupGlobalFallback && !pctx.IsGlobal()
	return s.resolveGroupNode(ctx, pctx, group, permission, fallback)
}

func (s *PermissionService) GroupSetPermission(ctx context.Context, pctx domain.Context, group, permission string, value domain.TriState) (bool, error) {
	return s.SetPermission(ctx, pctx, domain.GroupSubject(group), permission, value)
}

func (s *PermissionService) GroupSetTransientPermission(ctx context.Context, pctx domain.Context, group, permission string, value domain.TriState) (bool, error) {
	return s.SetTransientPermission(ctx, pctx, domain.GroupSubject(group), permission, value)
}

// --- Internal helpers ---

// layers reads the transient layer, then the persistent layer, for the exact
// context. The transient layer always shadows the persistent one.
func (s *PermissionService) layers(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string) (domain.TriState, bool, error) {
	if v, ok, err := s.PermissionRepository.TransientNode(ctx, pctx, subject, permission); err != nil || ok {
		return v, ok, err
	}
	return s.PermissionRepository.PersistentNode(ctx, pctx, subject, permission)
}

// effectiveGroups merges exact-context and (when falling back) global-context
// memberships. GroupsOf already yields each list in registry priority order;
// a merge only needs reordering when both lists contribute.
func (s *PermissionService) effectiveGroups(ctx context.Context, pctx domain.Context, subject domain.Subject, fallback bool) ([]string, error) {
	exact, err := s.PermissionRepository.GroupsOf(ctx, pctx, subject)
	if err != nil {
		return nil, err
	}
	if !fallback {
		return exact, nil
	}

	global, err := s.PermissionRepository.GroupsOf(ctx, domain.Global, subject)
	if err != nil {
		return nil, err
	}
	if len(global) == 0 {
		return exact, nil
	}
	if len(exact) == 0 {
		return global, nil
	}

	member := make(map[string]struct{}, len(exact)+len(global))
	for _, group := range exact {
		member[group] = struct{}{}
	}
	for _, group := range global {
		member[group] = struct{}{}
	}

	registered, err := s.PermissionRepository.Groups(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(member))
	for _, group := range registered {
		if _, ok := member[group]; ok {
			out = append(out, group)
		}
	}
	return out, nil
}

// resolveGroupNode resolves a permission against one group's own layers,
// honoring the caller's fallback policy but never chaining into further
// groups.
func (s *PermissionService) resolveGroupNode(ctx context.Context, pctx domain.Context, group, permission string, fallback bool) (domain.TriState, error) {
	subject := domain.GroupSubject(group)
	if v, ok, err := s.layers(ctx, pctx, subject, permission); err != nil || ok {
		return v, err
	}
	if fallback {
		if v, ok, err := s.layers(ctx, domain.Global, subject, permission); err != nil || ok {
			return v, err
		}
	}
	return domain.Undefined, nil
}
