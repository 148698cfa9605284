package services

import (
	"context"

	"github.com/openmc/treasury/internal/core/domain"
)

// PermissionResolverSvc defines tri-state permission resolution. Lookup
// order: transient node, persistent node, the same pair against the global
// context (GLOBAL_FALLBACK contexts only), then group-derived nodes in
// priority order; Undefined when nothing resolves.
type PermissionResolverSvc interface {
	Has(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string) (domain.TriState, error)
	HasAsync(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string) <-chan domain.TriState

	// SetPermission writes a persistent node for the exact (context, subject)
	// pair named; writes never travel through the fallback chain.
	SetPermission(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) (bool, error)
	SetPermissionAsync(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) <-chan bool

	// SetTransientPermission writes a transient node: process lifetime only,
	// shadows the persistent layer for the same key.
	SetTransientPermission(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) (bool, error)
	SetTransientPermissionAsync(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) <-chan bool
}

// GroupSvc defines group registry, membership, and group-node operations.
type GroupSvc interface {
	// RegisterGroup appends a group to the registry; registration order
	// defines priority.
	RegisterGroup(ctx context.Context, name string) error

	// Groups lists all registered groups in priority order.
	Groups(ctx context.Context) ([]string, error)

	// GroupsOf lists the groups the subject belongs to in the effective
	// context, in priority order.
	GroupsOf(ctx context.Context, pctx domain.Context, subject domain.Subject) ([]string, error)

	// PrimaryGroup returns the highest-priority group the subject belongs to,
	// or the empty string.
	PrimaryGroup(ctx context.Context, pctx domain.Context, subject domain.Subject) (string, error)

	// InGroup reports membership in the effective context.
	InGroup(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error)

	// AddGroup adds the subject to the group within the exact context.
	AddGroup(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error)

	// RemoveGroup removes the subject from the group within the exact context.
	RemoveGroup(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error)

	// GroupHas resolves a permission against the group's own nodes.
	GroupHas(ctx context.Context, pctx domain.Context, group, permission string) (domain.TriState, error)

	// GroupSetPermission writes a persistent node for the group.
	GroupSetPermission(ctx context.Context, pctx domain.Context, group, permission string, value domain.TriState) (bool, error)

	// GroupSetTransientPermission writes a transient node for the group.
	GroupSetTransientPermission(ctx context.Context, pctx domain.Context, group, permission string, value domain.TriState) (bool, error)
}

// PermissionSvcFacade combines resolver and group service interfaces.
type PermissionSvcFacade interface {
	PermissionResolverSvc
	GroupSvc
}
