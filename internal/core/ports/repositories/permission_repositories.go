package repositories

import (
	"context"

	"github.com/openmc/treasury/internal/core/domain"
)

// PermissionRepository stores permission nodes in two layers per subject:
// persistent and transient. The transient layer lives for the process
// lifetime only and is never written to durable storage. Group membership and
// the group registry also live here; resolution order is the service's job.
type PermissionRepository interface {
	// PersistentNode reads the persistent layer for the exact
	// (context, subject, permission) triple. The boolean reports presence.
	PersistentNode(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string) (domain.TriState, bool, error)

	// TransientNode reads the transient layer for the exact triple.
	TransientNode(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string) (domain.TriState, bool, error)

	// SetPersistentNode writes the persistent layer for the exact triple.
	// Writing Undefined removes the node.
	SetPersistentNode(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) error

	// SetTransientNode writes the transient layer for the exact triple.
	// Writing Undefined removes the node.
	SetTransientNode(ctx context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) error

	// RegisterGroup appends a group to the registry. Registration order
	// defines group priority. Returns apperrors.ErrDuplicate if present.
	RegisterGroup(ctx context.Context, name string) error

	// Groups lists all registered groups in registration (priority) order.
	Groups(ctx context.Context) ([]string, error)

	// AddGroupMember adds the subject to the group within the exact context.
	// Returns false if the group is not registered.
	AddGroupMember(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error)

	// RemoveGroupMember removes the subject from the group within the exact
	// context. Returns false if the subject was not a member.
	RemoveGroupMember(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error)

	// GroupsOf lists the groups the subject belongs to within the exact
	// context, in group-priority order.
	GroupsOf(ctx context.Context, pctx domain.Context, subject domain.Subject) ([]string, error)

	// InGroup reports membership of the subject in the group within the
	// exact context.
	InGroup(ctx context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error)
}
