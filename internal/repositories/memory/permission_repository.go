package memory

import (
	"context"
	"sync"

	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
	portsrepo "github.com/openmc/treasury/internal/core/ports/repositories"
)

// subjectNode holds one subject's permission layers and group memberships.
// Node keys combine the canonical context key with the permission string;
// membership is kept per context key.
type subjectNode struct {
	persistent map[string]domain.TriState
	transient  map[string]domain.TriState
	groups     map[string]map[string]struct{}
}

func newSubjectNode() *subjectNode {
	return &subjectNode{
		persistent: make(map[string]domain.TriState),
		transient:  make(map[string]domain.TriState),
		groups:     make(map[string]map[string]struct{}),
	}
}

// PermissionRepository is the in-memory permission node store. Lookups are
// read-heavy, so a single RWMutex over the whole store keeps checks O(1)
// without per-subject locking.
type PermissionRepository struct {
	mu       sync.RWMutex
	subjects map[string]*subjectNode
	order    []string
	groups   map[string]struct{}
}

// NewPermissionRepository creates an empty permission store.
func NewPermissionRepository() *PermissionRepository {
	return &PermissionRepository{
		subjects: make(map[string]*subjectNode),
		groups:   make(map[string]struct{}),
	}
}

func nodeKey(pctx domain.Context, permission string) string {
	return pctx.Key() + "\x00" + permission
}

func (r *PermissionRepository) PersistentNode(_ context.Context, pctx domain.Context, subject domain.Subject, permission string) (domain.TriState, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.subjects[subject.Key()]
	if !ok {
		return domain.Undefined, false, nil
	}
	v, ok := node.persistent[nodeKey(pctx, permission)]
	return v, ok, nil
}

func (r *PermissionRepository) TransientNode(_ context.Context, pctx domain.Context, subject domain.Subject, permission string) (domain.TriState, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.subjects[subject.Key()]
	if !ok {
		return domain.Undefined, false, nil
	}
	v, ok := node.transient[nodeKey(pctx, permission)]
	return v, ok, nil
}

func (r *PermissionRepository) SetPersistentNode(_ context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.subject(subject)
	if value == domain.Undefined {
		delete(node.persistent, nodeKey(pctx, permission))
		return nil
	}
	node.persistent[nodeKey(pctx, permission)] = value
	return nil
}

func (r *PermissionRepository) SetTransientNode(_ context.Context, pctx domain.Context, subject domain.Subject, permission string, value domain.TriState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	node := r.subject(subject)
	if value == domain.Undefined {
		delete(node.transient, nodeKey(pctx, permission))
		return nil
	}
	node.transient[nodeKey(pctx, permission)] = value
	return nil
}

func (r *PermissionRepository) RegisterGroup(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.groups[name]; exists {
		return apperrors.ErrDuplicate
	}
	r.groups[name] = struct{}{}
	r.order = append(r.order, name)
	return nil
}

func (r *PermissionRepository) Groups(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out, nil
}

func (r *PermissionRepository) AddGroupMember(_ context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, registered := r.groups[group]; !registered {
		return false, nil
	}
	node := r.subject(subject)
	members, ok := node.groups[pctx.Key()]
	if !ok {
		members = make(map[string]struct{})
		node.groups[pctx.Key()] = members
	}
	members[group] = struct{}{}
	return true, nil
}

func (r *PermissionRepository) RemoveGroupMember(_ context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	node, ok := r.subjects[subject.Key()]
	if !ok {
		return false, nil
	}
	members, ok := node.groups[pctx.Key()]
	if !ok {
		return false, nil
	}
	if _, member := members[group]; !member {
		return false, nil
	}
	delete(members, group)
	return true, nil
}

// GroupsOf returns memberships in group-priority order: the registry's
// registration order, ties impossible by construction.
func (r *PermissionRepository) GroupsOf(_ context.Context, pctx domain.Context, subject domain.Subject) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.subjects[subject.Key()]
	if !ok {
		return nil, nil
	}
	members, ok := node.groups[pctx.Key()]
	if !ok {
		return nil, nil
	}
	var out []string
	for _, group := range r.order {
		if _, member := members[group]; member {
			out = append(out, group)
		}
	}
	return out, nil
}

func (r *PermissionRepository) InGroup(_ context.Context, pctx domain.Context, subject domain.Subject, group string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	node, ok := r.subjects[subject.Key()]
	if !ok {
		return false, nil
	}
	members, ok := node.groups[pctx.Key()]
	if !ok {
		return false, nil
	}
	_, member := members[group]
	return member, nil
}

// subject returns the node for the subject, creating it on first touch.
// Callers must hold the write lock.
func (r *PermissionRepository) subject(subject domain.Subject) *subjectNode {
	node, ok := r.subjects[subject.Key()]
	if !ok {
		node = newSubjectNode()
		r.subjects[subject.Key()] = node
	}
	return node
}

var _ portsrepo.PermissionRepository = (*PermissionRepository)(nil)
