package dto

import (
	"github.com/openmc/treasury/internal/apperrors"
	"github.com/openmc/treasury/internal/core/domain"
)

// SubjectDTO identifies a permission subject on the wire.
type SubjectDTO struct {
	Identifier  string `json:"identifier" binding:"required"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type" binding:"required,oneof=PLAYER GROUP"`
}

// ToDomain converts the DTO into a domain.Subject.
func (s SubjectDTO) ToDomain() domain.Subject {
	display := s.DisplayName
	if display == "" {
		display = s.Identifier
	}
	return domain.Subject{
		Identifier:  s.Identifier,
		DisplayName: display,
		Type:        domain.SubjectType(s.Type),
	}
}

// ContextDTO carries the optional permission context of a request.
type ContextDTO struct {
	Values     map[string]string `json:"values"`
	LookupMode string            `json:"lookupMode" binding:"omitempty,oneof=EXACT GLOBAL_FALLBACK"`
}

// ToDomain converts the DTO into a domain.Context. An absent DTO resolves to
// the global context.
func (c *ContextDTO) ToDomain() domain.Context {
	if c == nil || len(c.Values) == 0 && c.LookupMode == "" {
		return domain.Global
	}
	mode := domain.LookupGlobalFallback
	if c.LookupMode == string(domain.LookupExact) {
		mode = domain.LookupExact
	}
	return domain.NewContext(c.Values, mode)
}

// PermissionCheckRequest queries the tri-state value of one permission.
type PermissionCheckRequest struct {
	Subject    SubjectDTO  `json:"subject" binding:"required"`
	Permission string      `json:"permission" binding:"required"`
	Context    *ContextDTO `json:"context"`
}

// SetPermissionRequest writes a permission node for a subject. Transient
// nodes live for the process lifetime only and shadow persistent ones.
type SetPermissionRequest struct {
	Subject    SubjectDTO  `json:"subject" binding:"required"`
	Permission string      `json:"permission" binding:"required"`
	Value      string      `json:"value" binding:"required"`
	Transient  bool        `json:"transient"`
	Context    *ContextDTO `json:"context"`
}

// TriStateValue parses the requested value into a domain.TriState.
func (r SetPermissionRequest) TriStateValue() (domain.TriState, error) {
	v, err := domain.ParseTriState(r.Value)
	if err != nil {
		return domain.Undefined, apperrors.ErrValidation
	}
	return v, nil
}

// GroupCheckRequest queries the tri-state value of one group permission.
type GroupCheckRequest struct {
	Permission string      `json:"permission" binding:"required"`
	Context    *ContextDTO `json:"context"`
}

// SubjectContextRequest identifies a subject within an optional context.
type SubjectContextRequest struct {
	Subject SubjectDTO  `json:"subject" binding:"required"`
	Context *ContextDTO `json:"context"`
}

// GroupMembershipRequest adds or removes a subject from a group. The group
// itself comes from the route path.
type GroupMembershipRequest struct {
	Subject SubjectDTO  `json:"subject" binding:"required"`
	Context *ContextDTO `json:"context"`
}

// GroupPermissionRequest writes a permission node for a group. The group
// itself comes from the route path.
type GroupPermissionRequest struct {
	Permission string      `json:"permission" binding:"required"`
	Value      string      `json:"value" binding:"required"`
	Transient  bool        `json:"transient"`
	Context    *ContextDTO `json:"context"`
}

// RegisterGroupRequest registers a new group with the resolver.
type RegisterGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// TriStateResponse returns a tri-state answer.
type TriStateResponse struct {
	Value domain.TriState `json:"value"`
}

// GroupsResponse returns an ordered list of group names.
type GroupsResponse struct {
	Groups []string `json:"groups"`
}
