package dto

import (
	"github.com/google/uuid"
	"github.com/openmc/treasury/internal/core/domain"
)

// SetOwnerRequest transfers account ownership to the given subject.
type SetOwnerRequest struct {
	SubjectID uuid.UUID `json:"subjectID" binding:"required"`
}

// AddMemberRequest adds a subject to a shared account with initial permissions.
type AddMemberRequest struct {
	SubjectID   uuid.UUID                  `json:"subjectID" binding:"required"`
	Permissions []domain.AccountPermission `json:"permissions"`
}

// UpdatePermissionRequest grants or revokes a single permission for a member.
type UpdatePermissionRequest struct {
	SubjectID  uuid.UUID                `json:"subjectID" binding:"required"`
	Permission domain.AccountPermission `json:"permission" binding:"required"`
	Value      bool                     `json:"value"`
}

// AccessEntryResponse defines the data returned for one access entry.
type AccessEntryResponse struct {
	AccountID   uuid.UUID                  `json:"accountID"`
	SubjectID   uuid.UUID                  `json:"subjectID"`
	Permissions []domain.AccountPermission `json:"permissions"`
}

// ToAccessEntryResponse converts a domain.AccessEntry to its DTO.
func ToAccessEntryResponse(entry domain.AccessEntry) AccessEntryResponse {
	return AccessEntryResponse{
		AccountID:   entry.AccountID,
		SubjectID:   entry.SubjectID,
		Permissions: entry.Permissions.List(),
	}
}
