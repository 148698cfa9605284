package domain

import "github.com/google/uuid"

// AccountPermission is one capability on a shared account. The enumeration is
// open: providers may define additional permissions beyond the ones below.
type AccountPermission string

const (
	PermissionOwner             AccountPermission = "OWNER"
	PermissionBalance           AccountPermission = "BALANCE"
	PermissionDeposit           AccountPermission = "DEPOSIT"
	PermissionWithdraw          AccountPermission = "WITHDRAW"
	PermissionInviteMember      AccountPermission = "INVITE_MEMBER"
	PermissionRemoveMember      AccountPermission = "REMOVE_MEMBER"
	PermissionTransferOwnership AccountPermission = "TRANSFER_OWNERSHIP"
	PermissionDelete            AccountPermission = "DELETE"
)

// PermissionSet is the set of permissions a subject holds on an account.
type PermissionSet map[AccountPermission]struct{}

// NewPermissionSet builds a set from the given permissions.
func NewPermissionSet(perms ...AccountPermission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Contains reports whether the set holds the given permission. OWNER implies
// every other permission.
func (s PermissionSet) Contains(perm AccountPermission) bool {
	if _, ok := s[PermissionOwner]; ok {
		return true
	}
	_, ok := s[perm]
	return ok
}

// ContainsAll reports whether the set holds every listed permission.
func (s PermissionSet) ContainsAll(perms ...AccountPermission) bool {
	for _, p := range perms {
		if !s.Contains(p) {
			return false
		}
	}
	return true
}

// Merge unions the given permissions into the set.
func (s PermissionSet) Merge(perms ...AccountPermission) {
	for _, p := range perms {
		s[p] = struct{}{}
	}
}

// List returns the permissions in the set, order unspecified.
func (s PermissionSet) List() []AccountPermission {
	out := make([]AccountPermission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	return out
}

// AccessEntry records one subject's permissions on one account.
type AccessEntry struct {
	AccountID   uuid.UUID     `json:"accountID"`
	SubjectID   uuid.UUID     `json:"subjectID"`
	Permissions PermissionSet `json:"permissions"`
}
