package domain

import "github.com/google/uuid"

// SubjectType differentiates player subjects from group subjects.
type SubjectType string

const (
	SubjectPlayer SubjectType = "PLAYER"
	SubjectGroup  SubjectType = "GROUP"
)

// Subject is something permissions can be attached to: a player (identified
// by UUID, with a cached display name) or a group (identified by name).
// Identity is by Identifier, never by display name.
type Subject struct {
	Identifier  string      `json:"identifier"`
	DisplayName string      `json:"displayName"`
	Type        SubjectType `json:"type"`
}

// PlayerSubject builds a Subject for the given player UUID and username.
func PlayerSubject(id uuid.UUID, username string) Subject {
	return Subject{Identifier: id.String(), DisplayName: username, Type: SubjectPlayer}
}

// GroupSubject builds a Subject for the named group.
func GroupSubject(name string) Subject {
	return Subject{Identifier: name, DisplayName: name, Type: SubjectGroup}
}

// UUID parses the identifier as a player UUID.
func (s Subject) UUID() (uuid.UUID, error) {
	return uuid.Parse(s.Identifier)
}

// Key returns a stable map key combining type and identifier.
func (s Subject) Key() string {
	return string(s.Type) + "\x00" + s.Identifier
}
