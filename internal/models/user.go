package models

import "time"

type Role string

const (
	RoleUser      Role = "USER"
	RoleModerator Role = "MODERATOR"
	RoleAdmin     Role = "ADMIN"
)

// User is owned by the account subsystem; this service only reads it.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsBanned  bool      `json:"isBanned"`
	CreatedAt time.Time `json:"createdAt"`
}

// Requester is the identity behind a request. The zero value is an anonymous reader.
type Requester struct {
	UserID string
	Role   Role
}

func (r Requester) Authenticated() bool { return r.UserID != "" }

// CanModerate covers hidden-content visibility and the hidden toggle.
func (r Requester) CanModerate() bool {
	return r.Role == RoleAdmin || r.Role == RoleModerator
}

func (r Requester) IsAdmin() bool { return r.Role == RoleAdmin }
