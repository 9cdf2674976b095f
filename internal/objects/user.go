package objects

import (
	"time"

	"github.com/google/uuid"
)

type UserStatus string

const (
	UserStatusActivated   UserStatus = "activated"
	UserStatusDeactivated UserStatus = "deactivated"
)

// User is an account of the control plane. A user is its own owner for
// authorization purposes.
type User struct {
	ID       uuid.UUID  `json:"id"`
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Password string     `json:"-"`
	IsOwner  bool       `json:"isOwner"`
	Status   UserStatus `json:"status"`
	Roles    []string   `json:"roles"`
	Scopes   []string   `json:"scopes"`
	Labels   Labels     `json:"labels"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy uuid.UUID `json:"createdBy"`
	UpdatedBy uuid.UUID `json:"updatedBy"`
}

// UserInfo is the wire representation of a user, without credentials.
type UserInfo struct {
	ID      uuid.UUID  `json:"id"`
	Email   string     `json:"email"`
	Name    string     `json:"name"`
	IsOwner bool       `json:"isOwner"`
	Status  UserStatus `json:"status"`
	Roles   []string   `json:"roles"`
	Scopes  []string   `json:"scopes"`
	Labels  Labels     `json:"labels"`
}

func (u *User) Info() UserInfo {
	return UserInfo{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		IsOwner: u.IsOwner,
		Status:  u.Status,
		Roles:   u.Roles,
		Scopes:  u.Scopes,
		Labels:  u.Labels,
	}
}
