package objects

import (
	"time"

	"github.com/google/uuid"
)

type APIKeyStatus string

const (
	APIKeyStatusEnabled  APIKeyStatus = "enabled"
	APIKeyStatusDisabled APIKeyStatus = "disabled"
)

// APIKey is an opaque bearer credential bound to an owner. Only the one-way
// hash and a short display prefix of the secret are stored; the raw secret
// is returned once at creation time and is unrecoverable afterwards.
type APIKey struct {
	ID            uuid.UUID    `json:"id"`
	OwnerID       uuid.UUID    `json:"ownerID"`
	Name          string       `json:"name"`
	DisplayPrefix string       `json:"displayPrefix"`
	SecretHash    string       `json:"-"`
	Status        APIKeyStatus `json:"status"`
	Scopes        []string     `json:"scopes"`
	Labels        Labels       `json:"labels"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy uuid.UUID `json:"createdBy"`
	UpdatedBy uuid.UUID `json:"updatedBy"`
}

// Enabled reports whether the key may authenticate requests.
func (k *APIKey) Enabled() bool {
	return k.Status == APIKeyStatusEnabled
}
