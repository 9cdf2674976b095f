package objects

import (
	"time"

	"github.com/google/uuid"
)

// Space is a named vector collection owned by a single user.
type Space struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"ownerID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EmbedderID  uuid.UUID `json:"embedderID"`
	PublicRead  bool      `json:"publicRead"`
	Labels      Labels    `json:"labels"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy uuid.UUID `json:"createdBy"`
	UpdatedBy uuid.UUID `json:"updatedBy"`
}
