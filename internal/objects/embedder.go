package objects

import (
	"time"

	"github.com/google/uuid"
)

// Embedder is an embedding model configuration owned by a single user.
type Embedder struct {
	ID         uuid.UUID `json:"id"`
	OwnerID    uuid.UUID `json:"ownerID"`
	Name       string    `json:"name"`
	Provider   string    `json:"provider"`
	Model      string    `json:"model"`
	Dimensions int       `json:"dimensions"`
	PublicRead bool      `json:"publicRead"`
	Labels     Labels    `json:"labels"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	CreatedBy uuid.UUID `json:"createdBy"`
	UpdatedBy uuid.UUID `json:"updatedBy"`
}
