package models

import (
	"time"

	"github.com/google/uuid"
)

// Artwork представляет цифровую работу в системе
type Artwork struct {
	ID                uuid.UUID  `json:"id"`
	UserID            uuid.UUID  `json:"user_id"`
	OriginalCreatorID *uuid.UUID `json:"original_creator_id,omitempty"`
	Title             string     `json:"title"`
	Description       string     `json:"description,omitempty"`
	ImageURL          string     `json:"image_url"`
	PreviewURL        string     `json:"preview_url,omitempty"`
	PublicID          string     `json:"public_id,omitempty"`
	Traded            bool       `json:"traded"`
	CreatedAt         time.Time  `json:"created_at"`

	// Дополнительные поля для API
	Owner *PublicUser `json:"owner,omitempty"`
}
