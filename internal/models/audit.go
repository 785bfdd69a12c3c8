package models

import (
	"time"
)

// Audit carries the server-assigned bookkeeping fields shared by every
// CrewDeck entity. The backend writes these; clients only ever read them.
type Audit struct {
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	IsDeleted bool       `json:"isDeleted"`
	CreatedBy *string    `json:"createdBy"`
	UpdatedBy *string    `json:"updatedBy"`
	DeletedBy *string    `json:"deletedBy"`
	DeletedAt *time.Time `json:"deletedAt"`
}
