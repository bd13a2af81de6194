package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedQuery is a grid view captured as reusable query text.
type SavedQuery struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Schema    string    `json:"schema"`
	Table     string    `json:"table"`
	QueryText string    `json:"query_text"`
	CreatedAt time.Time `json:"created_at"`
}
