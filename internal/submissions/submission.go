// Package submissions stores feedback submissions and serves the review
// dashboard: listing, read state, trash, and analytics.
package submissions

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/warden/internal/severity"
)

// Submission is a stored feedback record. Severity and CreatedAt are fixed
// at insert and never rewritten.
type Submission struct {
	ID        uuid.UUID       `json:"id"`
	Category  Category        `json:"category"`
	Fields    json.RawMessage `json:"fields"`
	Severity  severity.Level  `json:"severity"`
	Read      bool            `json:"read"`
	Deleted   bool            `json:"deleted"`
	CreatedAt time.Time       `json:"created_at"`
}

// Payload decodes Fields into the variant for the submission's category.
func (s *Submission) Payload() (Payload, error) {
	return DecodePayload(s.Category, s.Fields)
}

// CreateCommand carries a screened payload and its computed severity.
type CreateCommand struct {
	Payload  Payload
	Severity severity.Level
}

// Stats summarizes the submission table for the analytics view. Trashed
// submissions are excluded from every count except Trashed.
type Stats struct {
	Total      int                    `json:"total"`
	Unread     int                    `json:"unread"`
	Trashed    int                    `json:"trashed"`
	ByCategory map[Category]int       `json:"by_category"`
	BySeverity map[severity.Level]int `json:"by_severity"`
}
