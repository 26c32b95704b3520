package submissions

import (
	"net/url"
	"strconv"

	"github.com/JaimeStill/warden/internal/severity"
	"github.com/JaimeStill/warden/pkg/query"
	"github.com/JaimeStill/warden/pkg/repository"
)

const columns = "id, category, fields, severity, read, deleted, created_at"

var projection = query.
	NewProjectionMap("public", "submissions", "s").
	Project("id", "ID").
	Project("category", "Category").
	Project("fields", "Fields").
	Project("severity", "Severity").
	Project("read", "Read").
	Project("deleted", "Deleted").
	Project("created_at", "CreatedAt").
	Derive("{alias}.fields::text", "FieldsText")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters narrows submission queries. Nil fields are ignored. Deleted
// defaults to false so the inbox never shows the trash.
type Filters struct {
	Category *string `json:"category,omitempty"`
	Severity *string `json:"severity,omitempty"`
	Read     *bool   `json:"read,omitempty"`
	Deleted  *bool   `json:"deleted,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	deleted := false
	if f.Deleted != nil {
		deleted = *f.Deleted
	}

	return b.
		WhereEquals("Category", f.Category).
		WhereEquals("Severity", f.Severity).
		WhereEquals("Read", f.Read).
		WhereEquals("Deleted", deleted)
}

// FiltersFromQuery extracts filters from URL query parameters. Category
// accepts a display name or a slug; severity is case-insensitive.
// Unrecognized values are ignored.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		if cat, err := ParseCategory(c); err == nil {
			s := string(cat)
			f.Category = &s
		}
	}

	if sv := values.Get("severity"); sv != "" {
		if lvl, err := severity.ParseLevel(sv); err == nil {
			s := string(lvl)
			f.Severity = &s
		}
	}

	if r := values.Get("read"); r != "" {
		if v, err := strconv.ParseBool(r); err == nil {
			f.Read = &v
		}
	}

	if d := values.Get("deleted"); d != "" {
		if v, err := strconv.ParseBool(d); err == nil {
			f.Deleted = &v
		}
	}

	return f
}

func scanSubmission(s repository.Scanner) (Submission, error) {
	var (
		sub    Submission
		fields []byte
	)
	err := s.Scan(
		&sub.ID,
		&sub.Category,
		&fields,
		&sub.Severity,
		&sub.Read,
		&sub.Deleted,
		&sub.CreatedAt,
	)
	sub.Fields = fields
	return sub, err
}
