package submissions

import "fmt"

// Category identifies which feedback form a submission came from.
type Category string

const (
	StudentVoiceCategory Category = "Student Voice"
	DormLifeCategory     Category = "Dorm Life"
	BugReportCategory    Category = "Bug Report"
)

// Categories lists every category in form order.
var Categories = []Category{StudentVoiceCategory, DormLifeCategory, BugReportCategory}

var slugs = map[Category]string{
	StudentVoiceCategory: "student-voice",
	DormLifeCategory:     "dorm-life",
	BugReportCategory:    "bug-report",
}

// Slug returns the URL path segment for c.
func (c Category) Slug() string {
	return slugs[c]
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := slugs[c]
	return ok
}

// CategoryFromSlug resolves a URL path segment to its category.
func CategoryFromSlug(slug string) (Category, error) {
	for c, s := range slugs {
		if s == slug {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, slug)
}

// ParseCategory accepts either a display name ("Dorm Life") or a slug ("dorm-life").
func ParseCategory(s string) (Category, error) {
	if c := Category(s); c.Valid() {
		return c, nil
	}
	return CategoryFromSlug(s)
}
