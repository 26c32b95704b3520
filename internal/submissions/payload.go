package submissions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/JaimeStill/warden/internal/severity"
)

// Payload is the category-specific body of a submission. Each form has its
// own variant.
type Payload interface {
	// Category reports which form the payload belongs to.
	Category() Category
	// TextFields returns pointers to the free-text fields so screening can
	// replace them in place.
	TextFields() []*string
	// Values returns the non-empty string values in form order. Ratings
	// contribute their string form.
	Values() []string
	// Signals returns the ratings the classifier reads. Text is left empty.
	Signals() severity.Signals
	// Anonymous reports whether the submitter asked not to be identified.
	Anonymous() bool
	// Validate checks enum values and length limits and fills defaults.
	Validate() error
}

// StudentVoice is the school experience survey.
type StudentVoice struct {
	GeneralExperienceRating  Rating   `json:"generalExperienceRating,omitzero"`
	ImpactAreas              []string `json:"impactAreas,omitempty"`
	LearningSupportRating    Rating   `json:"learningSupportRating,omitzero"`
	LearningImprovements     string   `json:"learningImprovements,omitempty"`
	OperationalImprovements  []string `json:"operationalImprovements,omitempty"`
	OneOperationalChange     string   `json:"oneOperationalChange,omitempty"`
	SafetyRating             Rating   `json:"safetyRating,omitzero"`
	CultureImprovements      string   `json:"cultureImprovements,omitempty"`
	CommunicationRating      Rating   `json:"communicationRating,omitzero"`
	CommunicationSuggestions string   `json:"communicationSuggestions,omitempty"`
	OpenFeedback             string   `json:"openFeedback,omitempty"`
	IsAnonymous              *bool    `json:"isAnonymous,omitempty"`
}

func (p *StudentVoice) Category() Category { return StudentVoiceCategory }

func (p *StudentVoice) TextFields() []*string {
	return []*string{
		&p.LearningImprovements,
		&p.OneOperationalChange,
		&p.CultureImprovements,
		&p.CommunicationSuggestions,
		&p.OpenFeedback,
	}
}

func (p *StudentVoice) Values() []string {
	return nonEmpty(
		p.GeneralExperienceRating.String(),
		p.LearningSupportRating.String(),
		p.LearningImprovements,
		p.OneOperationalChange,
		p.SafetyRating.String(),
		p.CultureImprovements,
		p.CommunicationRating.String(),
		p.CommunicationSuggestions,
		p.OpenFeedback,
	)
}

func (p *StudentVoice) Signals() severity.Signals {
	return severity.Signals{
		SafetyRating:     p.SafetyRating.Int(),
		ExperienceRating: p.GeneralExperienceRating.Int(),
	}
}

func (p *StudentVoice) Anonymous() bool { return anonymous(p.IsAnonymous) }

func (p *StudentVoice) Validate() error {
	return firstErr(
		maxLen("learningImprovements", p.LearningImprovements, 500),
		maxLen("oneOperationalChange", p.OneOperationalChange, 500),
		maxLen("cultureImprovements", p.CultureImprovements, 500),
		maxLen("communicationSuggestions", p.CommunicationSuggestions, 400),
		maxLen("openFeedback", p.OpenFeedback, 700),
	)
}

// DormBlocks lists the accepted dormBlock values.
var DormBlocks = []string{"Block A", "Block B", "Block C", "Block D", "Other"}

// DormLife is the residential survey.
type DormLife struct {
	DormBlock          string `json:"dormBlock,omitempty"`
	RoomNumber         string `json:"roomNumber,omitempty"`
	SatisfactionRating Rating `json:"satisfactionRating,omitzero"`
	Complaints         string `json:"complaints,omitempty"`
	Suggestions        string `json:"suggestions,omitempty"`
	IsAnonymous        *bool  `json:"isAnonymous,omitempty"`
}

func (p *DormLife) Category() Category { return DormLifeCategory }

func (p *DormLife) TextFields() []*string {
	return []*string{&p.Complaints, &p.Suggestions}
}

func (p *DormLife) Values() []string {
	return nonEmpty(
		p.DormBlock,
		p.RoomNumber,
		p.SatisfactionRating.String(),
		p.Complaints,
		p.Suggestions,
	)
}

func (p *DormLife) Signals() severity.Signals {
	return severity.Signals{SatisfactionRating: p.SatisfactionRating.Int()}
}

func (p *DormLife) Anonymous() bool { return anonymous(p.IsAnonymous) }

func (p *DormLife) Validate() error {
	return firstErr(
		oneOf("dormBlock", p.DormBlock, DormBlocks, true),
		maxLen("roomNumber", p.RoomNumber, 20),
		maxLen("complaints", p.Complaints, 1000),
		maxLen("suggestions", p.Suggestions, 1000),
	)
}

// Priorities lists the accepted bug report priorities.
var Priorities = []string{"Low", "Medium", "High"}

// BugReport is a site problem report. Reports carry no identity.
type BugReport struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority,omitempty"`
}

func (p *BugReport) Category() Category { return BugReportCategory }

func (p *BugReport) TextFields() []*string {
	return []*string{&p.Title, &p.Description}
}

func (p *BugReport) Values() []string {
	return nonEmpty(p.Title, p.Description, p.Priority)
}

func (p *BugReport) Signals() severity.Signals { return severity.Signals{} }

func (p *BugReport) Anonymous() bool { return true }

func (p *BugReport) Validate() error {
	if p.Priority == "" {
		p.Priority = "Medium"
	}
	return firstErr(
		minLen("title", p.Title, 5),
		minLen("description", p.Description, 10),
		oneOf("priority", p.Priority, Priorities, false),
	)
}

// NewPayload returns an empty payload for c.
func NewPayload(c Category) (Payload, error) {
	switch c {
	case StudentVoiceCategory:
		return &StudentVoice{}, nil
	case DormLifeCategory:
		return &DormLife{}, nil
	case BugReportCategory:
		return &BugReport{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
	}
}

// DecodePayload strictly decodes data into the variant for c and validates it.
// Unknown fields are rejected.
func DecodePayload(c Category, data []byte) (Payload, error) {
	p, err := NewPayload(c)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidField, err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func anonymous(flag *bool) bool {
	return flag == nil || *flag
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func maxLen(field, value string, limit int) error {
	if n := utf8.RuneCountInString(value); n > limit {
		return fmt.Errorf("%w: %s is %d characters, limit %d", ErrInvalidField, field, n, limit)
	}
	return nil
}

func minLen(field, value string, limit int) error {
	if n := utf8.RuneCountInString(value); n < limit {
		return fmt.Errorf("%w: %s must be at least %d characters", ErrInvalidField, field, limit)
	}
	return nil
}

func oneOf(field, value string, allowed []string, optional bool) error {
	if value == "" && optional {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("%w: %s %q not one of %v", ErrInvalidField, field, value, allowed)
	}
	return nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
