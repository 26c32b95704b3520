// Package intake accepts feedback form submissions from the public site.
// Every free-text field is screened before anything is stored.
package intake

import (
	"github.com/JaimeStill/warden/internal/moderation"
	"github.com/JaimeStill/warden/internal/pipeline"
	"github.com/JaimeStill/warden/internal/submissions"
)

// Screening records what Screen did to a payload.
type Screening struct {
	// Original is the aggregated text before any field was masked.
	Original string
	// Masked lists the indexes into TextFields that were replaced.
	Masked []int
}

// Screen assesses each free-text field of p. Any hard_filter result rejects
// the whole payload with ErrRejected and leaves p untouched. Fields with a
// soft_filter result are replaced in place with their sanitized text.
func Screen(a *moderation.Assessor, p submissions.Payload) (Screening, error) {
	s := Screening{Original: pipeline.Aggregate(p)}

	fields := p.TextFields()
	sanitized := make([]string, len(fields))

	for i, f := range fields {
		res := a.Assess(*f)
		switch res.Action {
		case moderation.ActionHardFilter:
			return Screening{}, ErrRejected
		case moderation.ActionSoftFilter:
			sanitized[i] = res.SanitizedText
			s.Masked = append(s.Masked, i)
		}
	}

	for _, i := range s.Masked {
		*fields[i] = sanitized[i]
	}
	return s, nil
}
