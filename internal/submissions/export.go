package submissions

import (
	"encoding/csv"
	"io"
	"strings"
	"time"
)

var exportHeader = []string{
	"ID", "Type", "Date", "Status", "Severity",
	"General Rating", "Safety Rating", "Learning Support", "Communication Rating",
	"Impact Areas", "Learning Improvements", "Culture Improvements",
	"Communication Suggestions", "Operational Improvements", "Operational Change", "Open Feedback",
	"Dorm Block", "Room Number", "Dorm Satisfaction", "Complaints", "Suggestions",
	"Bug Title", "Bug Description", "Priority",
}

// WriteCSV writes subs as one row per submission with every form's columns.
// Columns that do not apply to a row's category are left blank.
func WriteCSV(w io.Writer, subs []Submission) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}

	for i := range subs {
		if err := cw.Write(exportRow(&subs[i])); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func exportRow(s *Submission) []string {
	row := make([]string, len(exportHeader))

	status := "Unread"
	if s.Read {
		status = "Read"
	}

	copy(row, []string{
		s.ID.String(),
		string(s.Category),
		s.CreatedAt.UTC().Format(time.DateOnly),
		status,
		string(s.Severity),
	})

	p, err := s.Payload()
	if err != nil {
		return row
	}

	switch v := p.(type) {
	case *StudentVoice:
		copy(row[5:], []string{
			v.GeneralExperienceRating.String(),
			v.SafetyRating.String(),
			v.LearningSupportRating.String(),
			v.CommunicationRating.String(),
			strings.Join(v.ImpactAreas, "; "),
			v.LearningImprovements,
			v.CultureImprovements,
			v.CommunicationSuggestions,
			strings.Join(v.OperationalImprovements, "; "),
			v.OneOperationalChange,
			v.OpenFeedback,
		})
	case *DormLife:
		copy(row[16:], []string{
			v.DormBlock,
			v.RoomNumber,
			v.SatisfactionRating.String(),
			v.Complaints,
			v.Suggestions,
		})
	case *BugReport:
		copy(row[21:], []string{v.Title, v.Description, v.Priority})
	}

	return row
}
