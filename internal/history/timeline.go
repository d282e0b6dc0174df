package history

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/careloop/careloop/internal/record"
)

// Event types in the health timeline.
const (
	EventLabTest           = "Lab Test"
	EventMedicationStarted = "Medication Started"
)

// Event is one entry in the merged health timeline.
type Event struct {
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
}

// Timeline merges lab results and medication starts into one chronology,
// most recent first. Medication entries whose start date does not parse as
// YYYY-MM-DD are left out (they have no position on the timeline). The sort
// is stable, so same-day events keep their input order.
func Timeline(labs []record.LabResult, meds []record.MedicationEntry) []Event {
	events := []Event{}

	for _, lab := range labs {
		desc := fmt.Sprintf("%s: %g", strings.ToUpper(lab.TestName), lab.Value)
		if lab.Unit != "" {
			desc += " " + lab.Unit
		}
		events = append(events, Event{
			Date:        lab.Date,
			Type:        EventLabTest,
			Description: desc,
			Status:      string(lab.Status),
		})
	}

	for _, e := range meds {
		date, err := time.Parse(labDateLayout, strings.TrimSpace(e.StartDate))
		if err != nil {
			continue
		}
		desc := e.Medication
		if e.Dose != "" {
			desc += " - " + e.Dose
		}
		if e.Frequency != "" {
			desc += " (" + e.Frequency + ")"
		}
		events = append(events, Event{
			Date:        date,
			Type:        EventMedicationStarted,
			Description: desc,
			Status:      "info",
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.After(events[j].Date)
	})
	return events
}
