package history

import (
	"sort"
	"strings"
	"time"

	"github.com/careloop/careloop/internal/bodymap"
	"github.com/careloop/careloop/internal/record"
)

// AffectedSystems returns the body systems whose most recent lab value is
// out of range, sorted by name. Solid highlights on the diagram.
func AffectedSystems(labs []record.LabResult, m *bodymap.Map) []string {
	latest := latestByTest(labs)

	seen := map[string]bool{}
	for _, lab := range latest {
		if !lab.Status.Abnormal() {
			continue
		}
		if sys, ok := m.SystemForTest(lab.TestName); ok {
			seen[sys] = true
		}
	}

	return sortedKeys(seen)
}

// MonitoredSystems returns the body systems touched by the medication log
// that are not already affected by abnormal labs, sorted by name.
// Translucent highlights on the diagram: under medication watch, but labs
// do not show a problem.
func MonitoredSystems(meds []record.MedicationEntry, affected []string, m *bodymap.Map) []string {
	names := make([]string, 0, len(meds))
	for _, e := range meds {
		names = append(names, e.Medication)
	}

	skip := map[string]bool{}
	for _, sys := range affected {
		skip[sys] = true
	}

	seen := map[string]bool{}
	for _, p := range m.SystemsFor(names) {
		if !skip[p.System] {
			seen[p.System] = true
		}
	}

	return sortedKeys(seen)
}

// latestByTest keeps the most recent result per test name (lowercased).
func latestByTest(labs []record.LabResult) map[string]record.LabResult {
	latest := map[string]record.LabResult{}
	for _, lab := range labs {
		key := strings.ToLower(lab.TestName)
		if prev, ok := latest[key]; !ok || lab.Date.After(prev.Date) {
			latest[key] = lab
		}
	}
	return latest
}

// RiskFactors derives heuristic risk flags from abnormal lab results. The
// patterns and wording follow the clinical review checklist baked into the
// product.
func RiskFactors(abnormal []record.LabResult) []string {
	tests := map[string]bool{}
	for _, lab := range abnormal {
		tests[strings.ToLower(lab.TestName)] = true
	}

	matches := func(substrings ...string) bool {
		for name := range tests {
			for _, sub := range substrings {
				if strings.Contains(name, sub) {
					return true
				}
			}
		}
		return false
	}

	var risks []string
	if matches("cholesterol", "ldl", "triglycerides") {
		risks = append(risks, "Elevated cholesterol - cardiovascular risk")
	}
	if matches("glucose", "a1c") {
		risks = append(risks, "Blood sugar abnormality - diabetes risk")
	}
	if matches("blood pressure", "bp") {
		risks = append(risks, "Blood pressure concerns")
	}
	if matches("liver", "alt", "ast") {
		risks = append(risks, "Liver function monitoring needed")
	}
	if matches("kidney", "creatinine", "egfr", "bun") {
		risks = append(risks, "Kidney function monitoring needed")
	}

	if len(risks) == 0 {
		risks = append(risks, "No significant risk factors identified")
	}
	return risks
}

// HealthSummary is the one-screen overview for a patient.
type HealthSummary struct {
	PatientName       string    `json:"patient_name"`
	MRN               string    `json:"mrn"`
	Age               int       `json:"age"`
	Gender            string    `json:"gender"`
	TotalMedications  int       `json:"total_medications"`
	ActiveMedications []string  `json:"active_medications"`
	AbnormalLabCount  int       `json:"abnormal_lab_count"`
	AbnormalTests     []string  `json:"abnormal_tests"`
	LatestLabDate     time.Time `json:"latest_lab_date,omitzero"`
	RiskFactors       []string  `json:"risk_factors"`
}

// Summarize builds the health summary for a patient from their medication
// log and lab history. patient may be nil when the user has no linked
// profile; the identity fields stay empty then.
func Summarize(patient *record.Patient, meds []record.MedicationEntry, labs []record.LabResult) HealthSummary {
	s := HealthSummary{
		TotalMedications:  len(meds),
		ActiveMedications: []string{},
		AbnormalTests:     []string{},
	}
	if patient != nil {
		s.PatientName = patient.Name
		s.MRN = patient.MRN
		s.Age = patient.Age
		s.Gender = patient.Gender
	}

	for _, e := range meds {
		s.ActiveMedications = append(s.ActiveMedications, e.Medication)
	}

	abnormal := Abnormal(labs)
	s.AbnormalLabCount = len(abnormal)
	seen := map[string]bool{}
	for _, lab := range abnormal {
		key := strings.ToLower(lab.TestName)
		if !seen[key] {
			seen[key] = true
			s.AbnormalTests = append(s.AbnormalTests, lab.TestName)
		}
	}

	for _, lab := range labs {
		if lab.Date.After(s.LatestLabDate) {
			s.LatestLabDate = lab.Date
		}
	}

	s.RiskFactors = RiskFactors(abnormal)
	return s
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
