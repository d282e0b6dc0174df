package record

import "time"

// User is a login identity. Usernames are unique; passwords are stored and
// compared as plain text because this system is explicitly not a security
// boundary (demo accounts only).
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

// Patient is a patient profile. UserID is a nullable backref: a patient may
// exist without a linked login, and the model does not force one patient per
// user.
type Patient struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	MRN       string    `json:"mrn"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	Age       int       `json:"age"`
	Profile   string    `json:"profile,omitempty"` // free-form profile JSON
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Questionnaire holds a user's intake answers. At most one row exists per
// user; writes are upserts keyed by UserID.
type Questionnaire struct {
	UserID           int64     `json:"user_id"`
	FamilyHistory    string    `json:"family_history"`
	ExerciseRoutines string    `json:"exercise_routines"`
	DietaryHabits    string    `json:"dietary_habits"`
	Medications      string    `json:"medications"` // free text, not the structured log
	UpdatedAt        time.Time `json:"updated_at"`
}

// MedicationEntry is one row of a user's medication log. Entries form an
// ordered sequence (insertion order) and are not unique-keyed: a save
// replaces the whole sequence for the user.
type MedicationEntry struct {
	Medication string `json:"medication"`
	Dose       string `json:"dose"`
	Frequency  string `json:"frequency"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Notes      string `json:"notes"`
}

// LabResult is one lab measurement with its status against the reference
// range. Value is NaN when the source field was not numeric.
type LabResult struct {
	TestName string    `json:"test_name"`
	Value    float64   `json:"value"`
	Unit     string    `json:"unit"`
	Date     time.Time `json:"date"`
	Status   LabStatus `json:"status"`
}

// LabStatus classifies a lab value against its reference range.
type LabStatus string

const (
	LabStatusLow     LabStatus = "low"
	LabStatusHigh    LabStatus = "high"
	LabStatusNormal  LabStatus = "normal"
	LabStatusUnknown LabStatus = "unknown" // no range on file, or value not numeric
)

// Abnormal reports whether the status is out of range.
func (s LabStatus) Abnormal() bool {
	return s == LabStatusLow || s == LabStatusHigh
}
