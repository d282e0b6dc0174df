package store

import (
	"context"

	"github.com/careloop/careloop/internal/record"
)

// Store is the persistence contract every backend satisfies. All reads and
// writes of user data are scoped by user id; there is no cross-user sharing.
type Store interface {
	// UserByUsername returns the user with the given username.
	// ok=false with a nil error means no such user.
	UserByUsername(ctx context.Context, username string) (*record.User, bool, error)

	// CreateUser inserts a user and returns its id.
	// Usernames are unique; inserting a duplicate is an error.
	CreateUser(ctx context.Context, u *record.User) (int64, error)

	// PatientByUserID returns the patient profile linked to a user.
	PatientByUserID(ctx context.Context, userID int64) (*record.Patient, bool, error)

	// PatientByMRN returns the patient with the given medical record number.
	PatientByMRN(ctx context.Context, mrn string) (*record.Patient, bool, error)

	// CreatePatient inserts a patient (linked to a user or not) and returns
	// its id.
	CreatePatient(ctx context.Context, p *record.Patient) (int64, error)

	// PutProfile upserts the patient profile linked to a user.
	PutProfile(ctx context.Context, userID int64, p *record.Patient) error

	// Questionnaire returns a user's questionnaire answers.
	Questionnaire(ctx context.Context, userID int64) (*record.Questionnaire, bool, error)

	// PutQuestionnaire upserts questionnaire answers. At most one
	// questionnaire exists per user.
	PutQuestionnaire(ctx context.Context, q *record.Questionnaire) error

	// Medications returns a user's medication log in insertion order.
	// Returns an empty slice, never nil, when the log is empty.
	Medications(ctx context.Context, userID int64) ([]record.MedicationEntry, error)

	// ReplaceMedications atomically replaces the user's whole medication
	// log. A save is a full replace, not a merge: entries not in the new
	// set are gone afterward.
	ReplaceMedications(ctx context.Context, userID int64, entries []record.MedicationEntry) error

	// Close releases the backend's resources.
	Close() error
}
