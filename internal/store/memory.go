package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/careloop/careloop/internal/record"
)

// Memory is the volatile Store backend: mutex-guarded maps, no durability.
// It backs tests and sessions where no database is available, and holds to
// the same contract as SQLite, including atomic ReplaceMedications.
//
// Values are copied on the way in and out so callers can never alias
// internal state.
type Memory struct {
	mu             sync.Mutex
	nextUserID     int64
	nextPatientID  int64
	users          map[int64]record.User
	userIDsByName  map[string]int64
	patients       map[int64]record.Patient
	questionnaires map[int64]record.Questionnaire     // keyed by user id
	medications    map[int64][]record.MedicationEntry // keyed by user id
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:          make(map[int64]record.User),
		userIDsByName:  make(map[string]int64),
		patients:       make(map[int64]record.Patient),
		questionnaires: make(map[int64]record.Questionnaire),
		medications:    make(map[int64][]record.MedicationEntry),
	}
}

// UserByUsername returns the user with the given username.
func (m *Memory) UserByUsername(ctx context.Context, username string) (*record.User, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.userIDsByName[username]
	if !ok {
		return nil, false, nil
	}
	u := m.users[id]
	return &u, true, nil
}

// CreateUser inserts a user and returns its id.
func (m *Memory) CreateUser(ctx context.Context, u *record.User) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.userIDsByName[u.Username]; exists {
		return 0, fmt.Errorf("create user: username %q already exists", u.Username)
	}

	m.nextUserID++
	stored := *u
	stored.ID = m.nextUserID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}
	m.users[stored.ID] = stored
	m.userIDsByName[stored.Username] = stored.ID
	return stored.ID, nil
}

// PatientByUserID returns the patient profile linked to a user.
func (m *Memory) PatientByUserID(ctx context.Context, userID int64) (*record.Patient, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.patients {
		if p.UserID != nil && *p.UserID == userID {
			out := p
			out.UserID = cloneID(p.UserID)
			return &out, true, nil
		}
	}
	return nil, false, nil
}

// PatientByMRN returns the patient with the given medical record number.
func (m *Memory) PatientByMRN(ctx context.Context, mrn string) (*record.Patient, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range m.patients {
		if p.MRN == mrn {
			out := p
			out.UserID = cloneID(p.UserID)
			return &out, true, nil
		}
	}
	return nil, false, nil
}

// CreatePatient inserts a patient and returns its id.
func (m *Memory) CreatePatient(ctx context.Context, p *record.Patient) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.patients {
		if existing.MRN == p.MRN {
			return 0, fmt.Errorf("create patient: mrn %q already exists", p.MRN)
		}
	}

	m.nextPatientID++
	now := time.Now().UTC()
	stored := *p
	stored.ID = m.nextPatientID
	stored.UserID = cloneID(p.UserID)
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.patients[stored.ID] = stored
	return stored.ID, nil
}

// PutProfile upserts the patient profile linked to a user.
func (m *Memory) PutProfile(ctx context.Context, userID int64, p *record.Patient) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for id, existing := range m.patients {
		if existing.UserID != nil && *existing.UserID == userID {
			updated := existing
			updated.MRN = p.MRN
			updated.Name = p.Name
			updated.Gender = p.Gender
			updated.Age = p.Age
			updated.Profile = p.Profile
			updated.UpdatedAt = now
			m.patients[id] = updated
			return nil
		}
	}

	m.nextPatientID++
	uid := userID
	stored := *p
	stored.ID = m.nextPatientID
	stored.UserID = &uid
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.patients[stored.ID] = stored
	return nil
}

// Questionnaire returns a user's questionnaire answers.
func (m *Memory) Questionnaire(ctx context.Context, userID int64) (*record.Questionnaire, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.questionnaires[userID]
	if !ok {
		return nil, false, nil
	}
	out := q
	return &out, true, nil
}

// PutQuestionnaire upserts questionnaire answers for a user.
func (m *Memory) PutQuestionnaire(ctx context.Context, q *record.Questionnaire) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *q
	if stored.UpdatedAt.IsZero() {
		stored.UpdatedAt = time.Now().UTC()
	}
	m.questionnaires[q.UserID] = stored
	return nil
}

// Medications returns a user's medication log in insertion order.
func (m *Memory) Medications(ctx context.Context, userID int64) ([]record.MedicationEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := m.medications[userID]
	out := make([]record.MedicationEntry, len(entries))
	copy(out, entries)
	return out, nil
}

// ReplaceMedications replaces the user's whole medication log. The swap is
// a single map assignment under the lock, so no partial state is ever
// observable.
func (m *Memory) ReplaceMedications(ctx context.Context, userID int64, entries []record.MedicationEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	replacement := make([]record.MedicationEntry, len(entries))
	copy(replacement, entries)
	m.medications[userID] = replacement
	return nil
}

// Close is a no-op for the in-memory backend.
func (m *Memory) Close() error { return nil }

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
