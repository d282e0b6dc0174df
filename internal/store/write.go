package store

import (
	"context"
	"fmt"
	"time"

	"github.com/careloop/careloop/internal/record"
)

// CreateUser inserts a user and returns its id. Usernames are unique.
func (s *SQLite) CreateUser(ctx context.Context, u *record.User) (int64, error) {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password, created_at)
		VALUES (?, ?, ?)
	`, u.Username, u.Password, createdAt)
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	s.log.Debug().Str("username", u.Username).Int64("user_id", id).Msg("user created")
	return id, nil
}

// CreatePatient inserts a patient and returns its id. UserID may be nil for
// a patient with no linked login.
func (s *SQLite) CreatePatient(ctx context.Context, p *record.Patient) (int64, error) {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO patients (user_id, mrn, name, gender, age, profile_json, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, nullableID(p.UserID), p.MRN, p.Name, p.Gender, p.Age, p.Profile, now, now)
	if err != nil {
		return 0, fmt.Errorf("create patient: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create patient: %w", err)
	}

	s.log.Debug().Str("mrn", p.MRN).Int64("patient_id", id).Msg("patient created")
	return id, nil
}

// PutProfile upserts the patient profile linked to a user. The row is
// matched on user_id; when no linked patient exists yet, one is created.
func (s *SQLite) PutProfile(ctx context.Context, userID int64, p *record.Patient) error {
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE patients
		SET mrn = ?, name = ?, gender = ?, age = ?, profile_json = ?, updated_at = ?
		WHERE user_id = ?
	`, p.MRN, p.Name, p.Gender, p.Age, p.Profile, now, userID)
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	if affected > 0 {
		return nil
	}

	linked := *p
	linked.UserID = &userID
	if _, err := s.CreatePatient(ctx, &linked); err != nil {
		return fmt.Errorf("put profile: %w", err)
	}
	return nil
}

// PutQuestionnaire upserts questionnaire answers. The UNIQUE constraint on
// user_id gives this upsert semantics: at most one questionnaire per user.
func (s *SQLite) PutQuestionnaire(ctx context.Context, q *record.Questionnaire) error {
	dataJSON, err := marshalQuestionnaire(q)
	if err != nil {
		return err
	}

	updatedAt := q.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO questionnaires (user_id, data_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			data_json = excluded.data_json,
			updated_at = excluded.updated_at
	`, q.UserID, dataJSON, updatedAt)
	if err != nil {
		return fmt.Errorf("put questionnaire: %w", err)
	}

	return nil
}

// ReplaceMedications atomically replaces the user's whole medication log:
// delete-then-insert in one transaction. On any failure the transaction
// rolls back and the prior log is untouched.
func (s *SQLite) ReplaceMedications(ctx context.Context, userID int64, entries []record.MedicationEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace medications: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM medications_log WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("replace medications: %w", err)
	}

	now := time.Now().UTC()
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO medications_log (user_id, medication, dose, frequency, start_date, end_date, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, userID, e.Medication, e.Dose, e.Frequency, e.StartDate, e.EndDate, e.Notes, now, now)
		if err != nil {
			return fmt.Errorf("replace medications: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace medications: %w", err)
	}

	s.log.Debug().Int64("user_id", userID).Int("entries", len(entries)).Msg("medication log replaced")
	return nil
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
