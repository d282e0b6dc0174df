package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/careloop/careloop/internal/record"
)

// UserByUsername returns the user with the given username. Absence is not
// an error.
func (s *SQLite) UserByUsername(ctx context.Context, username string) (*record.User, bool, error) {
	var u record.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password, created_at
		FROM users
		WHERE username = ?
	`, username).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query user: %w", err)
	}
	return &u, true, nil
}

// PatientByUserID returns the patient profile linked to a user.
func (s *SQLite) PatientByUserID(ctx context.Context, userID int64) (*record.Patient, bool, error) {
	return s.patientWhere(ctx, "user_id = ?", userID)
}

// PatientByMRN returns the patient with the given medical record number.
func (s *SQLite) PatientByMRN(ctx context.Context, mrn string) (*record.Patient, bool, error) {
	return s.patientWhere(ctx, "mrn = ?", mrn)
}

func (s *SQLite) patientWhere(ctx context.Context, where string, arg any) (*record.Patient, bool, error) {
	var (
		p      record.Patient
		userID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, mrn, name, gender, age, profile_json, created_at, updated_at
		FROM patients
		WHERE `+where, arg).Scan(
		&p.ID, &userID, &p.MRN, &p.Name, &p.Gender, &p.Age, &p.Profile, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query patient: %w", err)
	}
	if userID.Valid {
		p.UserID = &userID.Int64
	}
	return &p, true, nil
}

// Questionnaire returns a user's questionnaire answers.
func (s *SQLite) Questionnaire(ctx context.Context, userID int64) (*record.Questionnaire, bool, error) {
	var (
		dataJSON string
		q        record.Questionnaire
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT data_json, updated_at
		FROM questionnaires
		WHERE user_id = ?
	`, userID).Scan(&dataJSON, &q.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query questionnaire: %w", err)
	}

	if err := unmarshalQuestionnaire(dataJSON, &q); err != nil {
		return nil, false, err
	}
	q.UserID = userID
	return &q, true, nil
}

// Medications returns a user's medication log in insertion order.
//
// Returns an empty slice (not nil) when the log is empty.
func (s *SQLite) Medications(ctx context.Context, userID int64) ([]record.MedicationEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT medication, dose, frequency, start_date, end_date, notes
		FROM medications_log
		WHERE user_id = ?
		ORDER BY id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query medications: %w", err)
	}
	defer rows.Close()

	entries := []record.MedicationEntry{}
	for rows.Next() {
		var e record.MedicationEntry
		if err := rows.Scan(&e.Medication, &e.Dose, &e.Frequency, &e.StartDate, &e.EndDate, &e.Notes); err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate medications: %w", err)
	}

	return entries, nil
}
