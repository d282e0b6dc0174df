package store

import (
	"context"
	"fmt"

	"github.com/careloop/careloop/internal/record"
)

// Demo accounts created on first initialization. The session resolver also
// accepts these when no store is available at all.
const (
	DemoUsername = "demo"
	DemoPassword = "demo"

	SampleUsername = "John Smith"
	SamplePassword = "john"

	// SampleMRN identifies the seeded sample patient.
	SampleMRN = "P001"
)

// Seed creates the demo accounts and the sample patient if they are absent.
//
// Seeding is idempotent: it checks for each row before inserting, so it is
// safe to run on every process start. Works against any Store backend.
func Seed(ctx context.Context, s Store) error {
	if _, err := seedUser(ctx, s, DemoUsername, DemoPassword); err != nil {
		return err
	}

	sampleID, err := seedUser(ctx, s, SampleUsername, SamplePassword)
	if err != nil {
		return err
	}

	if _, ok, err := s.PatientByMRN(ctx, SampleMRN); err != nil {
		return fmt.Errorf("seed: %w", err)
	} else if ok {
		return nil
	}

	_, err = s.CreatePatient(ctx, &record.Patient{
		UserID: &sampleID,
		MRN:    SampleMRN,
		Name:   "John Smith",
		Gender: "male",
		Age:    35,
	})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	return nil
}

// seedUser creates the user if absent and returns its id either way.
func seedUser(ctx context.Context, s Store, username, password string) (int64, error) {
	u, ok, err := s.UserByUsername(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	if ok {
		return u.ID, nil
	}

	id, err := s.CreateUser(ctx, &record.User{Username: username, Password: password})
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return id, nil
}
