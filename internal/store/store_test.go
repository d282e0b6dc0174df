package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "careloop.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "careloop.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"users", "patients", "questionnaires", "medications_log"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/careloop.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &SQLite{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestSeed_CreatesDemoData(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := Seed(ctx, s); err != nil {
				t.Fatalf("Seed() failed: %v", err)
			}

			demo, ok, err := s.UserByUsername(ctx, DemoUsername)
			if err != nil || !ok {
				t.Fatalf("demo user missing after seed: ok=%v err=%v", ok, err)
			}
			if demo.Password != DemoPassword {
				t.Errorf("demo password = %q, want %q", demo.Password, DemoPassword)
			}

			sample, ok, err := s.UserByUsername(ctx, SampleUsername)
			if err != nil || !ok {
				t.Fatalf("sample user missing after seed: ok=%v err=%v", ok, err)
			}

			p, ok, err := s.PatientByMRN(ctx, SampleMRN)
			if err != nil || !ok {
				t.Fatalf("sample patient missing after seed: ok=%v err=%v", ok, err)
			}
			if p.Name != "John Smith" || p.Age != 35 || p.Gender != "male" {
				t.Errorf("sample patient = %+v, want John Smith/35/male", p)
			}
			if p.UserID == nil || *p.UserID != sample.ID {
				t.Errorf("sample patient not linked to sample user: %+v", p.UserID)
			}
		})
	}
}

func TestSeed_Idempotent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if err := Seed(ctx, s); err != nil {
				t.Fatalf("first Seed() failed: %v", err)
			}
			first, _, _ := s.UserByUsername(ctx, DemoUsername)
			firstPatient, _, _ := s.PatientByMRN(ctx, SampleMRN)

			if err := Seed(ctx, s); err != nil {
				t.Fatalf("second Seed() failed: %v", err)
			}

			second, _, _ := s.UserByUsername(ctx, DemoUsername)
			if second.ID != first.ID {
				t.Errorf("demo user duplicated: id %d then %d", first.ID, second.ID)
			}
			secondPatient, _, _ := s.PatientByMRN(ctx, SampleMRN)
			if secondPatient.ID != firstPatient.ID {
				t.Errorf("sample patient duplicated: id %d then %d", firstPatient.ID, secondPatient.ID)
			}
		})
	}
}

func TestSeed_IdempotentAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "careloop.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := Seed(ctx, s1); err != nil {
		t.Fatalf("Seed() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s2.Close()
	if err := Seed(ctx, s2); err != nil {
		t.Fatalf("Seed() after reopen failed: %v", err)
	}

	var count int
	if err := s2.db.QueryRow("SELECT COUNT(*) FROM users WHERE username = ?", DemoUsername).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("demo user row count = %d, want 1", count)
	}
	if err := s2.db.QueryRow("SELECT COUNT(*) FROM patients WHERE mrn = ?", SampleMRN).Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("sample patient row count = %d, want 1", count)
	}
}
