package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/genpare/genpare/internal/ir"
)

// createTestStore creates a new SQLite store in a temp dir for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(context.Background(), DriverSQLite, path, Options{})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestMember inserts a member with minimal required fields.
func createTestMember(t *testing.T, s *Store, email string, birthdate time.Time, gender ir.Gender) ir.Member {
	t.Helper()
	m, err := s.InsertMember(context.Background(), ir.Member{
		Email:     email,
		Name:      "Test Member",
		Birthdate: birthdate,
		Gender:    gender,
	})
	if err != nil {
		t.Fatalf("InsertMember(%q) failed: %v", email, err)
	}
	return m
}

// createTestSalary inserts a salary for memberID.
func createTestSalary(t *testing.T, s *Store, memberID, salary int64, title string, state ir.State) ir.Salary {
	t.Helper()
	sal, err := s.InsertSalary(context.Background(), ir.Salary{
		MemberID:         memberID,
		Salary:           salary,
		JobTitle:         title,
		State:            state,
		LevelOfEducation: ir.EducationBachelor,
	})
	if err != nil {
		t.Fatalf("InsertSalary(member %d) failed: %v", memberID, err)
	}
	return sal
}
