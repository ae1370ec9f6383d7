package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(context.Background(), DriverSQLite, path, Options{})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if s.Driver() != DriverSQLite {
		t.Errorf("Driver() = %q, expected %q", s.Driver(), DriverSQLite)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(context.Background(), DriverSQLite, path, Options{})
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(context.Background(), DriverSQLite, path, Options{})
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"members", "salaries"}
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

func TestOpen_KeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(context.Background(), DriverSQLite, path, Options{})
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	m := createTestMember(t, s1, "a@example.com", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), "MALE")
	createTestSalary(t, s1, m.ID, 1000, "Baker", "BERLIN")
	s1.Close()

	s2, err := Open(context.Background(), DriverSQLite, path, Options{})
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	if _, err := s2.SalaryByMember(context.Background(), m.ID); err != nil {
		t.Errorf("salary lost across reopen: %v", err)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(context.Background(), DriverSQLite, "/nonexistent/dir/test.db", Options{})
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestOpen_RetriesThenFails(t *testing.T) {
	start := time.Now()
	_, err := Open(context.Background(), DriverSQLite, "/nonexistent/dir/test.db", Options{
		MaxRetries: 2,
		RetryWait:  10 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected error for invalid path, got nil")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("expected two retry waits, returned after %v", elapsed)
	}
}

func TestOpen_RetryHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Open(ctx, DriverSQLite, "/nonexistent/dir/test.db", Options{
		MaxRetries: 100,
		RetryWait:  time.Hour,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "", Options{})
	if err == nil {
		t.Error("expected error for unsupported driver, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := createTestStore(t)

	db := s.DB()
	if db == nil {
		t.Fatal("DB() returned nil")
	}
	if err := db.Ping(); err != nil {
		t.Errorf("DB() connection not usable: %v", err)
	}
}

// Pragma tests

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	expected := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1", // NORMAL
		"busy_timeout": "5000",
		"foreign_keys": "1", // ON
		"user_version": "1",
	}
	for name, value := range expected {
		if err := s.verifyPragma(name, value); err != nil {
			t.Error(err)
		}
	}
}

func TestSchema_JobTitleIndex(t *testing.T) {
	s := createTestStore(t)

	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_salaries_job_title'",
	).Scan(&name)
	if err != nil {
		t.Errorf("job title index missing: %v", err)
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (x INT);\n\n  CREATE INDEX i ON a(x);\n")
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if stmts[1] != "CREATE INDEX i ON a(x)" {
		t.Errorf("unexpected statement %q", stmts[1])
	}
}
