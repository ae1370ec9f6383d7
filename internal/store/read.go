package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/queryir"
)

// ReadSalaries runs a salary view query inside one read-only transaction.
// Columns must be queryir.SalaryRecordColumns.
//
// Results are ordered by salary id. Returns an empty slice (not nil) if no
// record matches.
func (s *Store) ReadSalaries(ctx context.Context, q queryir.Select) ([]ir.SalaryRecord, error) {
	if len(q.Columns) != len(queryir.SalaryRecordColumns) {
		return nil, fmt.Errorf("salary query selects %d columns, expected %d",
			len(q.Columns), len(queryir.SalaryRecordColumns))
	}

	query, args, err := s.compiler.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile salary query: %w", err)
	}

	var records []ir.SalaryRecord
	err = s.readTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("query salaries: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanSalaryRecord(rows)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate salaries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Return empty slice instead of nil
	if records == nil {
		records = []ir.SalaryRecord{}
	}
	return records, nil
}

// readTx runs fn inside a read-only transaction and rolls it back afterwards.
func (s *Store) readTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin read transaction: %w", err)
	}
	defer tx.Rollback()

	return fn(tx)
}

func scanSalaryRecord(rows *sql.Rows) (ir.SalaryRecord, error) {
	var (
		rec       ir.SalaryRecord
		birthdate any
		gender    string
		state     string
		education string
	)
	if err := rows.Scan(
		&rec.SalaryID,
		&rec.MemberID,
		&birthdate,
		&gender,
		&rec.Salary,
		&rec.JobTitle,
		&state,
		&education,
	); err != nil {
		return ir.SalaryRecord{}, fmt.Errorf("scan salary record: %w", err)
	}

	var err error
	if rec.Birthdate, err = scanDate(birthdate); err != nil {
		return ir.SalaryRecord{}, fmt.Errorf("salary %d: %w", rec.SalaryID, err)
	}
	rec.Gender = ir.Gender(gender)
	rec.State = ir.State(state)
	rec.LevelOfEducation = ir.LevelOfEducation(education)
	return rec, nil
}

// scanDate converts a scanned DATE or 'YYYY-MM-DD' TEXT value to a civil date.
// go-sql-driver/mysql yields []byte, or time.Time with parseTime=true.
func scanDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return ir.NewIRDate(d).Time, nil
	case []byte:
		return ir.ParseDate(string(d))
	case string:
		return ir.ParseDate(d)
	default:
		return time.Time{}, fmt.Errorf("unexpected birthdate type %T", v)
	}
}

// SalaryByMember returns the salary of a member.
// Returns ErrNotFound if the member has no salary.
func (s *Store) SalaryByMember(ctx context.Context, memberID int64) (ir.Salary, error) {
	sb := s.flavor.NewSelectBuilder()
	sb.Select("id", "member_id", "salary", "job_title", "state", "level_of_education").
		From(queryir.TableSalary).
		Where(sb.Equal("member_id", memberID))
	query, args := sb.Build()

	var (
		sal       ir.Salary
		state     string
		education string
	)
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&sal.ID, &sal.MemberID, &sal.Salary, &sal.JobTitle, &state, &education,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Salary{}, fmt.Errorf("salary of member %d: %w", memberID, ErrNotFound)
	}
	if err != nil {
		return ir.Salary{}, fmt.Errorf("read salary of member %d: %w", memberID, err)
	}
	sal.State = ir.State(state)
	sal.LevelOfEducation = ir.LevelOfEducation(education)
	return sal, nil
}

// DistinctJobTitles returns every job title that has at least one salary,
// sorted ascending.
func (s *Store) DistinctJobTitles(ctx context.Context) ([]string, error) {
	sb := s.flavor.NewSelectBuilder()
	sb.Select("job_title").Distinct().From(queryir.TableSalary).OrderBy("job_title").Asc()
	query, args := sb.Build()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query job titles: %w", err)
	}
	defer rows.Close()

	titles := []string{}
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan job title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job titles: %w", err)
	}
	return titles, nil
}
