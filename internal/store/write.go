package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/queryir"
)

// InsertMember adds a member and returns it with its assigned id.
// Returns ErrConflict if the email is taken.
func (s *Store) InsertMember(ctx context.Context, m ir.Member) (ir.Member, error) {
	m, err := NormalizeMember(m)
	if err != nil {
		return ir.Member{}, err
	}

	ib := s.flavor.NewInsertBuilder()
	ib.InsertInto(queryir.TableMember).
		Cols("email", "name", "birthdate", "gender").
		Values(m.Email, m.Name, ir.FormatDate(m.Birthdate), string(m.Gender))
	query, args := ib.Build()

	var id int64
	err = s.writeTx(ctx, func(tx *sql.Tx) error {
		exists, err := s.exists(ctx, tx, queryir.TableMember, "email", m.Email)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("member %q: %w", m.Email, ErrConflict)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert member: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return ir.Member{}, err
	}

	m.ID = id
	return m, nil
}

// InsertSalary adds the salary of a member and returns it with its
// assigned id.
//
// Returns ErrNotFound if the member does not exist, ErrConflict if the
// member already has a salary and ErrJobTitleTooLong for job titles over
// MaxJobTitleLength characters.
func (s *Store) InsertSalary(ctx context.Context, sal ir.Salary) (ir.Salary, error) {
	sal, err := NormalizeSalary(sal)
	if err != nil {
		return ir.Salary{}, err
	}

	ib := s.flavor.NewInsertBuilder()
	ib.InsertInto(queryir.TableSalary).
		Cols("member_id", "salary", "job_title", "state", "level_of_education").
		Values(sal.MemberID, sal.Salary, sal.JobTitle, string(sal.State), string(sal.LevelOfEducation))
	query, args := ib.Build()

	var id int64
	err = s.writeTx(ctx, func(tx *sql.Tx) error {
		member, err := s.exists(ctx, tx, queryir.TableMember, "id", sal.MemberID)
		if err != nil {
			return err
		}
		if !member {
			return fmt.Errorf("member %d: %w", sal.MemberID, ErrNotFound)
		}

		taken, err := s.exists(ctx, tx, queryir.TableSalary, "member_id", sal.MemberID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("salary of member %d: %w", sal.MemberID, ErrConflict)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("insert salary: %w", err)
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return ir.Salary{}, err
	}

	sal.ID = id
	return sal, nil
}

// UpdateSalary replaces the salary of sal.MemberID.
// Returns ErrNotFound if the member has no salary.
func (s *Store) UpdateSalary(ctx context.Context, sal ir.Salary) error {
	sal, err := NormalizeSalary(sal)
	if err != nil {
		return err
	}

	return s.writeTx(ctx, func(tx *sql.Tx) error {
		taken, err := s.exists(ctx, tx, queryir.TableSalary, "member_id", sal.MemberID)
		if err != nil {
			return err
		}
		if !taken {
			return fmt.Errorf("salary of member %d: %w", sal.MemberID, ErrNotFound)
		}

		ub := s.flavor.NewUpdateBuilder()
		ub.Update(queryir.TableSalary).
			Set(
				ub.Assign("salary", sal.Salary),
				ub.Assign("job_title", sal.JobTitle),
				ub.Assign("state", string(sal.State)),
				ub.Assign("level_of_education", string(sal.LevelOfEducation)),
			).
			Where(ub.Equal("member_id", sal.MemberID))
		query, args := ub.Build()

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update salary: %w", err)
		}
		return nil
	})
}

// writeTx runs fn inside a transaction, committing if fn succeeds.
func (s *Store) writeTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// exists reports whether table has a row with column = value.
func (s *Store) exists(ctx context.Context, tx *sql.Tx, table, column string, value any) (bool, error) {
	sb := s.flavor.NewSelectBuilder()
	sb.Select("1").From(table).Where(sb.Equal(column, value)).Limit(1)
	query, args := sb.Build()

	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("look up %s.%s: %w", table, column, err)
	}
	return true, nil
}
