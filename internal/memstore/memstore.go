// Package memstore is an in-memory record store with the same contract as
// the SQL store. Predicates are evaluated row by row with expr-lang.
//
// It backs the "memory" driver, local demos and engine tests.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/queryexpr"
	"github.com/genpare/genpare/internal/queryir"
	"github.com/genpare/genpare/internal/store"
)

// Store holds members and salaries in memory. It is safe for concurrent
// use; reads observe a consistent snapshot.
type Store struct {
	mu         sync.RWMutex
	members    map[int64]ir.Member
	salaries   map[int64]ir.Salary // keyed by member id
	emails     map[string]int64
	nextMember int64
	nextSalary int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		members:  make(map[int64]ir.Member),
		salaries: make(map[int64]ir.Salary),
		emails:   make(map[string]int64),
	}
}

// InsertMember adds a member and returns it with its assigned id.
func (s *Store) InsertMember(_ context.Context, m ir.Member) (ir.Member, error) {
	m, err := store.NormalizeMember(m)
	if err != nil {
		return ir.Member{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[m.Email]; taken {
		return ir.Member{}, fmt.Errorf("member %q: %w", m.Email, store.ErrConflict)
	}
	s.nextMember++
	m.ID = s.nextMember
	s.members[m.ID] = m
	s.emails[m.Email] = m.ID
	return m, nil
}

// InsertSalary adds the salary of a member and returns it with its
// assigned id.
func (s *Store) InsertSalary(_ context.Context, sal ir.Salary) (ir.Salary, error) {
	sal, err := store.NormalizeSalary(sal)
	if err != nil {
		return ir.Salary{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[sal.MemberID]; !ok {
		return ir.Salary{}, fmt.Errorf("member %d: %w", sal.MemberID, store.ErrNotFound)
	}
	if _, taken := s.salaries[sal.MemberID]; taken {
		return ir.Salary{}, fmt.Errorf("salary of member %d: %w", sal.MemberID, store.ErrConflict)
	}
	s.nextSalary++
	sal.ID = s.nextSalary
	s.salaries[sal.MemberID] = sal
	return sal, nil
}

// UpdateSalary replaces the salary of sal.MemberID, keeping its id.
func (s *Store) UpdateSalary(_ context.Context, sal ir.Salary) error {
	sal, err := store.NormalizeSalary(sal)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.salaries[sal.MemberID]
	if !ok {
		return fmt.Errorf("salary of member %d: %w", sal.MemberID, store.ErrNotFound)
	}
	sal.ID = old.ID
	s.salaries[sal.MemberID] = sal
	return nil
}

// SalaryByMember returns the salary of a member.
func (s *Store) SalaryByMember(_ context.Context, memberID int64) (ir.Salary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sal, ok := s.salaries[memberID]
	if !ok {
		return ir.Salary{}, fmt.Errorf("salary of member %d: %w", memberID, store.ErrNotFound)
	}
	return sal, nil
}

// DistinctJobTitles returns every job title with a salary, sorted.
func (s *Store) DistinctJobTitles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	titles := []string{}
	for _, sal := range s.salaries {
		if !seen[sal.JobTitle] {
			seen[sal.JobTitle] = true
			titles = append(titles, sal.JobTitle)
		}
	}
	sort.Strings(titles)
	return titles, nil
}

// salaryJoin is the only join the store can serve: each salary is looked up
// with its member by key.
var salaryJoin = queryir.FieldEquals{Left: queryir.SalaryMemberID, Right: queryir.MemberID}

// ReadSalaries evaluates a salary view query against every member ⋈ salary
// pair. Results are ordered by salary id.
func (s *Store) ReadSalaries(ctx context.Context, q queryir.Select) ([]ir.SalaryRecord, error) {
	if err := queryir.Validate(q).Err(); err != nil {
		return nil, err
	}
	if q.From != queryir.TableSalary || q.Join == nil || q.Join.Table != queryir.TableMember ||
		q.Join.On != salaryJoin {
		return nil, fmt.Errorf("memstore only serves the salary view")
	}

	prog, err := queryexpr.Compile(q.Filter)
	if err != nil {
		return nil, fmt.Errorf("compile salary query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := []ir.SalaryRecord{}
	for _, sal := range s.salaries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, ok := s.members[sal.MemberID]
		if !ok {
			continue
		}
		ok, err := prog.Match(queryexpr.RowOf(m, sal))
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, ir.SalaryRecord{
				SalaryID:         sal.ID,
				MemberID:         m.ID,
				Birthdate:        m.Birthdate,
				Gender:           m.Gender,
				Salary:           sal.Salary,
				JobTitle:         sal.JobTitle,
				State:            sal.State,
				LevelOfEducation: sal.LevelOfEducation,
			})
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].SalaryID < records[j].SalaryID })
	return records, nil
}
