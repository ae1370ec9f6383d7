package store

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/genpare/genpare/internal/ir"
)

// MaxJobTitleLength is the maximum length of a job title in characters.
const MaxJobTitleLength = 63

// Store errors. Match with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrJobTitleTooLong = fmt.Errorf("job title longer than %d characters", MaxJobTitleLength)
	ErrInvalidRecord   = errors.New("invalid record")
)

// NormalizeMember validates a member before it is written.
func NormalizeMember(m ir.Member) (ir.Member, error) {
	if m.Email == "" {
		return ir.Member{}, fmt.Errorf("%w: member without email", ErrInvalidRecord)
	}
	if _, err := ir.ParseGender(string(m.Gender)); err != nil {
		return ir.Member{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	m.Name = norm.NFC.String(m.Name)
	m.Birthdate = ir.NewIRDate(m.Birthdate).Time
	return m, nil
}

// NormalizeSalary validates a salary before it is written. Job titles are
// stored in Unicode NFC, the form job title filters compare against.
func NormalizeSalary(s ir.Salary) (ir.Salary, error) {
	s.JobTitle = norm.NFC.String(s.JobTitle)
	if s.JobTitle == "" {
		return ir.Salary{}, fmt.Errorf("%w: empty job title", ErrInvalidRecord)
	}
	if utf8.RuneCountInString(s.JobTitle) > MaxJobTitleLength {
		return ir.Salary{}, ErrJobTitleTooLong
	}
	if s.Salary < 0 {
		return ir.Salary{}, fmt.Errorf("%w: negative salary %d", ErrInvalidRecord, s.Salary)
	}
	if _, err := ir.ParseState(string(s.State)); err != nil {
		return ir.Salary{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if _, err := ir.ParseLevelOfEducation(string(s.LevelOfEducation)); err != nil {
		return ir.Salary{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return s, nil
}
