// Package filter decodes client filter descriptors into typed filters and
// composes them into one conjunctive query predicate.
//
// Every filter is identified on the wire by its name tag:
//
//	{"name":"age","min":30,"max":39}
//	{"name":"salary","min":3000,"max":4500}
//	{"name":"jobTitle","desiredJobTitle":"Software Engineer"}
//	{"name":"state","desiredState":"BERLIN"}
//	{"name":"levelOfEducation","desiredLevelOfEducation":"MASTER"}
//
// Filters are immutable values. A filter re-encodes to exactly the wire
// form it was decoded from.
package filter

import (
	"time"

	"github.com/tidwall/sjson"
	"golang.org/x/text/unicode/norm"

	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/queryir"
)

// Wire names of the filter variants.
const (
	NameAge              = "age"
	NameSalary           = "salary"
	NameJobTitle         = "jobTitle"
	NameState            = "state"
	NameLevelOfEducation = "levelOfEducation"
)

// Filter is a typed predicate fragment over the member ⋈ salary view.
type Filter interface {
	// Name returns the wire tag of the variant.
	Name() string

	// Predicate returns the fragment the filter contributes for the civil
	// date today. Only age-dependent filters look at today.
	Predicate(today time.Time) queryir.Predicate

	// MarshalJSON encodes the filter to its wire form.
	MarshalJSON() ([]byte, error)
}

// AgeFilter matches members whose age in whole years lies in [Min, Max].
type AgeFilter struct {
	Min int64
	Max int64
}

func (AgeFilter) Name() string { return NameAge }

// Predicate turns the age range into a birthdate range relative to today:
//
//	age >= Min  <=>  birthdate <= today - Min years
//	age <= Max  <=>  birthdate >  today - (Max+1) years
func (f AgeFilter) Predicate(today time.Time) queryir.Predicate {
	return queryir.Between{
		Column: queryir.MemberBirthdate,
		Lower:  ir.NewIRDate(earliestBirthdate(today, f.Max)),
		Upper:  ir.NewIRDate(latestBirthdate(today, f.Min)),
	}
}

func (f AgeFilter) MarshalJSON() ([]byte, error) {
	return marshalRange(NameAge, f.Min, f.Max)
}

// Birthdates are clamped to years 1..9999 so their ISO form keeps sorting
// chronologically.
var (
	minBirthdate = ir.NewDate(1, time.January, 1)
	maxBirthdate = ir.NewDate(9999, time.December, 31)
)

// earliestBirthdate is the first birthdate of someone at most maxAge old.
func earliestBirthdate(today time.Time, maxAge int64) time.Time {
	if maxAge >= int64(today.Year())-1 {
		return minBirthdate
	}
	if maxAge < int64(today.Year())-9999 {
		return maxBirthdate
	}
	return ir.MinusYears(today, int(maxAge+1)).AddDate(0, 0, 1)
}

// latestBirthdate is the last birthdate of someone at least minAge old.
func latestBirthdate(today time.Time, minAge int64) time.Time {
	if minAge <= int64(today.Year())-9999 {
		return maxBirthdate
	}
	if minAge >= int64(today.Year()) {
		// Nobody can be that old; an inverted range matches nothing.
		return minBirthdate.AddDate(0, 0, -1)
	}
	return ir.MinusYears(today, int(minAge))
}

// SalaryFilter matches salaries in [Min, Max].
type SalaryFilter struct {
	Min int64
	Max int64
}

func (SalaryFilter) Name() string { return NameSalary }

func (f SalaryFilter) Predicate(time.Time) queryir.Predicate {
	return queryir.Between{
		Column: queryir.SalaryAmount,
		Lower:  ir.IRInt(f.Min),
		Upper:  ir.IRInt(f.Max),
	}
}

func (f SalaryFilter) MarshalJSON() ([]byte, error) {
	return marshalRange(NameSalary, f.Min, f.Max)
}

// JobTitleFilter matches salaries with exactly the desired job title.
// Titles are compared in Unicode NFC.
type JobTitleFilter struct {
	DesiredJobTitle string
}

// NewJobTitleFilter creates a JobTitleFilter with the title normalized to NFC.
func NewJobTitleFilter(title string) JobTitleFilter {
	return JobTitleFilter{DesiredJobTitle: norm.NFC.String(title)}
}

func (JobTitleFilter) Name() string { return NameJobTitle }

func (f JobTitleFilter) Predicate(time.Time) queryir.Predicate {
	return queryir.Equals{Column: queryir.SalaryJobTitle, Value: ir.IRString(f.DesiredJobTitle)}
}

func (f JobTitleFilter) MarshalJSON() ([]byte, error) {
	return marshalField(NameJobTitle, "desiredJobTitle", f.DesiredJobTitle)
}

// StateFilter matches salaries earned in the desired state.
type StateFilter struct {
	DesiredState ir.State
}

func (StateFilter) Name() string { return NameState }

func (f StateFilter) Predicate(time.Time) queryir.Predicate {
	return queryir.Equals{Column: queryir.SalaryState, Value: ir.IRString(f.DesiredState)}
}

func (f StateFilter) MarshalJSON() ([]byte, error) {
	return marshalField(NameState, "desiredState", string(f.DesiredState))
}

// LevelOfEducationFilter matches salaries with the desired level of education.
type LevelOfEducationFilter struct {
	DesiredLevelOfEducation ir.LevelOfEducation
}

func (LevelOfEducationFilter) Name() string { return NameLevelOfEducation }

func (f LevelOfEducationFilter) Predicate(time.Time) queryir.Predicate {
	return queryir.Equals{
		Column: queryir.SalaryLevelOfEducation,
		Value:  ir.IRString(f.DesiredLevelOfEducation),
	}
}

func (f LevelOfEducationFilter) MarshalJSON() ([]byte, error) {
	return marshalField(NameLevelOfEducation, "desiredLevelOfEducation", string(f.DesiredLevelOfEducation))
}

func marshalRange(name string, lower, upper int64) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "name", name)
	if err != nil {
		return nil, err
	}
	if out, err = sjson.SetBytes(out, "min", lower); err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, "max", upper)
}

func marshalField(name, field, value string) ([]byte, error) {
	out, err := sjson.SetBytes([]byte(`{}`), "name", name)
	if err != nil {
		return nil, err
	}
	return sjson.SetBytes(out, field, value)
}
