package ir

import "time"

// Member is a registered person. Only the attributes the query engine and
// the seed tooling need are modelled here.
type Member struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Birthdate time.Time `json:"birthdate"`
	Gender    Gender    `json:"gender"`
}

// Salary is the salary record a member submitted. Each member has at most one.
type Salary struct {
	ID               int64            `json:"id"`
	MemberID         int64            `json:"memberId"`
	Salary           int64            `json:"salary"`
	JobTitle         string           `json:"jobTitle"`
	State            State            `json:"state"`
	LevelOfEducation LevelOfEducation `json:"levelOfEducation"`
}

// SalaryRecord is one row of the member ⋈ salary join, as read from a store.
// It still carries the exact birthdate; the executor turns it into an
// IntermediateResult before anything leaves the engine.
type SalaryRecord struct {
	SalaryID         int64
	MemberID         int64
	Birthdate        time.Time
	Gender           Gender
	Salary           int64
	JobTitle         string
	State            State
	LevelOfEducation LevelOfEducation
}

// IntermediateResult is the projection every result transformer consumes.
// Transformers must treat it as read-only.
type IntermediateResult struct {
	Age              int64            `json:"age"`
	Salary           int64            `json:"salary"`
	Gender           Gender           `json:"gender"`
	JobTitle         string           `json:"jobTitle"`
	State            State            `json:"state"`
	LevelOfEducation LevelOfEducation `json:"levelOfEducation"`
}

// IntRange is an inclusive integer range, serialized as {"min":..,"max":..}.
type IntRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Contains reports whether v lies inside the range, bounds included.
func (r IntRange) Contains(v int64) bool {
	return v >= r.Min && v <= r.Max
}
