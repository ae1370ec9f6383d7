package ir

import "fmt"

// Gender is the member attribute used to partition averages.
type Gender string

const (
	GenderMale    Gender = "MALE"
	GenderFemale  Gender = "FEMALE"
	GenderDiverse Gender = "DIVERSE"
)

// Genders lists every Gender in declaration order.
var Genders = []Gender{GenderMale, GenderFemale, GenderDiverse}

// State is a German federal state, the administrative region of a salary.
type State string

const (
	StateBadenWuerttemberg           State = "BADEN_WUERTTEMBERG"
	StateBavaria                     State = "BAVARIA"
	StateBerlin                      State = "BERLIN"
	StateBrandenburg                 State = "BRANDENBURG"
	StateBremen                      State = "BREMEN"
	StateHamburg                     State = "HAMBURG"
	StateHesse                       State = "HESSE"
	StateLowerSaxony                 State = "LOWER_SAXONY"
	StateMecklenburgWesternPomerania State = "MECKLENBURG_WESTERN_POMERANIA"
	StateNorthRhineWestphalia        State = "NORTH_RHINE_WESTPHALIA"
	StateRhinelandPalatinate         State = "RHINELAND_PALATINATE"
	StateSaarland                    State = "SAARLAND"
	StateSaxony                      State = "SAXONY"
	StateSaxonyAnhalt                State = "SAXONY_ANHALT"
	StateSchleswigHolstein           State = "SCHLESWIG_HOLSTEIN"
	StateThuringia                   State = "THURINGIA"
)

// States lists every State in declaration order.
var States = []State{
	StateBadenWuerttemberg,
	StateBavaria,
	StateBerlin,
	StateBrandenburg,
	StateBremen,
	StateHamburg,
	StateHesse,
	StateLowerSaxony,
	StateMecklenburgWesternPomerania,
	StateNorthRhineWestphalia,
	StateRhinelandPalatinate,
	StateSaarland,
	StateSaxony,
	StateSaxonyAnhalt,
	StateSchleswigHolstein,
	StateThuringia,
}

// LevelOfEducation is the highest completed education of a salary holder.
type LevelOfEducation string

const (
	EducationNone            LevelOfEducation = "NONE"
	EducationSecondarySchool LevelOfEducation = "SECONDARY_SCHOOL"
	EducationHighSchool      LevelOfEducation = "HIGH_SCHOOL"
	EducationApprenticeship  LevelOfEducation = "APPRENTICESHIP"
	EducationBachelor        LevelOfEducation = "BACHELOR"
	EducationMaster          LevelOfEducation = "MASTER"
	EducationDoctorate       LevelOfEducation = "DOCTORATE"
)

// LevelsOfEducation lists every LevelOfEducation in declaration order.
var LevelsOfEducation = []LevelOfEducation{
	EducationNone,
	EducationSecondarySchool,
	EducationHighSchool,
	EducationApprenticeship,
	EducationBachelor,
	EducationMaster,
	EducationDoctorate,
}

// ParseGender returns the Gender whose wire name is exactly s.
// Matching is case-sensitive.
func ParseGender(s string) (Gender, error) {
	for _, g := range Genders {
		if string(g) == s {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// ParseState returns the State whose wire name is exactly s.
// Matching is case-sensitive.
func ParseState(s string) (State, error) {
	for _, st := range States {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown state %q", s)
}

// ParseLevelOfEducation returns the LevelOfEducation whose wire name is exactly s.
// Matching is case-sensitive.
func ParseLevelOfEducation(s string) (LevelOfEducation, error) {
	for _, l := range LevelsOfEducation {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown level of education %q", s)
}
