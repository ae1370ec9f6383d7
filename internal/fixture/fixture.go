// Package fixture loads member and salary records from files and writes
// them to a store. Fixtures seed local databases and describe the data of
// harness scenarios.
package fixture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	masker "github.com/ggwhite/go-masker"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/genpare/genpare/internal/ir"
)

// Supported file formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatTOML = "toml"
)

// File is the content of a fixture file.
type File struct {
	Members []Member `yaml:"members" json:"members" toml:"members"`
}

// Member is a member with an optional salary. Enum fields use their wire
// names and Birthdate is YYYY-MM-DD.
type Member struct {
	Email     string  `yaml:"email" json:"email" toml:"email"`
	Name      string  `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`
	Birthdate string  `yaml:"birthdate" json:"birthdate" toml:"birthdate"`
	Gender    string  `yaml:"gender" json:"gender" toml:"gender"`
	Salary    *Salary `yaml:"salary,omitempty" json:"salary,omitempty" toml:"salary,omitempty"`
}

type Salary struct {
	Salary           int64  `yaml:"salary" json:"salary" toml:"salary"`
	JobTitle         string `yaml:"jobTitle" json:"jobTitle" toml:"jobTitle"`
	State            string `yaml:"state" json:"state" toml:"state"`
	LevelOfEducation string `yaml:"levelOfEducation" json:"levelOfEducation" toml:"levelOfEducation"`
}

// Writer is the write side of a record store.
type Writer interface {
	InsertMember(ctx context.Context, m ir.Member) (ir.Member, error)
	InsertSalary(ctx context.Context, s ir.Salary) (ir.Salary, error)
}

// Stats counts the records written by Apply.
type Stats struct {
	Members  int `json:"members"`
	Salaries int `json:"salaries"`
}

// Load reads a fixture file, choosing the format by extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// FormatOf maps a file extension to its format.
func FormatOf(path string) (string, error) {
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unsupported fixture extension %q", ext)
	}
}

// Parse decodes fixture data. Unknown fields are rejected.
func Parse(data []byte, format string) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse YAML fixture: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parse JSON fixture: %w", err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("parse TOML fixture: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse TOML fixture: unknown field %s", undecoded[0])
		}
	default:
		return nil, fmt.Errorf("unsupported fixture format %q", format)
	}
	return &f, nil
}

// Convert checks a fixture member and returns its records. The salary is
// nil when the member has none; its MemberID is left zero.
func (m Member) Convert() (ir.Member, *ir.Salary, error) {
	birthdate, err := ir.ParseDate(m.Birthdate)
	if err != nil {
		return ir.Member{}, nil, fmt.Errorf("birthdate: %w", err)
	}
	gender, err := ir.ParseGender(m.Gender)
	if err != nil {
		return ir.Member{}, nil, err
	}
	member := ir.Member{Email: m.Email, Name: m.Name, Birthdate: birthdate, Gender: gender}
	if m.Salary == nil {
		return member, nil, nil
	}

	state, err := ir.ParseState(m.Salary.State)
	if err != nil {
		return ir.Member{}, nil, err
	}
	education, err := ir.ParseLevelOfEducation(m.Salary.LevelOfEducation)
	if err != nil {
		return ir.Member{}, nil, err
	}
	return member, &ir.Salary{
		Salary:           m.Salary.Salary,
		JobTitle:         m.Salary.JobTitle,
		State:            state,
		LevelOfEducation: education,
	}, nil
}

// Apply writes every member of f, and its salary, in file order. It stops
// at the first failure; records written before it stay written.
func Apply(ctx context.Context, w Writer, f *File) (Stats, error) {
	var stats Stats
	mask := &masker.Masker{}

	for i, fm := range f.Members {
		member, salary, err := fm.Convert()
		if err != nil {
			return stats, fmt.Errorf("member %d: %w", i, err)
		}

		member, err = w.InsertMember(ctx, member)
		if err != nil {
			return stats, fmt.Errorf("member %d: %w", i, err)
		}
		stats.Members++

		if salary != nil {
			salary.MemberID = member.ID
			if _, err := w.InsertSalary(ctx, *salary); err != nil {
				return stats, fmt.Errorf("salary of member %d: %w", i, err)
			}
			stats.Salaries++
		}

		log.Ctx(ctx).Debug().
			Int64("MemberID", member.ID).
			Str("Email", mask.Email(member.Email)).
			Bool("Salary", salary != nil).
			Msg("seeded member")
	}
	return stats, nil
}
