package filter

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/genpare/genpare/internal/ir"
)

// Decode errors. They are wrapped with the offending name or field.
var (
	ErrNotObject    = errors.New("filter descriptor is not a JSON object")
	ErrUnknownName  = errors.New("unknown filter name")
	ErrMissingField = errors.New("missing field")
	ErrInvalidField = errors.New("invalid field")
)

// FieldKind is the JSON type a descriptor field must have.
type FieldKind string

const (
	KindInteger FieldKind = "integer"
	KindString  FieldKind = "string"
	KindEnum    FieldKind = "enum"
)

// Field describes one variant-specific descriptor field.
type Field struct {
	Name   string
	Kind   FieldKind
	Values []string // Allowed values of an enum field
}

// Constructor builds a typed filter from a descriptor object whose name has
// already been matched.
type Constructor func(obj gjson.Result) (Filter, error)

// Entry is a registered filter variant.
type Entry struct {
	Name   string
	Fields []Field
	New    Constructor
}

// Registry maps filter names to constructors. It is immutable once built
// and safe for concurrent use.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds a registry from the given entries. Duplicate names
// are rejected.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Name == "" || e.New == nil {
			return nil, fmt.Errorf("incomplete filter entry %q", e.Name)
		}
		if _, dup := r.entries[e.Name]; dup {
			return nil, fmt.Errorf("duplicate filter %q", e.Name)
		}
		r.entries[e.Name] = e
	}
	return r, nil
}

// DefaultRegistry returns the registry of the five built-in filters.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		Entry{
			Name:   NameAge,
			Fields: []Field{{Name: "min", Kind: KindInteger}, {Name: "max", Kind: KindInteger}},
			New: func(obj gjson.Result) (Filter, error) {
				lower, upper, err := rangeFields(obj)
				if err != nil {
					return nil, err
				}
				return AgeFilter{Min: lower, Max: upper}, nil
			},
		},
		Entry{
			Name:   NameSalary,
			Fields: []Field{{Name: "min", Kind: KindInteger}, {Name: "max", Kind: KindInteger}},
			New: func(obj gjson.Result) (Filter, error) {
				lower, upper, err := rangeFields(obj)
				if err != nil {
					return nil, err
				}
				return SalaryFilter{Min: lower, Max: upper}, nil
			},
		},
		Entry{
			Name:   NameJobTitle,
			Fields: []Field{{Name: "desiredJobTitle", Kind: KindString}},
			New: func(obj gjson.Result) (Filter, error) {
				title, err := stringField(obj, "desiredJobTitle")
				if err != nil {
					return nil, err
				}
				return NewJobTitleFilter(title), nil
			},
		},
		Entry{
			Name:   NameState,
			Fields: []Field{{Name: "desiredState", Kind: KindEnum, Values: enumValues(ir.States)}},
			New: func(obj gjson.Result) (Filter, error) {
				s, err := stringField(obj, "desiredState")
				if err != nil {
					return nil, err
				}
				state, err := ir.ParseState(s)
				if err != nil {
					return nil, fmt.Errorf("%w desiredState: %v", ErrInvalidField, err)
				}
				return StateFilter{DesiredState: state}, nil
			},
		},
		Entry{
			Name: NameLevelOfEducation,
			Fields: []Field{{
				Name: "desiredLevelOfEducation", Kind: KindEnum, Values: enumValues(ir.LevelsOfEducation),
			}},
			New: func(obj gjson.Result) (Filter, error) {
				s, err := stringField(obj, "desiredLevelOfEducation")
				if err != nil {
					return nil, err
				}
				level, err := ir.ParseLevelOfEducation(s)
				if err != nil {
					return nil, fmt.Errorf("%w desiredLevelOfEducation: %v", ErrInvalidField, err)
				}
				return LevelOfEducationFilter{DesiredLevelOfEducation: level}, nil
			},
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Decode builds a filter from one raw JSON descriptor.
func (r *Registry) Decode(raw []byte) (Filter, error) {
	if !gjson.ValidBytes(raw) {
		return nil, ErrNotObject
	}
	return r.DecodeResult(gjson.ParseBytes(raw))
}

// DecodeResult builds a filter from a parsed descriptor.
func (r *Registry) DecodeResult(obj gjson.Result) (Filter, error) {
	if !obj.IsObject() {
		return nil, ErrNotObject
	}

	name, err := stringField(obj, "name")
	if err != nil {
		return nil, err
	}

	entry, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownName, name)
	}

	f, err := entry.New(obj)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", name, err)
	}
	return f, nil
}

// Names returns the registered filter names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entries returns the registered variants sorted by name.
func (r *Registry) Entries() []Entry {
	names := r.Names()
	entries := make([]Entry, len(names))
	for i, name := range names {
		entries[i] = r.entries[name]
	}
	return entries
}

func rangeFields(obj gjson.Result) (int64, int64, error) {
	lower, err := intField(obj, "min")
	if err != nil {
		return 0, 0, err
	}
	upper, err := intField(obj, "max")
	if err != nil {
		return 0, 0, err
	}
	return lower, upper, nil
}

// intField reads an integer field. Fractions and exponents are rejected
// rather than truncated.
func intField(obj gjson.Result, field string) (int64, error) {
	res := obj.Get(field)
	if !res.Exists() {
		return 0, fmt.Errorf("%w %s", ErrMissingField, field)
	}
	if res.Type != gjson.Number {
		return 0, fmt.Errorf("%w %s: expected integer, got %s", ErrInvalidField, field, res.Type)
	}
	n, err := strconv.ParseInt(res.Raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %s is not a 64-bit integer", ErrInvalidField, field, res.Raw)
	}
	return n, nil
}

func stringField(obj gjson.Result, field string) (string, error) {
	res := obj.Get(field)
	if !res.Exists() {
		return "", fmt.Errorf("%w %s", ErrMissingField, field)
	}
	if res.Type != gjson.String {
		return "", fmt.Errorf("%w %s: expected string, got %s", ErrInvalidField, field, res.Type)
	}
	return res.Str, nil
}

func enumValues[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
