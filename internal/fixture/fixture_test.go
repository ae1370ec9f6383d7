package fixture

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/memstore"
	"github.com/genpare/genpare/internal/store"
)

const yamlFixture = `
members:
  - email: ada@example.com
    name: Ada
    birthdate: "1990-06-15"
    gender: FEMALE
    salary:
      salary: 4200
      jobTitle: Software Engineer
      state: BERLIN
      levelOfEducation: MASTER
  - email: bob@example.com
    birthdate: "1980-01-01"
    gender: MALE
`

const tomlFixture = `
[[members]]
email = "ada@example.com"
name = "Ada"
birthdate = "1990-06-15"
gender = "FEMALE"

  [members.salary]
  salary = 4200
  jobTitle = "Software Engineer"
  state = "BERLIN"
  levelOfEducation = "MASTER"

[[members]]
email = "bob@example.com"
birthdate = "1980-01-01"
gender = "MALE"
`

const jsonFixture = `{"members":[
  {"email":"ada@example.com","name":"Ada","birthdate":"1990-06-15","gender":"FEMALE",
   "salary":{"salary":4200,"jobTitle":"Software Engineer","state":"BERLIN","levelOfEducation":"MASTER"}},
  {"email":"bob@example.com","birthdate":"1980-01-01","gender":"MALE"}
]}`

func TestParse_AllFormatsAgree(t *testing.T) {
	want := &File{Members: []Member{
		{
			Email: "ada@example.com", Name: "Ada", Birthdate: "1990-06-15", Gender: "FEMALE",
			Salary: &Salary{Salary: 4200, JobTitle: "Software Engineer", State: "BERLIN", LevelOfEducation: "MASTER"},
		},
		{Email: "bob@example.com", Birthdate: "1980-01-01", Gender: "MALE"},
	}}

	for format, data := range map[string]string{
		FormatYAML: yamlFixture,
		FormatTOML: tomlFixture,
		FormatJSON: jsonFixture,
	} {
		t.Run(format, func(t *testing.T) {
			got, err := Parse([]byte(data), format)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParse_UnknownFields(t *testing.T) {
	_, err := Parse([]byte("members:\n  - email: a@example.com\n    shoeSize: 44\n"), FormatYAML)
	assert.Error(t, err)

	_, err = Parse([]byte(`{"members":[{"email":"a@example.com","shoeSize":44}]}`), FormatJSON)
	assert.Error(t, err)

	_, err = Parse([]byte("[[members]]\nemail = \"a@example.com\"\nshoeSize = 44\n"), FormatTOML)
	assert.Error(t, err)

	_, err = Parse([]byte(""), "xml")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "members.yml")
	require.NoError(t, os.WriteFile(path, []byte(yamlFixture), 0o600))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, f.Members, 2)

	_, err = Load(filepath.Join(dir, "members.csv"))
	assert.Error(t, err)

	_, err = FormatOf("members.csv")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	f, err := Parse([]byte(yamlFixture), FormatYAML)
	require.NoError(t, err)

	var logs bytes.Buffer
	ctx := zerolog.New(&logs).WithContext(context.Background())
	s := memstore.New()

	stats, err := Apply(ctx, s, f)
	require.NoError(t, err)
	assert.Equal(t, Stats{Members: 2, Salaries: 1}, stats)

	sal, err := s.SalaryByMember(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Software Engineer", sal.JobTitle)
	assert.Equal(t, ir.StateBerlin, sal.State)

	_, err = s.SalaryByMember(ctx, 2)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Contains(t, logs.String(), "seeded member")
	assert.NotContains(t, logs.String(), "ada@example.com", "emails are masked in logs")
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	s := memstore.New()
	f := &File{Members: []Member{
		{Email: "a@example.com", Birthdate: "1990-01-01", Gender: "MALE"},
		{Email: "a@example.com", Birthdate: "1990-01-01", Gender: "MALE"},
		{Email: "c@example.com", Birthdate: "1990-01-01", Gender: "MALE"},
	}}

	stats, err := Apply(context.Background(), s, f)
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.Equal(t, Stats{Members: 1}, stats)
}

func TestConvert_Errors(t *testing.T) {
	valid := Member{
		Email: "a@example.com", Birthdate: "1990-01-01", Gender: "DIVERSE",
		Salary: &Salary{Salary: 1, JobTitle: "x", State: "SAXONY", LevelOfEducation: "NONE"},
	}
	_, _, err := valid.Convert()
	require.NoError(t, err)

	for name, mutate := range map[string]func(*Member){
		"birthdate": func(m *Member) { m.Birthdate = "15.06.1990" },
		"gender":    func(m *Member) { m.Gender = "male" },
		"state":     func(m *Member) { m.Salary.State = "PARIS" },
		"education": func(m *Member) { m.Salary.LevelOfEducation = "PHD" },
	} {
		t.Run(name, func(t *testing.T) {
			m := valid
			sal := *valid.Salary
			m.Salary = &sal
			mutate(&m)
			_, _, err := m.Convert()
			assert.Error(t, err)
		})
	}
}

func TestFake(t *testing.T) {
	today := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)
	f := Fake(50, 7, today)
	require.Len(t, f.Members, 50)

	emails := make(map[string]bool)
	for _, m := range f.Members {
		assert.False(t, emails[m.Email], "duplicate email %s", m.Email)
		emails[m.Email] = true

		member, salary, err := m.Convert()
		require.NoError(t, err)
		require.NotNil(t, salary)

		age := ir.AgeAt(member.Birthdate, today)
		assert.GreaterOrEqual(t, age, int64(17))
		assert.LessOrEqual(t, age, int64(67))
	}

	again := Fake(50, 7, today)
	for i := range f.Members {
		assert.Equal(t, f.Members[i].Birthdate, again.Members[i].Birthdate)
		assert.Equal(t, *f.Members[i].Salary, *again.Members[i].Salary)
	}

	stats, err := Apply(context.Background(), memstore.New(), f)
	require.NoError(t, err)
	assert.Equal(t, Stats{Members: 50, Salaries: 50}, stats)
}
