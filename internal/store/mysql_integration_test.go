//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"github.com/genpare/genpare/internal/filter"
	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/queryir"
)

const mysqlTestImage = "mysql:8"

type MySQLStoreSuite struct {
	suite.Suite
	container testcontainers.Container
	dsn       string
	store     *Store
}

func TestMySQLStore(t *testing.T) {
	suite.Run(t, new(MySQLStoreSuite))
}

func (s *MySQLStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcmysql.Run(ctx,
		mysqlTestImage,
		tcmysql.WithDatabase("genpare"),
		tcmysql.WithUsername("genpare"),
		tcmysql.WithPassword("genpare"),
	)
	s.Require().NoErrorf(err, "failed to start MySQL container")
	s.container = container

	s.dsn, err = container.ConnectionString(ctx)
	s.Require().NoError(err)

	s.store, err = Open(ctx, DriverMySQL, s.dsn, Options{MaxRetries: 5, RetryWait: time.Second})
	s.Require().NoError(err)
}

func (s *MySQLStoreSuite) TearDownSuite() {
	if s.store != nil {
		s.Assert().NoError(s.store.Close())
	}
	if s.container != nil {
		s.Assert().NoErrorf(s.container.Terminate(context.Background()), "failed to terminate MySQL container")
	}
}

func (s *MySQLStoreSuite) SetupTest() {
	ctx := context.Background()
	_, err := s.store.DB().ExecContext(ctx, "DELETE FROM salaries")
	s.Require().NoError(err)
	_, err = s.store.DB().ExecContext(ctx, "DELETE FROM members")
	s.Require().NoError(err)
}

func (s *MySQLStoreSuite) insert(email string, birthdate time.Time, gender ir.Gender, salary int64, title string, state ir.State) {
	ctx := context.Background()
	m, err := s.store.InsertMember(ctx, ir.Member{Email: email, Name: email, Birthdate: birthdate, Gender: gender})
	s.Require().NoError(err)
	_, err = s.store.InsertSalary(ctx, ir.Salary{
		MemberID: m.ID, Salary: salary, JobTitle: title, State: state,
		LevelOfEducation: ir.EducationMaster,
	})
	s.Require().NoError(err)
}

func (s *MySQLStoreSuite) TestOpenIsIdempotent() {
	again, err := Open(context.Background(), DriverMySQL, s.dsn, Options{})
	s.Require().NoError(err)
	s.Assert().NoError(again.Close())
}

func (s *MySQLStoreSuite) TestReadSalaries() {
	s.insert("a@example.com", ir.NewDate(1990, time.June, 15), ir.GenderFemale, 1000, "Baker", ir.StateBerlin)
	s.insert("b@example.com", ir.NewDate(1980, time.January, 1), ir.GenderMale, 5000, "Pilot", ir.StateHamburg)

	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
	pred, err := filter.Compile([]filter.Filter{
		filter.StateFilter{DesiredState: ir.StateBerlin},
		filter.AgeFilter{Min: 36, Max: 36},
	}, now)
	s.Require().NoError(err)

	records, err := s.store.ReadSalaries(context.Background(), queryir.SalaryView(pred))
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Assert().Equal(int64(1000), records[0].Salary)
	s.Assert().True(ir.NewDate(1990, time.June, 15).Equal(records[0].Birthdate))
}

func (s *MySQLStoreSuite) TestJobTitlesAreCaseSensitive() {
	s.insert("a@example.com", ir.NewDate(1990, time.June, 15), ir.GenderFemale, 1000, "Baker", ir.StateBerlin)

	pred, err := filter.Compile([]filter.Filter{filter.NewJobTitleFilter("baker")}, time.Now())
	s.Require().NoError(err)

	records, err := s.store.ReadSalaries(context.Background(), queryir.SalaryView(pred))
	s.Require().NoError(err)
	s.Assert().Empty(records)

	titles, err := s.store.DistinctJobTitles(context.Background())
	s.Require().NoError(err)
	s.Assert().Equal([]string{"Baker"}, titles)
}

func (s *MySQLStoreSuite) TestSalaryConflict() {
	s.insert("a@example.com", ir.NewDate(1990, time.June, 15), ir.GenderFemale, 1000, "Baker", ir.StateBerlin)

	sal, err := s.store.SalaryByMember(context.Background(), s.memberID("a@example.com"))
	s.Require().NoError(err)

	_, err = s.store.InsertSalary(context.Background(), ir.Salary{
		MemberID: sal.MemberID, Salary: 1, JobTitle: "x", State: ir.StateBerlin,
		LevelOfEducation: ir.EducationNone,
	})
	s.Assert().ErrorIs(err, ErrConflict)
}

func (s *MySQLStoreSuite) memberID(email string) int64 {
	var id int64
	err := s.store.DB().QueryRowContext(context.Background(),
		"SELECT id FROM members WHERE email = ?", email).Scan(&id)
	s.Require().NoError(err)
	return id
}
