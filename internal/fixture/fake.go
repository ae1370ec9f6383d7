package fixture

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/go-faker/faker/v4"

	"github.com/genpare/genpare/internal/ir"
)

// JobTitles are the titles Fake draws from.
var JobTitles = []string{
	"Software Engineer",
	"Nurse",
	"Carpenter",
	"Electrician",
	"Accountant",
	"Baker",
	"Pilot",
	"Pharmacist",
}

// Fake generates n members, each with a salary. Names and emails come from
// faker; the seeded attributes (birthdate, gender, salary, title, state,
// education) are reproducible for a given seed. Emails are unique.
func Fake(n int, seed uint64, today time.Time) *File {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	f := &File{Members: make([]Member, n)}

	for i := range f.Members {
		age := 18 + rng.IntN(50)
		birthdate := ir.MinusYears(ir.Today(today), age).AddDate(0, 0, -rng.IntN(365))

		f.Members[i] = Member{
			Email:     fmt.Sprintf("%d.%s", i+1, faker.Email()),
			Name:      faker.Name(),
			Birthdate: ir.FormatDate(birthdate),
			Gender:    string(ir.Genders[rng.IntN(len(ir.Genders))]),
			Salary: &Salary{
				Salary:           int64(1500 + 250*rng.IntN(30)),
				JobTitle:         JobTitles[rng.IntN(len(JobTitles))],
				State:            string(ir.States[rng.IntN(len(ir.States))]),
				LevelOfEducation: string(ir.LevelsOfEducation[rng.IntN(len(ir.LevelsOfEducation))]),
			},
		}
	}
	return f
}
