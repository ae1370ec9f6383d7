package filter

import (
	"errors"
	"time"

	"github.com/genpare/genpare/internal/ir"
	"github.com/genpare/genpare/internal/queryir"
)

// ErrEmpty is returned when there is nothing to compile.
var ErrEmpty = errors.New("filter list is empty")

// Compile combines filters into the conjunction of their fragments,
// evaluated against the single reference time now. Fragment order follows
// filter order; it never changes the match set.
func Compile(filters []Filter, now time.Time) (queryir.And, error) {
	if len(filters) == 0 {
		return queryir.And{}, ErrEmpty
	}

	today := ir.Today(now)
	preds := make([]queryir.Predicate, len(filters))
	for i, f := range filters {
		preds[i] = f.Predicate(today)
	}
	return queryir.And{Predicates: preds}, nil
}
