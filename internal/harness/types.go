package harness

import "fmt"

// Backend selects the store a scenario runs against.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite3"
)

// Backends lists every backend RunAll compares.
var Backends = []Backend{BackendMemory, BackendSQLite}

// Result contains the outcome of running one scenario on one backend.
type Result struct {
	// Backend is the store the scenario ran against.
	Backend Backend

	// Pass is true when every expectation held.
	Pass bool

	// Snapshot is the indented JSON of the response, or of the error for a
	// rejected request. It ends with a newline.
	Snapshot []byte

	// Errors lists the failed expectations.
	Errors []string
}

// AddError records a failed expectation.
func (r *Result) AddError(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
