package testutil

// StaticRequestIDs returns the same request id every time.
//
// Unlike engine.FixedGenerator, which returns ids in sequence and panics
// when they run out, this generator never runs out, so a scenario can serve
// any number of requests under one id.
//
// Thread-safety: StaticRequestIDs is stateless and safe for concurrent use.
type StaticRequestIDs struct {
	id string
}

// NewStaticRequestIDs creates the generator. An empty id becomes
// "test-request".
func NewStaticRequestIDs(id string) *StaticRequestIDs {
	if id == "" {
		id = "test-request"
	}
	return &StaticRequestIDs{id: id}
}

// Generate returns the fixed id.
func (g *StaticRequestIDs) Generate() string {
	return g.id
}
