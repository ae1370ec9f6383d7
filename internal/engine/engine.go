package engine

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/genpare/genpare/internal/anonymize"
	"github.com/genpare/genpare/internal/filter"
	"github.com/genpare/genpare/internal/request"
	"github.com/genpare/genpare/internal/transform"
)

// Engine serves salary queries.
//
// Thread-safety: an Engine holds no per-request state and is safe for
// concurrent use. Concurrent requests share only the store.
type Engine struct {
	store        SalaryReader
	decoder      *request.Decoder
	filters      *filter.Registry
	transformers *transform.Registry
	clock        Clock
	ids          RequestIDGenerator
}

// Query is a decoded request: the filters to apply and the transformers to
// run, both in request order.
type Query struct {
	Filters      []filter.Filter
	Transformers []transform.Kind
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock that supplies each request's reference time.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithRequestIDs sets the request id generator.
func WithRequestIDs(g RequestIDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithBucketer sets the anonymization of list results.
//
// Default: anonymize.DefaultBucketer()
func WithBucketer(b anonymize.Bucketer) Option {
	return func(e *Engine) {
		e.transformers = transform.NewRegistry(b)
	}
}

// WithFilterRegistry replaces the built-in filter registry.
func WithFilterRegistry(r *filter.Registry) Option {
	return func(e *Engine) {
		e.filters = r
	}
}

// New creates an Engine reading from store.
func New(store SalaryReader, opts ...Option) (*Engine, error) {
	decoder, err := request.NewDecoder()
	if err != nil {
		return nil, fmt.Errorf("create request decoder: %w", err)
	}

	e := &Engine{
		store:        store,
		decoder:      decoder,
		filters:      filter.DefaultRegistry(),
		transformers: transform.NewRegistry(anonymize.DefaultBucketer()),
		clock:        SystemClock{},
		ids:          UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Filters returns the filter registry.
func (e *Engine) Filters() *filter.Registry {
	return e.filters
}

// Transformers returns the transformer registry.
func (e *Engine) Transformers() *transform.Registry {
	return e.transformers
}

// Decode turns a request body into a Query.
//
// Checks run in this order and the first failure is returned: envelope
// shape, empty filter list, empty transformer list, each filter, each
// transformer. Nothing is partially accepted.
func (e *Engine) Decode(body []byte) (Query, error) {
	env, err := e.decoder.Decode(body)
	if err != nil {
		return Query{}, newMalformedError(err)
	}

	if len(env.Filters) == 0 {
		return Query{}, newEmptyError(ErrCodeEmptyFilterList, ComponentFilter, "at least one filter is required")
	}
	if len(env.ResultTransformers) == 0 {
		return Query{}, newEmptyError(ErrCodeEmptyTransformerList, ComponentTransformer,
			"at least one result transformer is required")
	}

	q := Query{
		Filters:      make([]filter.Filter, len(env.Filters)),
		Transformers: make([]transform.Kind, len(env.ResultTransformers)),
	}
	for i, raw := range env.Filters {
		f, err := e.filters.DecodeResult(raw)
		if err != nil {
			return Query{}, newFilterError(i, err)
		}
		q.Filters[i] = f
	}
	for i, raw := range env.ResultTransformers {
		kind, err := e.transformers.Decode(raw)
		if err != nil {
			return Query{}, newTransformerError(i, err)
		}
		q.Transformers[i] = kind
	}
	return q, nil
}

// Execute runs a decoded query.
func (e *Engine) Execute(ctx context.Context, q Query) (transform.Response, error) {
	if len(q.Filters) == 0 {
		return transform.Response{}, newEmptyError(ErrCodeEmptyFilterList, ComponentFilter,
			"at least one filter is required")
	}
	if len(q.Transformers) == 0 {
		return transform.Response{}, newEmptyError(ErrCodeEmptyTransformerList, ComponentTransformer,
			"at least one result transformer is required")
	}

	rows, err := e.Fetch(ctx, q.Filters, e.clock.Now())
	if err != nil {
		return transform.Response{}, err
	}

	resp, err := e.transformers.Apply(rows, q.Transformers)
	if err != nil {
		return transform.Response{}, newTransformerError(-1, err)
	}

	log.Ctx(ctx).Info().
		Int("Rows", len(rows)).
		Int("Results", len(resp.Results)).
		Msg("query served")
	return resp, nil
}

// Run decodes and executes one request body. Its log lines carry a fresh
// request id.
func (e *Engine) Run(ctx context.Context, body []byte) (transform.Response, error) {
	logger := log.Ctx(ctx).With().Str("RequestID", e.ids.Generate()).Logger()
	ctx = logger.WithContext(ctx)

	q, err := e.Decode(body)
	if err != nil {
		logger.Debug().Err(err).Msg("rejected query")
		return transform.Response{}, err
	}

	logger.Debug().
		Int("Filters", len(q.Filters)).
		Int("Transformers", len(q.Transformers)).
		Msg("decoded query")

	return e.Execute(ctx, q)
}
