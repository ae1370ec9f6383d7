// Package request checks the shape of a query request body and splits it
// into its raw filter and transformer descriptors.
package request

import (
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
	"github.com/tidwall/gjson"
)

//go:embed envelope.cue
var envelopeSchema string

// ErrMalformed is returned when a body is not JSON or not shaped like a
// request envelope.
var ErrMalformed = errors.New("malformed request")

// Envelope is a request body split into its descriptors. Descriptors are
// left undecoded.
type Envelope struct {
	Filters            []gjson.Result
	ResultTransformers []gjson.Result
}

// Decoder validates request bodies against the envelope schema.
type Decoder struct {
	mu     sync.Mutex // cue.Context is not safe for concurrent use
	ctx    *cue.Context
	schema cue.Value
}

// NewDecoder compiles the envelope schema.
func NewDecoder() (*Decoder, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(envelopeSchema, cue.Filename("envelope.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile envelope schema: %w", err)
	}
	schema := v.LookupPath(cue.ParsePath("#Request"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("lookup envelope schema: %w", err)
	}
	return &Decoder{ctx: ctx, schema: schema}, nil
}

// Decode checks body and returns its descriptors in request order.
// Emptiness of either list is not checked here.
func (d *Decoder) Decode(body []byte) (Envelope, error) {
	if err := d.validate(body); err != nil {
		return Envelope{}, err
	}

	return Envelope{
		Filters:            gjson.GetBytes(body, "filters").Array(),
		ResultTransformers: gjson.GetBytes(body, "resultTransformers").Array(),
	}, nil
}

func (d *Decoder) validate(body []byte) error {
	expr, err := cuejson.Extract("request.json", body)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, firstMessage(err))
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	v := d.ctx.BuildExpr(expr)
	if err := v.Err(); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, firstMessage(err))
	}
	if err := d.schema.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformed, firstMessage(err))
	}
	return nil
}

// firstMessage reduces a CUE error list to its first message.
func firstMessage(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	return errs[0].Error()
}
