package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/genpare/genpare/internal/config"
	"github.com/genpare/genpare/internal/engine"
	"github.com/genpare/genpare/internal/fixture"
	"github.com/genpare/genpare/internal/httpapi"
	"github.com/genpare/genpare/internal/memstore"
	"github.com/genpare/genpare/internal/store"
)

// recordStore is the store surface the commands use.
type recordStore interface {
	engine.SalaryReader
	fixture.Writer
	httpapi.JobTitleLister
}

// backend is an opened record store with an engine reading from it.
type backend struct {
	store  recordStore
	engine *engine.Engine
	close  func() error
}

// openBackend opens the configured store and builds an engine over it.
// The caller must call Close.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	bucketer, err := cfg.Anonymization.Bucketer()
	if err != nil {
		return nil, fmt.Errorf("anonymization: %w", err)
	}

	b := &backend{close: func() error { return nil }}
	switch cfg.DB.Driver {
	case config.DriverMemory:
		log.Ctx(ctx).Debug().Msg("using in-memory store")
		b.store = memstore.New()
	default:
		st, err := store.Open(ctx, cfg.DB.Driver, cfg.DB.DSN, cfg.DB.StoreOptions())
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.DB.Driver, err)
		}
		b.store = st
		b.close = st.Close
	}

	b.engine, err = engine.New(b.store, engine.WithBucketer(bucketer))
	if err != nil {
		b.close()
		return nil, err
	}
	return b, nil
}

// seed writes a fixture file into the store. An empty path is a no-op.
func (b *backend) seed(ctx context.Context, path string) (fixture.Stats, error) {
	if path == "" {
		return fixture.Stats{}, nil
	}
	f, err := fixture.Load(path)
	if err != nil {
		return fixture.Stats{}, err
	}
	stats, err := fixture.Apply(ctx, b.store, f)
	if err != nil {
		return stats, fmt.Errorf("seed %s: %w", path, err)
	}
	log.Ctx(ctx).Info().
		Str("Fixture", path).
		Int("Members", stats.Members).
		Int("Salaries", stats.Salaries).
		Msg("seeded store")
	return stats, nil
}

// Close releases the store.
func (b *backend) Close() error {
	return b.close()
}
