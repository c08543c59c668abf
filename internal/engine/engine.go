// Package engine orchestrates the pipeline: raw zone loading, cleansing,
// dimension building, and validation, with run history in the state store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/stratify-labs/stratify/internal/config"
	"github.com/stratify-labs/stratify/internal/rawzone"
	"github.com/stratify-labs/stratify/internal/state"
	"github.com/stratify-labs/stratify/internal/validate"
	"github.com/stratify-labs/stratify/internal/warehouse"
	"github.com/stratify-labs/stratify/pkg/adapter"
)

// Engine runs the pipeline against one warehouse target.
type Engine struct {
	// Database adapter, connected lazily on first use.
	db          adapter.Adapter
	dbConfig    adapter.Config
	dbConnected bool
	dbMu        sync.Mutex

	store       state.Store
	logger      *slog.Logger
	rawDir      string
	environment string
	concurrency int
	bounds      validate.Bounds
	disabled    []string

	// now is the processing clock, overridable in tests.
	now func() time.Time
}

// New creates an engine from resolved configuration. The database is not
// connected until the first operation needs it.
func New(cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	logger.Debug("initializing engine",
		slog.String("environment", cfg.Environment),
		slog.String("target", cfg.Target.Type))

	db, err := adapter.New(cfg.Target.AdapterConfig(), logger)
	if err != nil {
		return nil, err
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	now := time.Now
	bounds, err := cfg.Validation.Bounds(now().UTC())
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	var disabled []string
	if cfg.Validation != nil {
		disabled = cfg.Validation.Disabled
	}

	return &Engine{
		db:          db,
		dbConfig:    cfg.Target.AdapterConfig(),
		store:       store,
		logger:      logger,
		rawDir:      cfg.RawDir,
		environment: cfg.Environment,
		concurrency: cfg.Concurrency,
		bounds:      bounds,
		disabled:    disabled,
		now:         now,
	}, nil
}

// ensureConnected connects the adapter on first use.
func (e *Engine) ensureConnected(ctx context.Context) error {
	e.dbMu.Lock()
	defer e.dbMu.Unlock()

	if e.dbConnected {
		return nil
	}
	if err := e.db.Connect(ctx, e.dbConfig); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", e.dbConfig.Type, err)
	}
	e.dbConnected = true
	return nil
}

// Close releases the database connection and the state store.
func (e *Engine) Close() error {
	e.dbMu.Lock()
	connected := e.dbConnected
	e.dbConnected = false
	e.dbMu.Unlock()

	var dbErr error
	if connected {
		dbErr = e.db.Close()
	}
	if err := e.store.Close(); err != nil {
		return err
	}
	return dbErr
}

// Store exposes the run history store.
func (e *Engine) Store() state.Store {
	return e.store
}

// LoadRaw lands the source extracts into the raw schema.
func (e *Engine) LoadRaw(ctx context.Context) error {
	if err := e.ensureConnected(ctx); err != nil {
		return err
	}
	return rawzone.NewLoader(e.db, e.logger).Load(ctx, e.rawDir)
}

// Validate reads the current warehouse contents and runs every enabled
// quality check. Findings are informational; the only error returned is an
// operational one (connection, read failure).
func (e *Engine) Validate(ctx context.Context) ([]validate.Report, error) {
	if err := e.ensureConnected(ctx); err != nil {
		return nil, err
	}

	snap, err := e.readSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return validate.RunAll(snap, validate.Options{Disabled: e.disabled}), nil
}

// readSnapshot reads the canonical and dimensional layers for validation.
func (e *Engine) readSnapshot(ctx context.Context) (*validate.Snapshot, error) {
	wh := warehouse.New(e.db, e.logger)
	snap := &validate.Snapshot{Bounds: e.bounds}

	var err error
	if snap.Customers, err = wh.Customers(ctx); err != nil {
		return nil, fmt.Errorf("failed to read canonical customers: %w", err)
	}
	if snap.Products, err = wh.Products(ctx); err != nil {
		return nil, fmt.Errorf("failed to read canonical products: %w", err)
	}
	if snap.SalesLines, err = wh.SalesLines(ctx); err != nil {
		return nil, fmt.Errorf("failed to read canonical sales: %w", err)
	}
	if snap.CustomerDemos, err = wh.CustomerDemos(ctx); err != nil {
		return nil, fmt.Errorf("failed to read customer demographics: %w", err)
	}
	if snap.CustomerLocations, err = wh.CustomerLocations(ctx); err != nil {
		return nil, fmt.Errorf("failed to read customer locations: %w", err)
	}
	if snap.ProductCategories, err = wh.ProductCategories(ctx); err != nil {
		return nil, fmt.Errorf("failed to read product categories: %w", err)
	}
	if snap.CustomerDim, err = wh.CustomerDim(ctx); err != nil {
		return nil, fmt.Errorf("failed to read customer dimension: %w", err)
	}
	if snap.ProductDim, err = wh.ProductDim(ctx); err != nil {
		return nil, fmt.Errorf("failed to read product dimension: %w", err)
	}
	if snap.SalesFact, err = wh.SalesFacts(ctx); err != nil {
		return nil, fmt.Errorf("failed to read sales facts: %w", err)
	}
	return snap, nil
}
