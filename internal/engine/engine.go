package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/config"
	"lexweave/internal/logging"
	"lexweave/internal/registry"
	"lexweave/internal/savediff"
	"lexweave/internal/services"
	"lexweave/internal/workmap"
)

// ErrBundleBusy is returned when a pass is requested for a bundle that
// already has one running.
var ErrBundleBusy = errors.New("a pass is already running for this bundle")

// ErrStalled is returned by Converge when a pass completes without clearing
// any work and without persisting anything, meaning further passes cannot
// make progress.
var ErrStalled = errors.New("enrichment stalled before convergence")

// Store is the persistence surface the engine needs.
type Store interface {
	GetBundle(ctx context.Context, id string) (*bundle.Bundle, error)
	ApplyPlan(ctx context.Context, plan savediff.Plan) error
	SetBundleState(ctx context.Context, id string, state bundle.State) error
}

// PassResult summarizes one enrichment pass.
type PassResult struct {
	PassID   string
	BundleID string

	// AllClear is true when the pre-pass mask carried no work, meaning the
	// bundle was already fully enriched.
	AllClear bool

	Inconsistencies []workmap.Inconsistency
	Capabilities    []CapabilityResult

	FieldsWritten int
	LexiconWrites int

	// Remaining lists capabilities that still have pending work after this
	// pass, derived from a mask rebuild over the enriched bundle.
	Remaining []capability.ID
}

// Failed returns the capability results that errored.
func (r *PassResult) Failed() []CapabilityResult {
	var out []CapabilityResult
	for _, c := range r.Capabilities {
		if c.Err != nil {
			out = append(out, c)
		}
	}
	return out
}

// ConvergeResult summarizes a bounded pass loop.
type ConvergeResult struct {
	BundleID  string
	Passes    []PassResult
	Converged bool
}

// Engine runs enrichment passes over stored bundles. One pass per bundle at
// a time; concurrent requests for the same bundle are rejected, not queued.
type Engine struct {
	store    Store
	invokers capability.Set
	cfg      *config.Config
	logger   *slog.Logger
	recorder Recorder

	mu       sync.Mutex
	inflight map[string]bool
}

// New creates an engine. recorder may be nil.
func New(store Store, invokers capability.Set, cfg *config.Config, logger *slog.Logger, recorder Recorder) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{
		store:    store,
		invokers: invokers,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "engine"),
		recorder: recorder,
		inflight: make(map[string]bool),
	}
}

func (e *Engine) acquire(bundleID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inflight[bundleID] {
		return services.Wrap(services.ErrTransient, "engine", "run-pass", "bundle "+bundleID, ErrBundleBusy)
	}
	e.inflight[bundleID] = true
	return nil
}

func (e *Engine) release(bundleID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.inflight, bundleID)
}

// RunPass executes one enrichment pass for a bundle: build the work mask,
// invoke pending capabilities once each, and persist exactly the fields that
// were pending and got produced. A persistence failure leaves the stored
// bundle untouched, so the same mask is rebuilt next time.
func (e *Engine) RunPass(ctx context.Context, bundleID string) (*PassResult, error) {
	if err := e.acquire(bundleID); err != nil {
		return nil, err
	}
	defer e.release(bundleID)
	return e.runPassLocked(ctx, bundleID)
}

func (e *Engine) runPassLocked(ctx context.Context, bundleID string) (*PassResult, error) {
	b, err := e.store.GetBundle(ctx, bundleID)
	if err != nil {
		return nil, fmt.Errorf("load bundle: %w", err)
	}

	passID := uuid.NewString()
	ctx = services.WithBundleID(ctx, bundleID)
	ctx = services.WithPassID(ctx, passID)
	if e.cfg != nil && e.cfg.Engine.PassTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.Engine.PassTimeout)*time.Second)
		defer cancel()
	}
	log := logging.WithContext(ctx, e.logger)

	mask, incs := workmap.Build(b)
	result := &PassResult{PassID: passID, BundleID: bundleID, Inconsistencies: incs}
	for _, inc := range incs {
		log.Warn("structural inconsistency, affected checks skipped", logging.String("detail", inc.String()))
	}

	if mask.AllClear() {
		result.AllClear = true
		if b.State != bundle.StateComplete {
			if err := e.store.SetBundleState(ctx, bundleID, bundle.StateComplete); err != nil {
				return result, fmt.Errorf("mark complete: %w", err)
			}
		}
		log.Debug("no pending work")
		return result, nil
	}

	enriched := b.Clone()
	orch := &orchestrator{invokers: e.invokers, logger: e.logger, recorder: e.recorder}
	result.Capabilities = orch.run(ctx, enriched, mask)

	plan := savediff.Build(mask, enriched, savediff.Options{})
	result.FieldsWritten = len(plan.Bundle.Fields)
	result.LexiconWrites = len(plan.Lexicon)

	if !plan.Bundle.Empty() || len(plan.Lexicon) > 0 {
		if err := e.store.ApplyPlan(ctx, plan); err != nil {
			return result, fmt.Errorf("persist pass: %w", err)
		}
		e.recordWrites(passID, bundleID, plan)
	}

	after, _ := workmap.Build(enriched)
	result.Remaining = after.PendingCapabilities()

	state := bundle.StateEnriching
	if after.AllClear() {
		state = bundle.StateComplete
	}
	if state != b.State {
		if err := e.store.SetBundleState(ctx, bundleID, state); err != nil {
			return result, fmt.Errorf("update state: %w", err)
		}
	}

	log.Info("pass finished",
		logging.Int("fields_written", result.FieldsWritten),
		logging.Int("lexicon_writes", result.LexiconWrites),
		logging.Int("failed_capabilities", len(result.Failed())),
		logging.Int("remaining", len(result.Remaining)))
	return result, nil
}

func (e *Engine) recordWrites(passID, bundleID string, plan savediff.Plan) {
	if e.recorder == nil {
		return
	}
	for path := range plan.Bundle.Fields {
		owner := capability.ID(-1)
		if f, ok := registry.Abstract(path); ok {
			if entry, found := registry.Lookup(f); found {
				owner = entry.Owner
			}
		}
		e.recorder.RecordWrite(passID, bundleID, path, owner)
	}
}

// Converge runs passes until the mask comes back clear or the configured
// pass bound is hit. A pass that neither persists anything nor clears the
// mask stops the loop with ErrStalled.
func (e *Engine) Converge(ctx context.Context, bundleID string) (*ConvergeResult, error) {
	if err := e.acquire(bundleID); err != nil {
		return nil, err
	}
	defer e.release(bundleID)

	maxPasses := config.Default().Engine.MaxPasses
	if e.cfg != nil && e.cfg.Engine.MaxPasses > 0 {
		maxPasses = e.cfg.Engine.MaxPasses
	}

	result := &ConvergeResult{BundleID: bundleID}
	for i := 0; i < maxPasses; i++ {
		pass, err := e.runPassLocked(ctx, bundleID)
		if pass != nil {
			result.Passes = append(result.Passes, *pass)
		}
		if err != nil {
			return result, err
		}
		if pass.AllClear || len(pass.Remaining) == 0 {
			result.Converged = true
			return result, nil
		}
		if pass.FieldsWritten == 0 && pass.LexiconWrites == 0 {
			return result, fmt.Errorf("bundle %s after %d passes: %w", bundleID, i+1, ErrStalled)
		}
	}
	return result, nil
}
