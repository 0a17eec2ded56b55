package engine

import (
	"context"
	"log/slog"

	"lexweave/internal/bundle"
	"lexweave/internal/capability"
	"lexweave/internal/logging"
	"lexweave/internal/services"
	"lexweave/internal/workmap"
)

// Recorder observes capability outcomes and persisted field writes. The
// report package implements it to build provenance; a nil recorder is valid.
type Recorder interface {
	RecordOutcome(passID, bundleID string, id capability.ID, invoked bool, err error)
	RecordWrite(passID, bundleID, path string, owner capability.ID)
}

// CapabilityResult is the per-capability outcome of one pass.
type CapabilityResult struct {
	ID      capability.ID
	Invoked bool
	Err     error
}

type orchestrator struct {
	invokers capability.Set
	logger   *slog.Logger
	recorder Recorder
}

// run invokes each capability with pending work exactly once, in registration
// order, merging results into b as it goes so later capabilities see the
// fresh data. Errors are contained per capability.
func (o *orchestrator) run(ctx context.Context, b *bundle.Bundle, m *workmap.Mask) []CapabilityResult {
	var results []CapabilityResult

	for _, id := range m.PendingCapabilities() {
		res := CapabilityResult{ID: id}
		capCtx := services.WithCapability(ctx, id.String())
		log := logging.WithContext(capCtx, o.logger)

		invoker, ok := o.invokers[id]
		if !ok {
			res.Err = services.Wrap(services.ErrConfiguration, id.String(), "invoke", "no backend registered", nil)
			log.Warn("capability has pending work but no backend", logging.Error(res.Err))
			results = append(results, res)
			o.record(ctx, b, res)
			continue
		}

		req := buildRequest(id, b, m)
		if emptyRequest(id, req) {
			log.Debug("capability pending but prerequisites not materialized, deferring")
			results = append(results, res)
			o.record(ctx, b, res)
			continue
		}

		res.Invoked = true
		resp, err := invoker.Invoke(capCtx, req)
		if err == nil {
			err = mergeResponse(b, m, id, resp)
		}
		if err != nil {
			res.Err = err
			log.Warn("capability failed, work deferred to next pass", logging.Error(err))
		} else {
			log.Debug("capability completed")
		}
		results = append(results, res)
		o.record(ctx, b, res)
	}

	return results
}

func (o *orchestrator) record(ctx context.Context, b *bundle.Bundle, res CapabilityResult) {
	if o.recorder == nil {
		return
	}
	passID, _ := services.PassIDFromContext(ctx)
	o.recorder.RecordOutcome(passID, b.ID, res.ID, res.Invoked, res.Err)
}
