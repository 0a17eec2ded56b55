package report

import (
	"sort"
	"sync"
	"time"

	"lexweave/internal/capability"
)

// Outcome records one capability invocation during a pass.
type Outcome struct {
	PassID     string    `json:"passId"`
	BundleID   string    `json:"bundleId"`
	Capability string    `json:"capability"`
	Invoked    bool      `json:"invoked"`
	Error      string    `json:"error,omitempty"`
	At         time.Time `json:"at"`
}

// Write records one persisted field and the capability that produced it.
type Write struct {
	PassID     string    `json:"passId"`
	BundleID   string    `json:"bundleId"`
	Path       string    `json:"path"`
	Capability string    `json:"capability,omitempty"`
	At         time.Time `json:"at"`
}

// Tracker accumulates pass provenance in memory. It satisfies the engine's
// recorder interface and is safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	outcomes []Outcome
	writes   []Write
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RecordOutcome captures one capability invocation result.
func (t *Tracker) RecordOutcome(passID, bundleID string, id capability.ID, invoked bool, err error) {
	o := Outcome{
		PassID:     passID,
		BundleID:   bundleID,
		Capability: id.String(),
		Invoked:    invoked,
		At:         time.Now().UTC(),
	}
	if err != nil {
		o.Error = err.Error()
	}
	t.mu.Lock()
	t.outcomes = append(t.outcomes, o)
	t.mu.Unlock()
}

// RecordWrite captures one persisted field path.
func (t *Tracker) RecordWrite(passID, bundleID, path string, owner capability.ID) {
	w := Write{
		PassID:   passID,
		BundleID: bundleID,
		Path:     path,
		At:       time.Now().UTC(),
	}
	if owner >= 0 {
		w.Capability = owner.String()
	}
	t.mu.Lock()
	t.writes = append(t.writes, w)
	t.mu.Unlock()
}

// Outcomes returns the invocation records for one bundle, oldest first.
func (t *Tracker) Outcomes(bundleID string) []Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Outcome
	for _, o := range t.outcomes {
		if o.BundleID == bundleID {
			out = append(out, o)
		}
	}
	return out
}

// Writes returns the persisted-field records for one bundle, ordered by pass
// then path.
func (t *Tracker) Writes(bundleID string) []Write {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Write
	for _, w := range t.writes {
		if w.BundleID == bundleID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PassID != out[j].PassID {
			return out[i].At.Before(out[j].At)
		}
		return out[i].Path < out[j].Path
	})
	return out
}
