// Package recompute keeps the last computed model of an editing session and
// recomputes only when the model actually changed.
package recompute

import (
	"sync"

	"dcf-engine/internal/engine"
	"dcf-engine/internal/jsonpatch"
	"dcf-engine/internal/model"
	"dcf-engine/internal/series"
)

// Update is the outcome of one Tracker.Update call.
type Update struct {
	// Recomputed is false when the model matched the previous one and the
	// cached result was returned.
	Recomputed bool
	Changes    []jsonpatch.Op
	Result     *model.ComputationResult
	Messages   []model.CalculationMessage
}

// Tracker is safe for concurrent use.
type Tracker struct {
	opts series.Options

	mu       sync.Mutex
	last     *model.Model
	result   *model.ComputationResult
	messages []model.CalculationMessage
}

func NewTracker(opts series.Options) *Tracker {
	return &Tracker{opts: opts}
}

// Update compares m with the previously seen model and recomputes when they
// differ. The first call always computes.
func (t *Tracker) Update(m model.Model) (Update, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var prev any
	if t.last != nil {
		prev = *t.last
	}
	changes, err := jsonpatch.Between(prev, m)
	if err != nil {
		return Update{}, err
	}
	if t.last != nil && len(changes) == 0 {
		return Update{Changes: []jsonpatch.Op{}, Result: t.result, Messages: t.messages}, nil
	}

	res, msgs := engine.Compute(m, t.opts)
	snapshot := m.Clone()
	t.last = &snapshot
	t.result = res
	t.messages = msgs
	return Update{Recomputed: true, Changes: changes, Result: res, Messages: msgs}, nil
}

// Model returns a copy of the last model seen, if any.
func (t *Tracker) Model() (model.Model, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last == nil {
		return model.Model{}, false
	}
	return t.last.Clone(), true
}
