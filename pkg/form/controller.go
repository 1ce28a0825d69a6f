package form

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-predictform/pkg/predict"
)

// ErrSuperseded is returned by Submit when a newer submission started before
// this one completed. The outcome was not applied.
var ErrSuperseded = errors.New("form: submission superseded by a newer one")

// Controller owns one form instance.
type Controller struct {
	predictor predict.Predictor
	logger    *zap.Logger
	observers []Observer

	mu         sync.Mutex
	values     predict.FormState
	outcome    outcome
	generation uint64
	revision   uint64
	inflight   int

	// notifyMu orders observer delivery; delivered is the newest revision
	// handed to observers.
	notifyMu  sync.Mutex
	delivered uint64
}

// New constructs a controller submitting through predictor.
func New(predictor predict.Predictor, fns ...OptionFn) (*Controller, error) {
	if predictor == nil {
		return nil, errors.New("form: predictor is required")
	}
	opts := NewOptions(fns...)
	return &Controller{
		predictor: predictor,
		logger:    opts.Logger,
		observers: append([]Observer(nil), opts.Observers...),
		values:    opts.Initial,
		outcome:   idle(),
	}, nil
}

// UpdateField replaces a single field value. Other fields are untouched.
func (c *Controller) UpdateField(field predict.Field, value string) error {
	c.mu.Lock()
	next, err := c.values.With(field, value)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.values = next
	snap := c.commitLocked()
	c.mu.Unlock()

	c.notify(snap)
	return nil
}

// UpdateFieldByName is UpdateField for callers holding a raw input name.
func (c *Controller) UpdateFieldByName(name, value string) error {
	field, err := predict.ParseField(name)
	if err != nil {
		return err
	}
	return c.UpdateField(field, value)
}

// Values returns the current form state.
func (c *Controller) Values() predict.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// Snapshot returns a copy of the full controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Submit sends the current form state and applies the outcome. Any error
// shown from a previous attempt is cleared before the request goes out. The
// returned snapshot reflects the state after the outcome was applied, or the
// current state when the submission was superseded.
func (c *Controller) Submit(ctx context.Context) (Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.inflight++
	if c.outcome.status == StatusFailure {
		c.outcome = idle()
	}
	payload := c.values
	started := c.commitLocked()
	c.mu.Unlock()

	c.notify(started)
	c.logger.Debug("submitting prediction form", zap.Uint64("generation", gen))

	result, err := c.predictor.Predict(ctx, payload)

	c.mu.Lock()
	c.inflight--
	if gen != c.generation {
		snap := c.commitLocked()
		c.mu.Unlock()
		c.logger.Debug("discarding superseded prediction",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", snap.Generation),
		)
		c.notify(snap)
		return snap, ErrSuperseded
	}
	if err != nil {
		c.outcome = failed(predict.Message(err))
	} else {
		c.outcome = succeeded(result)
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Info("prediction failed", zap.Uint64("generation", gen), zap.Error(err))
	} else {
		c.logger.Info("prediction applied",
			zap.Uint64("generation", gen),
			zap.Stringer("predicted_email", result.PredictedEmail),
		)
	}
	c.notify(snap)
	return snap, err
}

// Reset returns the controller to its initial empty, idle state. In-flight
// submissions are superseded.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.values = predict.FormState{}
	c.outcome = idle()
	c.generation++
	snap := c.commitLocked()
	c.mu.Unlock()

	c.notify(snap)
}

// View builds the render model for the current state.
func (c *Controller) View() View {
	return NewView(c.Snapshot())
}

// commitLocked records a state change and returns the resulting snapshot.
func (c *Controller) commitLocked() Snapshot {
	c.revision++
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Values:     c.values,
		Status:     c.outcome.status,
		Pending:    c.inflight > 0,
		Generation: c.generation,
		Revision:   c.revision,
	}
	switch c.outcome.status {
	case StatusSuccess:
		result := c.outcome.result.Clone()
		snap.Result = &result
	case StatusFailure:
		snap.Error = c.outcome.message
	}
	return snap
}

// notify hands snap to the observers unless a newer revision already went
// out. Racing changes may coalesce, but observers never see state go back.
func (c *Controller) notify(snap Snapshot) {
	if len(c.observers) == 0 {
		return
	}
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()
	if snap.Revision <= c.delivered {
		return
	}
	c.delivered = snap.Revision
	for _, observer := range c.observers {
		observer(snap)
	}
}
