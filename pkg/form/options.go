package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-predictform/pkg/predict"
)

// Observer is notified with a fresh snapshot after every state change.
type Observer func(Snapshot)

// Options configures a Controller.
type Options struct {
	Logger    *zap.Logger
	Observers []Observer
	Initial   predict.FormState
}

// OptionFn mutates Options prior to construction.
type OptionFn func(*Options)

// NewOptions applies fns over the defaults.
func NewOptions(fns ...OptionFn) Options {
	opts := Options{Logger: zap.NewNop()}
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return opts
}

// WithLogger sets the controller logger.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithObserver registers a change observer. Observers run synchronously on
// the goroutine that caused the change, outside the controller lock, and
// receive snapshots in increasing Revision order. An observer may read the
// controller but must not change it.
func WithObserver(observer Observer) OptionFn {
	return func(o *Options) {
		if o == nil || observer == nil {
			return
		}
		o.Observers = append(o.Observers, observer)
	}
}

// WithInitialValues pre-fills the form, e.g. from CLI flags.
func WithInitialValues(state predict.FormState) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Initial = state
	}
}
