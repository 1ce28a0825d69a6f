package predictform

import (
	"net/http"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-predictform/pkg/predict"
	"github.com/goliatone/go-predictform/pkg/render"
)

const (
	defaultRoutePath    = "/"
	defaultCookieName   = "predictform_session"
	defaultSessionTTL   = 30 * time.Minute
	defaultMaxSessions  = 1000
	defaultMaxBodyBytes = 64 << 10
)

type GuardFunc func(r *http.Request) error

type Options struct {
	RoutePath    string
	CookieName   string
	SecureCookie bool
	SessionTTL   time.Duration
	MaxSessions  int
	MaxBodyBytes int64
	Title        string
	Guard        GuardFunc

	// Predictor serves every session. Defaults to a predict.Client against
	// predict.DefaultEndpoint.
	Predictor predict.Predictor
	// Renderer defaults to the HTML renderer.
	Renderer render.Renderer
	Theme    *theme.RendererConfig
	Logger   *zap.Logger

	Now       func() time.Time
	SessionID func() string
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:    defaultRoutePath,
		CookieName:   defaultCookieName,
		SessionTTL:   defaultSessionTTL,
		MaxSessions:  defaultMaxSessions,
		MaxBodyBytes: defaultMaxBodyBytes,
		Logger:       zap.NewNop(),
		Now:          time.Now,
		SessionID:    newSessionID,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SessionID == nil {
		opts.SessionID = newSessionID
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithCookieName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
	}
}

// WithSecureCookie marks the session cookie Secure, for deployments behind
// TLS.
func WithSecureCookie(secure bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SecureCookie = secure
	}
}

func WithSessionTTL(ttl time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionTTL = ttl
	}
}

func WithMaxSessions(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxSessions = limit
	}
}

func WithMaxBodyBytes(limit int64) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxBodyBytes = limit
	}
}

func WithTitle(title string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Title = title
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithPredictor(predictor predict.Predictor) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Predictor = predictor
	}
}

func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithTheme(cfg *theme.RendererConfig) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Theme = cfg
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithClock overrides the time source used for session expiry.
func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Now = now
	}
}

// WithSessionIDs overrides session id generation. Ids must be unique.
func WithSessionIDs(fn func() string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionID = fn
	}
}
