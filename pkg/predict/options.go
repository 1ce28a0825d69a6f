package predict

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultEndpoint is where the original deployment served predictions.
const DefaultEndpoint = "http://localhost:5000/predict_Email"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Validator checks decoded JSON payloads against the service contract.
// pkg/contract provides the kin-openapi backed implementation.
type Validator interface {
	ValidateRequest(payload any) error
	ValidateResponse(status int, payload any) error
}

// Options configures a Client.
type Options struct {
	Endpoint   string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *zap.Logger
	Validator  Validator
	RequestID  func() string
}

// OptionFn mutates Options prior to construction.
type OptionFn func(*Options)

// DefaultOptions returns the client defaults: the original endpoint, the
// default HTTP client, no timeout, no contract validation.
func DefaultOptions() Options {
	return Options{
		Endpoint:   DefaultEndpoint,
		HTTPClient: http.DefaultClient,
		Logger:     zap.NewNop(),
		RequestID:  uuid.NewString,
	}
}

// NewOptions applies fns over DefaultOptions and restores defaults for any
// field left empty.
func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	opts.Endpoint = strings.TrimSpace(opts.Endpoint)
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RequestID == nil {
		opts.RequestID = uuid.NewString
	}
	if opts.Timeout < 0 {
		opts.Timeout = 0
	}
	return opts
}

// WithEndpoint sets the full prediction URL.
func WithEndpoint(endpoint string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Endpoint = endpoint
	}
}

// WithHTTPClient injects the HTTP client used for requests.
func WithHTTPClient(client *http.Client) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HTTPClient = client
	}
}

// WithTimeout bounds each prediction request. Zero disables the bound.
func WithTimeout(timeout time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Timeout = timeout
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithValidator enables contract validation of request and response bodies.
func WithValidator(validator Validator) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Validator = validator
	}
}

// WithRequestID overrides the X-Request-ID generator.
func WithRequestID(fn func() string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RequestID = fn
	}
}
