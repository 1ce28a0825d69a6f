package predictform

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-predictform/pkg/form"
	"github.com/goliatone/go-predictform/pkg/predict"
	"github.com/goliatone/go-predictform/pkg/render"
	"github.com/goliatone/go-predictform/pkg/renderers/vanilla"
)

const allowedMethods = "GET, HEAD, POST"

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return NewHandler(fns...)
}

func NewHandler(fns ...OptionFn) http.Handler {
	opts := NewOptions(fns...)
	return HandlerWithOptions(opts)
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
// Every call returns a handler with its own session store.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	h := &handler{opts: opts, logger: opts.Logger.Named("predictform")}
	if h.opts.Predictor == nil {
		h.opts.Predictor = predict.NewClient(predict.WithLogger(opts.Logger))
	}
	if h.opts.Renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			h.initErr = fmt.Errorf("predictform: default renderer: %w", err)
		} else {
			h.opts.Renderer = renderer
		}
	}
	h.sessions = newSessionStore(h.opts, func() (*form.Controller, error) {
		return form.New(h.opts.Predictor, form.WithLogger(h.logger))
	})
	return h
}

type handler struct {
	opts     Options
	logger   *zap.Logger
	sessions *sessionStore
	initErr  error
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead, http.MethodPost:
	default:
		w.Header().Set("Allow", allowedMethods)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			writeGuardError(w, err)
			return
		}
	}
	if h.initErr != nil {
		h.logger.Error("handler misconfigured", zap.Error(h.initErr))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.logger.With(zap.String("request_id", requestID(r)))

	sess, created, err := h.sessions.acquire(h.sessionCookie(r))
	if err != nil {
		logger.Error("start session", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if created {
		h.setSessionCookie(w, sess.id)
		logger.Debug("session started", zap.String("session", sess.id))
	}

	snap := sess.controller.Snapshot()
	if r.Method == http.MethodPost {
		snap, err = h.submit(w, r, sess.controller)
		if err != nil {
			writeError(w, err)
			return
		}
	}

	out, err := h.opts.Renderer.Render(r.Context(), form.NewView(snap), render.Options{
		Action: r.URL.Path,
		Title:  h.opts.Title,
		Theme:  h.opts.Theme,
	})
	if err != nil {
		logger.Error("render form", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", h.opts.Renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(out)
}

// submit applies the posted fields and runs the prediction. A failed
// prediction is not an HTTP error: the page renders the message instead.
func (h *handler) submit(w http.ResponseWriter, r *http.Request, controller *form.Controller) (form.Snapshot, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return form.Snapshot{}, StatusError{Code: http.StatusRequestEntityTooLarge, Err: err}
		}
		return form.Snapshot{}, StatusError{Code: http.StatusBadRequest, Err: err}
	}

	for _, field := range predict.Fields() {
		values, ok := r.PostForm[string(field)]
		if !ok || len(values) == 0 {
			continue
		}
		if err := controller.UpdateField(field, values[0]); err != nil {
			return form.Snapshot{}, StatusError{Code: http.StatusBadRequest, Err: err}
		}
	}

	snap, err := controller.Submit(r.Context())
	switch {
	case err == nil:
	case errors.Is(err, form.ErrSuperseded):
		h.logger.Debug("submission superseded", zap.Uint64("generation", snap.Generation))
	default:
		h.logger.Info("prediction failed", zap.String("message", snap.Error))
	}
	return snap, nil
}

func (h *handler) sessionCookie(r *http.Request) string {
	cookie, err := r.Cookie(h.opts.CookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

func (h *handler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.opts.SessionTTL.Seconds()),
	})
}

// requestID returns the caller supplied X-Request-ID or a fresh one.
func requestID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-Request-ID")); id != "" {
		return id
	}
	return uuid.NewString()
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	http.Error(w, http.StatusText(code), code)
}

func writeGuardError(w http.ResponseWriter, err error) {
	if w == nil {
		return
	}
	if err == nil {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}
