// Package predicttest provides an in-process fake of the prediction service
// for tests and local demos.
package predicttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goliatone/go-predictform/pkg/predict"
)

// Reply scripts one response from the fake service.
type Reply struct {
	Status int
	Body   []byte
	// Gate, when non-nil, is waited on before the reply is written.
	Gate <-chan struct{}
}

// Request is a captured inbound request.
type Request struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        []byte
}

// Server is a scriptable fake prediction service.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	replies  []Reply
	fallback Reply
	requests []Request
}

// NewServer starts a fake service that answers every request with fallback
// unless replies were queued with Enqueue. It is closed on test cleanup.
func NewServer(t testing.TB, fallback Reply) *Server {
	t.Helper()

	s := &Server{fallback: fallback}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Endpoint returns the predict URL served by the fake.
func (s *Server) Endpoint() string {
	return s.URL + "/predict_Email"
}

// Enqueue appends replies consumed in FIFO order before the fallback.
func (s *Server) Enqueue(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// Requests returns a copy of the captured requests.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-ID"),
		Body:        body,
	})
	reply := s.fallback
	if len(s.replies) > 0 {
		reply = s.replies[0]
		s.replies = s.replies[1:]
	}
	s.mu.Unlock()

	if reply.Gate != nil {
		select {
		case <-reply.Gate:
		case <-r.Context().Done():
			return
		}
	}

	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(reply.Body)
}

// OK builds a 200 reply carrying result.
func OK(result predict.Result) Reply {
	return Reply{Status: http.StatusOK, Body: MustJSON(result)}
}

// Status builds an empty reply with the given status code.
func Status(code int) Reply {
	return Reply{Status: code, Body: []byte(`{"error":"upstream"}`)}
}

// MustJSON marshals v or panics.
func MustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

// SampleResult returns a well formed prediction with four ranked entries per
// list so top-3 truncation is observable.
func SampleResult() predict.Result {
	return predict.Result{
		PredictedEmail: "alice@example.com",
		PredictedName:  "Alice",
		EmailScores: []predict.ScoreEntry{
			{Label: "alice@example.com", Score: 87.5},
			{Label: "bob@example.com", Score: 9.125},
			{Label: "carol@example.com", Score: 2.3},
			{Label: "dave@example.com", Score: 1.075},
		},
		NameScores: []predict.ScoreEntry{
			{Label: "Alice", Score: 91},
			{Label: "Bob", Score: 5.5},
			{Label: "Carol", Score: 2.25},
			{Label: "Dave", Score: 1.25},
		},
	}
}
