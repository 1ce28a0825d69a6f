package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Predictor is the contract the form controller depends on.
type Predictor interface {
	Predict(ctx context.Context, state FormState) (Result, error)
}

// Client submits form states to the prediction service.
type Client struct {
	opts Options
}

var _ Predictor = (*Client)(nil)

// NewClient builds a Client from the defaults plus any overrides.
func NewClient(fns ...OptionFn) *Client {
	return &Client{opts: NewOptions(fns...)}
}

// Endpoint returns the URL the client posts to.
func (c *Client) Endpoint() string {
	return c.opts.Endpoint
}

// Predict posts state as JSON and decodes the prediction. Every failure is a
// *FetchError; see Kind for the taxonomy.
func (c *Client) Predict(ctx context.Context, state FormState) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(state)
	if err != nil {
		return Result{}, transportErr(fmt.Errorf("predict: encode request: %w", err))
	}
	if c.opts.Validator != nil {
		if err := c.opts.Validator.ValidateRequest(decodeAny(body)); err != nil {
			return Result{}, transportErr(fmt.Errorf("predict: request violates contract: %w", err))
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, transportErr(err)
	}
	requestID := c.opts.RequestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	logger := c.opts.Logger.With(
		zap.String("endpoint", c.opts.Endpoint),
		zap.String("request_id", requestID),
	)
	started := time.Now()

	res, err := c.opts.HTTPClient.Do(req)
	if err != nil {
		logger.Debug("prediction request failed", zap.Error(err))
		return Result{}, transportErr(err)
	}
	defer func() { _ = res.Body.Close() }()

	logger = logger.With(
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxResponseBytes))
		logger.Debug("prediction request rejected")
		return Result{}, &FetchError{Kind: KindResponse, Status: res.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return Result{}, transportErr(fmt.Errorf("predict: read response: %w", err))
	}

	if c.opts.Validator != nil {
		if err := c.opts.Validator.ValidateResponse(res.StatusCode, decodeAny(data)); err != nil {
			logger.Debug("prediction response violates contract", zap.Error(err))
			return Result{}, transportErr(fmt.Errorf("predict: response violates contract: %w", err))
		}
	}

	result, err := DecodeResult(data)
	if err != nil {
		logger.Debug("prediction response undecodable", zap.Error(err))
		return Result{}, transportErr(err)
	}
	logger.Debug("prediction received",
		zap.Stringer("predicted_email", result.PredictedEmail),
		zap.Stringer("predicted_name", result.PredictedName),
	)
	return result, nil
}

var requiredResultKeys = []string{
	"predicted_Email",
	"predicted_Name",
	"sorted_prediction_scores_Email",
	"sorted_prediction_scores_Name",
}

// DecodeResult parses a response body into a Result, rejecting bodies that
// omit any of the four keys so a partial result is never produced.
func DecodeResult(data []byte) (Result, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return Result{}, fmt.Errorf("predict: decode response: %w", err)
	}
	for _, key := range requiredResultKeys {
		raw, ok := keys[key]
		if !ok || isNull(raw) {
			return Result{}, fmt.Errorf("predict: decode response: missing %q", key)
		}
	}
	for _, key := range []string{"sorted_prediction_scores_Email", "sorted_prediction_scores_Name"} {
		if err := checkScoreEntries(key, keys[key]); err != nil {
			return Result{}, fmt.Errorf("predict: decode response: %w", err)
		}
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("predict: decode response: %w", err)
	}
	if result.EmailScores == nil {
		result.EmailScores = []ScoreEntry{}
	}
	if result.NameScores == nil {
		result.NameScores = []ScoreEntry{}
	}
	return result, nil
}

// checkScoreEntries requires every entry of a score list to carry a non-null
// label and score; encoding/json would otherwise zero them silently.
func checkScoreEntries(key string, raw json.RawMessage) error {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	for i, entry := range entries {
		for _, field := range []string{"label", "score"} {
			value, ok := entry[field]
			if !ok || isNull(value) {
				return fmt.Errorf("%s[%d]: missing %q", key, i, field)
			}
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeAny turns a JSON document into the generic value tree validators
// expect. Invalid JSON yields nil, which validators reject.
func decodeAny(data []byte) any {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// IsTimeout reports whether err stems from the request deadline.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
