// Package contract carries the OpenAPI description of the prediction service
// and validates request and response payloads against it with kin-openapi.
package contract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-predictform/pkg/predict"
)

// OperationID names the prediction operation in the embedded document.
const OperationID = "predictEmail"

//go:embed predict.yaml
var embeddedDocument []byte

// Document returns a copy of the embedded OpenAPI document.
func Document() []byte {
	return append([]byte(nil), embeddedDocument...)
}

// Contract validates payloads for a single operation.
type Contract struct {
	method    string
	path      string
	request   *openapi3.Schema
	responses map[int]*openapi3.Schema
}

var _ predict.Validator = (*Contract)(nil)

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*Contract, error) {
	return LoadData(ctx, embeddedDocument, OperationID)
}

// LoadData parses an OpenAPI document and extracts operationID.
func LoadData(ctx context.Context, raw []byte, operationID string) (*Contract, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(raw) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}

	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID != operationID {
				continue
			}
			return fromOperation(method, path, op)
		}
	}
	return nil, fmt.Errorf("contract: operation %q not found", operationID)
}

func fromOperation(method, path string, op *openapi3.Operation) (*Contract, error) {
	c := &Contract{
		method:    method,
		path:      path,
		responses: make(map[int]*openapi3.Schema),
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		c.request = jsonSchema(op.RequestBody.Value.Content)
	}
	if c.request == nil {
		return nil, fmt.Errorf("contract: operation %q has no JSON request schema", op.OperationID)
	}

	if op.Responses != nil {
		for status, ref := range op.Responses.Map() {
			if ref == nil || ref.Value == nil {
				continue
			}
			code, err := strconv.Atoi(status)
			if err != nil {
				// "default" and range keys are not used by this service.
				continue
			}
			if schema := jsonSchema(ref.Value.Content); schema != nil {
				c.responses[code] = schema
			}
		}
	}
	return c, nil
}

func jsonSchema(content openapi3.Content) *openapi3.Schema {
	if len(content) == 0 {
		return nil
	}
	mt, ok := content["application/json"]
	if !ok || mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

// Method returns the HTTP method of the operation.
func (c *Contract) Method() string {
	if c == nil {
		return ""
	}
	return c.method
}

// Path returns the templated path of the operation.
func (c *Contract) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// ValidateRequest checks a decoded request body.
func (c *Contract) ValidateRequest(payload any) error {
	if c == nil || c.request == nil {
		return nil
	}
	if err := c.request.VisitJSON(payload); err != nil {
		return fmt.Errorf("contract: request: %w", err)
	}
	return nil
}

// ValidateResponse checks a decoded response body for status. Statuses the
// document does not describe are accepted as-is.
func (c *Contract) ValidateResponse(status int, payload any) error {
	if c == nil {
		return nil
	}
	schema, ok := c.responses[status]
	if !ok {
		return nil
	}
	if err := schema.VisitJSON(payload); err != nil {
		return fmt.Errorf("contract: response %d (%s): %w", status, http.StatusText(status), err)
	}
	return nil
}
