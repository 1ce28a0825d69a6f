package form

import "github.com/goliatone/go-predictform/pkg/predict"

// Status is the visible outcome of the last applied submission.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Snapshot is an immutable copy of the controller state.
type Snapshot struct {
	Values  predict.FormState
	Status  Status
	Result  *predict.Result
	Error   string
	Pending bool
	// Generation increases with every submission started and every reset.
	Generation uint64
	// Revision increases with every state change, including field updates.
	Revision uint64
}

// HasResult reports whether a prediction is available for display.
func (s Snapshot) HasResult() bool {
	return s.Status == StatusSuccess && s.Result != nil
}

// outcome is the tagged union held by the controller: a result only in
// Success, a message only in Failure, neither in Idle.
type outcome struct {
	status  Status
	result  predict.Result
	message string
}

func idle() outcome {
	return outcome{status: StatusIdle}
}

func succeeded(result predict.Result) outcome {
	return outcome{status: StatusSuccess, result: result.Clone()}
}

func failed(message string) outcome {
	return outcome{status: StatusFailure, message: message}
}
