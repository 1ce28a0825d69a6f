package predict

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Label is a predicted class: a score entry label or one of the top
// predictions. The service emits strings for email and name classes but
// numbers for numeric classes, so both decode into a Label.
type Label string

func (l Label) String() string {
	return string(l)
}

// UnmarshalJSON accepts a JSON string or a JSON number.
func (l *Label) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return fmt.Errorf("predict: label is null")
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*l = Label(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("predict: label must be a string or number: %w", err)
	}
	*l = Label(n.String())
	return nil
}
