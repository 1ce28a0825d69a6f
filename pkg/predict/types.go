package predict

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Field identifies one of the six form inputs. The string value doubles as
// the JSON key and the HTML input name.
type Field string

const (
	FieldCompany  Field = "Company"
	FieldVendor   Field = "Vendor"
	FieldPO       Field = "PO"
	FieldMaterial Field = "Material"
	FieldMatGroup Field = "MatGroup"
	FieldPlant    Field = "Plant"
)

// Fields lists every form field in display order.
func Fields() []Field {
	return []Field{
		FieldCompany,
		FieldVendor,
		FieldPO,
		FieldMaterial,
		FieldMatGroup,
		FieldPlant,
	}
}

// ParseField maps a field name onto its Field. Matching is exact; the
// service keys are case sensitive.
func ParseField(name string) (Field, error) {
	trimmed := strings.TrimSpace(name)
	for _, field := range Fields() {
		if string(field) == trimmed {
			return field, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Label returns the human readable caption shown next to the input.
func (f Field) Label() string {
	switch f {
	case FieldCompany:
		return "Company Code"
	case FieldVendor:
		return "Vendor Code"
	case FieldPO:
		return "Purchase Order Number"
	case FieldMaterial:
		return "Material Code"
	case FieldMatGroup:
		return "Mat Group"
	case FieldPlant:
		return "Plant Code"
	default:
		return string(f)
	}
}

// Placeholder returns the input placeholder. Only the first three inputs
// carry one.
func (f Field) Placeholder() string {
	switch f {
	case FieldCompany, FieldVendor, FieldPO:
		return string(f)
	default:
		return ""
	}
}

// FormState is the six-field record submitted to the prediction service.
// The zero value is the initial, all-empty form.
type FormState struct {
	Company  string `json:"Company"`
	Vendor   string `json:"Vendor"`
	PO       string `json:"PO"`
	Material string `json:"Material"`
	MatGroup string `json:"MatGroup"`
	Plant    string `json:"Plant"`
}

// With returns a copy of the state with a single field replaced.
func (s FormState) With(field Field, value string) (FormState, error) {
	switch field {
	case FieldCompany:
		s.Company = value
	case FieldVendor:
		s.Vendor = value
	case FieldPO:
		s.PO = value
	case FieldMaterial:
		s.Material = value
	case FieldMatGroup:
		s.MatGroup = value
	case FieldPlant:
		s.Plant = value
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownField, string(field))
	}
	return s, nil
}

// Get returns the value held for field, or "" for unknown fields.
func (s FormState) Get(field Field) string {
	switch field {
	case FieldCompany:
		return s.Company
	case FieldVendor:
		return s.Vendor
	case FieldPO:
		return s.PO
	case FieldMaterial:
		return s.Material
	case FieldMatGroup:
		return s.MatGroup
	case FieldPlant:
		return s.Plant
	default:
		return ""
	}
}

// Missing reports the fields still empty after trimming whitespace.
func (s FormState) Missing() []Field {
	var out []Field
	for _, field := range Fields() {
		if strings.TrimSpace(s.Get(field)) == "" {
			out = append(out, field)
		}
	}
	return out
}

// ScoreEntry is one ranked candidate with its confidence percentage.
type ScoreEntry struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

// Result is the decoded prediction. A Result is only ever produced fully
// populated; see Result.validate.
type Result struct {
	PredictedEmail Label        `json:"predicted_Email"`
	PredictedName  Label        `json:"predicted_Name"`
	EmailScores    []ScoreEntry `json:"sorted_prediction_scores_Email"`
	NameScores     []ScoreEntry `json:"sorted_prediction_scores_Name"`
}

// Clone returns a deep copy so callers can hand results out without sharing
// the score slices.
func (r Result) Clone() Result {
	out := r
	if r.EmailScores != nil {
		out.EmailScores = append([]ScoreEntry(nil), r.EmailScores...)
	}
	if r.NameScores != nil {
		out.NameScores = append([]ScoreEntry(nil), r.NameScores...)
	}
	return out
}

// TopEmailScores returns at most n entries of the email ranking, keeping the
// service order.
func (r Result) TopEmailScores(n int) []ScoreEntry {
	return top(r.EmailScores, n)
}

// TopNameScores returns at most n entries of the name ranking, keeping the
// service order.
func (r Result) TopNameScores(n int) []ScoreEntry {
	return top(r.NameScores, n)
}

func top(entries []ScoreEntry, n int) []ScoreEntry {
	if n <= 0 || len(entries) == 0 {
		return nil
	}
	if len(entries) > n {
		entries = entries[:n]
	}
	return append([]ScoreEntry(nil), entries...)
}

// FormatScore renders an entry as "<label>: <score>%" with two decimals.
func FormatScore(entry ScoreEntry) string {
	return fmt.Sprintf("%s: %s%%", entry.Label, FormatPercent(entry.Score))
}

// FormatPercent renders score with exactly two decimals. Exact ties round
// away from zero (9.125 -> "9.13"), where strconv would round half to even.
func FormatPercent(score float64) string {
	switch {
	case math.IsNaN(score):
		return "NaN"
	case math.IsInf(score, 1):
		return "Infinity"
	case math.IsInf(score, -1):
		return "-Infinity"
	case math.Abs(score) >= 1e21:
		return strconv.FormatFloat(score, 'f', 2, 64)
	}

	neg := score < 0
	scaled := new(big.Float).SetPrec(256).SetFloat64(math.Abs(score))
	scaled.Mul(scaled, big.NewFloat(100))
	scaled.Add(scaled, big.NewFloat(0.5))
	n, _ := scaled.Int(nil)

	digits := n.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	out := digits[:len(digits)-2] + "." + digits[len(digits)-2:]
	if neg {
		out = "-" + out
	}
	return out
}
