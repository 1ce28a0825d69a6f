package predict

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormState_WithChangesOnlyOneField(t *testing.T) {
	base := FormState{
		Company:  "c",
		Vendor:   "v",
		PO:       "p",
		Material: "m",
		MatGroup: "g",
		Plant:    "pl",
	}
	values := []string{"", "x", `{"a":"b"}`, "\"quoted\"\n\\", "ไทย"}

	for _, field := range Fields() {
		for _, value := range values {
			got, err := base.With(field, value)
			if err != nil {
				t.Fatalf("with %s: %v", field, err)
			}
			if got.Get(field) != value {
				t.Fatalf("expected %s=%q, got %q", field, value, got.Get(field))
			}
			for _, other := range Fields() {
				if other == field {
					continue
				}
				if got.Get(other) != base.Get(other) {
					t.Fatalf("updating %s changed %s: %q -> %q", field, other, base.Get(other), got.Get(other))
				}
			}
		}
	}
}

func TestFormState_WithUnknownField(t *testing.T) {
	_, err := FormState{}.With(Field("Email"), "x")
	if !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestParseField(t *testing.T) {
	field, err := ParseField(" MatGroup ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if field != FieldMatGroup {
		t.Fatalf("expected MatGroup, got %q", field)
	}
	if _, err := ParseField("matgroup"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected case sensitive match, got %v", err)
	}
}

func TestFormState_JSONKeys(t *testing.T) {
	data, err := json.Marshal(FormState{Company: "1000", Plant: "P1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]string{
		"Company":  "1000",
		"Vendor":   "",
		"PO":       "",
		"Material": "",
		"MatGroup": "",
		"Plant":    "P1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("json keys mismatch (-want +got):\n%s", diff)
	}
}

func TestFormState_Missing(t *testing.T) {
	state := FormState{Company: "1", Vendor: "  ", PO: "3", Material: "4", Plant: "6"}
	want := []Field{FieldVendor, FieldMatGroup}
	if diff := cmp.Diff(want, state.Missing()); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldLabelsAndPlaceholders(t *testing.T) {
	if FieldPO.Label() != "Purchase Order Number" {
		t.Fatalf("unexpected PO label %q", FieldPO.Label())
	}
	if FieldCompany.Placeholder() != "Company" {
		t.Fatalf("unexpected company placeholder %q", FieldCompany.Placeholder())
	}
	if FieldPlant.Placeholder() != "" {
		t.Fatalf("expected no plant placeholder, got %q", FieldPlant.Placeholder())
	}
}

func TestLabel_DecodesStringsAndNumbers(t *testing.T) {
	var entries []ScoreEntry
	payload := `[{"label":"a@example.com","score":50},{"label":4100,"score":30.5},{"label":12.5,"score":1}]`
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []ScoreEntry{
		{Label: "a@example.com", Score: 50},
		{Label: "4100", Score: 30.5},
		{Label: "12.5", Score: 1},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}

	var label Label
	if err := json.Unmarshal([]byte(`null`), &label); err == nil {
		t.Fatalf("expected null label to fail")
	}
	if err := json.Unmarshal([]byte(`true`), &label); err == nil {
		t.Fatalf("expected boolean label to fail")
	}
}

func TestFormatScore(t *testing.T) {
	cases := map[string]ScoreEntry{
		"a: 87.50%":  {Label: "a", Score: 87.5},
		"b: 0.00%":   {Label: "b", Score: 0},
		"c: 100.00%": {Label: "c", Score: 100},
		"d: 3.14%":   {Label: "d", Score: 3.14159},
		"e: 9.13%":   {Label: "e", Score: 9.125},
		"f: 2.67%":   {Label: "f", Score: 2.675},
		"g: 0.01%":   {Label: "g", Score: 0.005},
	}
	for want, entry := range cases {
		if got := FormatScore(entry); got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}
}

func TestResult_TopKeepsOrderAndCopies(t *testing.T) {
	result := Result{
		EmailScores: []ScoreEntry{{Label: "low", Score: 1}, {Label: "high", Score: 99}, {Label: "mid", Score: 50}, {Label: "x", Score: 0}},
		NameScores:  []ScoreEntry{{Label: "only", Score: 10}},
	}
	gotEmail := result.TopEmailScores(3)
	wantEmail := []ScoreEntry{{Label: "low", Score: 1}, {Label: "high", Score: 99}, {Label: "mid", Score: 50}}
	if diff := cmp.Diff(wantEmail, gotEmail); diff != "" {
		t.Fatalf("top email mismatch (-want +got):\n%s", diff)
	}
	gotEmail[0].Label = "mutated"
	if result.EmailScores[0].Label != "low" {
		t.Fatalf("top scores must not alias the result")
	}
	if got := result.TopNameScores(3); len(got) != 1 {
		t.Fatalf("expected 1 name score, got %d", len(got))
	}
	if got := result.TopNameScores(0); got != nil {
		t.Fatalf("expected nil for n=0, got %#v", got)
	}
}

func TestFormatPercent_EdgeValues(t *testing.T) {
	cases := map[float64]string{
		0.004:  "0.00",
		99.999: "100.00",
		-1.005: "-1.00",
		1234.5: "1234.50",
	}
	for score, want := range cases {
		if got := FormatPercent(score); got != want {
			t.Fatalf("FormatPercent(%v): expected %q, got %q", score, want, got)
		}
	}
}
