package form

import "github.com/goliatone/go-predictform/pkg/predict"

// TopN is how many ranked candidates are displayed per list.
const TopN = 3

// FieldView describes one rendered input.
type FieldView struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder,omitempty"`
	Value       string `json:"value"`
	Required    bool   `json:"required"`
}

// PredictionView is the displayed part of a Result.
type PredictionView struct {
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	EmailScores []string `json:"email_scores"`
	NameScores  []string `json:"name_scores"`
}

// View is the renderer-facing model of the form.
type View struct {
	Fields     []FieldView     `json:"fields"`
	Error      string          `json:"error,omitempty"`
	Prediction *PredictionView `json:"prediction,omitempty"`
	Pending    bool            `json:"pending,omitempty"`
}

// NewView derives the render model from a snapshot.
func NewView(snap Snapshot) View {
	view := View{
		Fields:  make([]FieldView, 0, len(predict.Fields())),
		Error:   snap.Error,
		Pending: snap.Pending,
	}
	for _, field := range predict.Fields() {
		view.Fields = append(view.Fields, FieldView{
			Name:        string(field),
			Label:       field.Label(),
			Placeholder: field.Placeholder(),
			Value:       snap.Values.Get(field),
			Required:    true,
		})
	}
	if snap.HasResult() {
		view.Prediction = NewPredictionView(*snap.Result)
	}
	return view
}

// NewPredictionView formats the top entries of each ranking.
func NewPredictionView(result predict.Result) *PredictionView {
	return &PredictionView{
		Email:       result.PredictedEmail.String(),
		Name:        result.PredictedName.String(),
		EmailScores: formatScores(result.TopEmailScores(TopN)),
		NameScores:  formatScores(result.TopNameScores(TopN)),
	}
}

func formatScores(entries []predict.ScoreEntry) []string {
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		out = append(out, predict.FormatScore(entry))
	}
	return out
}
