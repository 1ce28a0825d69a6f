// Package predict holds the prediction form data model and the HTTP client
// that submits a FormState to the external prediction service.
//
// The service contract is a single JSON POST (by default
// http://localhost:5000/predict_Email) answering with the top predicted
// email and name plus the ranked score lists for both. Scores are
// percentages and arrive already sorted; nothing here re-sorts them.
package predict
