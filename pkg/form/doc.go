// Package form implements the prediction form controller: the six-field form
// state, a submit operation against a predict.Predictor, and the
// Idle/Success/Failure state machine the renderers draw from.
//
// Only the most recently started submission may change the visible state.
// A response that arrives after a newer submit began is discarded and its
// caller receives ErrSuperseded.
package form
