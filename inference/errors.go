// Package inference locates pre-trained model artifacts, shapes request
// fields into the feature vectors those models were trained on, and runs
// them through pure-Go runtimes.
package inference

import "errors"

var (
	// ErrModelNotFound means no candidate location holds the artifact.
	ErrModelNotFound = errors.New("model not found")

	// ErrModelUnavailable means the artifact exists but cannot be used:
	// unreadable, malformed, or shaped for a different feature vector.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrMissingRuntime means the artifact's format has no runtime in this
	// build, e.g. only a .keras or .pkl export is present.
	ErrMissingRuntime = errors.New("missing model runtime")
)
