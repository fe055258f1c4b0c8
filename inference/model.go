package inference

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Classifier is a loaded model. Implementations are read-only after loading
// and safe for concurrent use.
type Classifier interface {
	// PredictProba returns one probability per output class. A single-output
	// model returns P(class=1).
	PredictProba(x []float32) ([]float64, error)
	NumFeatures() int
}

const (
	FormatDenseNetwork = "dense-network"
	FormatXGBoost      = "xgboost"
)

// Load reads a JSON artifact and picks a runtime by its "format" field. An
// artifact without one but with an XGBoost "learner" section is treated as
// an XGBoost model.
func Load(path string) (Classifier, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".json" {
		return nil, fmt.Errorf("%w: no runtime for %s artifacts (%s)", ErrMissingRuntime, ext, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrModelUnavailable, path, err)
	}

	var probe struct {
		Format  string          `json:"format"`
		Learner json.RawMessage `json:"learner"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrModelUnavailable, path, err)
	}

	var c Classifier
	switch {
	case probe.Format == FormatDenseNetwork:
		c, err = parseDenseNetwork(data)
	case probe.Format == FormatXGBoost, probe.Format == "" && len(probe.Learner) > 0:
		c, err = parseTreeEnsemble(data)
	default:
		return nil, fmt.Errorf("%w: unknown artifact format %q in %s", ErrMissingRuntime, probe.Format, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelUnavailable, path, err)
	}
	return c, nil
}
