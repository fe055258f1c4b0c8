package inference

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// BinaryThreshold is the probability above which a binary model predicts
// class 1.
const BinaryThreshold = 0.5

// TessLabels maps the TESS model's class indices to TOI dispositions.
var TessLabels = []string{"APC", "CP", "FA", "FP", "KP", "PC"}

// Binary runs a single-output model. The confidence is P(class=1), not the
// probability of the returned class. Output of the wrong shape, or outside
// [0, 1], is reported as ErrModelUnavailable.
func Binary(c Classifier, x []float32) (int, float64, error) {
	probs, err := c.PredictProba(x)
	if err != nil {
		return 0, 0, err
	}
	if len(probs) != 1 {
		return 0, 0, fmt.Errorf("%w: binary model returned %d outputs", ErrModelUnavailable, len(probs))
	}
	p := probs[0]
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, 0, fmt.Errorf("%w: binary model returned probability %v", ErrModelUnavailable, p)
	}
	if p > BinaryThreshold {
		return 1, p, nil
	}
	return 0, p, nil
}

// MultiClass returns the label with the highest probability. Ties resolve
// to the lowest index.
func MultiClass(c Classifier, x []float32, labels []string) (string, float64, error) {
	probs, err := c.PredictProba(x)
	if err != nil {
		return "", 0, err
	}
	if len(probs) != len(labels) {
		return "", 0, fmt.Errorf("%w: model returned %d classes, expected %d", ErrModelUnavailable, len(probs), len(labels))
	}
	idx := floats.MaxIdx(probs)
	if math.IsNaN(probs[idx]) {
		return "", 0, fmt.Errorf("%w: model returned probability %v", ErrModelUnavailable, probs[idx])
	}
	return labels[idx], probs[idx], nil
}
