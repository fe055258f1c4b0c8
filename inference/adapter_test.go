package inference

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"exoplanet-prediction-api/inference/inferencetest"
)

type stubClassifier struct {
	probs []float64
	err   error
}

func (s stubClassifier) PredictProba([]float32) ([]float64, error) { return s.probs, s.err }
func (s stubClassifier) NumFeatures() int                          { return 0 }

func TestBinaryThreshold(t *testing.T) {
	for _, tc := range []struct {
		p         float64
		wantClass int
	}{
		{0, 0},
		{0.3, 0},
		{0.5, 0},
		{0.5000001, 1},
		{0.99, 1},
		{1, 1},
	} {
		class, conf, err := Binary(stubClassifier{probs: []float64{tc.p}}, nil)
		require.NoError(t, err)
		assert.Equal(t, tc.wantClass, class, "p=%v", tc.p)
		assert.Equal(t, tc.p, conf, "confidence is P(class=1)")
	}
}

func TestBinaryRejectsBadOutput(t *testing.T) {
	for name, c := range map[string]Classifier{
		"two outputs": stubClassifier{probs: []float64{0.2, 0.8}},
		"no outputs":  stubClassifier{probs: []float64{}},
		"negative":    stubClassifier{probs: []float64{-0.1}},
		"above one":   stubClassifier{probs: []float64{1.5}},
		"nan":         stubClassifier{probs: []float64{math.NaN()}},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := Binary(c, nil)
			assert.ErrorIs(t, err, ErrModelUnavailable)
		})
	}

	boom := errors.New("boom")
	_, _, err := Binary(stubClassifier{err: boom}, nil)
	assert.ErrorIs(t, err, boom)
}

func TestBinaryOverKeplerNetwork(t *testing.T) {
	n, err := parseDenseNetwork(inferencetest.KeplerNetwork(-5))
	require.NoError(t, err)

	x := make([]float32, KeplerFeatureCount)
	x[inferencetest.KeplerSNRIndex] = 100
	class, conf, err := Binary(n, x)
	require.NoError(t, err)
	assert.Equal(t, 1, class)
	assert.InDelta(t, 1/(1+math.Exp(-5)), conf, 1e-6)

	x[inferencetest.KeplerFlagNTIndex] = 1
	x[inferencetest.KeplerSNRIndex] = 30
	class, conf, err = Binary(n, x)
	require.NoError(t, err)
	assert.Equal(t, 0, class)
	assert.GreaterOrEqual(t, conf, 0.0)
	assert.LessOrEqual(t, conf, BinaryThreshold)
}

func TestMultiClass(t *testing.T) {
	label, conf, err := MultiClass(stubClassifier{probs: []float64{0.1, 0.1, 0.1, 0.5, 0.1, 0.1}}, nil, TessLabels)
	require.NoError(t, err)
	assert.Equal(t, "FP", label)
	assert.Equal(t, 0.5, conf)
}

func TestMultiClassTieTakesFirst(t *testing.T) {
	label, _, err := MultiClass(stubClassifier{probs: []float64{0, 0.4, 0, 0, 0.4, 0.2}}, nil, TessLabels)
	require.NoError(t, err)
	assert.Equal(t, "CP", label)
}

func TestMultiClassLabelCount(t *testing.T) {
	_, _, err := MultiClass(stubClassifier{probs: []float64{0.5, 0.5}}, nil, TessLabels)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestMultiClassNaN(t *testing.T) {
	nan := math.NaN()
	_, _, err := MultiClass(stubClassifier{probs: []float64{nan, nan, nan, nan, nan, nan}}, nil, TessLabels)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestMultiClassOverTessEnsemble(t *testing.T) {
	e, err := parseTreeEnsemble(inferencetest.TessEnsemble())
	require.NoError(t, err)

	probs, err := e.PredictProba(tessVector(5))
	require.NoError(t, err)

	label, conf, err := MultiClass(e, tessVector(5), TessLabels)
	require.NoError(t, err)
	assert.Contains(t, TessLabels, label)
	assert.Equal(t, "CP", label)
	assert.Equal(t, probs[1], conf)

	label, _, err = MultiClass(e, tessVector(50), TessLabels)
	require.NoError(t, err)
	assert.Equal(t, "PC", label)
}
