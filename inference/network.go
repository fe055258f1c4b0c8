package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type activation func(v []float64)

var activations = map[string]activation{
	"linear": func([]float64) {},
	"relu": func(v []float64) {
		for i, x := range v {
			if x < 0 {
				v[i] = 0
			}
		}
	},
	"sigmoid": func(v []float64) {
		for i, x := range v {
			v[i] = sigmoid(x)
		}
	},
	"tanh": func(v []float64) {
		for i, x := range v {
			v[i] = math.Tanh(x)
		}
	},
	"softmax": softmax,
}

type denseLayer struct {
	weights *mat.Dense // in x out
	bias    []float64
	act     activation
}

// DenseNetwork is a feed-forward network of fully connected layers.
type DenseNetwork struct {
	inputs int
	layers []denseLayer
}

type denseNetworkFile struct {
	Format    string `json:"format"`
	InputSize int    `json:"input_size"`
	Layers    []struct {
		Weights    [][]float64 `json:"weights"`
		Bias       []float64   `json:"bias"`
		Activation string      `json:"activation"`
	} `json:"layers"`
}

func parseDenseNetwork(data []byte) (*DenseNetwork, error) {
	var f denseNetworkFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Layers) == 0 {
		return nil, errors.New("network has no layers")
	}

	width := f.InputSize
	if width <= 0 && len(f.Layers[0].Weights) > 0 {
		width = len(f.Layers[0].Weights)
	}
	n := &DenseNetwork{inputs: width}

	for i, l := range f.Layers {
		if len(l.Weights) != width {
			return nil, fmt.Errorf("layer %d: expected %d weight rows, got %d", i, width, len(l.Weights))
		}
		out := len(l.Bias)
		if out == 0 {
			return nil, fmt.Errorf("layer %d: empty bias", i)
		}
		act, ok := activations[l.Activation]
		if !ok {
			return nil, fmt.Errorf("layer %d: unsupported activation %q", i, l.Activation)
		}

		raw := make([]float64, 0, width*out)
		for r, row := range l.Weights {
			if len(row) != out {
				return nil, fmt.Errorf("layer %d row %d: expected %d weights, got %d", i, r, out, len(row))
			}
			raw = append(raw, row...)
		}

		n.layers = append(n.layers, denseLayer{
			weights: mat.NewDense(width, out, raw),
			bias:    l.Bias,
			act:     act,
		})
		width = out
	}
	return n, nil
}

func (n *DenseNetwork) NumFeatures() int { return n.inputs }

// NumOutputs is the width of the last layer.
func (n *DenseNetwork) NumOutputs() int {
	return len(n.layers[len(n.layers)-1].bias)
}

func (n *DenseNetwork) PredictProba(x []float32) ([]float64, error) {
	if len(x) != n.inputs {
		return nil, fmt.Errorf("expected %d features, got %d", n.inputs, len(x))
	}

	in := make([]float64, len(x))
	for i, v := range x {
		in[i] = float64(v)
	}

	var cur mat.Matrix = mat.NewDense(1, n.inputs, in)
	for _, l := range n.layers {
		var out mat.Dense
		out.Mul(cur, l.weights)
		row := out.RawRowView(0)
		floats.Add(row, l.bias)
		l.act(row)
		cur = &out
	}

	return mat.Row(nil, 0, cur), nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// softmax normalises v in place. The max is subtracted first so large
// margins do not overflow.
func softmax(v []float64) {
	if len(v) == 0 {
		return
	}
	m := floats.Max(v)
	floats.AddConst(-m, v)
	for i, x := range v {
		v[i] = math.Exp(x)
	}
	floats.Scale(1/floats.Sum(v), v)
}
