// Package inferencetest builds small model artifacts for tests.
package inferencetest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Bias       []float64   `json:"bias"`
	Activation string      `json:"activation"`
}

// DenseNetworkJSON encodes a dense-network artifact.
func DenseNetworkJSON(inputs int, layers ...Layer) []byte {
	data, _ := json.Marshal(struct {
		Format    string  `json:"format"`
		InputSize int     `json:"input_size"`
		Layers    []Layer `json:"layers"`
	}{"dense-network", inputs, layers})
	return data
}

const (
	KeplerFlagNTIndex = 0
	KeplerSNRIndex    = 12
)

// KeplerNetwork is a 20-input logistic unit:
// sigmoid(bias - 4*koi_fpflag_nt + 0.1*koi_model_snr).
func KeplerNetwork(bias float64) []byte {
	w := make([][]float64, 20)
	for i := range w {
		w[i] = []float64{0}
	}
	w[KeplerFlagNTIndex][0] = -4
	w[KeplerSNRIndex][0] = 0.1
	return DenseNetworkJSON(20, Layer{Weights: w, Bias: []float64{bias}, Activation: "sigmoid"})
}

// Tree is one regression tree in XGBoost's array layout.
type Tree struct {
	Left        []int
	Right       []int
	Split       []int
	Cond        []float64
	DefaultLeft []int
}

func Leaf(v float64) Tree {
	return Tree{
		Left:        []int{-1},
		Right:       []int{-1},
		Split:       []int{0},
		Cond:        []float64{v},
		DefaultLeft: []int{0},
	}
}

// Stump splits once on feature: x < threshold goes to left.
func Stump(feature int, threshold, left, right float64, defaultLeft bool) Tree {
	dl := 0
	if defaultLeft {
		dl = 1
	}
	return Tree{
		Left:        []int{1, -1, -1},
		Right:       []int{2, -1, -1},
		Split:       []int{feature, 0, 0},
		Cond:        []float64{threshold, left, right},
		DefaultLeft: []int{dl, 0, 0},
	}
}

// XGBoostJSON encodes a gbtree model with the multi:softprob objective, or
// binary:logistic when numClass is 1.
func XGBoostJSON(numFeature, numClass int, baseScore string, trees []Tree, treeInfo []int) []byte {
	type jsonTree struct {
		Left        []int     `json:"left_children"`
		Right       []int     `json:"right_children"`
		Split       []int     `json:"split_indices"`
		Cond        []float64 `json:"split_conditions"`
		DefaultLeft []int     `json:"default_left"`
	}
	jt := make([]jsonTree, len(trees))
	for i, t := range trees {
		jt[i] = jsonTree(t)
	}

	objective := "multi:softprob"
	nc := numClass
	if numClass == 1 {
		objective = "binary:logistic"
		nc = 0
	}

	doc := map[string]any{
		"learner": map[string]any{
			"gradient_booster": map[string]any{
				"name": "gbtree",
				"model": map[string]any{
					"trees":     jt,
					"tree_info": treeInfo,
				},
			},
			"learner_model_param": map[string]any{
				"base_score":  baseScore,
				"num_class":   strconv.Itoa(nc),
				"num_feature": strconv.Itoa(numFeature),
			},
			"objective": map[string]any{"name": objective},
		},
		"version": []int{2, 1, 0},
	}
	data, _ := json.Marshal(doc)
	return data
}

// TessEnsemble is an 11-feature, six-class model:
//   - CP scores 2 when pl_orbper < 10, -1 otherwise
//   - PC scores -1 when pl_orbper < 10, 2 otherwise
//   - FP scores 5 when pl_orbper_log < 0 or is missing
//   - APC, FA and KP are constant 0
func TessEnsemble() []byte {
	trees := []Tree{
		Leaf(0),
		Stump(0, 10, 2, -1, false),
		Leaf(0),
		Stump(9, 0, 5, 0, true),
		Leaf(0),
		Stump(0, 10, -1, 2, false),
	}
	return XGBoostJSON(11, 6, "[5E-1]", trees, []int{0, 1, 2, 3, 4, 5})
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

// ModelDir returns a temp directory holding both production artifacts, with
// the Kepler network biased by keplerBias.
func ModelDir(tb testing.TB, keplerBias float64) string {
	tb.Helper()
	dir := tb.TempDir()
	WriteFile(tb, dir, "kepler_ann.json", KeplerNetwork(keplerBias))
	WriteFile(tb, dir, "tess_xgb_improved_model.json", TessEnsemble())
	return dir
}
