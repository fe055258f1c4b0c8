package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TreeEnsemble evaluates a gradient-boosted tree model exported with
// XGBoost's save_model(".json").
type TreeEnsemble struct {
	trees      []regTree
	treeClass  []int
	numClass   int
	numFeature int
	baseMargin float64
	objective  string
}

type regTree struct {
	left        []int
	right       []int
	split       []int
	cond        []float64
	defaultLeft []bool
}

type xgbFile struct {
	Learner struct {
		GradientBooster struct {
			Name  string `json:"name"`
			Model struct {
				Trees    []xgbTree `json:"trees"`
				TreeInfo []int     `json:"tree_info"`
			} `json:"model"`
		} `json:"gradient_booster"`
		LearnerModelParam struct {
			BaseScore  string `json:"base_score"`
			NumClass   string `json:"num_class"`
			NumFeature string `json:"num_feature"`
		} `json:"learner_model_param"`
		Objective struct {
			Name string `json:"name"`
		} `json:"objective"`
	} `json:"learner"`
}

type xgbTree struct {
	LeftChildren    []int     `json:"left_children"`
	RightChildren   []int     `json:"right_children"`
	SplitIndices    []int     `json:"split_indices"`
	SplitConditions []float64 `json:"split_conditions"`
	DefaultLeft     boolFlags `json:"default_left"`
}

// boolFlags accepts both encodings XGBoost has used for default_left: 0/1
// integers and JSON booleans.
type boolFlags []bool

func (b *boolFlags) UnmarshalJSON(data []byte) error {
	var asBool []bool
	if err := json.Unmarshal(data, &asBool); err == nil {
		*b = asBool
		return nil
	}
	var asInt []int
	if err := json.Unmarshal(data, &asInt); err != nil {
		return fmt.Errorf("default_left: %w", err)
	}
	out := make([]bool, len(asInt))
	for i, v := range asInt {
		out[i] = v != 0
	}
	*b = out
	return nil
}

const (
	objectiveSoftprob = "multi:softprob"
	objectiveSoftmax  = "multi:softmax"
	objectiveLogistic = "binary:logistic"
)

func parseTreeEnsemble(data []byte) (*TreeEnsemble, error) {
	var f xgbFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	gb := f.Learner.GradientBooster
	if gb.Name != "" && gb.Name != "gbtree" {
		return nil, fmt.Errorf("unsupported booster %q", gb.Name)
	}
	if len(gb.Model.Trees) == 0 {
		return nil, errors.New("model has no trees")
	}

	param := f.Learner.LearnerModelParam
	numClass, err := parseParamInt(param.NumClass)
	if err != nil {
		return nil, fmt.Errorf("num_class: %w", err)
	}
	numFeature, err := parseParamInt(param.NumFeature)
	if err != nil {
		return nil, fmt.Errorf("num_feature: %w", err)
	}
	baseScore, err := parseBaseScore(param.BaseScore)
	if err != nil {
		return nil, fmt.Errorf("base_score: %w", err)
	}

	e := &TreeEnsemble{
		numClass:   max(numClass, 1),
		numFeature: numFeature,
		baseMargin: baseScore,
		objective:  f.Learner.Objective.Name,
	}

	switch e.objective {
	case objectiveSoftprob, objectiveSoftmax:
		if e.numClass < 2 {
			return nil, fmt.Errorf("objective %s needs num_class >= 2", e.objective)
		}
	case objectiveLogistic, "":
		if e.numClass != 1 {
			return nil, fmt.Errorf("objective %q with num_class %d", e.objective, e.numClass)
		}
		// base_score is stored as a probability for logistic models.
		e.baseMargin = logit(baseScore)
	default:
		return nil, fmt.Errorf("unsupported objective %q", e.objective)
	}

	if len(gb.Model.TreeInfo) != len(gb.Model.Trees) {
		return nil, fmt.Errorf("tree_info has %d entries for %d trees", len(gb.Model.TreeInfo), len(gb.Model.Trees))
	}

	maxSplit := -1
	for i, t := range gb.Model.Trees {
		if c := gb.Model.TreeInfo[i]; c < 0 || c >= e.numClass {
			return nil, fmt.Errorf("tree %d: class %d out of range", i, c)
		}
		tree, top, err := newRegTree(t)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		maxSplit = max(maxSplit, top)
		e.trees = append(e.trees, tree)
	}
	e.treeClass = gb.Model.TreeInfo

	if e.numFeature == 0 {
		e.numFeature = maxSplit + 1
	}
	if maxSplit >= e.numFeature {
		return nil, fmt.Errorf("split on feature %d but model declares %d features", maxSplit, e.numFeature)
	}
	return e, nil
}

// newRegTree validates node arrays and returns the highest feature index
// the tree splits on. Children always sit after their parent, which makes
// every walk terminate.
func newRegTree(t xgbTree) (regTree, int, error) {
	n := len(t.LeftChildren)
	if n == 0 {
		return regTree{}, -1, errors.New("empty tree")
	}
	if len(t.RightChildren) != n || len(t.SplitIndices) != n || len(t.SplitConditions) != n {
		return regTree{}, -1, errors.New("node arrays differ in length")
	}
	defaultLeft := []bool(t.DefaultLeft)
	if len(defaultLeft) == 0 {
		defaultLeft = make([]bool, n)
	}
	if len(defaultLeft) != n {
		return regTree{}, -1, errors.New("default_left length mismatch")
	}

	top := -1
	for i := 0; i < n; i++ {
		l, r := t.LeftChildren[i], t.RightChildren[i]
		if l == -1 {
			continue
		}
		if l <= i || l >= n || r <= i || r >= n {
			return regTree{}, -1, fmt.Errorf("node %d has invalid children %d/%d", i, l, r)
		}
		if t.SplitIndices[i] < 0 {
			return regTree{}, -1, fmt.Errorf("node %d has negative split index", i)
		}
		top = max(top, t.SplitIndices[i])
	}

	return regTree{
		left:        t.LeftChildren,
		right:       t.RightChildren,
		split:       t.SplitIndices,
		cond:        t.SplitConditions,
		defaultLeft: defaultLeft,
	}, top, nil
}

// leaf walks the tree for x. Thresholds are compared in float32, the
// precision the model was trained with.
func (t *regTree) leaf(x []float32) float64 {
	node := 0
	for t.left[node] != -1 {
		v := x[t.split[node]]
		switch {
		case math.IsNaN(float64(v)):
			if t.defaultLeft[node] {
				node = t.left[node]
			} else {
				node = t.right[node]
			}
		case v < float32(t.cond[node]):
			node = t.left[node]
		default:
			node = t.right[node]
		}
	}
	return t.cond[node]
}

func (e *TreeEnsemble) NumFeatures() int { return e.numFeature }

func (e *TreeEnsemble) NumClasses() int { return e.numClass }

// Margins returns the raw per-class scores before the link function.
func (e *TreeEnsemble) Margins(x []float32) ([]float64, error) {
	if len(x) != e.numFeature {
		return nil, fmt.Errorf("expected %d features, got %d", e.numFeature, len(x))
	}
	margins := make([]float64, e.numClass)
	for i := range margins {
		margins[i] = e.baseMargin
	}
	for i := range e.trees {
		margins[e.treeClass[i]] += e.trees[i].leaf(x)
	}
	return margins, nil
}

func (e *TreeEnsemble) PredictProba(x []float32) ([]float64, error) {
	margins, err := e.Margins(x)
	if err != nil {
		return nil, err
	}
	if e.numClass == 1 {
		return []float64{sigmoid(margins[0])}, nil
	}
	softmax(margins)
	return margins, nil
}

func parseParamInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// parseBaseScore handles both "5E-1" and the bracketed "[5E-1]" form newer
// XGBoost releases write. Vector base scores use their first element.
func parseBaseScore(s string) (float64, error) {
	s = strings.TrimSpace(strings.Trim(s, "[]"))
	if s == "" {
		return 0.5, nil
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = s[:i]
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}
