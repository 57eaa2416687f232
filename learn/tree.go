package learn

import (
	"math"
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ardunn/automatminer/pkg/errors"
)

// Tree tasks.
const (
	TaskRegression     = "regression"
	TaskClassification = "classification"
)

// TreeNode is one node of a fitted CART tree. Exported for gob snapshots.
type TreeNode struct {
	Leaf      bool
	Value     float64 // leaf prediction: mean target or majority class code
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// DecisionTree is a CART tree: variance-reduction splits for regression,
// Gini splits for classification.
type DecisionTree struct {
	Task           string
	MaxDepth       int   // default 8
	MinSamplesLeaf int   // default 2
	MaxFeatures    int   // features sampled per split; 0 means all
	Seed           int64 // split-feature sampling seed

	Root        *TreeNode
	NFeatures   int
	Importances []float64 // impurity decrease accumulated per feature
	Trained     bool
}

// NewDecisionTree returns an unfit tree for the given task.
func NewDecisionTree(task string, maxDepth int) *DecisionTree {
	if maxDepth <= 0 {
		maxDepth = 8
	}
	return &DecisionTree{Task: task, MaxDepth: maxDepth, MinSamplesLeaf: 2}
}

func (t *DecisionTree) Name() string { return "DecisionTree" }

func (t *DecisionTree) Clone() Estimator {
	return &DecisionTree{
		Task:           t.Task,
		MaxDepth:       t.MaxDepth,
		MinSamplesLeaf: t.MinSamplesLeaf,
		MaxFeatures:    t.MaxFeatures,
		Seed:           t.Seed,
	}
}

func (t *DecisionTree) Params() map[string]interface{} {
	return map[string]interface{}{
		"task":             t.Task,
		"max_depth":        t.MaxDepth,
		"min_samples_leaf": t.MinSamplesLeaf,
		"max_features":     t.MaxFeatures,
	}
}

func (t *DecisionTree) Fit(X *mat.Dense, y []float64) error {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return errors.Wrap(errors.ErrEmptyData, "DecisionTree.Fit")
	}
	if n != len(y) {
		return errors.Newf("automatminer: DecisionTree.Fit: %d rows vs %d targets", n, len(y))
	}
	if t.MaxDepth <= 0 {
		t.MaxDepth = 8
	}
	if t.MinSamplesLeaf <= 0 {
		t.MinSamplesLeaf = 2
	}

	t.NFeatures = p
	t.Importances = make([]float64, p)

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	rng := rand.New(rand.NewPCG(uint64(t.Seed), uint64(t.Seed)+1))
	t.Root = t.grow(X, y, indices, 0, n, rng)
	t.Trained = true
	return nil
}

func (t *DecisionTree) Predict(X *mat.Dense) ([]float64, error) {
	if !t.Trained {
		return nil, errors.NewNotFittedError("DecisionTree", "Predict")
	}
	n, p := X.Dims()
	if p != t.NFeatures {
		return nil, errors.NewShapeMismatchError("DecisionTree.Predict", nil, nil)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		node := t.Root
		for !node.Leaf {
			if X.At(i, node.Feature) <= node.Threshold {
				node = node.Left
			} else {
				node = node.Right
			}
		}
		out[i] = node.Value
	}
	return out, nil
}

// FeatureImportances returns normalized accumulated impurity decreases.
func (t *DecisionTree) FeatureImportances() []float64 {
	return normalizeImportances(t.Importances)
}

func (t *DecisionTree) grow(X *mat.Dense, y []float64, indices []int, depth, nTotal int, rng *rand.Rand) *TreeNode {
	if depth >= t.MaxDepth || len(indices) < 2*t.MinSamplesLeaf || pure(y, indices) {
		return &TreeNode{Leaf: true, Value: t.leafValue(y, indices)}
	}

	feature, threshold, gain, ok := t.bestSplit(X, y, indices, rng)
	if !ok {
		return &TreeNode{Leaf: true, Value: t.leafValue(y, indices)}
	}

	var left, right []int
	for _, idx := range indices {
		if X.At(idx, feature) <= threshold {
			left = append(left, idx)
		} else {
			right = append(right, idx)
		}
	}
	if len(left) < t.MinSamplesLeaf || len(right) < t.MinSamplesLeaf {
		return &TreeNode{Leaf: true, Value: t.leafValue(y, indices)}
	}

	t.Importances[feature] += gain * float64(len(indices)) / float64(nTotal)

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      t.grow(X, y, left, depth+1, nTotal, rng),
		Right:     t.grow(X, y, right, depth+1, nTotal, rng),
	}
}

// bestSplit scans candidate features (all, or a random subset of
// MaxFeatures) for the threshold with the largest impurity decrease.
func (t *DecisionTree) bestSplit(X *mat.Dense, y []float64, indices []int, rng *rand.Rand) (int, float64, float64, bool) {
	features := make([]int, t.NFeatures)
	for j := range features {
		features[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < t.NFeatures {
		rng.Shuffle(len(features), func(i, j int) {
			features[i], features[j] = features[j], features[i]
		})
		features = features[:t.MaxFeatures]
		sort.Ints(features)
	}

	parent := t.impurity(y, indices)
	bestGain := 0.0
	bestFeature, bestThreshold := -1, 0.0

	for _, j := range features {
		sorted := make([]int, len(indices))
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return X.At(sorted[a], j) < X.At(sorted[b], j)
		})

		for split := t.MinSamplesLeaf; split <= len(sorted)-t.MinSamplesLeaf; split++ {
			lo := X.At(sorted[split-1], j)
			hi := X.At(sorted[split], j)
			if lo == hi || math.IsNaN(lo) || math.IsNaN(hi) {
				continue
			}
			gain := parent -
				(float64(split)*t.impurity(y, sorted[:split])+
					float64(len(sorted)-split)*t.impurity(y, sorted[split:]))/float64(len(sorted))
			if gain > bestGain {
				bestGain = gain
				bestFeature = j
				bestThreshold = (lo + hi) / 2
			}
		}
	}

	if bestFeature < 0 || bestGain <= 1e-12 {
		return 0, 0, 0, false
	}
	return bestFeature, bestThreshold, bestGain, true
}

func (t *DecisionTree) impurity(y []float64, indices []int) float64 {
	if t.Task == TaskClassification {
		counts := make(map[float64]int)
		for _, idx := range indices {
			counts[y[idx]]++
		}
		gini := 1.0
		n := float64(len(indices))
		for _, c := range counts {
			f := float64(c) / n
			gini -= f * f
		}
		return gini
	}
	mean := 0.0
	for _, idx := range indices {
		mean += y[idx]
	}
	mean /= float64(len(indices))
	variance := 0.0
	for _, idx := range indices {
		d := y[idx] - mean
		variance += d * d
	}
	return variance / float64(len(indices))
}

func (t *DecisionTree) leafValue(y []float64, indices []int) float64 {
	if t.Task == TaskClassification {
		ys := make([]float64, len(indices))
		for i, idx := range indices {
			ys[i] = y[idx]
		}
		return majorityVote(ys)
	}
	sum := 0.0
	for _, idx := range indices {
		sum += y[idx]
	}
	return sum / float64(len(indices))
}

func pure(y []float64, indices []int) bool {
	for _, idx := range indices[1:] {
		if y[idx] != y[indices[0]] {
			return false
		}
	}
	return true
}

func normalizeImportances(raw []float64) []float64 {
	out := make([]float64, len(raw))
	total := 0.0
	for _, v := range raw {
		total += v
	}
	if total == 0 {
		return out
	}
	for i, v := range raw {
		out[i] = v / total
	}
	return out
}
