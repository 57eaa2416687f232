package learn

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/ardunn/automatminer/core/parallel"
	"github.com/ardunn/automatminer/pkg/errors"
)

// RandomForest is a bagged ensemble of CART trees with per-split feature
// subsampling. Trees train in parallel; predictions average (regression)
// or vote (classification).
type RandomForest struct {
	Task           string
	NTrees         int // default 50
	MaxDepth       int // default 8
	MinSamplesLeaf int // default 2
	Seed           int64

	Trees     []*DecisionTree
	NFeatures int
	Trained   bool
}

// NewRandomForest returns an unfit forest for the given task.
func NewRandomForest(task string, nTrees int) *RandomForest {
	if nTrees <= 0 {
		nTrees = 50
	}
	return &RandomForest{Task: task, NTrees: nTrees, MaxDepth: 8, MinSamplesLeaf: 2}
}

func (rf *RandomForest) Name() string { return "RandomForest" }

func (rf *RandomForest) Clone() Estimator {
	return &RandomForest{
		Task:           rf.Task,
		NTrees:         rf.NTrees,
		MaxDepth:       rf.MaxDepth,
		MinSamplesLeaf: rf.MinSamplesLeaf,
		Seed:           rf.Seed,
	}
}

func (rf *RandomForest) Params() map[string]interface{} {
	return map[string]interface{}{
		"task":             rf.Task,
		"n_trees":          rf.NTrees,
		"max_depth":        rf.MaxDepth,
		"min_samples_leaf": rf.MinSamplesLeaf,
	}
}

func (rf *RandomForest) Fit(X *mat.Dense, y []float64) error {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return errors.Wrap(errors.ErrEmptyData, "RandomForest.Fit")
	}
	if n != len(y) {
		return errors.Newf("automatminer: RandomForest.Fit: %d rows vs %d targets", n, len(y))
	}

	maxFeatures := int(math.Sqrt(float64(p)) + 0.5)
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rf.NFeatures = p
	rf.Trees = make([]*DecisionTree, rf.NTrees)
	fitErrs := make([]error, rf.NTrees)

	parallel.Parallelize(rf.NTrees, func(start, end int) {
		for k := start; k < end; k++ {
			rng := rand.New(rand.NewPCG(uint64(rf.Seed), uint64(k)+1))

			// Bootstrap sample of the training rows.
			bx := mat.NewDense(n, p, nil)
			by := make([]float64, n)
			for i := 0; i < n; i++ {
				idx := rng.IntN(n)
				for j := 0; j < p; j++ {
					bx.Set(i, j, X.At(idx, j))
				}
				by[i] = y[idx]
			}

			tree := &DecisionTree{
				Task:           rf.Task,
				MaxDepth:       rf.MaxDepth,
				MinSamplesLeaf: rf.MinSamplesLeaf,
				MaxFeatures:    maxFeatures,
				Seed:           rf.Seed + int64(k),
			}
			if err := tree.Fit(bx, by); err != nil {
				fitErrs[k] = err
				return
			}
			rf.Trees[k] = tree
		}
	})

	for _, err := range fitErrs {
		if err != nil {
			return err
		}
	}
	rf.Trained = true
	return nil
}

func (rf *RandomForest) Predict(X *mat.Dense) ([]float64, error) {
	if !rf.Trained {
		return nil, errors.NewNotFittedError("RandomForest", "Predict")
	}
	n, p := X.Dims()
	if p != rf.NFeatures {
		return nil, errors.NewShapeMismatchError("RandomForest.Predict", nil, nil)
	}

	perTree := make([][]float64, len(rf.Trees))
	for k, tree := range rf.Trees {
		pred, err := tree.Predict(X)
		if err != nil {
			return nil, err
		}
		perTree[k] = pred
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if rf.Task == TaskClassification {
			votes := make([]float64, len(rf.Trees))
			for k := range rf.Trees {
				votes[k] = perTree[k][i]
			}
			out[i] = majorityVote(votes)
			continue
		}
		sum := 0.0
		for k := range rf.Trees {
			sum += perTree[k][i]
		}
		out[i] = sum / float64(len(rf.Trees))
	}
	return out, nil
}

// FeatureImportances averages the trees' normalized impurity decreases.
func (rf *RandomForest) FeatureImportances() []float64 {
	total := make([]float64, rf.NFeatures)
	for _, tree := range rf.Trees {
		for j, v := range tree.FeatureImportances() {
			total[j] += v
		}
	}
	return normalizeImportances(total)
}
