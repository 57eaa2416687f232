package learn

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ardunn/automatminer/core/parallel"
	"github.com/ardunn/automatminer/pkg/errors"
)

// knnParallelThreshold is the query-row count above which prediction fans
// out across cores. Each row scans the full training set.
const knnParallelThreshold = 64

// knnBase holds the memorized training set shared by the kNN estimators.
type knnBase struct {
	K       int
	TrainX  []float64 // row-major copy of the training matrix
	TrainY  []float64
	NCols   int
	Trained bool
}

func (b *knnBase) fit(X *mat.Dense, y []float64) error {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return errors.Wrap(errors.ErrEmptyData, "KNN.Fit")
	}
	if n != len(y) {
		return errors.Newf("automatminer: KNN.Fit: %d rows vs %d targets", n, len(y))
	}
	b.TrainX = make([]float64, n*p)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			b.TrainX[i*p+j] = X.At(i, j)
		}
	}
	b.TrainY = make([]float64, n)
	copy(b.TrainY, y)
	b.NCols = p
	b.Trained = true
	return nil
}

// neighbors returns the target values of the k nearest training rows by
// Euclidean distance, k capped at the training-set size.
func (b *knnBase) neighbors(row []float64) []float64 {
	n := len(b.TrainY)
	type pair struct {
		dist float64
		y    float64
	}
	pairs := make([]pair, n)
	for i := 0; i < n; i++ {
		d := 0.0
		for j := 0; j < b.NCols; j++ {
			diff := row[j] - b.TrainX[i*b.NCols+j]
			d += diff * diff
		}
		pairs[i] = pair{dist: d, y: b.TrainY[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].dist < pairs[j].dist })

	k := b.K
	if k > n {
		k = n
	}
	out := make([]float64, k)
	for i := 0; i < k; i++ {
		out[i] = pairs[i].y
	}
	return out
}

func (b *knnBase) rows(X *mat.Dense) ([][]float64, error) {
	n, p := X.Dims()
	if p != b.NCols {
		return nil, errors.NewShapeMismatchError("KNN.Predict", nil, nil)
	}
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, p)
		for j := 0; j < p; j++ {
			row[j] = X.At(i, j)
		}
		out[i] = row
	}
	return out, nil
}

// KNNRegressor predicts the mean target of the k nearest training rows.
type KNNRegressor struct {
	knnBase
}

// NewKNNRegressor returns an unfit k-nearest-neighbors regressor.
// Non-positive k falls back to 5.
func NewKNNRegressor(k int) *KNNRegressor {
	if k <= 0 {
		k = 5
	}
	return &KNNRegressor{knnBase{K: k}}
}

func (r *KNNRegressor) Name() string { return "KNNRegressor" }

func (r *KNNRegressor) Clone() Estimator { return NewKNNRegressor(r.K) }

func (r *KNNRegressor) Params() map[string]interface{} {
	return map[string]interface{}{"k": r.K}
}

func (r *KNNRegressor) Fit(X *mat.Dense, y []float64) error {
	return r.fit(X, y)
}

func (r *KNNRegressor) Predict(X *mat.Dense) ([]float64, error) {
	if !r.Trained {
		return nil, errors.NewNotFittedError("KNNRegressor", "Predict")
	}
	rows, err := r.rows(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	parallel.ParallelizeWithThreshold(len(rows), knnParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			ys := r.neighbors(rows[i])
			sum := 0.0
			for _, y := range ys {
				sum += y
			}
			out[i] = sum / float64(len(ys))
		}
	})
	return out, nil
}

// KNNClassifier predicts the majority class of the k nearest training
// rows; distance ties break toward the lower class code for determinism.
type KNNClassifier struct {
	knnBase
}

// NewKNNClassifier returns an unfit k-nearest-neighbors classifier.
// Non-positive k falls back to 5.
func NewKNNClassifier(k int) *KNNClassifier {
	if k <= 0 {
		k = 5
	}
	return &KNNClassifier{knnBase{K: k}}
}

func (c *KNNClassifier) Name() string { return "KNNClassifier" }

func (c *KNNClassifier) Clone() Estimator { return NewKNNClassifier(c.K) }

func (c *KNNClassifier) Params() map[string]interface{} {
	return map[string]interface{}{"k": c.K}
}

func (c *KNNClassifier) Fit(X *mat.Dense, y []float64) error {
	return c.fit(X, y)
}

func (c *KNNClassifier) Predict(X *mat.Dense) ([]float64, error) {
	if !c.Trained {
		return nil, errors.NewNotFittedError("KNNClassifier", "Predict")
	}
	rows, err := c.rows(X)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	parallel.ParallelizeWithThreshold(len(rows), knnParallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = majorityVote(c.neighbors(rows[i]))
		}
	})
	return out, nil
}

func majorityVote(ys []float64) float64 {
	votes := make(map[float64]int)
	for _, y := range ys {
		votes[y]++
	}
	best := math.Inf(1)
	bestCount := -1
	for y, count := range votes {
		if count > bestCount || (count == bestCount && y < best) {
			best = y
			bestCount = count
		}
	}
	return best
}
