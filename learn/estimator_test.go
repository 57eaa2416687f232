package learn

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ardunn/automatminer/pkg/errors"
)

// linearData builds y = 2*x0 - x1 + 1 over a grid.
func linearData(n int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < n; i++ {
		x0 := rng.Float64() * 10
		x1 := rng.Float64() * 10
		X.Set(i, 0, x0)
		X.Set(i, 1, x1)
		y[i] = 2*x0 - x1 + 1
	}
	return X, y
}

// blobs builds two well-separated classes around (0,0) and (10,10).
func blobs(n int) (*mat.Dense, []float64) {
	X := mat.NewDense(n, 2, nil)
	y := make([]float64, n)
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < n; i++ {
		center := 0.0
		if i%2 == 1 {
			center = 10.0
		}
		X.Set(i, 0, center+rng.Float64())
		X.Set(i, 1, center+rng.Float64())
		y[i] = float64(i % 2)
	}
	return X, y
}

func TestLinearRegressionRecoversCoefficients(t *testing.T) {
	X, y := linearData(50)
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))

	assert.InDelta(t, 2.0, lr.Weights[0], 1e-6)
	assert.InDelta(t, -1.0, lr.Weights[1], 1e-6)
	assert.InDelta(t, 1.0, lr.Intercept, 1e-6)

	preds, err := lr.Predict(X)
	require.NoError(t, err)
	for i := range y {
		assert.InDelta(t, y[i], preds[i], 1e-6)
	}
}

func TestRidgeShrinksTowardZero(t *testing.T) {
	X, y := linearData(50)

	light := NewRidge(0.001)
	require.NoError(t, light.Fit(X, y))
	heavy := NewRidge(1000)
	require.NoError(t, heavy.Fit(X, y))

	assert.Less(t, absf(heavy.Weights[0]), absf(light.Weights[0]))
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestKNNRegressor(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{0, 1, 10, 11})
	y := []float64{0, 2, 20, 22}

	knn := NewKNNRegressor(2)
	require.NoError(t, knn.Fit(X, y))

	preds, err := knn.Predict(mat.NewDense(2, 1, []float64{0.5, 10.5}))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, preds[0], 1e-12)
	assert.InDelta(t, 21.0, preds[1], 1e-12)
}

func TestKNNClassifier(t *testing.T) {
	X, y := blobs(40)
	knn := NewKNNClassifier(3)
	require.NoError(t, knn.Fit(X, y))

	preds, err := knn.Predict(mat.NewDense(2, 2, []float64{
		0.5, 0.5,
		10.5, 10.5,
	}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, preds[0])
	assert.Equal(t, 1.0, preds[1])
}

func TestDecisionTreeRegression(t *testing.T) {
	// A step function a depth-limited tree captures exactly.
	X := mat.NewDense(8, 1, []float64{1, 2, 3, 4, 11, 12, 13, 14})
	y := []float64{5, 5, 5, 5, 9, 9, 9, 9}

	tree := NewDecisionTree(TaskRegression, 4)
	require.NoError(t, tree.Fit(X, y))

	preds, err := tree.Predict(mat.NewDense(2, 1, []float64{2.5, 12.5}))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, preds[0], 1e-12)
	assert.InDelta(t, 9.0, preds[1], 1e-12)

	imp := tree.FeatureImportances()
	require.Len(t, imp, 1)
	assert.InDelta(t, 1.0, imp[0], 1e-12)
}

func TestDecisionTreeClassification(t *testing.T) {
	X, y := blobs(40)
	tree := NewDecisionTree(TaskClassification, 4)
	require.NoError(t, tree.Fit(X, y))

	preds, err := tree.Predict(X)
	require.NoError(t, err)
	correct := 0
	for i := range y {
		if preds[i] == y[i] {
			correct++
		}
	}
	assert.GreaterOrEqual(t, correct, 38, "separable blobs should be nearly perfectly classified")
}

func TestRandomForestRegression(t *testing.T) {
	X, y := linearData(80)
	rf := NewRandomForest(TaskRegression, 20)
	rf.Seed = 42
	require.NoError(t, rf.Fit(X, y))

	preds, err := rf.Predict(X)
	require.NoError(t, err)
	require.Len(t, preds, 80)

	imp := rf.FeatureImportances()
	require.Len(t, imp, 2)
	total := imp[0] + imp[1]
	assert.InDelta(t, 1.0, total, 1e-9)
	assert.Greater(t, imp[0], imp[1], "x0 has twice the coefficient of x1")
}

func TestRandomForestClassification(t *testing.T) {
	X, y := blobs(40)
	rf := NewRandomForest(TaskClassification, 15)
	rf.Seed = 7
	require.NoError(t, rf.Fit(X, y))

	preds, err := rf.Predict(mat.NewDense(2, 2, []float64{
		0.5, 0.5,
		10.5, 10.5,
	}))
	require.NoError(t, err)
	assert.Equal(t, 0.0, preds[0])
	assert.Equal(t, 1.0, preds[1])
}

func TestPredictBeforeFit(t *testing.T) {
	X := mat.NewDense(1, 1, []float64{1})
	for _, est := range []Estimator{
		NewLinearRegression(),
		NewRidge(1),
		NewKNNRegressor(3),
		NewKNNClassifier(3),
		NewDecisionTree(TaskRegression, 4),
		NewRandomForest(TaskRegression, 5),
	} {
		_, err := est.Predict(X)
		var nf *errors.NotFittedError
		require.Truef(t, errors.As(err, &nf), "%s", est.Name())
	}
}

func TestCloneIsUnfit(t *testing.T) {
	X, y := linearData(20)
	rf := NewRandomForest(TaskRegression, 5)
	require.NoError(t, rf.Fit(X, y))

	clone := rf.Clone().(*RandomForest)
	assert.False(t, clone.Trained)
	assert.Equal(t, rf.NTrees, clone.NTrees)

	_, err := clone.Predict(X)
	assert.Error(t, err)
}

func TestFitEmptyData(t *testing.T) {
	empty := &mat.Dense{}
	err := NewLinearRegression().Fit(empty, nil)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}
