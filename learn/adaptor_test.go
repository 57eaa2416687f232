package learn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardunn/automatminer/dataframe"
	"github.com/ardunn/automatminer/pkg/errors"
)

func regressionFrame(t *testing.T, n int) *dataframe.DataFrame {
	t.Helper()
	x1 := make([]interface{}, n)
	x2 := make([]interface{}, n)
	y := make([]interface{}, n)
	for i := 0; i < n; i++ {
		v := float64(i)
		x1[i] = v
		x2[i] = float64(n - i)
		y[i] = 3*v + 2
	}
	df := dataframe.New()
	require.NoError(t, df.AddColumn("x1", x1))
	require.NoError(t, df.AddColumn("x2", x2))
	require.NoError(t, df.AddColumn("y", y))
	return df
}

func classificationFrame(t *testing.T, n int) *dataframe.DataFrame {
	t.Helper()
	x := make([]interface{}, n)
	y := make([]interface{}, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i)
		if i < n/2 {
			y[i] = "low"
		} else {
			y[i] = "high"
		}
	}
	df := dataframe.New()
	require.NoError(t, df.AddColumn("x", x))
	require.NoError(t, df.AddColumn("y", y))
	return df
}

func TestNewAdaptorValidation(t *testing.T) {
	_, err := NewAdaptor(Options{Mode: "bogus"})
	var ce *errors.ConfigError
	require.True(t, errors.As(err, &ce))

	_, err = NewAdaptor(Options{Mode: ModeSearch, Estimator: NewRidge(1)})
	assert.Error(t, err, "a fixed estimator needs single mode")

	_, err = NewAdaptor(Options{Mode: ModeSingle, Estimator: NewRidge(1)})
	assert.NoError(t, err)
}

func TestPredictBeforeFitAdaptor(t *testing.T) {
	a, err := NewAdaptor(Options{})
	require.NoError(t, err)
	_, err = a.Predict(regressionFrame(t, 10))
	var nf *errors.NotFittedError
	require.True(t, errors.As(err, &nf))
}

func TestSearchRegression(t *testing.T) {
	a, err := NewAdaptor(Options{CVFolds: 3, Seed: 1})
	require.NoError(t, err)

	df := regressionFrame(t, 30)
	require.NoError(t, a.Fit(df, "y"))
	assert.Equal(t, Regression, a.Problem)
	assert.Equal(t, []string{"x1", "x2"}, a.FeatureColumns)
	assert.NotNil(t, a.Best)
	assert.Equal(t, "neg_mean_squared_error", a.Metric)

	out, err := a.Predict(df.Drop("y"))
	require.NoError(t, err)
	assert.Equal(t, 30, out.NRows())
	require.True(t, out.Has("y predicted"))

	// A clean linear target should be fit essentially exactly by the
	// linear candidates.
	preds, err := out.FloatColumn("y predicted")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, preds[0], 0.5)
	assert.InDelta(t, 3*29.0+2, preds[29], 1.5)
}

func TestSearchClassification(t *testing.T) {
	a, err := NewAdaptor(Options{CVFolds: 2, Seed: 1})
	require.NoError(t, err)

	df := classificationFrame(t, 40)
	require.NoError(t, a.Fit(df, "y"))
	assert.Equal(t, Classification, a.Problem)
	assert.Equal(t, []string{"high", "low"}, a.Classes)
	assert.Equal(t, "accuracy", a.Metric)

	out, err := a.Predict(df.Drop("y"))
	require.NoError(t, err)
	cells, _ := out.Col("y predicted")
	assert.Equal(t, "low", cells[0], "predictions decode back to class labels")
	assert.Equal(t, "high", cells[39])
}

func TestSingleModeFixedEstimator(t *testing.T) {
	a, err := NewAdaptor(Options{Mode: ModeSingle, Estimator: NewRidge(0.01)})
	require.NoError(t, err)

	df := regressionFrame(t, 20)
	require.NoError(t, a.Fit(df, "y"))
	assert.Equal(t, "Ridge", a.Best.Name())

	out, err := a.Predict(df.Drop("y"))
	require.NoError(t, err)
	preds, err := out.FloatColumn("y predicted")
	require.NoError(t, err)
	assert.InDelta(t, 2.0, preds[0], 0.5)
}

func TestPredictShapeMismatch(t *testing.T) {
	a, err := NewAdaptor(Options{Mode: ModeSingle, Estimator: NewRidge(1)})
	require.NoError(t, err)
	require.NoError(t, a.Fit(regressionFrame(t, 20), "y"))

	bare := dataframe.New()
	require.NoError(t, bare.AddColumn("x1", []interface{}{1.0}))

	_, err = a.Predict(bare)
	var sm *errors.ShapeMismatchError
	require.True(t, errors.As(err, &sm))
	assert.Contains(t, sm.Missing, "x2")
}

func TestFitMissingTarget(t *testing.T) {
	a, err := NewAdaptor(Options{})
	require.NoError(t, err)
	err = a.Fit(regressionFrame(t, 10), "nope")
	var pe *errors.PreconditionError
	require.True(t, errors.As(err, &pe))
}

func TestSearchBudgetStillEvaluatesOneCandidate(t *testing.T) {
	a, err := NewAdaptor(Options{Budget: time.Nanosecond, CVFolds: 2, NWorkers: 1})
	require.NoError(t, err)

	df := regressionFrame(t, 20)
	require.NoError(t, a.Fit(df, "y"), "an exhausted budget must still fit at least one candidate")
	assert.NotNil(t, a.Best)
}

func TestPredictionColumnName(t *testing.T) {
	assert.Equal(t, "band gap predicted", PredictionColumn("band gap"))
}

func TestCVSplitPartitions(t *testing.T) {
	folds := cvSplit(10, 3)
	require.Len(t, folds, 3)

	seen := map[int]int{}
	for _, f := range folds {
		assert.Equal(t, 10, len(f.train)+len(f.test))
		for _, idx := range f.test {
			seen[idx]++
		}
	}
	require.Len(t, seen, 10)
	for idx, count := range seen {
		assert.Equalf(t, 1, count, "row %d must be held out exactly once", idx)
	}
}
