package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegressionMetrics(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	yPred := []float64{1.5, 2.5, 2.5, 3.5}

	mse, err := MSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, mse, 1e-12)

	rmse, err := RMSE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rmse, 1e-12)

	mae, err := MAE(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, mae, 1e-12)

	r2, err := R2(yTrue, yTrue)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, r2, 1e-12)

	_, err = R2([]float64{5, 5, 5}, []float64{5, 5, 5})
	assert.Error(t, err, "zero variance in yTrue")
}

func TestClassificationMetrics(t *testing.T) {
	yTrue := []float64{0, 0, 1, 1}
	yPred := []float64{0, 1, 1, 1}

	acc, err := Accuracy(yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, acc, 1e-12)

	f1, err := F1Macro(yTrue, yPred)
	require.NoError(t, err)
	// class 0: p=1, r=0.5, f1=2/3; class 1: p=2/3, r=1, f1=0.8
	assert.InDelta(t, (2.0/3.0+0.8)/2.0, f1, 1e-12)

	perfect, err := F1Macro(yTrue, yTrue)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, perfect, 1e-12)
}

func TestMetricInputValidation(t *testing.T) {
	_, err := MSE(nil, nil)
	assert.Error(t, err)
	_, err = MAE([]float64{1, 2}, []float64{1})
	assert.Error(t, err)
	_, err = Accuracy([]float64{}, []float64{})
	assert.Error(t, err)
}

func TestScore(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	yPred := []float64{1.5, 2.5, 2.5, 3.5}

	v, err := Score("mse", yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, v, 1e-12)

	neg, err := Score("neg_mean_squared_error", yTrue, yPred)
	require.NoError(t, err)
	assert.InDelta(t, -0.25, neg, 1e-12)

	_, err = Score("bogus", yTrue, yPred)
	assert.Error(t, err)
}

func TestIsGreaterBetter(t *testing.T) {
	assert.True(t, IsGreaterBetter("r2"))
	assert.True(t, IsGreaterBetter("accuracy"))
	assert.True(t, IsGreaterBetter("neg_mean_squared_error"))
	assert.False(t, IsGreaterBetter("mse"))
	assert.False(t, IsGreaterBetter("rmse"))
}

func TestScoreDirectionConsistency(t *testing.T) {
	yTrue := []float64{1, 2, 3, 4}
	good := []float64{1.1, 2.1, 3.1, 4.1}
	bad := []float64{4, 3, 2, 1}

	for _, name := range []string{"neg_mean_squared_error", "r2"} {
		gv, err := Score(name, yTrue, good)
		require.NoError(t, err)
		bv, err := Score(name, yTrue, bad)
		require.NoError(t, err)
		assert.Greater(t, gv, bv, name)
		assert.True(t, IsGreaterBetter(name))
	}
}
