package learn

import (
	"encoding/gob"

	"gonum.org/v1/gonum/mat"
)

func init() {
	// Concrete estimators travel inside gob-encoded pipeline snapshots.
	gob.Register(&LinearRegression{})
	gob.Register(&Ridge{})
	gob.Register(&KNNRegressor{})
	gob.Register(&KNNClassifier{})
	gob.Register(&DecisionTree{})
	gob.Register(&RandomForest{})
}

// Estimator is the numeric model contract shared by the search and
// single-estimator learners: fit on a feature matrix plus encoded target
// vector, then predict one value per row in row order.
type Estimator interface {
	// Name identifies the estimator in summaries and search logs.
	Name() string

	// Fit trains the estimator.
	Fit(X *mat.Dense, y []float64) error

	// Predict returns one prediction per row of X, in row order.
	Predict(X *mat.Dense) ([]float64, error)

	// Clone returns an unfit copy with the same hyperparameters.
	Clone() Estimator

	// Params returns the estimator's hyperparameters.
	Params() map[string]interface{}
}

// Importancer is implemented by estimators exposing per-feature importance
// scores after fitting. The tree-importance reducer depends on it.
type Importancer interface {
	FeatureImportances() []float64
}
