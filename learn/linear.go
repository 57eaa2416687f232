package learn

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ardunn/automatminer/pkg/errors"
)

// LinearRegression is ordinary least squares with an intercept, solved via
// regularized normal equations (a tiny jitter keeps near-collinear feature
// matrices solvable).
type LinearRegression struct {
	Weights   []float64
	Intercept float64
	Trained   bool
}

// NewLinearRegression returns an unfit OLS estimator.
func NewLinearRegression() *LinearRegression {
	return &LinearRegression{}
}

func (lr *LinearRegression) Name() string { return "LinearRegression" }

func (lr *LinearRegression) Clone() Estimator { return NewLinearRegression() }

func (lr *LinearRegression) Params() map[string]interface{} {
	return map[string]interface{}{}
}

func (lr *LinearRegression) Fit(X *mat.Dense, y []float64) error {
	w, b, err := solveLeastSquares(X, y, 1e-10)
	if err != nil {
		return errors.Wrap(err, "LinearRegression.Fit")
	}
	lr.Weights = w
	lr.Intercept = b
	lr.Trained = true
	return nil
}

func (lr *LinearRegression) Predict(X *mat.Dense) ([]float64, error) {
	if !lr.Trained {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}
	return linearPredict(X, lr.Weights, lr.Intercept)
}

// Ridge is L2-regularized least squares with an intercept.
type Ridge struct {
	Lambda    float64
	Weights   []float64
	Intercept float64
	Trained   bool
}

// NewRidge returns an unfit ridge estimator. A non-positive lambda falls
// back to 1.0.
func NewRidge(lambda float64) *Ridge {
	if lambda <= 0 {
		lambda = 1.0
	}
	return &Ridge{Lambda: lambda}
}

func (r *Ridge) Name() string { return "Ridge" }

func (r *Ridge) Clone() Estimator { return NewRidge(r.Lambda) }

func (r *Ridge) Params() map[string]interface{} {
	return map[string]interface{}{"lambda": r.Lambda}
}

func (r *Ridge) Fit(X *mat.Dense, y []float64) error {
	w, b, err := solveLeastSquares(X, y, r.Lambda)
	if err != nil {
		return errors.Wrap(err, "Ridge.Fit")
	}
	r.Weights = w
	r.Intercept = b
	r.Trained = true
	return nil
}

func (r *Ridge) Predict(X *mat.Dense) ([]float64, error) {
	if !r.Trained {
		return nil, errors.NewNotFittedError("Ridge", "Predict")
	}
	return linearPredict(X, r.Weights, r.Intercept)
}

// solveLeastSquares solves (Xa^T Xa + lambda*I) w = Xa^T y where Xa is X
// augmented with an intercept column. The intercept is not penalized.
func solveLeastSquares(X *mat.Dense, y []float64, lambda float64) ([]float64, float64, error) {
	n, p := X.Dims()
	if n == 0 || p == 0 {
		return nil, 0, errors.Wrap(errors.ErrEmptyData, "solveLeastSquares")
	}
	if n != len(y) {
		return nil, 0, errors.Newf("automatminer: solveLeastSquares: %d rows vs %d targets", n, len(y))
	}

	xa := mat.NewDense(n, p+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			xa.Set(i, j, X.At(i, j))
		}
		xa.Set(i, p, 1.0)
	}

	var xtx mat.Dense
	xtx.Mul(xa.T(), xa)
	for j := 0; j < p; j++ {
		xtx.Set(j, j, xtx.At(j, j)+lambda)
	}
	// Tiny jitter on the intercept keeps the system positive definite.
	xtx.Set(p, p, xtx.At(p, p)+1e-12)

	yv := mat.NewVecDense(n, y)
	var xty mat.VecDense
	xty.MulVec(xa.T(), yv)

	var w mat.VecDense
	if err := w.SolveVec(&xtx, &xty); err != nil {
		return nil, 0, errors.Wrap(err, "normal equations are singular")
	}

	weights := make([]float64, p)
	for j := 0; j < p; j++ {
		weights[j] = w.AtVec(j)
	}
	return weights, w.AtVec(p), nil
}

func linearPredict(X *mat.Dense, weights []float64, intercept float64) ([]float64, error) {
	n, p := X.Dims()
	if p != len(weights) {
		return nil, errors.NewShapeMismatchError("linear predict", nil, nil)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v := intercept
		for j := 0; j < p; j++ {
			v += X.At(i, j) * weights[j]
		}
		out[i] = v
	}
	return out, nil
}
