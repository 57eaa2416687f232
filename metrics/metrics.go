// Package metrics provides the evaluation metrics used by the learner's
// internal model search and by benchmark callers scoring fold results.
package metrics

import (
	"math"
	"strings"

	"github.com/ardunn/automatminer/pkg/errors"
)

// MSE computes the mean squared error.
func MSE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MSE", yTrue, yPred); err != nil {
		return 0, err
	}
	var sum float64
	for i := range yTrue {
		diff := yTrue[i] - yPred[i]
		sum += diff * diff
	}
	return sum / float64(len(yTrue)), nil
}

// RMSE computes the root mean squared error.
func RMSE(yTrue, yPred []float64) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error.
func MAE(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("MAE", yTrue, yPred); err != nil {
		return 0, err
	}
	var sum float64
	for i := range yTrue {
		sum += math.Abs(yTrue[i] - yPred[i])
	}
	return sum / float64(len(yTrue)), nil
}

// R2 computes the coefficient of determination.
func R2(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("R2", yTrue, yPred); err != nil {
		return 0, err
	}
	var mean float64
	for _, v := range yTrue {
		mean += v
	}
	mean /= float64(len(yTrue))

	var tss, rss float64
	for i := range yTrue {
		tss += (yTrue[i] - mean) * (yTrue[i] - mean)
		rss += (yTrue[i] - yPred[i]) * (yTrue[i] - yPred[i])
	}
	if tss == 0 {
		return 0, errors.Newf("R2: total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// Accuracy computes the fraction of exact matches between encoded class
// labels.
func Accuracy(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("Accuracy", yTrue, yPred); err != nil {
		return 0, err
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// F1Macro computes the unweighted mean of per-class F1 scores over encoded
// class labels. Classes without predictions or support contribute zero.
func F1Macro(yTrue, yPred []float64) (float64, error) {
	if err := checkPair("F1Macro", yTrue, yPred); err != nil {
		return 0, err
	}
	classes := make(map[float64]bool)
	for _, v := range yTrue {
		classes[v] = true
	}
	for _, v := range yPred {
		classes[v] = true
	}

	var total float64
	for c := range classes {
		var tp, fp, fn float64
		for i := range yTrue {
			switch {
			case yPred[i] == c && yTrue[i] == c:
				tp++
			case yPred[i] == c && yTrue[i] != c:
				fp++
			case yPred[i] != c && yTrue[i] == c:
				fn++
			}
		}
		if tp == 0 {
			continue
		}
		precision := tp / (tp + fp)
		recall := tp / (tp + fn)
		total += 2 * precision * recall / (precision + recall)
	}
	return total / float64(len(classes)), nil
}

// Score evaluates the named metric. "neg_" prefixed names return the
// negated value of the underlying metric, so every score is
// maximize-is-better under IsGreaterBetter.
func Score(name string, yTrue, yPred []float64) (float64, error) {
	base := strings.TrimPrefix(name, "neg_")
	var v float64
	var err error
	switch base {
	case "mean_squared_error", "mse":
		v, err = MSE(yTrue, yPred)
	case "root_mean_squared_error", "rmse":
		v, err = RMSE(yTrue, yPred)
	case "mean_absolute_error", "mae":
		v, err = MAE(yTrue, yPred)
	case "r2":
		v, err = R2(yTrue, yPred)
	case "accuracy":
		v, err = Accuracy(yTrue, yPred)
	case "f1":
		v, err = F1Macro(yTrue, yPred)
	default:
		return 0, errors.NewValueError("Score", "unknown metric '"+name+"'")
	}
	if err != nil {
		return 0, err
	}
	if strings.HasPrefix(name, "neg_") {
		return -v, nil
	}
	return v, nil
}

// IsGreaterBetter reports the direction of a metric: true when a larger
// value means a better model.
func IsGreaterBetter(name string) bool {
	if strings.HasPrefix(name, "neg_") {
		return true
	}
	switch name {
	case "r2", "accuracy", "f1":
		return true
	default:
		return false
	}
}

func checkPair(op string, yTrue, yPred []float64) error {
	if len(yTrue) == 0 {
		return errors.NewValueError(op, "empty input")
	}
	if len(yTrue) != len(yPred) {
		return errors.Newf("automatminer: %s: length mismatch: %d vs %d", op, len(yTrue), len(yPred))
	}
	return nil
}
