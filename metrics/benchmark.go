package metrics

import (
	"github.com/ardunn/automatminer/dataframe"
	"github.com/ardunn/automatminer/pkg/errors"
)

// BenchmarkScores computes the named metric over each benchmark fold frame,
// pairing the target column with its "<target> predicted" column. Targets
// must be numeric; classification targets should be scored on their encoded
// form.
func BenchmarkScores(folds []*dataframe.DataFrame, target, metric string) ([]float64, error) {
	if len(folds) == 0 {
		return nil, errors.NewValueError("BenchmarkScores", "no fold results")
	}
	predicted := target + " predicted"

	scores := make([]float64, len(folds))
	for k, fold := range folds {
		yTrue, err := fold.FloatColumn(target)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", k)
		}
		yPred, err := fold.FloatColumn(predicted)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", k)
		}
		score, err := Score(metric, yTrue, yPred)
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", k)
		}
		scores[k] = score
	}
	return scores, nil
}
