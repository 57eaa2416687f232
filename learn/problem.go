// Package learn implements the learner adaptor: problem-type detection,
// label encoding, a small family of estimators, and two interchangeable
// fitting strategies, a budgeted model search and a single user-supplied
// estimator.
package learn

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/ardunn/automatminer/dataframe"
	"github.com/ardunn/automatminer/pkg/errors"
)

// ProblemType tags the supervised-learning task inferred from the target
// column. It is fixed at fit time for the life of the pipeline.
type ProblemType string

const (
	Regression     ProblemType = "regression"
	Classification ProblemType = "classification"
)

// DetectProblemType infers the task from the target column's values.
// Numeric cells (including numeric strings) mean regression; string or
// bool cells mean classification; a mix of numeric and non-numeric cells
// is ambiguous and fails.
func DetectProblemType(cells []interface{}, column string) (ProblemType, error) {
	numeric, categorical := 0, 0
	for _, v := range cells {
		if dataframe.IsMissing(v) {
			continue
		}
		if _, ok := dataframe.AsFloat(v); ok {
			numeric++
			continue
		}
		switch x := v.(type) {
		case string:
			if _, err := strconv.ParseFloat(x, 64); err == nil {
				numeric++
			} else {
				categorical++
			}
		case bool:
			categorical++
		default:
			return "", errors.NewProblemTypeError(column,
				fmt.Sprintf("unsupported target value type %T", v))
		}
	}
	switch {
	case numeric == 0 && categorical == 0:
		return "", errors.NewProblemTypeError(column, "target column has no non-missing values")
	case numeric > 0 && categorical > 0:
		return "", errors.NewProblemTypeError(column, "target mixes numeric and categorical values")
	case categorical > 0:
		return Classification, nil
	default:
		return Regression, nil
	}
}

// EncodeTarget converts the target column to a float vector. Regression
// targets are coerced (numeric strings parsed); classification targets are
// encoded as indices into the returned sorted class table. Missing target
// values fail.
func EncodeTarget(cells []interface{}, column string) (ProblemType, []float64, []string, error) {
	problem, err := DetectProblemType(cells, column)
	if err != nil {
		return "", nil, nil, err
	}

	y := make([]float64, len(cells))
	if problem == Regression {
		for i, v := range cells {
			if dataframe.IsMissing(v) {
				return "", nil, nil, errors.NewPreconditionError("Learner",
					fmt.Sprintf("target column '%s' has a missing value at row %d", column, i))
			}
			if f, ok := dataframe.AsFloat(v); ok {
				y[i] = f
				continue
			}
			f, perr := strconv.ParseFloat(v.(string), 64)
			if perr != nil {
				return "", nil, nil, errors.NewProblemTypeError(column, "unparseable numeric string '"+v.(string)+"'")
			}
			y[i] = f
		}
		return problem, y, nil, nil
	}

	seen := make(map[string]bool)
	for i, v := range cells {
		if dataframe.IsMissing(v) {
			return "", nil, nil, errors.NewPreconditionError("Learner",
				fmt.Sprintf("target column '%s' has a missing value at row %d", column, i))
		}
		seen[classKey(v)] = true
	}
	classes := make([]string, 0, len(seen))
	for c := range seen {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	for i, v := range cells {
		y[i] = float64(index[classKey(v)])
	}
	return problem, y, classes, nil
}

// DecodeClass maps an encoded prediction back to its class label, rounding
// to the nearest valid index.
func DecodeClass(code float64, classes []string) string {
	i := int(code + 0.5)
	if i < 0 {
		i = 0
	}
	if i >= len(classes) {
		i = len(classes) - 1
	}
	return classes[i]
}

func classKey(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return fmt.Sprintf("%t", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
