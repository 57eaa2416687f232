// Package reduce prunes redundant and uninformative feature columns
// between cleaning and learning. Reduction decisions are made once at fit
// time and replayed verbatim on every later transform.
package reduce

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/ardunn/automatminer/core/model"
	"github.com/ardunn/automatminer/dataframe"
	"github.com/ardunn/automatminer/learn"
	"github.com/ardunn/automatminer/pkg/errors"
)

// Reduction strategies, applied in the order given.
const (
	StrategyCorr = "corr" // drop one of each highly correlated feature pair
	StrategyTree = "tree" // keep the features a random forest ranks important
)

// Options configures a FeatureReducer. Zero values select the documented
// defaults.
type Options struct {
	// Strategies run in order. Empty means corr only.
	Strategies []string

	// CorrThreshold is the absolute Pearson correlation above which a
	// feature pair counts as redundant. Zero means 0.95.
	CorrThreshold float64

	// TreeCoverage is the cumulative importance fraction the tree
	// strategy retains. Zero means 0.90.
	TreeCoverage float64

	// Seed fixes the tree strategy's forest for reproducible reductions.
	Seed int64
}

func (o Options) strategies() []string {
	if len(o.Strategies) == 0 {
		return []string{StrategyCorr}
	}
	return o.Strategies
}

func (o Options) corrThreshold() float64 {
	if o.CorrThreshold <= 0 {
		return 0.95
	}
	return o.CorrThreshold
}

func (o Options) treeCoverage() float64 {
	if o.TreeCoverage <= 0 {
		return 0.90
	}
	return o.TreeCoverage
}

// FeatureReducer applies its strategies once during fit and freezes the
// surviving feature set. Transform selects exactly those columns, never
// re-deriving the reduction from new data.
type FeatureReducer struct {
	model.BaseTransformer

	Opts Options

	// Fitted state.
	Problem          learn.ProblemType
	FitColumns       []string          // feature columns seen at fit, in order
	RetainedFeatures []string          // survivors, in original column order
	Removed          map[string]string // dropped feature -> strategy that dropped it
}

// NewFeatureReducer validates the strategy list.
func NewFeatureReducer(opts Options) (*FeatureReducer, error) {
	for _, s := range opts.strategies() {
		switch s {
		case StrategyCorr, StrategyTree:
		default:
			return nil, errors.NewConfigError("FeatureReducer", "unknown strategy '"+s+"'")
		}
	}
	return &FeatureReducer{Opts: opts}, nil
}

// Fit runs the configured strategies over the numeric feature columns and
// records the retained set.
func (fr *FeatureReducer) Fit(df *dataframe.DataFrame, target string) error {
	cells, ok := df.Col(target)
	if !ok {
		return errors.NewPreconditionError("FeatureReducer", "target column '"+target+"' not found")
	}
	fr.SetFitting()

	problem, y, _, err := learn.EncodeTarget(cells, target)
	if err != nil {
		fr.Reset()
		return err
	}

	fr.Problem = problem

	fr.FitColumns = nil
	for _, name := range df.Columns() {
		if name != target {
			fr.FitColumns = append(fr.FitColumns, name)
		}
	}
	if len(fr.FitColumns) == 0 {
		fr.Reset()
		return errors.NewPreconditionError("FeatureReducer", "no feature columns to reduce")
	}

	features := map[string][]float64{}
	for _, name := range fr.FitColumns {
		col, err := df.FloatColumn(name)
		if err != nil {
			fr.Reset()
			return err
		}
		features[name] = col
	}

	retained := append([]string(nil), fr.FitColumns...)
	fr.Removed = map[string]string{}

	for _, strategy := range fr.Opts.strategies() {
		before := len(retained)
		switch strategy {
		case StrategyCorr:
			retained = fr.reduceCorr(retained, features, y)
		case StrategyTree:
			retained, err = fr.reduceTree(retained, features, y)
			if err != nil {
				fr.Reset()
				return err
			}
		}
		slog.Info("reduction strategy applied",
			"strategy", strategy, "before", before, "after", len(retained))
	}

	if len(retained) == 0 {
		// Never reduce to an empty frame; keep the single feature most
		// correlated with the target.
		best, bestCorr := fr.FitColumns[0], -1.0
		for _, name := range fr.FitColumns {
			c := math.Abs(safeCorrelation(features[name], y))
			if c > bestCorr {
				best, bestCorr = name, c
			}
		}
		retained = []string{best}
		delete(fr.Removed, best)
		slog.Warn("reduction removed every feature, restoring one", "column", best)
	}

	fr.RetainedFeatures = retained
	fr.SetFitted()
	return nil
}

// reduceCorr drops one feature from each pair whose absolute Pearson
// correlation exceeds the threshold, keeping whichever correlates more
// strongly with the target. Equal target correlations drop the
// later column.
func (fr *FeatureReducer) reduceCorr(retained []string, features map[string][]float64, y []float64) []string {
	threshold := fr.Opts.corrThreshold()

	targetCorr := map[string]float64{}
	for _, name := range retained {
		targetCorr[name] = math.Abs(safeCorrelation(features[name], y))
	}

	dropped := map[string]bool{}
	for i := 0; i < len(retained); i++ {
		a := retained[i]
		if dropped[a] {
			continue
		}
		for j := i + 1; j < len(retained); j++ {
			b := retained[j]
			if dropped[b] {
				continue
			}
			if math.Abs(safeCorrelation(features[a], features[b])) <= threshold {
				continue
			}
			victim := b
			if targetCorr[b] > targetCorr[a] {
				victim = a
			}
			dropped[victim] = true
			fr.Removed[victim] = StrategyCorr
			if victim == a {
				break
			}
		}
	}

	out := retained[:0:0]
	for _, name := range retained {
		if !dropped[name] {
			out = append(out, name)
		}
	}
	return out
}

// reduceTree fits a random forest on the surviving features and keeps the
// smallest importance-ranked prefix covering the configured cumulative
// importance.
func (fr *FeatureReducer) reduceTree(retained []string, features map[string][]float64, y []float64) ([]string, error) {
	if len(retained) < 2 {
		return retained, nil
	}

	n := len(y)
	X := matrixFrom(features, retained, n)

	task := learn.TaskRegression
	if fr.Problem == learn.Classification {
		task = learn.TaskClassification
	}
	forest := learn.NewRandomForest(task, 30)
	forest.Seed = fr.Opts.Seed
	if err := forest.Fit(X, y); err != nil {
		return nil, errors.Wrap(err, "FeatureReducer tree strategy")
	}
	importances := forest.FeatureImportances()

	order := make([]int, len(retained))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return importances[order[a]] > importances[order[b]]
	})

	keep := map[string]bool{}
	coverage := 0.0
	for _, idx := range order {
		if coverage >= fr.Opts.treeCoverage() && len(keep) > 0 {
			break
		}
		keep[retained[idx]] = true
		coverage += importances[idx]
	}

	out := retained[:0:0]
	for _, name := range retained {
		if keep[name] {
			out = append(out, name)
		} else {
			fr.Removed[name] = StrategyTree
		}
	}
	return out, nil
}

// Transform selects the frozen retained features, preserving row order and
// reattaching the target column when present.
func (fr *FeatureReducer) Transform(df *dataframe.DataFrame, target string) (*dataframe.DataFrame, error) {
	if !fr.IsFitted() {
		return nil, errors.NewNotFittedError("FeatureReducer", "Transform")
	}

	var missing []string
	for _, name := range fr.RetainedFeatures {
		if !df.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewShapeMismatchError("FeatureReducer", missing, nil)
	}

	selected := append([]string(nil), fr.RetainedFeatures...)
	if df.Has(target) {
		selected = append(selected, target)
	}
	return df.Select(selected...)
}

// FitTransform fits on the frame and returns its reduction.
func (fr *FeatureReducer) FitTransform(df *dataframe.DataFrame, target string) (*dataframe.DataFrame, error) {
	if err := fr.Fit(df, target); err != nil {
		return nil, err
	}
	return fr.Transform(df, target)
}

// RequiredColumns lists the feature columns Transform needs.
func (fr *FeatureReducer) RequiredColumns() []string {
	return append([]string(nil), fr.RetainedFeatures...)
}

// Summarize returns a short human-readable description of the reducer.
func (fr *FeatureReducer) Summarize() map[string]interface{} {
	out := map[string]interface{}{
		"stage":      "FeatureReducer",
		"strategies": fr.Opts.strategies(),
		"fitted":     fr.IsFitted(),
	}
	if fr.IsFitted() {
		out["retained"] = len(fr.RetainedFeatures)
		out["removed"] = len(fr.Removed)
	}
	return out
}

// Inspect returns the complete concrete configuration and fitted state.
func (fr *FeatureReducer) Inspect() map[string]interface{} {
	out := map[string]interface{}{
		"stage":          "FeatureReducer",
		"strategies":     fr.Opts.strategies(),
		"corr_threshold": fr.Opts.corrThreshold(),
		"tree_coverage":  fr.Opts.treeCoverage(),
		"fitted":         fr.IsFitted(),
	}
	if fr.IsFitted() {
		out["retained_features"] = append([]string(nil), fr.RetainedFeatures...)
		removed := map[string]string{}
		for k, v := range fr.Removed {
			removed[k] = v
		}
		out["removed_features"] = removed
	}
	return out
}

// safeCorrelation is Pearson correlation that treats NaN results of
// zero-variance columns as zero.
func safeCorrelation(x, y []float64) float64 {
	c := stat.Correlation(x, y, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

func matrixFrom(features map[string][]float64, names []string, n int) *mat.Dense {
	X := mat.NewDense(n, len(names), nil)
	for j, name := range names {
		col := features[name]
		for i := 0; i < n; i++ {
			X.Set(i, j, col[i])
		}
	}
	return X
}

