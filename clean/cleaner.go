// Package clean implements the data-cleaning stage: dropping hole-ridden
// columns, imputing remaining missing values, and encoding non-numeric
// feature columns, with every decision frozen at fit time.
package clean

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ardunn/automatminer/core/model"
	"github.com/ardunn/automatminer/dataframe"
	"github.com/ardunn/automatminer/pkg/errors"
)

// Imputation strategies.
const (
	NAMean   = "mean"
	NAMedian = "median"
	NADrop   = "drop" // drop rows with missing values at fit; impute on new data
)

// Encoders for non-numeric columns.
const (
	EncodeOneHot = "one-hot"
	EncodeLabel  = "label"
)

// labelUnknown is the code emitted for missing or fit-time-unseen
// categories under label encoding.
const labelUnknown = -1

// Options configures a DataCleaner. Zero values select the documented
// defaults.
type Options struct {
	// MaxNAFraction drops any feature column whose missing-value fraction
	// exceeds it. Zero means the default of 0.05.
	MaxNAFraction float64

	// NAMethod is the missing-value policy: mean, median or drop.
	// Empty means mean.
	NAMethod string

	// Encoder is the non-numeric column encoding: one-hot or label.
	// Empty means one-hot.
	Encoder string

	// MaxCardinality drops categorical columns with more distinct values
	// than this (identifier-like columns). Zero means the default of 10.
	MaxCardinality int
}

func (o Options) maxNAFraction() float64 {
	if o.MaxNAFraction == 0 {
		return 0.05
	}
	return o.MaxNAFraction
}

func (o Options) naMethod() string {
	if o.NAMethod == "" {
		return NAMean
	}
	return o.NAMethod
}

func (o Options) encoder() string {
	if o.Encoder == "" {
		return EncodeOneHot
	}
	return o.Encoder
}

func (o Options) maxCardinality() int {
	if o.MaxCardinality == 0 {
		return 10
	}
	return o.MaxCardinality
}

// DataCleaner drops or imputes missing values and encodes non-numeric
// columns. At fit time it records exactly which columns were retained,
// the imputation value per column and the category table per encoded
// column; Transform applies those decisions unchanged to new data.
type DataCleaner struct {
	model.BaseTransformer

	Opts Options

	// Fitted state.
	FitColumns    []string            // every non-target column seen at fit
	Dropped       []string            // columns dropped (NA fraction, object cells, cardinality)
	NumericCols   []string            // retained numeric columns, in input order
	Imputation    map[string]float64  // imputation value per retained numeric column
	CategoryTable map[string][]string // encoded column -> fit-time categories, sorted
	OutputColumns []string            // final feature columns, in output order
}

// NewDataCleaner validates the options.
func NewDataCleaner(opts Options) (*DataCleaner, error) {
	switch opts.naMethod() {
	case NAMean, NAMedian, NADrop:
	default:
		return nil, errors.NewConfigError("DataCleaner", "unknown NA method '"+opts.NAMethod+"'")
	}
	switch opts.encoder() {
	case EncodeOneHot, EncodeLabel:
	default:
		return nil, errors.NewConfigError("DataCleaner", "unknown encoder '"+opts.Encoder+"'")
	}
	if opts.MaxNAFraction < 0 || opts.MaxNAFraction > 1 {
		return nil, errors.NewConfigError("DataCleaner", "MaxNAFraction must be in [0, 1]")
	}
	return &DataCleaner{Opts: opts}, nil
}

// Fit records the cleaning decisions from the training frame: dropped
// columns, imputation values, and category tables. The target column is
// never dropped, imputed or encoded.
func (dc *DataCleaner) Fit(df *dataframe.DataFrame, target string) error {
	if target != "" && !df.Has(target) {
		return errors.NewPreconditionError("DataCleaner", "target column '"+target+"' not found")
	}
	dc.SetFitting()
	dc.FitColumns = nil
	dc.Dropped = nil
	dc.NumericCols = nil
	dc.Imputation = make(map[string]float64)
	dc.CategoryTable = make(map[string][]string)
	dc.OutputColumns = nil

	for _, name := range df.Columns() {
		if name == target {
			continue
		}
		dc.FitColumns = append(dc.FitColumns, name)

		switch {
		case df.MissingFraction(name) > dc.Opts.maxNAFraction():
			dc.Dropped = append(dc.Dropped, name)
		case df.IsNumeric(name):
			col, err := df.FloatColumn(name)
			if err != nil {
				dc.Reset()
				return err
			}
			dc.NumericCols = append(dc.NumericCols, name)
			dc.Imputation[name] = imputeValue(col, dc.Opts.naMethod())
			dc.OutputColumns = append(dc.OutputColumns, name)
		case isCategorical(df, name):
			cats := categories(df, name)
			if len(cats) > dc.Opts.maxCardinality() {
				slog.Info("dropping high-cardinality categorical column",
					"column", name, "cardinality", len(cats))
				dc.Dropped = append(dc.Dropped, name)
				continue
			}
			dc.CategoryTable[name] = cats
			if dc.Opts.encoder() == EncodeOneHot {
				for _, cat := range cats {
					dc.OutputColumns = append(dc.OutputColumns, oneHotLabel(name, cat))
				}
			} else {
				dc.OutputColumns = append(dc.OutputColumns, name)
			}
		default:
			// Domain objects and other non-encodable cells carry no
			// numeric information at this point in the chain.
			dc.Dropped = append(dc.Dropped, name)
		}
	}

	if len(dc.OutputColumns) == 0 {
		dc.Reset()
		return errors.NewPreconditionError("DataCleaner", "no usable feature columns remain after cleaning")
	}

	slog.Info("data cleaner fitted",
		"columns_in", len(dc.FitColumns),
		"columns_dropped", len(dc.Dropped),
		"features_out", len(dc.OutputColumns))
	dc.SetFitted()
	return nil
}

// Transform applies the fitted cleaning decisions. Every retained fit-time
// column must be present; columns unseen at fit are dropped with a warning.
// Columns seen at fit but dropped by a cleaning decision are deliberately
// not required: new data may omit them entirely, which also keeps dropped
// metadata columns eligible for the pipeline's ignore set.
func (dc *DataCleaner) Transform(df *dataframe.DataFrame, target string) (*dataframe.DataFrame, error) {
	if !dc.IsFitted() {
		return nil, errors.NewNotFittedError("DataCleaner", "Transform")
	}

	var missing []string
	for _, name := range dc.RequiredColumns() {
		if !df.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewShapeMismatchError("DataCleaner", missing, nil)
	}

	known := make(map[string]bool, len(dc.FitColumns))
	for _, name := range dc.FitColumns {
		known[name] = true
	}
	for _, name := range df.Columns() {
		if name != target && !known[name] {
			slog.Warn("column unseen at fit time dropped by cleaner", "column", name)
		}
	}

	out := dataframe.New()
	for _, name := range dc.NumericCols {
		col, err := df.FloatColumn(name)
		if err != nil {
			return nil, err
		}
		cells := make([]interface{}, len(col))
		for i, v := range col {
			if math.IsNaN(v) {
				v = dc.Imputation[name]
			}
			cells[i] = v
		}
		if err := out.AddColumn(name, cells); err != nil {
			return nil, err
		}
	}

	encoded := make([]string, 0, len(dc.CategoryTable))
	for name := range dc.CategoryTable {
		encoded = append(encoded, name)
	}
	sort.Strings(encoded)
	for _, name := range encoded {
		if err := dc.encodeColumn(df, out, name); err != nil {
			return nil, err
		}
	}

	// Reorder to the fit-time output layout.
	out, err := out.Select(dc.OutputColumns...)
	if err != nil {
		return nil, err
	}

	if target != "" && df.Has(target) {
		cells, _ := df.Col(target)
		c := make([]interface{}, len(cells))
		copy(c, cells)
		if err := out.AddColumn(target, c); err != nil {
			return nil, err
		}
	}

	slog.Info("data cleaner transform finished",
		"rows", out.NRows(), "features", len(dc.OutputColumns))
	return out, nil
}

// FitTransform fits the cleaner and transforms the training frame. Under
// the drop policy, training rows with any missing value in a retained
// column are removed here; Transform on new data always imputes instead,
// preserving one output row per input row.
func (dc *DataCleaner) FitTransform(df *dataframe.DataFrame, target string) (*dataframe.DataFrame, error) {
	if err := dc.Fit(df, target); err != nil {
		return nil, err
	}
	working := df
	if dc.Opts.naMethod() == NADrop {
		keep := dc.completeRows(df)
		if len(keep) == 0 {
			return nil, errors.NewPreconditionError("DataCleaner", "every training row has missing values under the drop policy")
		}
		if len(keep) < df.NRows() {
			slog.Info("dropped training rows with missing values",
				"rows_dropped", df.NRows()-len(keep), "rows_kept", len(keep))
		}
		working = df.SelectRows(keep)
	}
	return dc.Transform(working, target)
}

// RequiredColumns returns the fit-time columns the cleaner needs at
// transform time (everything it retained, numeric or categorical).
func (dc *DataCleaner) RequiredColumns() []string {
	out := make([]string, 0, len(dc.NumericCols)+len(dc.CategoryTable))
	out = append(out, dc.NumericCols...)
	for name := range dc.CategoryTable {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// encodeColumn applies the fitted category table to one categorical
// column, appending the encoded columns to out.
func (dc *DataCleaner) encodeColumn(df *dataframe.DataFrame, out *dataframe.DataFrame, name string) error {
	cells, ok := df.Col(name)
	if !ok {
		return errors.NewShapeMismatchError("DataCleaner", []string{name}, nil)
	}
	cats := dc.CategoryTable[name]
	index := make(map[string]int, len(cats))
	for i, cat := range cats {
		index[cat] = i
	}

	unseen := 0
	if dc.Opts.encoder() == EncodeOneHot {
		cols := make([][]interface{}, len(cats))
		for j := range cols {
			cols[j] = make([]interface{}, len(cells))
			for i := range cells {
				cols[j][i] = 0.0
			}
		}
		for i, v := range cells {
			if dataframe.IsMissing(v) {
				continue
			}
			j, ok := index[categoryKey(v)]
			if !ok {
				unseen++
				continue
			}
			cols[j][i] = 1.0
		}
		for j, cat := range cats {
			if err := out.AddColumn(oneHotLabel(name, cat), cols[j]); err != nil {
				return err
			}
		}
	} else {
		col := make([]interface{}, len(cells))
		for i, v := range cells {
			if dataframe.IsMissing(v) {
				col[i] = float64(labelUnknown)
				continue
			}
			j, ok := index[categoryKey(v)]
			if !ok {
				unseen++
				col[i] = float64(labelUnknown)
				continue
			}
			col[i] = float64(j)
		}
		if err := out.AddColumn(name, col); err != nil {
			return err
		}
	}

	if unseen > 0 {
		slog.Warn("categories unseen at fit time encoded as unknown",
			"column", name, "rows", unseen)
	}
	return nil
}

// completeRows returns the indices of rows with no missing value in any
// retained column.
func (dc *DataCleaner) completeRows(df *dataframe.DataFrame) []int {
	var keep []int
	for i := 0; i < df.NRows(); i++ {
		complete := true
		for _, name := range dc.RequiredColumns() {
			cells, _ := df.Col(name)
			if dataframe.IsMissing(cells[i]) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	return keep
}

// Summarize returns a short human-readable description of the cleaner.
func (dc *DataCleaner) Summarize() map[string]interface{} {
	return map[string]interface{}{
		"stage":           "DataCleaner",
		"na_method":       dc.Opts.naMethod(),
		"encoder":         dc.Opts.encoder(),
		"max_na_fraction": dc.Opts.maxNAFraction(),
		"fitted":          dc.IsFitted(),
	}
}

// Inspect returns the complete concrete configuration and fitted state.
func (dc *DataCleaner) Inspect() map[string]interface{} {
	return map[string]interface{}{
		"stage":           "DataCleaner",
		"na_method":       dc.Opts.naMethod(),
		"encoder":         dc.Opts.encoder(),
		"max_na_fraction": dc.Opts.maxNAFraction(),
		"max_cardinality": dc.Opts.maxCardinality(),
		"fit_columns":     append([]string(nil), dc.FitColumns...),
		"dropped":         append([]string(nil), dc.Dropped...),
		"output_columns":  append([]string(nil), dc.OutputColumns...),
		"fitted":          dc.IsFitted(),
	}
}

// imputeValue computes the fit-time substitution value for a numeric
// column under the configured policy. Rows dropped at fit still need a
// recorded value so Transform can impute new data.
func imputeValue(col []float64, method string) float64 {
	clean := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0
	}
	if method == NAMedian {
		sort.Float64s(clean)
		return stat.Quantile(0.5, stat.Empirical, clean, nil)
	}
	return stat.Mean(clean, nil)
}

// isCategorical reports whether every non-missing cell is a string or bool.
func isCategorical(df *dataframe.DataFrame, name string) bool {
	cells, ok := df.Col(name)
	if !ok {
		return false
	}
	for _, v := range cells {
		if dataframe.IsMissing(v) {
			continue
		}
		switch v.(type) {
		case string, bool:
		default:
			return false
		}
	}
	return true
}

// categories returns the sorted distinct category keys of a column.
func categories(df *dataframe.DataFrame, name string) []string {
	cells, _ := df.Col(name)
	seen := make(map[string]bool)
	for _, v := range cells {
		if dataframe.IsMissing(v) {
			continue
		}
		seen[categoryKey(v)] = true
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

func categoryKey(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return fmt.Sprintf("%t", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func oneHotLabel(column, category string) string {
	return column + "=" + category
}
