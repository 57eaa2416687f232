package featurize

import (
	"log/slog"
	"math"
	"sort"

	"github.com/ardunn/automatminer/core/model"
	"github.com/ardunn/automatminer/dataframe"
	"github.com/ardunn/automatminer/pkg/errors"
)

// Options configures an AutoFeaturizer.
type Options struct {
	// Preset names the base routine set: "debug", "express" or "heavy".
	// Empty means "express".
	Preset string

	// Include, when non-empty, replaces the preset set with exactly the
	// named routines.
	Include []string

	// Exclude removes routines by name from the resolved set.
	Exclude []string

	// CachePath enables the on-disk feature cache when non-empty.
	CachePath string
}

// AutoFeaturizer inspects recognized domain-object columns, derives missing
// representations where a derivation path exists, and appends the feature
// columns produced by its configured routines. Exported fields make fitted
// instances gob-serializable.
type AutoFeaturizer struct {
	model.BaseTransformer

	Opts Options

	// Candidates is the resolved routine set, fixed at construction.
	Candidates []string

	// Fitted state.
	ActiveRoutines []string          // routines with a usable source at fit time
	SourceColumns  []string          // domain-object columns consumed (ignore-set contract)
	Derivations    map[string]string // derived column -> source column
}

// NewAutoFeaturizer resolves the routine set from the options. Unknown
// preset or routine names and include/exclude conflicts are configuration
// errors.
func NewAutoFeaturizer(opts Options) (*AutoFeaturizer, error) {
	preset := opts.Preset
	if preset == "" {
		preset = "express"
	}
	base, ok := presetRoutines[preset]
	if !ok {
		return nil, errors.NewConfigError("AutoFeaturizer", "unknown routine preset '"+preset+"'")
	}

	for _, name := range opts.Include {
		if _, ok := RoutineByName(name); !ok {
			return nil, errors.NewConfigError("AutoFeaturizer", "unknown routine '"+name+"' in include list")
		}
	}
	excluded := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		if _, ok := RoutineByName(name); !ok {
			return nil, errors.NewConfigError("AutoFeaturizer", "unknown routine '"+name+"' in exclude list")
		}
		excluded[name] = true
	}
	for _, name := range opts.Include {
		if excluded[name] {
			return nil, errors.NewConfigError("AutoFeaturizer", "routine '"+name+"' is both included and excluded")
		}
	}

	candidates := base
	if len(opts.Include) > 0 {
		candidates = opts.Include
	}
	resolved := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if !excluded[name] {
			resolved = append(resolved, name)
		}
	}
	if len(resolved) == 0 {
		return nil, errors.NewConfigError("AutoFeaturizer", "routine set is empty after applying filters")
	}

	return &AutoFeaturizer{Opts: opts, Candidates: resolved}, nil
}

// Fit decides which routines can run against the frame: a routine is
// active when its source column is present (with at least one non-missing
// cell) or derivable. Routines without a usable source are skipped with a
// warning; an entirely unusable frame is fatal.
func (af *AutoFeaturizer) Fit(df *dataframe.DataFrame, target string) error {
	af.SetFitting()
	af.ActiveRoutines = nil
	af.SourceColumns = nil
	af.Derivations = make(map[string]string)

	sources := make(map[string]bool)
	for _, name := range af.Candidates {
		routine, _ := RoutineByName(name)
		source := routine.Source()

		usable := hasUsableColumn(df, source)
		if usable {
			sources[source] = true
		} else if d, ok := derivations[source]; ok && hasUsableColumn(df, d.From) {
			// A derived source is not an input requirement; only the
			// column it derives from is.
			af.Derivations[source] = d.From
			sources[d.From] = true
			usable = true
		}
		if !usable {
			slog.Warn("featurizer routine skipped: source column absent with no derivation path",
				"routine", name, "source", source)
			continue
		}
		af.ActiveRoutines = append(af.ActiveRoutines, name)
	}

	if len(af.ActiveRoutines) == 0 {
		af.Reset()
		return errors.NewPreconditionError("AutoFeaturizer",
			"no recognized domain-object column (composition/structure/bandstructure/dos) is present or derivable")
	}

	for source := range sources {
		af.SourceColumns = append(af.SourceColumns, source)
	}
	sort.Strings(af.SourceColumns)

	slog.Info("auto featurizer fitted",
		"routines", len(af.ActiveRoutines), "sources", af.SourceColumns)
	af.SetFitted()
	return nil
}

// Transform appends the fitted routines' feature columns to a copy of the
// frame. Input columns are never removed; per-row routine failures produce
// NaN features and a warning.
func (af *AutoFeaturizer) Transform(df *dataframe.DataFrame, target string) (*dataframe.DataFrame, error) {
	if !af.IsFitted() {
		return nil, errors.NewNotFittedError("AutoFeaturizer", "Transform")
	}

	out := df.Copy()
	if err := af.deriveColumns(out); err != nil {
		return nil, err
	}

	cache := newFeatureCache(af.Opts.CachePath)
	if err := cache.load(); err != nil {
		return nil, err
	}

	for _, name := range af.ActiveRoutines {
		routine, _ := RoutineByName(name)
		if err := af.applyRoutine(out, routine, cache); err != nil {
			return nil, err
		}
	}

	if err := cache.save(); err != nil {
		return nil, err
	}

	slog.Info("auto featurizer transform finished",
		"rows", out.NRows(), "columns", out.NCols())
	return out, nil
}

// FitTransform fits the featurizer and transforms the same frame.
func (af *AutoFeaturizer) FitTransform(df *dataframe.DataFrame, target string) (*dataframe.DataFrame, error) {
	if err := af.Fit(df, target); err != nil {
		return nil, err
	}
	return af.Transform(df, target)
}

// RequiredColumns returns the domain-object columns the fitted featurizer
// consumes. The pipe uses it to reject ignore sets covering a required
// column.
func (af *AutoFeaturizer) RequiredColumns() []string {
	out := make([]string, len(af.SourceColumns))
	copy(out, af.SourceColumns)
	return out
}

// deriveColumns materializes derived representations recorded at fit time
// (e.g. composition from structure) when absent from the frame.
func (af *AutoFeaturizer) deriveColumns(df *dataframe.DataFrame) error {
	derived := make([]string, 0, len(af.Derivations))
	for col := range af.Derivations {
		derived = append(derived, col)
	}
	sort.Strings(derived)

	for _, col := range derived {
		if hasUsableColumn(df, col) {
			continue
		}
		from := af.Derivations[col]
		cells, ok := df.Col(from)
		if !ok {
			return errors.NewShapeMismatchError("AutoFeaturizer", []string{from}, nil)
		}
		d := derivations[col]
		out := make([]interface{}, len(cells))
		for i, v := range cells {
			if dataframe.IsMissing(v) {
				out[i] = nil
				continue
			}
			obj, err := d.Derive(v)
			if err != nil {
				errors.Warn(errors.NewFeaturizeWarning("derive:"+col, from, i, err.Error()))
				out[i] = nil
				continue
			}
			out[i] = obj
		}
		if df.Has(col) {
			// Entirely-missing column exists; replace its cells in the copy.
			df.Cols[col] = out
			continue
		}
		if err := df.AddColumn(col, out); err != nil {
			return err
		}
		slog.Info("derived domain-object column", "column", col, "from", from)
	}
	return nil
}

// applyRoutine runs one routine over every row of its source column and
// appends the resulting feature columns in place.
func (af *AutoFeaturizer) applyRoutine(df *dataframe.DataFrame, routine Routine, cache *featureCache) error {
	source := routine.Source()
	cells, ok := df.Col(source)
	if !ok {
		return errors.NewShapeMismatchError("AutoFeaturizer", []string{source}, nil)
	}

	labels := routine.Labels()
	features := make([][]float64, len(labels))
	for j := range features {
		features[j] = make([]float64, len(cells))
	}

	failures := 0
	for i, obj := range cells {
		values := af.featurizeCell(routine, source, i, obj, cache)
		if values == nil {
			failures++
			for j := range labels {
				features[j][i] = math.NaN()
			}
			continue
		}
		for j := range labels {
			features[j][i] = values[j]
		}
	}

	for j, label := range labels {
		if df.Has(label) {
			slog.Warn("feature column already present, skipping", "routine", routine.Name(), "column", label)
			continue
		}
		col := make([]interface{}, len(features[j]))
		for i, v := range features[j] {
			col[i] = v
		}
		if err := df.AddColumn(label, col); err != nil {
			return err
		}
	}

	if failures > 0 {
		slog.Warn("routine failed on some rows; features set to NaN",
			"routine", routine.Name(), "rows_failed", failures, "rows", len(cells))
	}
	return nil
}

// featurizeCell computes (or fetches from cache) one row's features.
// Returns nil when the routine's precondition is unmet for the row.
func (af *AutoFeaturizer) featurizeCell(routine Routine, source string, row int, obj interface{}, cache *featureCache) []float64 {
	if dataframe.IsMissing(obj) {
		errors.Warn(errors.NewFeaturizeWarning(routine.Name(), source, row, "missing domain object"))
		return nil
	}

	key, keyed := "", false
	if af.Opts.CachePath != "" {
		key, keyed = cacheKey(routine.Name(), obj)
		if keyed {
			if cached, hit := cache.get(key); hit {
				return cached
			}
		}
	}

	values, err := routine.Featurize(obj)
	if err != nil {
		errors.Warn(errors.NewFeaturizeWarning(routine.Name(), source, row, err.Error()))
		return nil
	}
	if keyed {
		cache.put(key, values)
	}
	return values
}

// Summarize returns a short human-readable description of the featurizer.
func (af *AutoFeaturizer) Summarize() map[string]interface{} {
	routines := af.Candidates
	if af.IsFitted() {
		routines = af.ActiveRoutines
	}
	return map[string]interface{}{
		"stage":    "AutoFeaturizer",
		"preset":   presetOrDefault(af.Opts.Preset),
		"routines": append([]string(nil), routines...),
		"fitted":   af.IsFitted(),
	}
}

// Inspect returns the complete concrete configuration and fitted state.
func (af *AutoFeaturizer) Inspect() map[string]interface{} {
	return map[string]interface{}{
		"stage":           "AutoFeaturizer",
		"preset":          presetOrDefault(af.Opts.Preset),
		"include":         append([]string(nil), af.Opts.Include...),
		"exclude":         append([]string(nil), af.Opts.Exclude...),
		"cache_path":      af.Opts.CachePath,
		"candidates":      append([]string(nil), af.Candidates...),
		"active_routines": append([]string(nil), af.ActiveRoutines...),
		"source_columns":  append([]string(nil), af.SourceColumns...),
		"fitted":          af.IsFitted(),
	}
}

func presetOrDefault(p string) string {
	if p == "" {
		return "express"
	}
	return p
}
