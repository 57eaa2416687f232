package automatminer

import (
	"log/slog"

	"github.com/ardunn/automatminer/clean"
	"github.com/ardunn/automatminer/core/model"
	"github.com/ardunn/automatminer/dataframe"
	"github.com/ardunn/automatminer/featurize"
	"github.com/ardunn/automatminer/learn"
	"github.com/ardunn/automatminer/pkg/errors"
	"github.com/ardunn/automatminer/reduce"
)

// MatPipe drives the four pipeline stages through fit, predict and
// benchmark in a fixed order. Fitting runs featurizer, cleaner, reducer
// and learner fit_transforms in sequence; predicting replays the fitted
// transforms and appends the learner's prediction column.
type MatPipe struct {
	model.BaseTransformer

	Config PipeConfig
	Target string

	Featurizer *featurize.AutoFeaturizer
	Cleaner    *clean.DataCleaner
	Reducer    *reduce.FeatureReducer
	Learner    *learn.Adaptor
}

// NewMatPipe builds an unfit pipeline from a config. Stage option
// conflicts fail here rather than deep inside fitting.
func NewMatPipe(config PipeConfig) (*MatPipe, error) {
	featurizer, cleaner, reducer, learner, err := config.buildStages()
	if err != nil {
		return nil, err
	}
	return &MatPipe{
		Config:     config,
		Featurizer: featurizer,
		Cleaner:    cleaner,
		Reducer:    reducer,
		Learner:    learner,
	}, nil
}

// NewMatPipeFromPreset resolves a preset name and builds its pipeline.
func NewMatPipeFromPreset(name string) (*MatPipe, error) {
	config, err := ConfigFromPreset(name)
	if err != nil {
		return nil, err
	}
	return NewMatPipe(config)
}

// Fit runs the full stage chain on the training frame. Calling Fit on an
// already-fit pipeline rebuilds every stage from the config and refits
// from scratch; no state survives from the previous fit.
func (p *MatPipe) Fit(df *dataframe.DataFrame, target string) error {
	if df == nil || df.NRows() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "MatPipe.Fit")
	}
	if !df.Has(target) {
		return errors.NewPreconditionError("MatPipe", "target column '"+target+"' not found")
	}

	featurizer, cleaner, reducer, learner, err := p.Config.buildStages()
	if err != nil {
		return err
	}
	p.SetFitting()

	slog.Info("pipeline fit started", "rows", df.NRows(), "columns", df.NCols(), "target", target)

	slog.Info("featurization started")
	featurized, err := featurizer.FitTransform(df, target)
	if err != nil {
		p.Reset()
		return err
	}
	slog.Info("featurization finished", "columns", featurized.NCols())

	slog.Info("cleaning started")
	cleaned, err := cleaner.FitTransform(featurized, target)
	if err != nil {
		p.Reset()
		return err
	}
	slog.Info("cleaning finished", "rows", cleaned.NRows(), "columns", cleaned.NCols())

	slog.Info("reduction started")
	reduced, err := reducer.FitTransform(cleaned, target)
	if err != nil {
		p.Reset()
		return err
	}
	slog.Info("reduction finished", "columns", reduced.NCols())

	if err := learner.Fit(reduced, target); err != nil {
		p.Reset()
		return err
	}

	p.Featurizer = featurizer
	p.Cleaner = cleaner
	p.Reducer = reducer
	p.Learner = learner
	p.Target = target
	p.SetFitted()
	slog.Info("pipeline fit finished", "target", target)
	return nil
}

// Predict replays the fitted transform chain over the frame, appends the
// "<target> predicted" column, and reattaches any ignored columns
// unchanged. Ignored columns that an inner stage structurally requires are
// a precondition error.
func (p *MatPipe) Predict(df *dataframe.DataFrame, ignore ...string) (*dataframe.DataFrame, error) {
	if !p.IsFitted() {
		return nil, errors.NewPreconditionError("MatPipe", "Predict called before Fit")
	}
	if df == nil || df.NRows() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "MatPipe.Predict")
	}
	if collisions := p.ignoreCollisions(ignore); len(collisions) > 0 {
		return nil, errors.NewPreconditionError("MatPipe",
			"ignored columns are required by a fitted stage: "+joinNames(collisions))
	}

	work := df
	if len(ignore) > 0 {
		work = df.Drop(ignore...)
	}

	featurized, err := p.Featurizer.Transform(work, p.Target)
	if err != nil {
		return nil, err
	}
	cleaned, err := p.Cleaner.Transform(featurized, p.Target)
	if err != nil {
		return nil, err
	}
	reduced, err := p.Reducer.Transform(cleaned, p.Target)
	if err != nil {
		return nil, err
	}
	out, err := p.Learner.Predict(reduced)
	if err != nil {
		return nil, err
	}

	// Reattach ignored columns unchanged, in their input order.
	for _, name := range df.Columns() {
		if !contains(ignore, name) || out.Has(name) {
			continue
		}
		cells, _ := df.Col(name)
		copied := make([]interface{}, len(cells))
		copy(copied, cells)
		if err := out.AddColumn(name, copied); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Benchmark runs outer cross-validation: for each fold from the splitter,
// a fresh pipeline is built from the config, fit on the fold's training
// rows, and used to predict the held-out rows. It returns one annotated
// frame per fold, in the splitter's fold order. No scoring is computed;
// that is left to the caller.
func (p *MatPipe) Benchmark(df *dataframe.DataFrame, target string, splitter Splitter, ignore ...string) ([]*dataframe.DataFrame, error) {
	if !p.IsFitted() {
		return nil, errors.NewPreconditionError("MatPipe", "Benchmark called before Fit")
	}
	if df == nil || df.NRows() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "MatPipe.Benchmark")
	}

	folds, err := splitter.Split(df.NRows())
	if err != nil {
		return nil, err
	}

	results := make([]*dataframe.DataFrame, 0, len(folds))
	for k, fold := range folds {
		slog.Info("benchmark fold started",
			"fold", k, "train_rows", len(fold.Train), "test_rows", len(fold.Test))

		fresh, err := NewMatPipe(p.Config)
		if err != nil {
			return nil, err
		}
		// Ignored columns stay out of training too, so no fold stage can
		// come to require them.
		train := df.SelectRows(fold.Train)
		if len(ignore) > 0 {
			train = train.Drop(ignore...)
		}
		if err := fresh.Fit(train, target); err != nil {
			return nil, errors.Wrapf(err, "benchmark fold %d fit", k)
		}
		out, err := fresh.Predict(df.SelectRows(fold.Test), ignore...)
		if err != nil {
			return nil, errors.Wrapf(err, "benchmark fold %d predict", k)
		}
		results = append(results, out)
		slog.Info("benchmark fold finished", "fold", k)
	}
	return results, nil
}

// Save persists the whole pipeline, fitted stages included, to a file.
func (p *MatPipe) Save(filename string) error {
	snapshot := pipeSnapshot{
		Config:     p.Config,
		Target:     p.Target,
		State:      p.State,
		Featurizer: p.Featurizer,
		Cleaner:    p.Cleaner,
		Reducer:    p.Reducer,
		Learner:    p.Learner,
	}
	return model.SaveSnapshot(&snapshot, filename)
}

// LoadMatPipe restores a saved pipeline. The result predicts identically
// to the pipeline at the moment it was saved.
func LoadMatPipe(filename string) (*MatPipe, error) {
	var snapshot pipeSnapshot
	if err := model.LoadSnapshot(&snapshot, filename); err != nil {
		return nil, err
	}
	pipe := &MatPipe{
		Config:     snapshot.Config,
		Target:     snapshot.Target,
		Featurizer: snapshot.Featurizer,
		Cleaner:    snapshot.Cleaner,
		Reducer:    snapshot.Reducer,
		Learner:    snapshot.Learner,
	}
	pipe.State = snapshot.State
	return pipe, nil
}

// pipeSnapshot is the serialized form of a MatPipe. Stage structs carry
// only exported learned parameters, keeping the on-disk format stable.
type pipeSnapshot struct {
	Config     PipeConfig
	Target     string
	State      model.FitState
	Featurizer *featurize.AutoFeaturizer
	Cleaner    *clean.DataCleaner
	Reducer    *reduce.FeatureReducer
	Learner    *learn.Adaptor
}

// ignoreCollisions returns the ignored columns that some fitted stage
// structurally requires.
func (p *MatPipe) ignoreCollisions(ignore []string) []string {
	if len(ignore) == 0 {
		return nil
	}
	required := map[string]bool{}
	for _, name := range p.Featurizer.RequiredColumns() {
		required[name] = true
	}
	for _, name := range p.Cleaner.RequiredColumns() {
		required[name] = true
	}
	for _, name := range p.Reducer.RequiredColumns() {
		required[name] = true
	}
	for _, name := range p.Learner.FeatureColumns {
		required[name] = true
	}

	var collisions []string
	for _, name := range ignore {
		if required[name] {
			collisions = append(collisions, name)
		}
	}
	return collisions
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func joinNames(names []string) string {
	out := ""
	for i, name := range names {
		if i > 0 {
			out += ", "
		}
		out += name
	}
	return out
}
