package automatminer

import (
	"time"

	"github.com/ardunn/automatminer/clean"
	"github.com/ardunn/automatminer/featurize"
	"github.com/ardunn/automatminer/learn"
	"github.com/ardunn/automatminer/pkg/errors"
	"github.com/ardunn/automatminer/reduce"
)

// Pipeline presets. Resolution is a pure table lookup; the same name always
// yields the same four stage configurations.
const (
	PresetDebug   = "debug"   // minimal routines, fast search; smoke tests
	PresetExpress = "express" // broad routines, bounded search; the default
	PresetHeavy   = "heavy"   // exhaustive routines, long search
)

// PipeConfig is the complete, immutable configuration of a pipeline: one
// options block per stage. Benchmark builds a fresh pipeline from it for
// every fold, so a config fully determines pipeline behavior up to the
// stages' own stochastic algorithms.
type PipeConfig struct {
	Preset     string
	Featurizer featurize.Options
	Cleaner    clean.Options
	Reducer    reduce.Options
	Learner    learn.Options
}

// ConfigFromPreset resolves a preset name to its stage configurations.
// Unknown names are a configuration error.
func ConfigFromPreset(name string) (PipeConfig, error) {
	switch name {
	case PresetDebug:
		return PipeConfig{
			Preset:     name,
			Featurizer: featurize.Options{Preset: "debug"},
			Cleaner:    clean.Options{},
			Reducer:    reduce.Options{Strategies: []string{reduce.StrategyCorr}},
			Learner:    learn.Options{Budget: time.Minute, CVFolds: 2},
		}, nil
	case PresetExpress:
		return PipeConfig{
			Preset:     name,
			Featurizer: featurize.Options{Preset: "express"},
			Cleaner:    clean.Options{},
			Reducer:    reduce.Options{Strategies: []string{reduce.StrategyCorr}},
			Learner:    learn.Options{Budget: 10 * time.Minute, CVFolds: 3},
		}, nil
	case PresetHeavy:
		return PipeConfig{
			Preset:     name,
			Featurizer: featurize.Options{Preset: "heavy"},
			Cleaner:    clean.Options{NAMethod: clean.NAMean},
			Reducer: reduce.Options{
				Strategies: []string{reduce.StrategyCorr, reduce.StrategyTree},
			},
			Learner: learn.Options{Budget: time.Hour, CVFolds: 5},
		}, nil
	default:
		return PipeConfig{}, errors.NewConfigError("MatPipe", "unknown preset '"+name+"'")
	}
}

// buildStages constructs fresh unfit stages from the config. Any stage
// option conflict surfaces here as a configuration error.
func (c PipeConfig) buildStages() (*featurize.AutoFeaturizer, *clean.DataCleaner, *reduce.FeatureReducer, *learn.Adaptor, error) {
	featurizer, err := featurize.NewAutoFeaturizer(c.Featurizer)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	cleaner, err := clean.NewDataCleaner(c.Cleaner)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	reducer, err := reduce.NewFeatureReducer(c.Reducer)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	learner, err := learn.NewAdaptor(c.Learner)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return featurizer, cleaner, reducer, learner, nil
}
