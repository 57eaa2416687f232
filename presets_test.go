package automatminer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardunn/automatminer/pkg/errors"
	"github.com/ardunn/automatminer/reduce"
)

func TestConfigFromPreset(t *testing.T) {
	for _, name := range []string{PresetDebug, PresetExpress, PresetHeavy} {
		cfg, err := ConfigFromPreset(name)
		require.NoError(t, err)
		assert.Equal(t, name, cfg.Preset)
	}

	heavy, err := ConfigFromPreset(PresetHeavy)
	require.NoError(t, err)
	assert.Equal(t, []string{reduce.StrategyCorr, reduce.StrategyTree}, heavy.Reducer.Strategies)

	_, err = ConfigFromPreset("bogus")
	var ce *errors.ConfigError
	require.True(t, errors.As(err, &ce))
}

func TestPresetResolutionIsDeterministic(t *testing.T) {
	for _, name := range []string{PresetDebug, PresetExpress, PresetHeavy} {
		a, err := NewMatPipeFromPreset(name)
		require.NoError(t, err)
		b, err := NewMatPipeFromPreset(name)
		require.NoError(t, err)

		assert.Equal(t, a.Summarize(), b.Summarize(), name)
		assert.Equal(t, a.Inspect(), b.Inspect(), name)
	}
}

func TestNewMatPipeRejectsBadStageOptions(t *testing.T) {
	cfg, err := ConfigFromPreset(PresetDebug)
	require.NoError(t, err)
	cfg.Reducer.Strategies = []string{"bogus"}

	_, err = NewMatPipe(cfg)
	var ce *errors.ConfigError
	require.True(t, errors.As(err, &ce))
}
