package log

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	amerrors "github.com/ardunn/automatminer/pkg/errors"
)

func TestToLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, ToLogLevel(""))
	assert.Equal(t, slog.LevelInfo, ToLogLevel("info"))
	assert.Equal(t, slog.LevelDebug, ToLogLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ToLogLevel("warn"))
	assert.Equal(t, slog.LevelError, ToLogLevel("error"))
	assert.Panics(t, func() { ToLogLevel("loud") })
}

func TestSetupWritesToFile(t *testing.T) {
	defer SetupNull()

	logFile := filepath.Join(t.TempDir(), "run.log")
	closer, err := Setup("info", logFile)
	require.NoError(t, err)

	slog.Info("featurization finished", "columns", 12)
	require.NoError(t, closer.Close())

	contents, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "featurization finished")
	assert.Contains(t, string(contents), "columns=12")
}

func TestSetupZerologWarnings(t *testing.T) {
	defer SetupNull()

	var buf bytes.Buffer
	SetupZerologWarnings(zerolog.New(&buf))

	amerrors.Warn(amerrors.NewFeaturizeWarning("ElementProperty", "composition", 3, "unknown element"))

	out := buf.String()
	assert.Contains(t, out, `"routine":"ElementProperty"`)
	assert.Contains(t, out, `"row":3`)
	assert.Contains(t, out, "pipeline warning")
}

func TestSetupNullDiscardsWarnings(t *testing.T) {
	SetupNull()
	// Must not panic or write anywhere.
	amerrors.Warn(amerrors.NewFeaturizeWarning("DensityFeatures", "structure", 0, "missing lattice"))
}
