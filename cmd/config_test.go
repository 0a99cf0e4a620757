package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "mutenv", configBaseName)
	assert.Equal(t, "mutenv.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "match", matchFlagName)
	assert.Equal(t, "ignore", ignoreFlagName)
	assert.Equal(t, "start", startFlagName)
	assert.Equal(t, "require", requireFlagName)
	assert.Equal(t, "load-path", loadPathFlagName)
	assert.Equal(t, "match.subjects", matchConfigKey)
	assert.Equal(t, "match.ignore", ignoreConfigKey)
	assert.Equal(t, "match.start", startConfigKey)
	assert.Equal(t, "world.require", requireConfigKey)
	assert.Equal(t, "world.load_path", loadPathConfigKey)
	assert.Equal(t, "output.handoff", handoffConfigKey)
	assert.Equal(t, ".mutenv/mutations.gob", defaultHandoffPath)
	assert.Equal(t, "MUTENV", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestIgnorableConfigError(t *testing.T) {
	assert.True(t, ignorableConfigError(viper.ConfigFileNotFoundError{}))
	assert.True(t, ignorableConfigError(&fs.PathError{Op: "open", Path: configFileName, Err: fs.ErrNotExist}))

	assert.False(t, ignorableConfigError(errors.New("yaml: line 3: mapping values are not allowed")))
	assert.False(t, ignorableConfigError(&fs.PathError{Op: "open", Path: configFileName, Err: fs.ErrPermission}))
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty falls back", "", slog.LevelWarn},
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case", "DEBUG", slog.LevelDebug},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage falls back", "loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}
