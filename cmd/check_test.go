package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gooze.dev/pkg/mutenv/internal/bootstrap"
)

func TestCheckCmd_ReportsAvailableIntegration(t *testing.T) {
	restore := swapPipeline(func(_ context.Context, args []string, dryRun bool) (bootstrap.Env, *bootstrap.Recorder, error) {
		assert.True(t, dryRun)
		assert.Equal(t, []string{"./cmd"}, args)
		return stubEnv(), bootstrap.NewRecorder(), nil
	})
	defer restore()

	out := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.AddCommand(newCheckCmd())
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"check", "./cmd"})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.Contains(t, out.String(), `Environment OK. Integration "gotest" is available.`)
}

func TestCheckCmd_SetupFailurePassesThrough(t *testing.T) {
	restore := swapPipeline(func(context.Context, []string, bool) (bootstrap.Env, *bootstrap.Recorder, error) {
		return bootstrap.Env{}, nil, errors.New("gotest integration unavailable: probe failed")
	})
	defer restore()

	cmd := newRootCmd()
	cmd.AddCommand(newCheckCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"check"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe failed")
}

func TestNewCheckCmd(t *testing.T) {
	cmd := newCheckCmd()

	assert.Equal(t, "check [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Equal(t, checkLongDescription, cmd.Long)
}
