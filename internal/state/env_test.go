package state

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studio/internal/config"
)

func TestContextWithEnv(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	require.NotNil(t, env)
	assert.False(t, env.start.IsZero())
	assert.GreaterOrEqual(t, env.Uptime().Nanoseconds(), int64(0))
}

func TestEnvFromContext_Missing(t *testing.T) {
	assert.Panics(t, func() { EnvFromContext(context.Background()) })
}

func TestOpenApp_Once(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Storage.DBPath = filepath.Join(root, "studio.db")
	cfg.Storage.DataDir = filepath.Join(root, "data")
	cfg.Export.OutputDir = filepath.Join(root, "exports")

	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.Cfg = cfg
	env.Log = zap.NewNop()

	first, err := env.OpenApp()
	require.NoError(t, err)
	second, err := env.OpenApp()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.NoError(t, first.Shutdown(context.Background()))
}

func TestRedirectStdLog_NoLogger(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	env.RedirectStdLog()
	env.RestoreStdLog()
	assert.Nil(t, env.restoreStdLog)
}
