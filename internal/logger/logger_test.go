package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/techstore/internal/config"
)

func TestInit_ReplacesGlobal(t *testing.T) {
	l, err := Init(config.LoggerConfig{Mode: "production"})
	require.NoError(t, err)
	assert.Same(t, l, zap.L())
}

func TestInit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := Init(config.LoggerConfig{Mode: "development", FileEnable: true, Filename: path})
	require.NoError(t, err)

	l.Info("sale created", zap.Int64("sale_id", 42))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sale_id":42`)
}
