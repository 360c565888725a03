package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/tagsmith/internal/config"
)

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = ""
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "tagsmith.log")
	l, err := NewLogger(&cfg)
	require.NoError(t, err)

	l.Info("to file")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"level":"info"`)
	assert.Contains(t, string(b), "to file")
}

func TestNew_DebugGatedByVerbose(t *testing.T) {
	var quiet bytes.Buffer
	New(&quiet, false).Debug("hidden %d", 1)
	assert.Empty(t, quiet.String())

	var loud bytes.Buffer
	New(&loud, true).Debug("shown %d", 2)
	assert.Contains(t, loud.String(), "shown 2")
}

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false)
	l.Warn("careful")
	l.Error("broken")
	l.Success("done")

	out := buf.String()
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "ERR")
	assert.Contains(t, out, "ok=true")
}
