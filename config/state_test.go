package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadState_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	state := LoadState()
	assert.Equal(t, uint32(0), state.GetHelpScreensSeen())
	assert.Equal(t, "", state.GetLastDir())
}

func TestState_RoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	state := DefaultState()
	require.NoError(t, state.SetHelpScreensSeen(0b101))
	require.NoError(t, state.SetLastDir("/home/mika/Mail"))

	loaded := LoadState()
	assert.Equal(t, uint32(0b101), loaded.GetHelpScreensSeen())
	assert.Equal(t, "/home/mika/Mail", loaded.GetLastDir())
}

func TestLoadState_CorruptFileFallsBack(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "cartero")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, StateFileName), []byte("{not json"), 0o644))

	state := LoadState()
	assert.Equal(t, uint32(0), state.GetHelpScreensSeen())
	assert.Equal(t, "", state.GetLastDir())
}
