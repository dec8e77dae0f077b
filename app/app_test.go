package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmllorens/cartero/config"
	"github.com/jmllorens/cartero/log"
)

func TestMain(m *testing.M) {
	log.Initialize()
	zone.NewGlobal()
	code := m.Run()
	log.Close()
	os.Exit(code)
}

// newTestHome builds a home over a throwaway HOME and a seeded start
// directory.
func newTestHome(t *testing.T, opts Options) *home {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MAIL", "")

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "inbox"), []byte("From mika\n"), 0o644))
	if opts.File == "" {
		opts.File = dir + "/"
	}

	cfg := config.DefaultConfig()
	cfg.Folder = dir

	h, err := newHome(context.Background(), cfg, opts)
	require.NoError(t, err)
	t.Cleanup(h.close)

	h.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return h
}

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{}
}

func TestHome_ViewShowsListingAndStatusBar(t *testing.T) {
	h := newTestHome(t, Options{})

	view := h.View()
	assert.Contains(t, view, "inbox")
	assert.Contains(t, view, "cartero")
}

func TestHome_HelpOpensAndAnyKeyCloses(t *testing.T) {
	h := newTestHome(t, Options{})

	h.handleKeyPress(keyMsg("?"))
	assert.Equal(t, stateHelp, h.state)
	assert.Contains(t, h.View(), "navigation:")

	h.handleKeyPress(keyMsg("x"))
	assert.Equal(t, stateBrowser, h.state)
}

func TestHome_MultiSelectHelpShownOnce(t *testing.T) {
	h := newTestHome(t, Options{Multiple: true})

	h.Init()
	assert.Equal(t, stateHelp, h.state)
	h.handleKeyPress(keyMsg("x"))

	// The seen bit is persisted; a second Init must not reopen it.
	h.Init()
	assert.Equal(t, stateBrowser, h.state)
}

func TestHome_VersionOnMessageLine(t *testing.T) {
	h := newTestHome(t, Options{})

	_, cmd := h.handleKeyPress(keyMsg("V"))
	assert.NotNil(t, cmd)
	assert.Contains(t, h.View(), Version)
}

func TestHome_QuitSavesLastDir(t *testing.T) {
	h := newTestHome(t, Options{})

	_, cmd := h.handleKeyPress(keyMsg("q"))
	assert.NotNil(t, cmd)
	assert.True(t, h.dialog.Done)
	assert.Nil(t, h.results())

	assert.Equal(t, h.sess.LastDir, config.LoadState().GetLastDir())
}

func TestHome_SelectionCommitsPath(t *testing.T) {
	h := newTestHome(t, Options{})

	// The cursor starts on the first real entry; Enter commits it.
	h.handleKeyPress(keyMsg("enter"))
	require.True(t, h.dialog.Done)

	results := h.results()
	require.Len(t, results, 1)
	assert.Equal(t, "inbox", filepath.Base(results[0]))
}
