package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmllorens/cartero/log"
)

// TestMain runs before all tests to set up the test environment
func TestMain(m *testing.M) {
	log.Initialize()
	code := m.Run()
	log.Close()
	os.Exit(code)
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("MAIL", "/var/mail/mika")

	cfg := DefaultConfig()

	assert.Equal(t, filepath.Join(os.Getenv("HOME"), "Mail"), cfg.Folder)
	assert.Equal(t, "/var/mail/mika", cfg.SpoolFile)
	assert.Equal(t, `!^\.[^.]`, cfg.Mask)
	assert.Equal(t, "alpha", cfg.SortBrowser)
	assert.Equal(t, "%2C %t %N %F %2l %-8.8u %-8.8g %8s %d %i", cfg.FolderFormat)
	assert.True(t, cfg.AreMailboxesAbbreviated())
	assert.False(t, cfg.ImapListSubscribed)
	assert.True(t, cfg.IsTelemetryEnabled())
}

func TestDefaultSpool(t *testing.T) {
	t.Run("prefers MAIL", func(t *testing.T) {
		t.Setenv("MAIL", "/srv/spool/mika")
		assert.Equal(t, "/srv/spool/mika", DefaultSpool())
	})

	t.Run("falls back to var mail", func(t *testing.T) {
		t.Setenv("MAIL", "")
		spool := DefaultSpool()
		if spool != "" {
			assert.True(t, filepath.IsAbs(spool))
			assert.Contains(t, spool, "/var/mail/")
		}
	})
}

func TestConfigSet(t *testing.T) {
	t.Run("assigns plain strings", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, cfg.Set("folder", "/home/mika/Mail"))
		require.NoError(t, cfg.Set("spool_file", "/var/mail/mika"))
		require.NoError(t, cfg.Set("date_format", "%Y-%m-%d"))
		assert.Equal(t, "/home/mika/Mail", cfg.Folder)
		assert.Equal(t, "/var/mail/mika", cfg.SpoolFile)
		assert.Equal(t, "%Y-%m-%d", cfg.DateFormat)
	})

	t.Run("validates the mask regex", func(t *testing.T) {
		cfg := &Config{Mask: `!^\.[^.]`}

		require.NoError(t, cfg.Set("mask", `\.mbox$`))
		assert.Equal(t, `\.mbox$`, cfg.Mask)

		err := cfg.Set("mask", "*broken[")
		require.Error(t, err)
		// A failed set leaves the previous mask alone.
		assert.Equal(t, `\.mbox$`, cfg.Mask)
	})

	t.Run("negated mask validates the part after the bang", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, cfg.Set("mask", `!^\.[^.]`))
		require.Error(t, cfg.Set("mask", "![broken"))
	})

	t.Run("validates sort_browser names", func(t *testing.T) {
		cfg := &Config{}
		for _, v := range []string{"alpha", "date", "size", "desc", "count", "unread", "new", "unsorted", "reverse-date", "reverse-alpha"} {
			assert.NoError(t, cfg.Set("sort_browser", v), v)
		}
		assert.Error(t, cfg.Set("sort_browser", "reverse-bogus"))
		assert.Error(t, cfg.Set("sort_browser", "mtime"))
	})

	t.Run("parses yes and no booleans", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, cfg.Set("imap_list_subscribed", "yes"))
		assert.True(t, cfg.ImapListSubscribed)
		require.NoError(t, cfg.Set("imap_list_subscribed", "no"))
		assert.False(t, cfg.ImapListSubscribed)
		require.NoError(t, cfg.Set("browser_abbreviate_mailboxes", "false"))
		assert.False(t, cfg.AreMailboxesAbbreviated())
		assert.Error(t, cfg.Set("imap_list_subscribed", "maybe"))
	})

	t.Run("rejects unknown variables", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.Set("pager_context", "3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown variable")
	})
}

func TestLoadConfigRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.SortBrowser = "reverse-size"
	cfg.Mailboxes = []MailboxDef{{Path: "/var/mail/mika", Name: "spool"}}
	require.NoError(t, SaveConfig(cfg))

	loaded := LoadConfig()
	assert.Equal(t, "reverse-size", loaded.SortBrowser)
	require.Len(t, loaded.Mailboxes, 1)
	assert.Equal(t, "spool", loaded.Mailboxes[0].Name)
	// Backfilled defaults survive the round trip.
	assert.Equal(t, `!^\.[^.]`, loaded.Mask)
}

func TestLoadConfigBackfillsMissingFields(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "cartero")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName),
		[]byte(`{"folder": "/home/mika/Mail"}`), 0644))

	cfg := LoadConfig()
	assert.Equal(t, "/home/mika/Mail", cfg.Folder)
	assert.Equal(t, "alpha", cfg.SortBrowser)
	assert.NotEmpty(t, cfg.FolderFormat)
	assert.NotEmpty(t, cfg.DateFormat)
}

func TestTOMLOverlayWins(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.SortBrowser = "alpha"
	require.NoError(t, SaveConfig(cfg))

	dir := filepath.Join(home, ".config", "cartero")
	toml := `
sort_browser = "reverse-date"
imap_list_subscribed = true

[[mailboxes]]
path = "~/Mail/lists/golang"
name = "golang-nuts"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLConfigFileName), []byte(toml), 0644))

	loaded := LoadConfig()
	assert.Equal(t, "reverse-date", loaded.SortBrowser)
	assert.True(t, loaded.ImapListSubscribed)
	require.Len(t, loaded.Mailboxes, 1)
	assert.Equal(t, "~/Mail/lists/golang", loaded.Mailboxes[0].Path)
}
