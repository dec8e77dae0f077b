package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTOMLConfig(t *testing.T) {
	t.Run("parses valid TOML with settings and mailboxes", func(t *testing.T) {
		tmpDir := t.TempDir()
		tomlPath := filepath.Join(tmpDir, "config.toml")

		content := `
folder = "~/Mail"
spool_file = "/var/mail/mika"
mask = '!^\.[^.]'
sort_browser = "reverse-date"
browser_abbreviate_mailboxes = false

[[mailboxes]]
path = "/var/mail/mika"
name = "spool"

[[mailboxes]]
path = "~/Mail/inbox"
`
		err := os.WriteFile(tomlPath, []byte(content), 0o644)
		require.NoError(t, err)

		tc, err := LoadTOMLConfigFrom(tomlPath)
		require.NoError(t, err)

		assert.Equal(t, "~/Mail", tc.Folder)
		assert.Equal(t, "/var/mail/mika", tc.SpoolFile)
		assert.Equal(t, `!^\.[^.]`, tc.Mask)
		assert.Equal(t, "reverse-date", tc.SortBrowser)
		require.NotNil(t, tc.BrowserAbbreviateMailboxes)
		assert.False(t, *tc.BrowserAbbreviateMailboxes)
		// Absent booleans stay nil so they do not overlay.
		assert.Nil(t, tc.ImapListSubscribed)

		require.Len(t, tc.Mailboxes, 2)
		assert.Equal(t, "spool", tc.Mailboxes[0].Name)
		assert.Equal(t, "~/Mail/inbox", tc.Mailboxes[1].Path)
		assert.Empty(t, tc.Mailboxes[1].Name)
	})

	t.Run("returns error on missing file", func(t *testing.T) {
		_, err := LoadTOMLConfigFrom("/nonexistent/config.toml")
		assert.Error(t, err)
	})

	t.Run("returns error on invalid TOML", func(t *testing.T) {
		tmpDir := t.TempDir()
		tomlPath := filepath.Join(tmpDir, "config.toml")
		err := os.WriteFile(tomlPath, []byte("[invalid toml\n"), 0o644)
		require.NoError(t, err)

		_, err = LoadTOMLConfigFrom(tomlPath)
		assert.Error(t, err)
	})
}

func TestSaveTOMLConfig(t *testing.T) {
	t.Run("round-trips through save and load", func(t *testing.T) {
		tmpDir := t.TempDir()
		tomlPath := filepath.Join(tmpDir, "config.toml")

		subscribed := true
		original := &TOMLConfig{
			Folder:             "~/Mail",
			SortBrowser:        "unread",
			ImapListSubscribed: &subscribed,
			Mailboxes: []MailboxDef{
				{Path: "/var/mail/mika", Name: "spool"},
				{Path: "imap://mail.example.net/INBOX", Name: "work"},
			},
		}

		err := SaveTOMLConfigTo(original, tomlPath)
		require.NoError(t, err)

		loaded, err := LoadTOMLConfigFrom(tomlPath)
		require.NoError(t, err)

		assert.Equal(t, original.Folder, loaded.Folder)
		assert.Equal(t, original.SortBrowser, loaded.SortBrowser)
		require.NotNil(t, loaded.ImapListSubscribed)
		assert.True(t, *loaded.ImapListSubscribed)
		assert.Equal(t, original.Mailboxes, loaded.Mailboxes)
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		tmpDir := t.TempDir()
		tomlPath := filepath.Join(tmpDir, "nested", "config.toml")

		err := SaveTOMLConfigTo(&TOMLConfig{Folder: "~/Mail"}, tomlPath)
		require.NoError(t, err)

		loaded, err := LoadTOMLConfigFrom(tomlPath)
		require.NoError(t, err)
		assert.Equal(t, "~/Mail", loaded.Folder)
	})
}
