package browser

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var formatNow = time.Date(2025, 8, 23, 10, 0, 0, 0, time.UTC)

func TestFormatEntry_LocalFile(t *testing.T) {
	e := &Entry{
		Name:  "notes.txt",
		Desc:  "notes.txt",
		Mode:  0o644,
		Size:  2048,
		Mtime: time.Date(2025, 8, 20, 14, 5, 0, 0, time.UTC),
		Local: true,
	}

	got := FormatEntry(e, 0, 0, "%C %t %N %F %s %d %f", "", formatNow)
	assert.Equal(t, "1     -rw-r--r-- 2.0 KiB Aug 20 14:05 notes.txt", got,
		"blank tag and new-mail columns keep their cells")
}

func TestFormatEntry_OldFileShowsYear(t *testing.T) {
	e := &Entry{
		Name:  "archive.mbox",
		Mode:  0o600,
		Mtime: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
		Local: true,
	}

	got := FormatEntry(e, 0, 0, "%d", "", formatNow)
	assert.Equal(t, "Jun 01  2024", got, "dates older than a year swap time for year")
}

func TestFormatEntry_DateFormatExpando(t *testing.T) {
	e := &Entry{
		Name:  "x",
		Mtime: time.Date(2025, 8, 20, 14, 5, 0, 0, time.UTC),
		Local: true,
	}

	assert.Equal(t, "2025-08-20", FormatEntry(e, 0, 0, "%D", "!%Y-%m-%d", formatNow))
}

func TestFormatEntry_Suffixes(t *testing.T) {
	for _, tc := range []struct {
		name string
		mode fs.FileMode
		want string
	}{
		{"sub", fs.ModeDir | 0o755, "sub/"},
		{"link", fs.ModeSymlink | 0o777, "link@"},
		{"run.sh", 0o755, "run.sh*"},
		{"plain", 0o644, "plain"},
	} {
		e := &Entry{Name: tc.name, Desc: tc.name, Mode: tc.mode, Local: true}
		assert.Equal(t, tc.want, FormatEntry(e, 0, 0, "%f", "", formatNow), tc.name)
		assert.Equal(t, tc.want, FormatEntry(e, 0, 0, "%i", "", formatNow), tc.name)
	}
}

func TestFormatEntry_PermColumn(t *testing.T) {
	dir := &Entry{Name: "d", Mode: fs.ModeDir | 0o750, Local: true}
	assert.Equal(t, "drwxr-x---", FormatEntry(dir, 0, 0, "%F", "", formatNow))

	link := &Entry{Name: "l", Mode: fs.ModeSymlink | 0o777, Local: true}
	assert.Equal(t, "lrwxrwxrwx", FormatEntry(link, 0, 0, "%F", "", formatNow))

	setuid := &Entry{Name: "s", Mode: fs.ModeSetuid | 0o755, Local: true}
	assert.Equal(t, "-rwsr-xr-x", FormatEntry(setuid, 0, 0, "%F", "", formatNow))
}

func TestFormatEntry_RemoteFolder(t *testing.T) {
	e := &Entry{
		Name:        "imap://mail.example.com/Lists",
		Desc:        "imap://mail.example.com/Lists",
		Remote:      true,
		Selectable:  true,
		HasChildren: true,
	}

	got := FormatEntry(e, 2, 0, "%C|%F|%s|%d|%f", "", formatNow)
	assert.Equal(t, "3|IMAP +|||imap://mail.example.com/Lists", got,
		"remote rows have no stat columns")

	e.HasChildren = false
	assert.Equal(t, "IMAP  ", FormatEntry(e, 0, 0, "%F", "", formatNow))
}

func TestFormatEntry_MailboxCounters(t *testing.T) {
	e := &Entry{Name: "inbox", HasMailbox: true, HasNewMail: true, MsgCount: 12, MsgUnread: 3}
	assert.Equal(t, "N 12/3", FormatEntry(e, 0, 0, "%N %m/%n", "", formatNow))

	e.HasNewMail = false
	e.MsgUnread = 0
	assert.Equal(t, "  12-", FormatEntry(e, 0, 0, "%N %m%?n?(%n)&-?", "", formatNow),
		"conditional follows the unread counter")

	plain := &Entry{Name: "just-a-file", Local: true, Mode: 0o644}
	assert.Equal(t, "|", FormatEntry(plain, 0, 0, "%m|%n", "", formatNow))
}

func TestFormatEntry_WidthSpecs(t *testing.T) {
	e := &Entry{Name: "very-long-name.txt", Desc: "very-long-name.txt", Mode: 0o644, Local: true}

	assert.Equal(t, "very-lon", FormatEntry(e, 0, 0, "%-8.8f", "", formatNow))
	assert.Equal(t, "  42", FormatEntry(&Entry{Name: "x", HasMailbox: true, MsgCount: 42},
		41, 0, "%4C", "", formatNow))
}

func TestFormatEntry_RightAlign(t *testing.T) {
	e := &Entry{Name: "a.txt", Desc: "a.txt", Mode: 0o644, Size: 1, Local: true}

	got := FormatEntry(e, 0, 16, "%f%> %C", "", formatNow)
	assert.Equal(t, "a.txt          1", got)
}
