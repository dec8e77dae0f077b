package mail

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeType(t *testing.T) {
	assert.Equal(t, TypeIMAP, SchemeType("imap://mail.example.com/INBOX"))
	assert.Equal(t, TypeIMAP, SchemeType("imaps://mail.example.com/"))
	assert.Equal(t, TypePOP, SchemeType("pops://mail.example.com/"))
	assert.Equal(t, TypeNNTP, SchemeType("news://news.example.com/"))
	assert.Equal(t, TypeNotmuch, SchemeType("notmuch:///home/mika/mail"))
	assert.Equal(t, TypeUnknown, SchemeType("/var/mail/mika"))
	assert.Equal(t, TypeUnknown, SchemeType("://broken"))
}

func TestDetectType_Maildir(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"cur", "new", "tmp"} {
		require.NoError(t, os.Mkdir(filepath.Join(dir, sub), 0o755))
	}

	got, err := DetectType(dir)
	require.NoError(t, err)
	assert.Equal(t, TypeMaildir, got)
}

func TestDetectType_MH(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".mh_sequences"), nil, 0o644))

	got, err := DetectType(dir)
	require.NoError(t, err)
	assert.Equal(t, TypeMH, got)
}

func TestDetectType_PlainDirIsUnknown(t *testing.T) {
	got, err := DetectType(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, TypeUnknown, got)
}

func TestDetectType_SingleFileFormats(t *testing.T) {
	dir := t.TempDir()

	mbox := filepath.Join(dir, "inbox")
	require.NoError(t, os.WriteFile(mbox, []byte("From mika@example.com Sat Aug 23 10:00:00 2025\n"), 0o644))
	mmdf := filepath.Join(dir, "digest")
	require.NoError(t, os.WriteFile(mmdf, []byte("\x01\x01\x01\x01\nFrom: x\n"), 0o644))
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	text := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(text, []byte("just some text\n"), 0o644))

	for _, tc := range []struct {
		path string
		want Type
	}{
		{mbox, TypeMbox},
		{mmdf, TypeMmdf},
		{empty, TypeMbox},
		{text, TypeUnknown},
	} {
		got, err := DetectType(tc.path)
		require.NoError(t, err, tc.path)
		assert.Equal(t, tc.want, got, tc.path)
	}
}

func TestDetectType_MissingPath(t *testing.T) {
	_, err := DetectType(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRegistry_AddFillsTypeAndRealPath(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "box")
	require.NoError(t, os.WriteFile(target, []byte("From x\n"), 0o644))
	link := filepath.Join(dir, "alias")
	require.NoError(t, os.Symlink(target, link))

	r := NewRegistry()
	m := r.Add(&Mailbox{Path: link})

	assert.Equal(t, TypeMbox, m.Type)
	resolved, err := filepath.EvalSymlinks(target)
	require.NoError(t, err)
	assert.Equal(t, resolved, m.RealPath)

	assert.Same(t, m, r.ByPath(link))
	assert.Same(t, m, r.ByPath(resolved))
	assert.Nil(t, r.ByPath("/nowhere"))
}

func TestRegistry_RemotePathsKeptVerbatim(t *testing.T) {
	r := NewRegistry()
	m := r.Add(&Mailbox{Path: "imap://mail.example.com/INBOX"})

	assert.Equal(t, TypeIMAP, m.Type)
	assert.Equal(t, m.Path, m.RealPath)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []*Mailbox{m}, r.All())
}

func TestMailbox_CheckNewMaildir(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"new", "cur", "tmp"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new", "1.mail"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new", "2.mail"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cur", "3.mail:2,S"), nil, 0o644))

	r := NewRegistry()
	m := r.Add(&Mailbox{Path: dir})
	require.Equal(t, TypeMaildir, m.Type)

	r.CheckNew()
	assert.Equal(t, 2, m.MsgUnread)
	assert.Equal(t, 3, m.MsgCount)
	assert.True(t, m.HasNewMail)
}

func TestMailbox_CheckNewMboxGrowth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inbox")
	require.NoError(t, os.WriteFile(path, []byte("From mika\n"), 0o644))

	m := NewRegistry().Add(&Mailbox{Path: path})
	require.Equal(t, TypeMbox, m.Type)

	// First check establishes the baseline, no new mail yet.
	m.CheckNew()
	assert.False(t, m.HasNewMail)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("From ana\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	m.CheckNew()
	assert.True(t, m.HasNewMail)
}
