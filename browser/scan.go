package browser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/jmllorens/cartero/internal/paths"
	"github.com/jmllorens/cartero/mail"
)

// Mask filters directory entries by name. A leading '!' negates the
// match, so the default "!^\.[^.]" hides dotfiles while keeping "..".
type Mask struct {
	pattern string
	negate  bool
	re      *regexp.Regexp
}

// ParseMask compiles a mask pattern.
func ParseMask(pattern string) (*Mask, error) {
	m := &Mask{pattern: pattern}
	src := pattern
	if strings.HasPrefix(src, "!") {
		m.negate = true
		src = src[1:]
	}
	if src != "" {
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, err
		}
		m.re = re
	}
	return m, nil
}

// Pattern returns the mask's original text, negation marker included.
func (m *Mask) Pattern() string {
	if m == nil {
		return ""
	}
	return m.pattern
}

// Match reports whether name passes the mask. A nil or empty mask
// passes everything.
func (m *Mask) Match(name string) bool {
	if m == nil || m.re == nil {
		return true
	}
	return m.re.MatchString(name) != m.negate
}

// RemoteFolder is one folder reported by a remote account.
type RemoteFolder struct {
	Name        string
	Delim       rune
	Selectable  bool
	HasChildren bool
}

// RemoteLister browses and manages folders on a remote account.
// ListFolders also reports the canonical folder the listing is rooted
// at, which becomes the browser's current directory.
type RemoteLister interface {
	ListFolders(path string) (root string, folders []RemoteFolder, err error)
	CreateFolder(path string) error
	DeleteFolder(path string) error
	RenameFolder(oldPath, newPath string) error
	Subscribe(path string, subscribe bool) error
}

// Lister builds listings from the filesystem, the mailbox registry and
// an optional remote account.
type Lister struct {
	Registry *mail.Registry
	Remote   RemoteLister

	// Folder is the configured mail root, used to abbreviate mailbox
	// paths in the list view.
	Folder string
	// AbbreviateMailboxes shortens mailbox paths with '=' and '~'.
	AbbreviateMailboxes bool
}

// ExamineDirectory scans dir into st, applying the name prefix and the
// file mask. A directory that no longer exists falls back to its
// closest surviving ancestor; the directory actually scanned is
// returned. The parent entry ".." is part of the listing and subject to
// the same filters.
func (l *Lister) ExamineDirectory(st *State, dir, prefix string, mask *Mask) (string, error) {
	fi, err := os.Stat(dir)
	for err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if c := strings.LastIndexByte(dir, '/'); c > 0 {
				dir = dir[:c]
				fi, err = os.Stat(dir)
				continue
			}
		}
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	st.Reset()
	st.IsMailboxList = false
	st.Folder = dir

	names := make([]string, 0, len(ents)+1)
	names = append(names, "..")
	for _, de := range ents {
		names = append(names, de.Name())
	}
	for _, name := range names {
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		if !mask.Match(name) {
			continue
		}
		full := filepath.Join(dir, name)
		fi, err := os.Lstat(full)
		if err != nil {
			continue
		}
		mode := fi.Mode()
		size := fi.Size()
		// No size for directories or symlinks.
		if mode.IsDir() || mode&fs.ModeSymlink != 0 {
			size = 0
		} else if !mode.IsRegular() {
			continue
		}
		e := Entry{
			Name:  name,
			Mode:  mode,
			Size:  size,
			Mtime: fi.ModTime(),
			Local: true,
		}
		e.UID, e.GID, e.Nlink = statExtra(fi)
		l.crossReference(&e, full)
		st.Add(e)
	}
	return dir, nil
}

// ExamineMailboxes lists the mailbox registry into st, in registry
// order. Hidden mailboxes are skipped; local ones that fail to stat or
// are neither file, directory nor symlink are dropped.
func (l *Lister) ExamineMailboxes(st *State) error {
	st.Reset()
	st.IsMailboxList = true

	if l.Registry == nil || l.Registry.Len() == 0 {
		return errors.New("No mailboxes defined")
	}

	for _, mb := range l.Registry.All() {
		if mb.Hidden {
			continue
		}
		display := mb.Path
		if l.AbbreviateMailboxes {
			display = paths.Pretty(mb.Path, l.Folder)
		}
		e := Entry{
			Desc:       mb.Name,
			HasMailbox: true,
			HasNewMail: mb.HasNewMail,
			MsgCount:   mb.MsgCount,
			MsgUnread:  mb.MsgUnread,
		}
		switch mb.Type {
		case mail.TypeIMAP, mail.TypePOP:
			e.Name = display
		case mail.TypeNNTP, mail.TypeNotmuch:
			e.Name = mb.Path
		default:
			fi, err := os.Lstat(mb.Path)
			if err != nil {
				continue
			}
			mode := fi.Mode()
			if !mode.IsRegular() && !mode.IsDir() && mode&fs.ModeSymlink == 0 {
				continue
			}
			e.Name = display
			e.Local = true
			e.Mode = mode
			e.Size = fi.Size()
			e.Mtime = fi.ModTime()
			e.UID, e.GID, e.Nlink = statExtra(fi)
			if mb.Type == mail.TypeMaildir {
				e.Mtime = maildirMtime(mb.Path)
			}
		}
		st.Add(e)
	}
	return nil
}

// ExamineRemote asks the remote account for the folders under path.
// The root the server reports is returned and becomes st.Folder.
func (l *Lister) ExamineRemote(st *State, path string) (string, error) {
	if l.Remote == nil {
		return "", errors.New("remote browsing is not configured")
	}
	root, folders, err := l.Remote.ListFolders(path)
	if err != nil {
		return "", err
	}
	st.Reset()
	st.IsMailboxList = false
	st.RemoteBrowse = true
	st.Folder = root
	for _, f := range folders {
		e := Entry{
			Name:        f.Name,
			Remote:      true,
			Delim:       f.Delim,
			Selectable:  f.Selectable,
			HasChildren: f.HasChildren,
		}
		l.crossReference(&e, f.Name)
		st.Add(e)
	}
	return root, nil
}

// crossReference marks e as a known mailbox when full matches a
// registry entry, copying over its counters.
func (l *Lister) crossReference(e *Entry, full string) {
	if l.Registry == nil {
		return
	}
	mb := l.Registry.ByPath(full)
	if mb == nil {
		return
	}
	e.HasMailbox = true
	e.HasNewMail = mb.HasNewMail
	e.MsgCount = mb.MsgCount
	e.MsgUnread = mb.MsgUnread
}

// maildirMtime is the newer of the new/ and cur/ subdirectories, the
// time a maildir last saw a delivery or a pickup. Zero when neither
// can be stat'd.
func maildirMtime(path string) time.Time {
	var t time.Time
	if fi, err := os.Stat(filepath.Join(path, "new")); err == nil {
		t = fi.ModTime()
	}
	if fi, err := os.Stat(filepath.Join(path, "cur")); err == nil && fi.ModTime().After(t) {
		t = fi.ModTime()
	}
	return t
}

// linkIsDir reports whether name inside dir resolves to a directory.
func linkIsDir(dir, name string) bool {
	fi, err := os.Stat(filepath.Join(dir, name))
	return err == nil && fi.IsDir()
}

// statExtra pulls the owner, group and link count out of a FileInfo.
func statExtra(fi fs.FileInfo) (uid, gid uint32, nlink int) {
	if st, ok := fi.Sys().(*syscall.Stat_t); ok {
		return uint32(st.Uid), uint32(st.Gid), int(st.Nlink)
	}
	return 0, 0, 0
}
