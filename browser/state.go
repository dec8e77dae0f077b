// Package browser implements the file and mailbox browser: directory
// scans, the mailbox list, the sort modes, and the dialog that drives
// them. A listing is held in a State, rebuilt from scratch on every
// change of directory, mask or view.
package browser

import (
	"io/fs"
	"time"

	"github.com/jmllorens/cartero/internal/paths"
)

// Entry is one row of a listing: a file, a directory, a mailbox or a
// remote folder. Local entries carry stat data; remote ones carry the
// folder attributes the server reported.
type Entry struct {
	// Name is the file name relative to the scanned directory, or the
	// full path for mailbox-list and remote entries.
	Name string
	// Desc is the display text. Add falls back to Name when empty.
	Desc string

	Mode  fs.FileMode
	Size  int64
	Mtime time.Time
	UID   uint32
	GID   uint32
	Nlink int

	// Local is set when the entry is backed by an lstat of the local
	// filesystem. Entries without it render blank date, size and
	// permission fields.
	Local bool

	HasMailbox bool
	HasNewMail bool
	MsgCount   int
	MsgUnread  int

	// Remote folder attributes, filled only by a remote listing.
	Remote      bool
	Delim       rune
	Selectable  bool
	HasChildren bool

	Tagged bool

	// gen is the position the entry was added at, the tie-break that
	// keeps equal sort keys in listing order.
	gen int
}

// State is one complete listing plus what kind of listing it is.
type State struct {
	Entries []Entry

	// IsMailboxList marks a listing of the mailbox registry rather than
	// of a directory.
	IsMailboxList bool
	// RemoteBrowse marks a listing reported by a remote account.
	RemoteBrowse bool
	// Folder is the directory the listing came from. Remote listings
	// record the folder the server rooted the listing at.
	Folder string

	gen int
}

// Add appends e to the listing, stamping it with the next generation
// number and defaulting Desc to Name.
func (s *State) Add(e Entry) {
	if e.Desc == "" {
		e.Desc = e.Name
	}
	e.gen = s.gen
	s.gen++
	s.Entries = append(s.Entries, e)
}

// Reset drops the rows and restarts the generation counter. The listing
// kind flags are left for the next scan to set.
func (s *State) Reset() {
	s.Entries = s.Entries[:0]
	s.RemoteBrowse = false
	s.Folder = ""
	s.gen = 0
}

// Len returns the number of entries.
func (s *State) Len() int { return len(s.Entries) }

// At returns the i-th entry, or nil when i is out of range.
func (s *State) At(i int) *Entry {
	if i < 0 || i >= len(s.Entries) {
		return nil
	}
	return &s.Entries[i]
}

// Remove deletes the i-th entry, keeping the order of the rest.
func (s *State) Remove(i int) {
	if i < 0 || i >= len(s.Entries) {
		return
	}
	s.Entries = append(s.Entries[:i], s.Entries[i+1:]...)
}

// Session carries the navigation state that outlives a single dialog:
// the directory the browser last showed, the entry selected before
// that, and the swap slot for the goto-folder toggle.
type Session struct {
	// LastDir is the directory the browser shows, and reopens in next
	// time.
	LastDir string
	// LastDirBackup remembers the last selected path so a relisting can
	// put the cursor back on it.
	LastDirBackup string
	// GotoSwapper holds the directory to swap back to after a
	// goto-folder jump.
	GotoSwapper string
}

// SelectDir records f as the selected entry: its parent becomes the
// directory to open and f itself the entry to highlight.
func (s *Session) SelectDir(f string) {
	s.LastDirBackup = f
	s.LastDir = paths.Parent(f)
}
