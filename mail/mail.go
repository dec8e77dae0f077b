// Package mail holds the mailbox registry the browser lists and
// cross-references, and the on-disk format probe that decides whether a
// path is a mailbox or a plain directory.
package mail

import (
	"os"
	"path/filepath"
	"strings"
)

// Type identifies a mailbox storage format.
type Type int

const (
	TypeUnknown Type = iota // plain file or directory, not a mailbox
	TypeMbox
	TypeMmdf
	TypeMH
	TypeMaildir
	TypeIMAP
	TypePOP
	TypeNNTP
	TypeNotmuch
)

func (t Type) String() string {
	switch t {
	case TypeMbox:
		return "mbox"
	case TypeMmdf:
		return "mmdf"
	case TypeMH:
		return "mh"
	case TypeMaildir:
		return "maildir"
	case TypeIMAP:
		return "imap"
	case TypePOP:
		return "pop"
	case TypeNNTP:
		return "nntp"
	case TypeNotmuch:
		return "notmuch"
	default:
		return "unknown"
	}
}

// Remote reports whether the type is addressed by URL rather than by a
// plain file path, so listings never stat it.
func (t Type) Remote() bool {
	switch t {
	case TypeIMAP, TypePOP, TypeNNTP, TypeNotmuch:
		return true
	}
	return false
}

var urlSchemes = map[string]Type{
	"imap":    TypeIMAP,
	"imaps":   TypeIMAP,
	"pop":     TypePOP,
	"pops":    TypePOP,
	"news":    TypeNNTP,
	"snews":   TypeNNTP,
	"nntp":    TypeNNTP,
	"notmuch": TypeNotmuch,
}

// SchemeType returns the mailbox type named by a URL scheme prefix, or
// TypeUnknown when path is not a recognized URL.
func SchemeType(path string) Type {
	i := strings.Index(path, "://")
	if i <= 0 {
		return TypeUnknown
	}
	return urlSchemes[strings.ToLower(path[:i])]
}

// mhSequenceFiles mark a directory as an MH mailbox.
var mhSequenceFiles = []string{
	".mh_sequences", ".xmhcache", ".mew_cache", ".mew-cache", ".sylpheed_cache",
}

// DetectType probes path and reports its mailbox format. URLs are decided
// by scheme alone. TypeUnknown with a nil error means the path exists but
// is not a mailbox.
func DetectType(path string) (Type, error) {
	if t := SchemeType(path); t != TypeUnknown {
		return t, nil
	}

	st, err := os.Stat(path)
	if err != nil {
		return TypeUnknown, err
	}

	if st.IsDir() {
		cur, err := os.Stat(filepath.Join(path, "cur"))
		if err == nil && cur.IsDir() {
			return TypeMaildir, nil
		}
		for _, seq := range mhSequenceFiles {
			if _, err := os.Stat(filepath.Join(path, seq)); err == nil {
				return TypeMH, nil
			}
		}
		return TypeUnknown, nil
	}

	if !st.Mode().IsRegular() {
		return TypeUnknown, nil
	}
	if st.Size() == 0 {
		// an empty file can become any single-file mailbox
		return TypeMbox, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return TypeUnknown, err
	}
	defer f.Close()

	head := make([]byte, 5)
	n, err := f.Read(head)
	if err != nil {
		return TypeUnknown, err
	}
	head = head[:n]
	switch {
	case strings.HasPrefix(string(head), "From "):
		return TypeMbox, nil
	case strings.HasPrefix(string(head), "\x01\x01\x01\x01"):
		return TypeMmdf, nil
	}
	return TypeUnknown, nil
}

// Mailbox is one entry of the registry.
type Mailbox struct {
	Path     string // as configured, possibly a URL
	RealPath string // canonical local path, used for cross-referencing
	Name     string // optional short label shown instead of the path
	Type     Type
	Hidden   bool // listed only when browsing it directly

	HasNewMail bool
	MsgCount   int
	MsgUnread  int

	// lastSize is the file size at the previous CheckNew, the baseline
	// for spotting growth in single-file mailboxes.
	lastSize int64
}

// CheckNew refreshes the mailbox's counts from disk. Only local types
// can be probed without a protocol client: a maildir counts its new/
// and cur/ entries, a single-file mailbox reports new mail when it grew
// since the last check. Remote types keep whatever their client set.
func (m *Mailbox) CheckNew() {
	switch m.Type {
	case TypeMaildir:
		unread := countDirEntries(filepath.Join(m.RealPath, "new"))
		cur := countDirEntries(filepath.Join(m.RealPath, "cur"))
		m.MsgUnread = unread
		m.MsgCount = unread + cur
		m.HasNewMail = unread > 0
	case TypeMbox, TypeMmdf:
		st, err := os.Stat(m.RealPath)
		if err != nil {
			return
		}
		m.HasNewMail = m.lastSize > 0 && st.Size() > m.lastSize
		m.lastSize = st.Size()
	case TypeMH:
		m.MsgCount = countDirEntries(m.RealPath)
	}
}

// countDirEntries counts the non-dot entries of dir, 0 when unreadable.
func countDirEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			n++
		}
	}
	return n
}

// Registry is the ordered set of mailboxes the application watches.
type Registry struct {
	boxes []*Mailbox
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Add appends m, filling Type and RealPath when unset. Local paths that
// cannot be canonicalized keep the configured path as RealPath.
func (r *Registry) Add(m *Mailbox) *Mailbox {
	if m.Type == TypeUnknown {
		if t, err := DetectType(m.Path); err == nil {
			m.Type = t
		}
	}
	if m.RealPath == "" {
		if m.Type.Remote() {
			m.RealPath = m.Path
		} else if rp, err := filepath.EvalSymlinks(m.Path); err == nil {
			m.RealPath = rp
		} else {
			m.RealPath = m.Path
		}
	}
	r.boxes = append(r.boxes, m)
	return m
}

// All returns the mailboxes in registration order.
func (r *Registry) All() []*Mailbox {
	return r.boxes
}

func (r *Registry) Len() int {
	return len(r.boxes)
}

// CheckNew refreshes the counts of every registered mailbox.
func (r *Registry) CheckNew() {
	for _, m := range r.boxes {
		m.CheckNew()
	}
}

// ByPath finds the mailbox whose configured or canonical path equals path.
func (r *Registry) ByPath(path string) *Mailbox {
	for _, m := range r.boxes {
		if m.Path == path || m.RealPath == path {
			return m
		}
	}
	return nil
}
