package browser

import (
	"io/fs"
	"os/user"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmllorens/cartero/format"
)

// FormatEntry renders one listing row through the folder format
// template. num is the row's position in the listing.
func FormatEntry(e *Entry, num, width int, folderFormat, dateFormat string, now time.Time) string {
	return format.Render(folderFormat, width, rowSource{
		e:          e,
		num:        num,
		dateFormat: dateFormat,
		now:        now,
	})
}

// rowSource adapts one listing entry to the format renderer.
type rowSource struct {
	e          *Entry
	num        int
	dateFormat string
	now        time.Time
}

func (r rowSource) Field(letter rune, spec string) string {
	e := r.e
	switch letter {
	case 'C':
		return format.Number(spec, r.num+1)
	case 'd', 'D':
		if !e.Local {
			return format.String(spec, "")
		}
		layout := "%b %d %H:%M"
		if letter == 'D' {
			layout = strings.TrimPrefix(r.dateFormat, "!")
		} else if r.now.Sub(e.Mtime) >= 365*24*time.Hour {
			layout = "%b %d  %Y"
		}
		return format.String(spec, format.Time(layout, e.Mtime))
	case 'f':
		return format.String(spec, e.Name+r.suffix())
	case 'F':
		switch {
		case e.Local:
			return format.String(spec, permString(e.Mode))
		case e.Remote:
			// Folders with subfolders and mail get a marker.
			if e.HasChildren && e.Selectable {
				return format.String(spec, "IMAP +")
			}
			return format.String(spec, "IMAP  ")
		}
		return format.String(spec, "")
	case 'g':
		if !e.Local {
			return format.String(spec, "")
		}
		if g, err := user.LookupGroupId(strconv.FormatUint(uint64(e.GID), 10)); err == nil {
			return format.String(spec, g.Name)
		}
		return format.Number(spec, int(e.GID))
	case 'i':
		return format.String(spec, e.Desc+r.suffix())
	case 'l':
		if !e.Local {
			return format.String(spec, "")
		}
		return format.Number(spec, e.Nlink)
	case 'm':
		if e.HasMailbox {
			return format.Number(spec, e.MsgCount)
		}
		return format.String(spec, "")
	case 'N':
		if e.HasNewMail {
			return format.Char(spec, 'N')
		}
		return format.Char(spec, ' ')
	case 'n':
		if e.HasMailbox {
			return format.Number(spec, e.MsgUnread)
		}
		return format.String(spec, "")
	case 's':
		if !e.Local {
			return format.String(spec, "")
		}
		return format.String(spec, humanize.IBytes(uint64(e.Size)))
	case 't':
		if e.Tagged {
			return format.Char(spec, '*')
		}
		return format.Char(spec, ' ')
	case 'u':
		if !e.Local {
			return format.String(spec, "")
		}
		if u, err := user.LookupId(strconv.FormatUint(uint64(e.UID), 10)); err == nil {
			return format.String(spec, u.Username)
		}
		return format.Number(spec, int(e.UID))
	}
	return format.Char(spec, letter)
}

// Nonzero drives the conditional expandos: a mailbox counts as having
// messages or unread mail only when the counter is nonzero.
func (r rowSource) Nonzero(letter rune) bool {
	switch letter {
	case 'm':
		return r.e.MsgCount != 0
	case 'n':
		return r.e.MsgUnread != 0
	case 'N':
		return r.e.HasNewMail
	}
	return true
}

// suffix is the classify marker appended to names: '@' symlink, '/'
// directory, '*' user-executable. Entries without local stat data get
// none.
func (r rowSource) suffix() string {
	e := r.e
	if !e.Local {
		return ""
	}
	switch {
	case e.Mode&fs.ModeSymlink != 0:
		return "@"
	case e.Mode.IsDir():
		return "/"
	case e.Mode&0100 != 0:
		return "*"
	}
	return ""
}

// permString renders the ls-style ten-character permission column.
func permString(mode fs.FileMode) string {
	var b [10]byte
	switch {
	case mode.IsDir():
		b[0] = 'd'
	case mode&fs.ModeSymlink != 0:
		b[0] = 'l'
	default:
		b[0] = '-'
	}
	perm := mode.Perm()
	pick := func(bit fs.FileMode, c byte) byte {
		if perm&bit != 0 {
			return c
		}
		return '-'
	}
	b[1] = pick(0400, 'r')
	b[2] = pick(0200, 'w')
	b[3] = pick(0100, 'x')
	if mode&fs.ModeSetuid != 0 {
		b[3] = 's'
	}
	b[4] = pick(0040, 'r')
	b[5] = pick(0020, 'w')
	b[6] = pick(0010, 'x')
	if mode&fs.ModeSetgid != 0 {
		b[6] = 's'
	}
	b[7] = pick(0004, 'r')
	b[8] = pick(0002, 'w')
	b[9] = pick(0001, 'x')
	if mode&fs.ModeSticky != 0 {
		b[9] = 't'
	}
	return string(b[:])
}
