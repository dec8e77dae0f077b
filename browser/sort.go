package browser

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey selects the field a listing is ordered by.
type SortKey int

const (
	// SortOrder keeps the listing in the order the scan produced it.
	SortOrder SortKey = iota
	SortAlpha
	SortDate
	SortSize
	SortDesc
	SortCount
	SortUnread
)

var sortKeyNames = map[SortKey]string{
	SortOrder:  "unsorted",
	SortAlpha:  "alpha",
	SortDate:   "date",
	SortSize:   "size",
	SortDesc:   "desc",
	SortCount:  "count",
	SortUnread: "unread",
}

func (k SortKey) String() string {
	if s, ok := sortKeyNames[k]; ok {
		return s
	}
	return fmt.Sprintf("sortkey(%d)", int(k))
}

// Sort is a complete sort choice: the key plus the direction.
type Sort struct {
	Key     SortKey
	Reverse bool
}

// ParseSort reads a config-style sort name such as "alpha" or
// "reverse-date". "new" is accepted as an alias for "unread".
func ParseSort(s string) (Sort, error) {
	var out Sort
	name := strings.TrimPrefix(s, "reverse-")
	out.Reverse = name != s
	switch name {
	case "unsorted":
		out.Key = SortOrder
	case "alpha":
		out.Key = SortAlpha
	case "date":
		out.Key = SortDate
	case "size":
		out.Key = SortSize
	case "desc":
		out.Key = SortDesc
	case "count":
		out.Key = SortCount
	case "unread", "new":
		out.Key = SortUnread
	default:
		return Sort{}, fmt.Errorf("unknown sort order %q", s)
	}
	return out, nil
}

// String renders the sort the way ParseSort reads it.
func (s Sort) String() string {
	if s.Reverse {
		return "reverse-" + s.Key.String()
	}
	return s.Key.String()
}

// Apply orders the listing in place. The parent-directory entry stays
// first whatever the key or direction. The reverse bit flips the key
// comparison only; key ties fall back to case-insensitive name (alpha
// and desc keys) and then to scan order, in either direction.
func (s Sort) Apply(st *State) {
	if s.Key == SortOrder && !s.Reverse {
		return
	}
	es := st.Entries
	sort.SliceStable(es, func(i, j int) bool {
		a, b := &es[i], &es[j]
		if au, bu := isUp(a), isUp(b); au || bu {
			return au && !bu
		}
		r := s.compare(a, b)
		if s.Reverse {
			r = -r
		}
		if r == 0 && (s.Key == SortAlpha || s.Key == SortDesc) {
			r = compareFoldName(a, b)
		}
		if r == 0 {
			r = cmp3(int64(a.gen), int64(b.gen))
		}
		return r < 0
	})
}

// compareFoldName breaks alpha and description ties by case-insensitive
// name before the generation number gets a say. Tie-breaks never
// reverse, so a reversed listing keeps equal entries in scan order.
func compareFoldName(a, b *Entry) int {
	return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
}

// isUp spots the parent-directory entry.
func isUp(e *Entry) bool { return e.Desc == ".." || e.Desc == "../" }

func (s Sort) compare(a, b *Entry) int {
	switch s.Key {
	case SortAlpha:
		return strings.Compare(a.Name, b.Name)
	case SortDesc:
		return strings.Compare(a.Desc, b.Desc)
	case SortDate:
		switch {
		case a.Mtime.Before(b.Mtime):
			return -1
		case a.Mtime.After(b.Mtime):
			return 1
		}
		return 0
	case SortSize:
		return cmp3(a.Size, b.Size)
	case SortCount:
		return compareMailbox(a, b, a.MsgCount, b.MsgCount)
	case SortUnread:
		return compareMailbox(a, b, a.MsgUnread, b.MsgUnread)
	}
	return cmp3(int64(a.gen), int64(b.gen))
}

// compareMailbox orders mailboxes by a counter and keeps plain files
// after any mailbox. Two plain files fall through to the tie-break.
func compareMailbox(a, b *Entry, ca, cb int) int {
	switch {
	case a.HasMailbox && b.HasMailbox:
		return cmp3(int64(ca), int64(cb))
	case a.HasMailbox:
		return -1
	case b.HasMailbox:
		return 1
	}
	return 0
}

func cmp3(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
