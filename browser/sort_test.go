package browser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(entries ...Entry) *State {
	st := &State{}
	for _, e := range entries {
		st.Add(e)
	}
	return st
}

func names(st *State) []string {
	out := make([]string, 0, st.Len())
	for i := range st.Entries {
		out = append(out, st.Entries[i].Name)
	}
	return out
}

func TestParseSort(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Sort
	}{
		{"unsorted", Sort{Key: SortOrder}},
		{"alpha", Sort{Key: SortAlpha}},
		{"date", Sort{Key: SortDate}},
		{"size", Sort{Key: SortSize}},
		{"desc", Sort{Key: SortDesc}},
		{"count", Sort{Key: SortCount}},
		{"unread", Sort{Key: SortUnread}},
		{"new", Sort{Key: SortUnread}},
		{"reverse-date", Sort{Key: SortDate, Reverse: true}},
		{"reverse-unsorted", Sort{Key: SortOrder, Reverse: true}},
	} {
		got, err := ParseSort(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseSort("mailbox-order")
	assert.Error(t, err)
}

func TestSortString_RoundTrips(t *testing.T) {
	for _, s := range []Sort{
		{Key: SortAlpha},
		{Key: SortDate, Reverse: true},
		{Key: SortUnread},
		{Key: SortOrder, Reverse: true},
	} {
		got, err := ParseSort(s.String())
		require.NoError(t, err, s.String())
		assert.Equal(t, s, got)
	}
	assert.Equal(t, "reverse-size", Sort{Key: SortSize, Reverse: true}.String())
}

func TestSortApply_Alpha(t *testing.T) {
	st := listing(
		Entry{Name: ".."},
		Entry{Name: "zeta"},
		Entry{Name: "alpha"},
		Entry{Name: "mid"},
	)

	Sort{Key: SortAlpha}.Apply(st)
	assert.Equal(t, []string{"..", "alpha", "mid", "zeta"}, names(st))

	Sort{Key: SortAlpha, Reverse: true}.Apply(st)
	assert.Equal(t, []string{"..", "zeta", "mid", "alpha"}, names(st),
		"parent entry stays first even reversed")
}

func TestSortApply_Date(t *testing.T) {
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	st := listing(
		Entry{Name: "newest", Mtime: base.Add(2 * time.Hour)},
		Entry{Name: "oldest", Mtime: base},
		Entry{Name: "middle", Mtime: base.Add(time.Hour)},
	)

	Sort{Key: SortDate}.Apply(st)
	assert.Equal(t, []string{"oldest", "middle", "newest"}, names(st))
}

func TestSortApply_Size(t *testing.T) {
	st := listing(
		Entry{Name: "big", Size: 4096},
		Entry{Name: "small", Size: 12},
		Entry{Name: "empty", Size: 0},
	)

	Sort{Key: SortSize}.Apply(st)
	assert.Equal(t, []string{"empty", "small", "big"}, names(st))

	Sort{Key: SortSize, Reverse: true}.Apply(st)
	assert.Equal(t, []string{"big", "small", "empty"}, names(st))
}

func TestSortApply_TiesKeepListingOrder(t *testing.T) {
	st := listing(
		Entry{Name: "b", Size: 7},
		Entry{Name: "a", Size: 7},
		Entry{Name: "c", Size: 7},
	)

	Sort{Key: SortSize}.Apply(st)
	assert.Equal(t, []string{"b", "a", "c"}, names(st),
		"equal keys keep the order the scan produced")

	// Only the key comparison reverses; ties stay in listing order.
	Sort{Key: SortSize, Reverse: true}.Apply(st)
	assert.Equal(t, []string{"b", "a", "c"}, names(st))
}

func TestSortApply_ReverseKeepsTieOrder(t *testing.T) {
	st := listing(
		Entry{Name: "first", Desc: "same"},
		Entry{Name: "second", Desc: "same"},
		Entry{Name: "zz", Desc: "zz"},
	)

	Sort{Key: SortDesc, Reverse: true}.Apply(st)
	assert.Equal(t, []string{"zz", "first", "second"}, names(st),
		"reversing moves zz ahead but leaves the equal pair alone")

	Sort{Key: SortDesc}.Apply(st)
	assert.Equal(t, []string{"first", "second", "zz"}, names(st))
}

func TestSortApply_DescTieFallsBackToFoldedName(t *testing.T) {
	st := listing(
		Entry{Name: "Beta", Desc: "inbox"},
		Entry{Name: "alpha", Desc: "inbox"},
	)

	Sort{Key: SortDesc}.Apply(st)
	assert.Equal(t, []string{"alpha", "Beta"}, names(st),
		"equal descriptions order by case-insensitive name")
}

func TestSortApply_CountOrdersMailboxesFirst(t *testing.T) {
	st := listing(
		Entry{Name: "busy", HasMailbox: true, MsgCount: 50},
		Entry{Name: "plain-file"},
		Entry{Name: "quiet", HasMailbox: true, MsgCount: 2},
	)

	Sort{Key: SortCount}.Apply(st)
	assert.Equal(t, []string{"quiet", "busy", "plain-file"}, names(st),
		"files sort after any mailbox")

	Sort{Key: SortCount, Reverse: true}.Apply(st)
	assert.Equal(t, []string{"plain-file", "busy", "quiet"}, names(st))
}

func TestSortApply_Unread(t *testing.T) {
	st := listing(
		Entry{Name: "two", HasMailbox: true, MsgUnread: 2},
		Entry{Name: "none", HasMailbox: true},
		Entry{Name: "ten", HasMailbox: true, MsgUnread: 10},
	)

	Sort{Key: SortUnread}.Apply(st)
	assert.Equal(t, []string{"none", "two", "ten"}, names(st))
}

func TestSortApply_UnsortedForwardIsNoOp(t *testing.T) {
	st := listing(Entry{Name: "z"}, Entry{Name: "a"}, Entry{Name: "m"})

	Sort{Key: SortOrder}.Apply(st)
	assert.Equal(t, []string{"z", "a", "m"}, names(st))
}

func TestSortApply_UnsortedReverseFlipsListing(t *testing.T) {
	st := listing(
		Entry{Name: ".."},
		Entry{Name: "first"},
		Entry{Name: "second"},
		Entry{Name: "third"},
	)

	Sort{Key: SortOrder, Reverse: true}.Apply(st)
	assert.Equal(t, []string{"..", "third", "second", "first"}, names(st))
}

func TestSortApply_DescUsesDisplayText(t *testing.T) {
	st := listing(
		Entry{Name: "x", Desc: "work"},
		Entry{Name: "y", Desc: "archive"},
	)

	Sort{Key: SortDesc}.Apply(st)

	descs := []string{st.Entries[0].Desc, st.Entries[1].Desc}
	assert.Equal(t, []string{"archive", "work"}, descs)
}
