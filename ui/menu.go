package ui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"

	"github.com/jmllorens/cartero/keys"
)

var menuRowStyle = lipgloss.NewStyle().Foreground(ColorText)

var menuCursorStyle = lipgloss.NewStyle().
	Background(ColorIris).
	Foreground(ColorBase)

var menuDialogStyle = lipgloss.NewStyle().Foreground(ColorSubtle)

var menuPromptStyle = lipgloss.NewStyle().Foreground(ColorGold)

// Menu is the navigation state for one dialog: a cursor over Max entries and
// a viewport PageLen rows tall starting at Top. The backing collection lives
// with the owning dialog; the menu only knows how to render one row at a
// time through MakeEntry. In dialog mode the list is replaced by a short
// static prompt (Lines plus single-letter shortcuts), which scrolls by line
// rather than by entry.
type Menu struct {
	Current   int
	Top       int
	Max       int
	PageLen   int
	NumTagged int

	Lines      []string
	Prompt     string
	DialogKeys string

	// MakeEntry renders row i. Unset rows render blank.
	MakeEntry func(i int) string
	// Match reports whether row i matches re. Required for search.
	Match func(i int, re *regexp.Regexp) bool

	// MarkZones wraps each rendered row in a bubblezone mark so mouse
	// clicks can be mapped back to entry indexes. Requires
	// zone.NewGlobal to have run.
	MarkZones bool

	width int

	lastSearch    *regexp.Regexp
	searchReverse bool
}

func NewMenu() *Menu {
	return &Menu{PageLen: 1}
}

// InDialog reports whether the menu shows static prompt lines instead of a
// data-backed list.
func (m *Menu) InDialog() bool { return len(m.Lines) > 0 }

// SetDialog switches the menu to static-lines mode. dialogKeys holds the
// single-letter shortcuts in the order their synthetic ops are numbered.
func (m *Menu) SetDialog(lines []string, prompt, dialogKeys string) {
	m.Lines = lines
	m.Prompt = prompt
	m.DialogKeys = dialogKeys
	m.Max = len(lines)
	m.Current = 0
	m.Top = 0
}

// SetSize updates the render width and viewport height.
func (m *Menu) SetSize(width, pageLen int) {
	m.width = width
	if pageLen < 1 {
		pageLen = 1
	}
	m.PageLen = pageLen
	m.ensureVisible()
}

// SetMax resets the entry count after the backing collection was rebuilt.
// The cursor is clamped into the new range.
func (m *Menu) SetMax(max int) {
	m.Max = max
	m.ensureVisible()
}

// SetIndex moves the cursor to i, clamped to the valid range, scrolling the
// viewport to keep it visible.
func (m *Menu) SetIndex(i int) {
	m.Current = i
	m.ensureVisible()
}

func (m *Menu) maxTop() int {
	t := m.Max - m.PageLen
	if t < 0 {
		t = 0
	}
	return t
}

// ensureVisible drags Top so Current sits inside the viewport.
func (m *Menu) ensureVisible() {
	if m.Max == 0 {
		m.Current, m.Top = 0, 0
		return
	}
	m.Current = clamp(m.Current, 0, m.Max-1)
	if m.Current < m.Top {
		m.Top = m.Current
	}
	if m.Current >= m.Top+m.PageLen {
		m.Top = m.Current - m.PageLen + 1
	}
	m.Top = clamp(m.Top, 0, m.maxTop())
}

// NextEntry moves the cursor down one entry, clamping at the end.
func (m *Menu) NextEntry() Result {
	if m.Max == 0 || m.Current >= m.Max-1 {
		return ResultNoAction
	}
	m.Current++
	m.ensureVisible()
	return ResultSuccess
}

// PrevEntry moves the cursor up one entry, clamping at the start.
func (m *Menu) PrevEntry() Result {
	if m.Max == 0 || m.Current == 0 {
		return ResultNoAction
	}
	m.Current--
	m.ensureVisible()
	return ResultSuccess
}

// NextLine scrolls the viewport down one row, dragging the cursor along only
// when it would fall off the top edge.
func (m *Menu) NextLine() Result {
	if m.Max == 0 || m.Top >= m.maxTop() {
		return ResultNoAction
	}
	m.Top++
	if m.Current < m.Top {
		m.Current = m.Top
	}
	return ResultSuccess
}

// PrevLine scrolls the viewport up one row, dragging the cursor along only
// when it would fall off the bottom edge.
func (m *Menu) PrevLine() Result {
	if m.Max == 0 || m.Top == 0 {
		return ResultNoAction
	}
	m.Top--
	if m.Current >= m.Top+m.PageLen {
		m.Current = m.Top + m.PageLen - 1
	}
	return ResultSuccess
}

// relativeJump moves the viewport and the cursor by n rows together.
func (m *Menu) relativeJump(n int) Result {
	if m.Max == 0 || n == 0 {
		return ResultNoAction
	}
	current := clamp(m.Current+n, 0, m.Max-1)
	top := clamp(m.Top+n, 0, m.maxTop())
	if current == m.Current && top == m.Top {
		return ResultNoAction
	}
	m.Current, m.Top = current, top
	m.ensureVisible()
	return ResultSuccess
}

func (m *Menu) NextPage() Result { return m.relativeJump(m.PageLen) }

func (m *Menu) PrevPage() Result { return m.relativeJump(-m.PageLen) }

// HalfDown and HalfUp move by half a page. A one-row viewport has no half,
// so they do nothing there.
func (m *Menu) HalfDown() Result { return m.relativeJump(m.PageLen / 2) }

func (m *Menu) HalfUp() Result { return m.relativeJump(-(m.PageLen / 2)) }

// TopPage moves the cursor to the first visible row without scrolling.
func (m *Menu) TopPage() Result {
	return m.selectVisible(m.Top)
}

// MiddlePage moves the cursor to the middle visible row without scrolling.
func (m *Menu) MiddlePage() Result {
	i := m.Top + m.PageLen
	if i > m.Max-1 {
		i = m.Max - 1
	}
	return m.selectVisible(m.Top + (i-m.Top)/2)
}

// BottomPage moves the cursor to the last visible row without scrolling.
func (m *Menu) BottomPage() Result {
	i := m.Top + m.PageLen - 1
	if i > m.Max-1 {
		i = m.Max - 1
	}
	return m.selectVisible(i)
}

func (m *Menu) selectVisible(i int) Result {
	if m.Max == 0 {
		return ResultNoAction
	}
	i = clamp(i, 0, m.Max-1)
	if i == m.Current {
		return ResultNoAction
	}
	m.Current = i
	return ResultSuccess
}

// FirstEntry jumps to the first entry.
func (m *Menu) FirstEntry() Result {
	if m.Max == 0 || m.Current == 0 {
		return ResultNoAction
	}
	m.SetIndex(0)
	return ResultSuccess
}

// LastEntry jumps to the last entry.
func (m *Menu) LastEntry() Result {
	if m.Max == 0 || m.Current == m.Max-1 {
		return ResultNoAction
	}
	m.SetIndex(m.Max - 1)
	return ResultSuccess
}

// HandleOp implements OpHandler for the movement operations. Anything else,
// jump and search included, is left for the owning dialog to claim.
func (m *Menu) HandleOp(op keys.Op) Result {
	switch op {
	case keys.OpNextEntry:
		return m.NextEntry()
	case keys.OpPrevEntry:
		return m.PrevEntry()
	case keys.OpNextLine:
		return m.NextLine()
	case keys.OpPrevLine:
		return m.PrevLine()
	case keys.OpNextPage:
		return m.NextPage()
	case keys.OpPrevPage:
		return m.PrevPage()
	case keys.OpHalfDown:
		return m.HalfDown()
	case keys.OpHalfUp:
		return m.HalfUp()
	case keys.OpTopPage:
		return m.TopPage()
	case keys.OpMiddlePage:
		return m.MiddlePage()
	case keys.OpBottomPage:
		return m.BottomPage()
	case keys.OpFirstEntry:
		return m.FirstEntry()
	case keys.OpLastEntry:
		return m.LastEntry()
	default:
		return ResultUnknown
	}
}

// SetSearch compiles pattern and stores it along with the search direction
// for later SearchStep calls.
func (m *Menu) SetSearch(pattern string, reverse bool) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	m.lastSearch = re
	m.searchReverse = reverse
	return nil
}

// HasSearch reports whether a previous search pattern is stored.
func (m *Menu) HasSearch() bool { return m.lastSearch != nil }

// SearchStep finds the next row matching the stored pattern, starting one
// row past the cursor and wrapping around. opposite flips the stored
// direction. Returns the row index, or -1 when nothing matches.
func (m *Menu) SearchStep(opposite bool) int {
	if m.lastSearch == nil || m.Match == nil || m.Max == 0 {
		return -1
	}
	step := 1
	if m.searchReverse != opposite {
		step = -1
	}
	i := m.Current
	for n := 0; n < m.Max; n++ {
		i = (i + step + m.Max) % m.Max
		if m.Match(i, m.lastSearch) {
			return i
		}
	}
	return -1
}

// View renders the visible rows, or the static lines plus prompt when in
// dialog mode.
func (m *Menu) View() string {
	if m.InDialog() {
		return m.viewDialog()
	}
	normal := menuRowStyle
	cursor := menuCursorStyle
	if m.width > 0 {
		normal = normal.Width(m.width)
		cursor = cursor.Width(m.width)
	}
	var b strings.Builder
	last := m.Top + m.PageLen
	if last > m.Max {
		last = m.Max
	}
	for i := m.Top; i < last; i++ {
		var row string
		if m.MakeEntry != nil {
			row = m.MakeEntry(i)
		}
		if m.width > 0 {
			row = truncate.StringWithTail(row, uint(m.width), "…")
		}
		if i == m.Current {
			row = cursor.Render(row)
		} else {
			row = normal.Render(row)
		}
		if m.MarkZones {
			row = zone.Mark(MenuRowZoneID(i), row)
		}
		b.WriteString(row)
		if i < last-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Menu) viewDialog() string {
	var b strings.Builder
	last := m.Top + m.PageLen
	if last > len(m.Lines) {
		last = len(m.Lines)
	}
	for i := m.Top; i < last; i++ {
		line := m.Lines[i]
		if m.width > 0 {
			line = truncate.StringWithTail(line, uint(m.width), "…")
		}
		b.WriteString(menuDialogStyle.Render(line))
		b.WriteByte('\n')
	}
	b.WriteString(menuPromptStyle.Render(m.Prompt))
	return b.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
