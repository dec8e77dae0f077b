package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// MsgLevel identifies the kind of message shown on the message line.
type MsgLevel int

const (
	MsgInfo MsgLevel = iota
	MsgError
)

// Display constants.
const (
	InfoDismissAfter  = 3 * time.Second
	ErrorDismissAfter = 5 * time.Second
)

var (
	msgInfoStyle  = lipgloss.NewStyle().Foreground(ColorFoam)
	msgErrorStyle = lipgloss.NewStyle().Foreground(ColorLove)
)

// MsgLine is the one-line message window at the bottom of the screen.
// Each message replaces the previous one and expires on its own after a
// level-dependent delay, errors hanging around longer than chatter.
type MsgLine struct {
	text    string
	level   MsgLevel
	shownAt time.Time
	expiry  time.Duration
	width   int
}

func NewMsgLine() *MsgLine {
	return &MsgLine{}
}

// SetWidth updates the render width.
func (m *MsgLine) SetWidth(width int) {
	m.width = width
}

// Info shows an informational message.
func (m *MsgLine) Info(text string) {
	m.set(text, MsgInfo, InfoDismissAfter)
}

// Error shows an error message.
func (m *MsgLine) Error(text string) {
	m.set(text, MsgError, ErrorDismissAfter)
}

func (m *MsgLine) set(text string, level MsgLevel, expiry time.Duration) {
	m.text = text
	m.level = level
	m.shownAt = time.Now()
	m.expiry = expiry
}

// Clear drops the current message immediately.
func (m *MsgLine) Clear() {
	m.text = ""
}

// Active reports whether a message is still on display. The app keeps a
// tick running only while this is true.
func (m *MsgLine) Active() bool {
	m.tick()
	return m.text != ""
}

// tick expires the message once its time is up.
func (m *MsgLine) tick() {
	if m.text != "" && time.Since(m.shownAt) >= m.expiry {
		m.text = ""
	}
}

// MsgTickMsg drives message expiry while one is on display.
type MsgTickMsg struct{}

// View renders the message clipped to the line width, or an empty string
// when nothing is on display.
func (m *MsgLine) View() string {
	m.tick()
	if m.text == "" {
		return ""
	}
	text := m.text
	if m.width > 0 && runewidth.StringWidth(text) > m.width {
		text = runewidth.Truncate(text, m.width, "…")
	}
	if m.level == MsgError {
		return msgErrorStyle.Render(text)
	}
	return msgInfoStyle.Render(text)
}
