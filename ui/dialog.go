package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmllorens/cartero/keys"
)

var promptTitleStyle = lipgloss.NewStyle().
	Background(ColorIris).
	Foreground(ColorBase).
	Padding(0, 1)

var promptMsgStyle = lipgloss.NewStyle().Foreground(ColorLove)

var promptBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorOverlay).
	Padding(0, 1)

// DialogKey checks a raw key against the menu's single-letter shortcuts
// before normal key resolution gets a look. A match returns the synthetic
// operation for that letter's position; anything else is left for the
// caller to resolve as usual, so the key is never lost.
func (m *Menu) DialogKey(msg tea.KeyMsg) (keys.Op, bool) {
	if m.DialogKeys == "" || !m.InDialog() {
		return keys.OpNull, false
	}
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return keys.OpNull, false
	}
	i := strings.IndexRune(m.DialogKeys, msg.Runes[0])
	if i < 0 {
		return keys.OpNull, false
	}
	return keys.DialogOp(i), true
}

// TranslateOp converts entry movements to their scrolling equivalents.
// Static dialogs have no logical entries, only lines of text, so moving by
// entry means moving by line and jumping to the first or last entry means
// jumping within the page.
func TranslateOp(op keys.Op) keys.Op {
	switch op {
	case keys.OpNextEntry:
		return keys.OpNextLine
	case keys.OpPrevEntry:
		return keys.OpPrevLine
	case keys.OpFirstEntry:
		return keys.OpTopPage
	case keys.OpLastEntry:
		return keys.OpBottomPage
	}
	return op
}

// PromptDialog is a modal pager over static lines with a single-letter
// prompt at the bottom, certificate verification being the classic case.
// A key matching one of the prompt letters closes the dialog with a
// 1-based Choice; movement keys scroll the text; exit closes with no
// choice made.
type PromptDialog struct {
	Menu  *Menu
	Title string

	// Choice is the 1-based position of the picked letter, 0 if the dialog
	// was exited without picking one.
	Choice int
	Done   bool

	// Message holds transient feedback shown under the prompt. It clears on
	// the next key press.
	Message string

	width int
}

func NewPromptDialog(title string, lines []string, prompt, dialogKeys string) *PromptDialog {
	m := NewMenu()
	m.SetDialog(lines, prompt, dialogKeys)
	return &PromptDialog{Menu: m, Title: title}
}

// SetSize reserves rows for the title, the prompt and the frame; the rest
// goes to the scrolling text.
func (d *PromptDialog) SetSize(width, height int) {
	d.width = width
	pageLen := height - 5
	if pageLen < 1 {
		pageLen = 1
	}
	d.Menu.SetSize(width-4, pageLen)
}

// HandleKeyPress processes one key press. Returns true once the dialog is
// finished and the caller should read Choice.
func (d *PromptDialog) HandleKeyPress(msg tea.KeyMsg) bool {
	d.Message = ""

	if op, ok := d.Menu.DialogKey(msg); ok {
		if i, ok := keys.DialogIndex(op); ok {
			d.Choice = i + 1
			d.Done = true
			return true
		}
	}

	op, ok := keys.Resolve(msg.String(), false)
	if !ok {
		return false
	}
	op = TranslateOp(op)

	if r := d.Menu.HandleOp(op); r != ResultUnknown {
		return false
	}

	switch op {
	case keys.OpExit:
		d.Choice = 0
		d.Done = true
		return true
	case keys.OpJump:
		d.Message = "Jumping is not implemented for dialogs"
	}
	return false
}

// Render draws the dialog as a bordered box.
func (d *PromptDialog) Render() string {
	parts := []string{
		promptTitleStyle.Render(d.Title),
		d.Menu.View(),
	}
	if d.Message != "" {
		parts = append(parts, promptMsgStyle.Render(d.Message))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)
	box := promptBoxStyle
	if d.width > 0 {
		box = box.Width(d.width - 2)
	}
	return box.Render(content)
}
