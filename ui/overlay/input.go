package overlay

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InputOverlay is a single-line prompt with history recall on the arrow
// keys, used for the browser's chdir/mask/jump style questions.
type InputOverlay struct {
	input     textinput.Model
	Title     string
	Submitted bool
	Canceled  bool

	history []string // oldest first; histPos == len(history) edits the draft
	histPos int
	draft   string

	width   int
	sizeSet bool // true after the first SetSize call
}

// NewInputOverlay creates a prompt titled title with an initial value and
// the cursor at the end of it.
func NewInputOverlay(title, initial string) *InputOverlay {
	ti := textinput.New()
	ti.SetValue(initial)
	ti.Focus()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.CursorEnd()

	return &InputOverlay{
		input:   ti,
		Title:   title,
		histPos: 0,
	}
}

// SetHistory installs the recallable entries, oldest first.
func (o *InputOverlay) SetHistory(entries []string) {
	o.history = entries
	o.histPos = len(entries)
}

func (o *InputOverlay) SetSize(width, height int) {
	if o.sizeSet {
		return // ignore resize events after initial sizing
	}
	o.sizeSet = true
	o.width = width
}

// HandleKeyPress processes a key press and updates the state accordingly.
// Returns true if the overlay should be closed.
func (o *InputOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		o.Canceled = true
		return true
	case tea.KeyEnter:
		o.Submitted = true
		return true
	case tea.KeyUp, tea.KeyCtrlP:
		o.recall(-1)
		return false
	case tea.KeyDown, tea.KeyCtrlN:
		o.recall(1)
		return false
	default:
		o.input, _ = o.input.Update(msg)
		return false
	}
}

// recall steps through the history. Leaving the newest slot saves the line
// being typed; coming back restores it.
func (o *InputOverlay) recall(step int) {
	if len(o.history) == 0 {
		return
	}
	next := o.histPos + step
	if next < 0 || next > len(o.history) {
		return
	}
	if o.histPos == len(o.history) {
		o.draft = o.input.Value()
	}
	o.histPos = next
	if next == len(o.history) {
		o.input.SetValue(o.draft)
	} else {
		o.input.SetValue(o.history[next])
	}
	o.input.CursorEnd()
}

// GetValue returns the current value of the text input.
func (o *InputOverlay) GetValue() string {
	return o.input.Value()
}

// Render renders the prompt as a single bordered line.
func (o *InputOverlay) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorIris).
		Padding(0, 1)

	titleStyle := lipgloss.NewStyle().
		Foreground(colorGold)

	w := o.width
	if w < 40 {
		w = 40
	}
	o.input.Width = w - 6

	return style.Render(titleStyle.Render(o.Title) + o.input.View())
}
