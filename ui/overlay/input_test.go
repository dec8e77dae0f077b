package overlay

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
)

func typeString(o *InputOverlay, s string) {
	for _, r := range s {
		o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestInputOverlay_TypeAndSubmit(t *testing.T) {
	o := NewInputOverlay("Chdir to: ", "/home/mika/")
	typeString(o, "Mail")

	closed := o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, closed)
	assert.True(t, o.Submitted)
	assert.False(t, o.Canceled)
	assert.Equal(t, "/home/mika/Mail", o.GetValue())
}

func TestInputOverlay_Cancel(t *testing.T) {
	o := NewInputOverlay("File Mask: ", "!^\\.[^.]")

	closed := o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, closed)
	assert.True(t, o.Canceled)
	assert.False(t, o.Submitted)
}

func TestInputOverlay_HistoryRecall(t *testing.T) {
	o := NewInputOverlay("Chdir to: ", "")
	o.SetHistory([]string{"/tmp", "/var/mail"})
	typeString(o, "dra")

	o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "/var/mail", o.GetValue())
	o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "/tmp", o.GetValue())
	// stepping past the oldest entry stays put
	o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "/tmp", o.GetValue())

	o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "/var/mail", o.GetValue())
	// returning below the newest entry restores the draft
	o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "dra", o.GetValue())
}

func TestInputOverlay_HistoryEmptyIsInert(t *testing.T) {
	o := NewInputOverlay("Jump to: ", "4")
	o.HandleKeyPress(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "4", o.GetValue())
}

func TestInputOverlay_RenderShowsTitleAndValue(t *testing.T) {
	o := NewInputOverlay("New file name: ", "/tmp/draft")
	o.SetSize(60, 3)

	got := o.Render()
	assert.Contains(t, got, "New file name: ")
	assert.Contains(t, got, "/tmp/draft")
}
