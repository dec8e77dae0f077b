package overlay

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var fileViewBorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorIris).
	Padding(0, 1)

var fileViewTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorIris)

var fileViewHintStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

// FileViewOverlay is a scrollable read-only view of one file. Markdown
// files are rendered through glamour; everything else shows as plain
// text.
type FileViewOverlay struct {
	Title string

	raw      string
	markdown bool
	rendered bool

	viewport viewport.Model
	width    int
	height   int
}

// NewFileViewOverlay reads path and prepares the view. The read error is
// returned as-is so the caller can report it.
func NewFileViewOverlay(path string) (*FileViewOverlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	v := &FileViewOverlay{
		Title:    path,
		raw:      string(data),
		markdown: ext == ".md" || ext == ".markdown",
		viewport: viewport.New(0, 0),
	}
	v.viewport.SetContent(v.raw)
	return v, nil
}

// SetSize fits the viewport inside the frame. Markdown re-wraps to the
// new width.
func (v *FileViewOverlay) SetSize(width, height int) {
	if width == v.width && height == v.height {
		return
	}
	v.width = width
	v.height = height

	pageLen := height - 4
	if pageLen < 1 {
		pageLen = 1
	}
	v.viewport.Width = width - 4
	v.viewport.Height = pageLen

	if !v.markdown {
		return
	}
	wordWrap := width - 6
	if wordWrap < 40 {
		wordWrap = 40
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wordWrap),
	)
	if err == nil {
		if rendered, err := renderer.Render(v.raw); err == nil {
			v.viewport.SetContent(rendered)
			v.rendered = true
			return
		}
	}
	// A markdown render failure still shows the file.
	v.viewport.SetContent(v.raw)
}

// HandleKeyPress scrolls the view. Returns true when the overlay should
// close.
func (v *FileViewOverlay) HandleKeyPress(msg tea.KeyMsg) bool {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return true
	case "down", "j", "J":
		v.viewport.LineDown(1)
	case "up", "k", "K":
		v.viewport.LineUp(1)
	case "pgdown", "ctrl+f", " ":
		v.viewport.ViewDown()
	case "pgup", "ctrl+b":
		v.viewport.ViewUp()
	case "ctrl+d":
		v.viewport.HalfViewDown()
	case "ctrl+u":
		v.viewport.HalfViewUp()
	case "home", "g":
		v.viewport.GotoTop()
	case "end", "G":
		v.viewport.GotoBottom()
	}
	return false
}

// Render draws the file inside a bordered box with the path on top.
func (v *FileViewOverlay) Render() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		fileViewTitleStyle.Render(v.Title),
		v.viewport.View(),
		fileViewHintStyle.Render("j/k scroll · q close"),
	)
	box := fileViewBorderStyle
	if v.width > 0 {
		box = box.Width(v.width - 2)
	}
	return box.Render(content)
}
