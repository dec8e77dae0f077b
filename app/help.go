package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmllorens/cartero/keys"
	"github.com/jmllorens/cartero/log"
	"github.com/jmllorens/cartero/ui"
)

type helpText interface {
	// toContent returns the help UI content.
	toContent() string
	// mask returns the bit mask for this help text. These are used to track
	// which help screens have been seen in the app state.
	mask() uint32
}

type helpTypeGeneral struct{}

// helpTypeMultiSelect is shown the first time the browser opens in
// multi-select mode, since tagging is invisible until you know it exists.
type helpTypeMultiSelect struct{}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(ui.ColorIris)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorFoam)
	keyStyle    = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorGold)
	descStyle   = lipgloss.NewStyle().Foreground(ui.ColorText)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.ColorOverlay).
			Padding(1, 2)
)

// helpLine renders one binding row from the op's binding table entry.
func helpLine(op keys.Op) string {
	b, ok := keys.OpBindings[op]
	if !ok {
		return ""
	}
	h := b.Help()
	pad := 14 - len(h.Key)
	if pad < 1 {
		pad = 1
	}
	line := keyStyle.Render(h.Key)
	for i := 0; i < pad; i++ {
		line += " "
	}
	return line + descStyle.Render("- "+h.Desc)
}

func (h helpTypeGeneral) toContent() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("cartero"),
		"",
		descStyle.Render("browse directories and mailboxes, pick one or several entries."),
		"",
		headerStyle.Render("navigation:"),
		helpLine(keys.OpPrevEntry),
		helpLine(keys.OpNextEntry),
		helpLine(keys.OpSelectEntry),
		helpLine(keys.OpGotoParent),
		helpLine(keys.OpJump),
		helpLine(keys.OpSearch),
		"",
		headerStyle.Render("listing:"),
		helpLine(keys.OpToggleMailboxes),
		helpLine(keys.OpChangeDirectory),
		helpLine(keys.OpEnterMask),
		helpLine(keys.OpSort),
		helpLine(keys.OpSortReverse),
		helpLine(keys.OpCheckNew),
		helpLine(keys.OpViewFile),
		helpLine(keys.OpCopyPath),
		"",
		headerStyle.Render("mailboxes:"),
		helpLine(keys.OpCreateMailbox),
		helpLine(keys.OpDeleteMailbox),
		helpLine(keys.OpRenameMailbox),
		"",
		helpLine(keys.OpHelp),
		helpLine(keys.OpExit),
	)
	return content
}

func (h helpTypeMultiSelect) toContent() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("multiple selection"),
		"",
		descStyle.Render("several entries can be picked in one go:"),
		"",
		helpLine(keys.OpTag),
		helpLine(keys.OpExit),
		"",
		descStyle.Render("quitting with entries tagged commits the whole tagged set;"),
		descStyle.Render("with none tagged, the highlighted entry is committed alone."),
	)
	return content
}

func (h helpTypeGeneral) mask() uint32 {
	return 1
}

func (h helpTypeMultiSelect) mask() uint32 {
	return 1 << 1
}

// showHelpScreen displays the help screen overlay if it hasn't been
// shown before. The general screen always shows.
func (m *home) showHelpScreen(helpType helpText) (tea.Model, tea.Cmd) {
	var alwaysShow bool
	switch helpType.(type) {
	case helpTypeGeneral:
		alwaysShow = true
	}

	flag := helpType.mask()

	if alwaysShow || (m.appState.GetHelpScreensSeen()&flag) == 0 {
		if err := m.appState.SetHelpScreensSeen(m.appState.GetHelpScreensSeen() | flag); err != nil {
			log.WarningLog.Printf("Failed to save help screen state: %v", err)
		}
		m.helpContent = helpType.toContent()
		m.state = stateHelp
	}
	return m, nil
}

// handleHelpState handles key events when in help state. Any key press
// closes the help overlay.
func (m *home) handleHelpState(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.state = stateBrowser
	m.helpContent = ""
	return m, nil
}

// renderHelp centers the help box over the browser.
func (m *home) renderHelp() string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		helpBoxStyle.Render(m.helpContent))
}
