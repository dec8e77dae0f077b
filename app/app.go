package app

import (
	"context"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/jmllorens/cartero/browser"
	"github.com/jmllorens/cartero/config"
	"github.com/jmllorens/cartero/config/history"
	"github.com/jmllorens/cartero/keys"
	"github.com/jmllorens/cartero/log"
	"github.com/jmllorens/cartero/mail"
	"github.com/jmllorens/cartero/ui"
)

// Version is stamped by main; shown by the version op.
var Version = "dev"

// Options selects what the picker is asked for.
type Options struct {
	// File pre-fills the selection path or prefix.
	File string
	// Mailboxes opens on the mailbox list.
	Mailboxes bool
	// Multiple allows tagging several entries.
	Multiple bool
}

// Run opens the browser full screen and blocks until a selection is
// committed or the dialog is quit. Returns the committed paths, empty
// when the user backed out.
func Run(ctx context.Context, cfg *config.Config, opts Options) ([]string, error) {
	// Set the terminal's default background to the theme base color so every
	// ANSI reset and unstyled cell falls back to #232136 instead of black.
	restore := ui.SetTerminalBackground(string(ui.ColorBase))
	defer restore()

	zone.NewGlobal()

	h, err := newHome(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	defer h.close()

	p := tea.NewProgram(
		h,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return nil, err
	}
	return h.results(), nil
}

type state int

const (
	// stateBrowser is the state when the browser dialog has the keys.
	stateBrowser state = iota
	// stateHelp is the state when a help screen is displayed.
	stateHelp
)

type home struct {
	ctx context.Context

	// appConfig stores persistent application configuration
	appConfig *config.Config
	// appState stores persistent application state like seen help screens
	appState config.AppState

	sess   *browser.Session
	dialog *browser.Dialog
	hist   history.Store

	state       state
	helpContent string

	statusBar *ui.StatusBar
	msgLine   *ui.MsgLine

	width  int
	height int
}

func newHome(ctx context.Context, cfg *config.Config, opts Options) (*home, error) {
	appState := config.LoadState()

	registry := mail.NewRegistry()
	for _, def := range cfg.ExpandedMailboxes() {
		registry.Add(&mail.Mailbox{Path: def.Path, Name: def.Name})
	}
	registry.CheckNew()

	lister := &browser.Lister{
		Registry:            registry,
		Folder:              cfg.Folder,
		AbbreviateMailboxes: cfg.AreMailboxesAbbreviated(),
	}

	hist := openHistory()

	sess := &browser.Session{LastDir: appState.GetLastDir()}

	dialog, err := browser.New(cfg, sess, lister, hist, browser.Options{
		File:      opts.File,
		Mailboxes: opts.Mailboxes,
		Folder:    true,
		Multiple:  opts.Multiple,
	})
	if err != nil {
		hist.Close()
		return nil, err
	}
	dialog.EnableMouse()

	h := &home{
		ctx:       ctx,
		appConfig: cfg,
		appState:  appState,
		sess:      sess,
		dialog:    dialog,
		hist:      hist,
		statusBar: ui.NewStatusBar(),
		msgLine:   ui.NewMsgLine(),
	}
	return h, nil
}

// openHistory opens the prompt-history store under the config dir,
// degrading to the in-memory no-op store when that fails.
func openHistory() history.Store {
	configDir, err := config.GetConfigDir()
	if err != nil {
		log.WarningLog.Printf("prompt history disabled: %v", err)
		return history.NopStore()
	}
	store, err := history.NewSQLiteStore(filepath.Join(configDir, "history.db"))
	if err != nil {
		log.WarningLog.Printf("prompt history disabled: %v", err)
		return history.NopStore()
	}
	return store
}

func (m *home) close() {
	if err := m.hist.Close(); err != nil {
		log.WarningLog.Printf("failed to close history store: %v", err)
	}
}

// results returns the committed selection once the program has quit.
func (m *home) results() []string {
	if files := m.dialog.Files(); len(files) > 0 {
		return files
	}
	if f := m.dialog.File(); f != "" {
		return []string{f}
	}
	return nil
}

func (m *home) Init() tea.Cmd {
	if m.dialog.Multiple() {
		m.showHelpScreen(helpTypeMultiSelect{})
	}
	return nil
}

func (m *home) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.dialog.SetSize(msg.Width, msg.Height-2)
		m.statusBar.SetSize(msg.Width)
		m.msgLine.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.MouseMsg:
		if m.state == stateBrowser && m.dialog.HandleMouse(msg) {
			return m.finish()
		}
		return m, nil
	case ui.MsgTickMsg:
		if m.msgLine.Active() {
			return m, msgTick()
		}
		return m, nil
	}
	return m, nil
}

func (m *home) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.state == stateHelp {
		return m.handleHelpState(msg)
	}

	// App-level ops are picked off only while the dialog's listing has
	// the keys; an open prompt keeps every key to itself.
	if !m.dialog.Busy() {
		if op, ok := keys.Resolve(msg.String(), false); ok {
			switch op {
			case keys.OpHelp:
				return m.showHelpScreen(helpTypeGeneral{})
			case keys.OpVersion:
				m.msgLine.Info("cartero " + Version)
				return m, msgTick()
			}
		}
	}

	if m.dialog.HandleKeyPress(msg) {
		return m.finish()
	}
	return m, nil
}

// finish saves the session location and quits the program.
func (m *home) finish() (tea.Model, tea.Cmd) {
	if err := m.appState.SetLastDir(m.sess.LastDir); err != nil {
		log.WarningLog.Printf("failed to save state: %v", err)
	}
	return m, tea.Quit
}

func msgTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg {
		return ui.MsgTickMsg{}
	})
}

func (m *home) View() string {
	if m.state == stateHelp {
		return m.renderHelp()
	}

	m.statusBar.SetData(m.dialog.Status())
	parts := []string{m.dialog.View()}
	if line := m.msgLine.View(); line != "" {
		parts = append(parts, line)
	}
	parts = append(parts, m.statusBar.String())

	view := lipgloss.JoinVertical(lipgloss.Left, parts...)
	return zone.Scan(ui.FillBackground(view, m.width, m.height, ui.ColorBase))
}
