package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// StatusBarData holds the contextual information displayed in the status bar.
type StatusBarData struct {
	Dir       string // directory on display, abbreviated
	Mask      string // active file mask
	Sort      string // sort order, e.g. "alpha" or "reverse-date"
	Mailboxes bool   // mailbox list rather than a directory
	NewMail   int    // watched mailboxes with new mail
	Tagged    int    // tagged entries, shown only in multi-select mode
}

// StatusBar is the bottom status bar component.
type StatusBar struct {
	width int
	data  StatusBarData
}

// NewStatusBar creates a new StatusBar.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetSize sets the terminal width for the status bar.
func (s *StatusBar) SetSize(width int) {
	s.width = width
}

// SetData updates the status bar content.
func (s *StatusBar) SetData(data StatusBarData) {
	s.data = data
}

var statusBarStyle = lipgloss.NewStyle().
	Background(ColorSurface).
	Foreground(ColorText).
	Padding(0, 1)

var statusBarAppNameStyle = lipgloss.NewStyle().
	Foreground(ColorIris).
	Background(ColorSurface).
	Bold(true)

var statusBarSepStyle = lipgloss.NewStyle().
	Foreground(ColorOverlay).
	Background(ColorSurface)

var statusBarDirStyle = lipgloss.NewStyle().
	Foreground(ColorFoam).
	Background(ColorSurface)

var statusBarMaskStyle = lipgloss.NewStyle().
	Foreground(ColorText).
	Background(ColorSurface)

var statusBarSortStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle).
	Background(ColorSurface)

var statusBarNewMailStyle = lipgloss.NewStyle().
	Foreground(ColorGold).
	Background(ColorSurface)

var statusBarTaggedStyle = lipgloss.NewStyle().
	Foreground(ColorRose).
	Background(ColorSurface)

const statusBarSep = " │ "

func (s *StatusBar) String() string {
	if s.width < 10 {
		return ""
	}

	parts := make([]string, 0, 6)
	parts = append(parts, statusBarAppNameStyle.Render("cartero"))

	if s.data.Mailboxes {
		parts = append(parts, statusBarDirStyle.Render("mailboxes"))
	} else if s.data.Dir != "" {
		parts = append(parts, statusBarDirStyle.Render(s.data.Dir))
	}

	if !s.data.Mailboxes && s.data.Mask != "" {
		parts = append(parts, statusBarMaskStyle.Render("mask "+s.data.Mask))
	}

	if s.data.Sort != "" {
		parts = append(parts, statusBarSortStyle.Render("sort "+s.data.Sort))
	}

	if s.data.NewMail > 0 {
		parts = append(parts, statusBarNewMailStyle.Render(fmt.Sprintf("✉ %d new", s.data.NewMail)))
	}

	if s.data.Tagged > 0 {
		parts = append(parts, statusBarTaggedStyle.Render(fmt.Sprintf("%d tagged", s.data.Tagged)))
	}

	sep := statusBarSepStyle.Render(statusBarSep)
	content := strings.Join(parts, sep)

	// Drop trailing segments rather than wrapping when the bar overflows.
	for len(parts) > 1 && ansi.StringWidth(content) > s.width-2 {
		parts = parts[:len(parts)-1]
		content = strings.Join(parts, sep)
	}

	return statusBarStyle.Width(s.width).Render(content)
}
