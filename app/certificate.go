package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmllorens/cartero/ui"
)

// CertChoice is the outcome of a certificate verification dialog.
type CertChoice int

const (
	// CertReject refuses the certificate; the connection is dropped.
	CertReject CertChoice = iota
	// CertOnce accepts the certificate for this session only.
	CertOnce
	// CertAlways accepts the certificate and saves it.
	CertAlways
	// CertSkip skips verification for this connection.
	CertSkip
)

// CertPrompt asks the user what to do with a server certificate that
// failed verification. The certificate fields scroll as dialog lines;
// the answer is one of the prompt letters. Rejecting is also what an
// abort (Esc) means.
type CertPrompt struct {
	Dialog *ui.PromptDialog

	allowAlways bool
	allowSkip   bool
}

// NewCertPrompt builds the dialog over the certificate's display lines.
// The offered choices depend on what the caller can honor: saving the
// certificate needs a writable certificate file, skipping needs the
// account to allow it.
func NewCertPrompt(title string, lines []string, allowAlways, allowSkip bool) *CertPrompt {
	var prompt, letters string
	switch {
	case allowAlways && allowSkip:
		prompt = "(r)eject, accept (o)nce, (a)ccept always, (s)kip"
		letters = "roas"
	case allowAlways:
		prompt = "(r)eject, accept (o)nce, (a)ccept always"
		letters = "roa"
	case allowSkip:
		prompt = "(r)eject, accept (o)nce, (s)kip"
		letters = "ros"
	default:
		prompt = "(r)eject, accept (o)nce"
		letters = "ro"
	}
	return &CertPrompt{
		Dialog:      ui.NewPromptDialog(title, lines, prompt, letters),
		allowAlways: allowAlways,
		allowSkip:   allowSkip,
	}
}

// HandleKeyPress processes one key press. Returns true once a choice
// was made or the dialog aborted; read Choice afterwards.
func (c *CertPrompt) HandleKeyPress(msg tea.KeyMsg) bool {
	return c.Dialog.HandleKeyPress(msg)
}

// Choice maps the picked prompt letter to its meaning. The third
// letter means skip when always was not offered.
func (c *CertPrompt) Choice() CertChoice {
	switch c.Dialog.Choice {
	case 2:
		return CertOnce
	case 3:
		if c.allowAlways {
			return CertAlways
		}
		return CertSkip
	case 4:
		return CertSkip
	default:
		return CertReject
	}
}

// SetSize lays the dialog out for the terminal size.
func (c *CertPrompt) SetSize(width, height int) {
	c.Dialog.SetSize(width, height)
}

// Render draws the dialog.
func (c *CertPrompt) Render() string {
	return c.Dialog.Render()
}
