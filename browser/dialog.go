package browser

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/truncate"

	"github.com/jmllorens/cartero/config"
	"github.com/jmllorens/cartero/config/history"
	"github.com/jmllorens/cartero/internal/paths"
	"github.com/jmllorens/cartero/keys"
	"github.com/jmllorens/cartero/log"
	"github.com/jmllorens/cartero/mail"
	"github.com/jmllorens/cartero/ui"
	"github.com/jmllorens/cartero/ui/overlay"
)

var (
	dialogTitleStyle = lipgloss.NewStyle().
				Background(ui.ColorSurface).
				Foreground(ui.ColorText).
				Bold(true).
				Padding(0, 1)

	dialogPromptStyle = lipgloss.NewStyle().Foreground(ui.ColorGold)
	dialogErrorStyle  = lipgloss.NewStyle().Foreground(ui.ColorLove)
	dialogInfoStyle   = lipgloss.NewStyle().Foreground(ui.ColorFoam)
	dialogHintStyle   = lipgloss.NewStyle().Foreground(ui.ColorMuted)
)

// Options selects the flavor of browser dialog to open.
type Options struct {
	// File pre-fills the selection: its directory part becomes the
	// starting directory and its base name a prefix filter.
	File string
	// Mailboxes starts on the mailbox list instead of a directory.
	Mailboxes bool
	// Folder marks folder selection, which reopens where the browser
	// last was instead of the working directory.
	Folder bool
	// Multiple allows tagging several entries and committing them all.
	Multiple bool
	// CurrentFolder is the mailbox open behind the dialog. It seeds the
	// starting directory and is protected from deletion.
	CurrentFolder string
}

// Dialog is one open file or mailbox browser. It owns the listing, the
// menu cursor over it and the prompt state, and turns key presses into
// operations dispatched over its window tree. When Done is set the
// selection is in File or Files.
type Dialog struct {
	cfg    *config.Config
	sess   *Session
	lister *Lister
	hist   history.Store

	state State
	menu  *ui.Menu
	sort  Sort
	mask  *Mask

	root    *ui.Window
	winMenu *ui.Window

	prefix        string
	killPrefix    bool
	multiple      bool
	currentFolder string

	// pending holds operations a handler queued behind its own, run
	// once the trigger finishes.
	pending             []keys.Op
	lastSelectedMailbox int

	input     *overlay.InputOverlay
	inputDone func(string)
	inputKind history.Class

	confirmMsg  string
	confirmDone func(bool)

	choiceMsg  string
	choiceKeys string
	choiceDone func(int)

	view *overlay.FileViewOverlay

	msgText    string
	msgIsError bool

	searchPattern string
	searchReverse bool

	title string
	hint  string

	file  string
	files []string

	width  int
	height int

	// Done marks the dialog finished; no further keys are processed.
	Done bool
}

// New opens a browser over sess's saved location. The returned dialog
// is ready to render; feed it key presses until Done.
func New(cfg *config.Config, sess *Session, lister *Lister, hist history.Store, opts Options) (*Dialog, error) {
	if hist == nil {
		hist = history.NopStore()
	}
	mask, err := ParseMask(cfg.Mask)
	if err != nil {
		return nil, fmt.Errorf("bad mask %q: %w", cfg.Mask, err)
	}
	srt, err := ParseSort(cfg.SortBrowser)
	if err != nil {
		return nil, err
	}

	d := &Dialog{
		cfg:                 cfg,
		sess:                sess,
		lister:              lister,
		hist:                hist,
		menu:                ui.NewMenu(),
		sort:                srt,
		mask:                mask,
		multiple:            opts.Multiple,
		currentFolder:       opts.CurrentFolder,
		lastSelectedMailbox: -1,
		hint:                keyHints(),
	}
	d.state.IsMailboxList = opts.Mailboxes && opts.Folder

	d.root = ui.NewWindow("folder-browser")
	d.root.Handler = ui.HandlerFunc(d.handleBrowserOp)
	d.winMenu = d.root.AddChild(ui.NewWindow("menu"))
	d.winMenu.Handler = ui.HandlerFunc(d.menu.HandleOp)
	d.root.AddChild(ui.NewWindow("status"))

	d.menu.MakeEntry = d.makeRow
	d.menu.Match = d.matchRow

	d.seed(opts)

	if d.state.IsMailboxList {
		if err := d.rescanMailboxes(); err != nil {
			d.errorf("%s", err)
		}
	} else if !d.state.RemoteBrowse {
		if err := d.rescanDirectory(d.sess.LastDir, d.prefix); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", d.sess.LastDir, err)
		}
	}
	d.initMenu()
	return d, nil
}

// seed works out the directory to open from the caller's path hint, the
// session's saved location and the configured folder, in that order.
func (d *Dialog) seed(opts Options) {
	if opts.File != "" {
		file := paths.Expand(opts.File, d.cfg.Folder)
		if isRemotePath(file) {
			if root, err := d.lister.ExamineRemote(&d.state, file); err == nil {
				d.sess.LastDir = root
				d.sort.Apply(&d.state)
			} else {
				d.state.RemoteBrowse = true
				d.errorf("%s", err)
			}
			return
		}
		i := len(file) - 1
		for i > 0 && file[i] != '/' {
			i--
		}
		if i > 0 {
			if file[0] == '/' {
				d.sess.LastDir = file[:i]
			} else {
				d.sess.LastDir = cwd() + "/" + file[:i]
			}
		} else if file[0] == '/' {
			d.sess.LastDir = "/"
		} else {
			d.sess.LastDir = cwd()
		}
		if i <= 0 && file[0] != '/' {
			d.prefix = file
		} else {
			d.prefix = file[i+1:]
		}
		d.killPrefix = true
		return
	}

	if !opts.Folder {
		d.sess.LastDir = cwd()
	} else {
		// Tracking only makes sense for sorts that keep a stable shape
		// across listings.
		track := d.sort.Key == SortDesc || d.sort.Key == SortAlpha || d.sort.Key == SortOrder
		if opts.CurrentFolder != "" {
			if d.sess.LastDir == "" {
				typ, _ := mail.DetectType(opts.CurrentFolder)
				switch typ {
				case mail.TypeIMAP, mail.TypeMaildir, mail.TypeMbox, mail.TypeMH, mail.TypeMmdf:
					if d.cfg.Folder != "" {
						d.sess.LastDir = d.cfg.Folder
					} else if d.cfg.SpoolFile != "" {
						d.sess.SelectDir(d.cfg.SpoolFile)
					}
				default:
					d.sess.SelectDir(opts.CurrentFolder)
				}
			} else if opts.CurrentFolder != d.sess.LastDirBackup {
				d.sess.SelectDir(opts.CurrentFolder)
			}
		}
		if !track {
			d.sess.LastDirBackup = ""
		}
	}

	if !d.state.IsMailboxList && isRemotePath(d.sess.LastDir) {
		if _, err := d.lister.ExamineRemote(&d.state, d.sess.LastDir); err != nil {
			d.state.RemoteBrowse = true
			d.errorf("%s", err)
		}
		d.sort.Apply(&d.state)
	} else {
		d.sess.LastDir = strings.TrimRight(d.sess.LastDir, "/")
		if d.sess.LastDir == "" {
			d.sess.LastDir = cwd()
		}
	}
}

// HandleKeyPress feeds one key press through whichever surface is
// active: the file view, an open prompt, or the menu. Returns true once
// the dialog has finished.
func (d *Dialog) HandleKeyPress(msg tea.KeyMsg) bool {
	if d.Done {
		return true
	}
	d.clearMessage()

	switch {
	case d.view != nil:
		if d.view.HandleKeyPress(msg) {
			d.view = nil
		}
	case d.confirmDone != nil:
		d.handleConfirmKey(msg)
	case d.choiceDone != nil:
		d.handleChoiceKey(msg)
	case d.input != nil:
		d.handleInputKey(msg)
	default:
		d.handleMenuKey(msg)
	}
	return d.Done
}

func (d *Dialog) handleMenuKey(msg tea.KeyMsg) {
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 &&
		msg.Runes[0] >= '1' && msg.Runes[0] <= '9' {
		d.promptJump(string(msg.Runes[0]))
		return
	}
	op, ok := keys.Resolve(msg.String(), true)
	if !ok {
		return
	}
	d.DispatchOp(op)
}

func (d *Dialog) handleConfirmKey(msg tea.KeyMsg) {
	done := d.confirmDone
	switch msg.String() {
	case "y", "Y":
		d.confirmMsg, d.confirmDone = "", nil
		done(true)
	case "n", "N", "esc", "ctrl+c", "enter":
		d.confirmMsg, d.confirmDone = "", nil
		done(false)
	}
}

func (d *Dialog) handleChoiceKey(msg tea.KeyMsg) {
	done := d.choiceDone
	switch {
	case msg.String() == "esc" || msg.String() == "ctrl+c":
		d.choiceMsg, d.choiceKeys, d.choiceDone = "", "", nil
		done(-1)
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		if i := strings.IndexRune(d.choiceKeys, msg.Runes[0]); i >= 0 {
			d.choiceMsg, d.choiceKeys, d.choiceDone = "", "", nil
			done(i + 1)
		}
	}
}

func (d *Dialog) handleInputKey(msg tea.KeyMsg) {
	if !d.input.HandleKeyPress(msg) {
		return
	}
	in, done, kind := d.input, d.inputDone, d.inputKind
	d.input, d.inputDone, d.inputKind = nil, nil, ""
	if !in.Submitted {
		return
	}
	value := in.GetValue()
	if kind != "" && value != "" {
		d.hist.Add(kind, value)
	}
	if done != nil {
		done(value)
	}
}

// DispatchOp resolves op through the window tree, starting at the menu
// and widening to the dialog. Operations nothing claims are reported on
// the message line. Any ops a handler queued run after it.
func (d *Dialog) DispatchOp(op keys.Op) ui.Result {
	r := d.winMenu.Dispatch(op)
	if r == ui.ResultUnknown || r == ui.ResultNotImpl {
		log.WarningLog.Printf("browser: no handler for op %s", op)
		d.errorf("Not available in this menu")
		r = ui.ResultError
	}
	if r == ui.ResultDone {
		d.Done = true
	}
	for len(d.pending) > 0 {
		next := d.pending[0]
		d.pending = d.pending[1:]
		d.winMenu.Dispatch(next)
	}
	return r
}

// promptJump asks for a 1-based entry number. seed pre-fills the prompt
// with the digit that triggered it.
func (d *Dialog) promptJump(seed string) ui.Result {
	if d.menu.Max == 0 {
		d.errorf("No entries")
		return ui.ResultError
	}
	if d.menu.InDialog() {
		d.errorf("Jumping is not implemented for dialogs")
		return ui.ResultError
	}
	d.openInput("Jump to: ", seed, "", func(value string) {
		if value == "" {
			return
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > d.menu.Max {
			d.errorf("Invalid index number")
			return
		}
		d.menu.SetIndex(n - 1)
	})
	return ui.ResultSuccess
}

// openInput replaces the bottom line with a text prompt. class selects
// the history ring offered on the arrow keys; empty means none.
func (d *Dialog) openInput(title, initial string, class history.Class, done func(string)) {
	in := overlay.NewInputOverlay(title, initial)
	if class != "" {
		if entries, err := d.hist.List(class, 0); err == nil {
			in.SetHistory(entries)
		}
	}
	in.SetSize(d.width, d.height)
	d.input = in
	d.inputKind = class
	d.inputDone = done
}

// openConfirm asks a yes/no question defaulting to no.
func (d *Dialog) openConfirm(msg string, done func(bool)) {
	d.confirmMsg = msg
	d.confirmDone = done
}

// openChoice asks a single-letter question. done receives the 1-based
// index into letters, or -1 on abort.
func (d *Dialog) openChoice(msg, letters string, done func(int)) {
	d.choiceMsg = msg
	d.choiceKeys = letters
	d.choiceDone = done
}

// rescanDirectory scans dir and sorts the listing. The previous listing
// survives a failed scan.
func (d *Dialog) rescanDirectory(dir, prefix string) error {
	if _, err := d.lister.ExamineDirectory(&d.state, dir, prefix, d.mask); err != nil {
		return err
	}
	d.sort.Apply(&d.state)
	return nil
}

// rescanMailboxes rebuilds the mailbox listing and sorts it.
func (d *Dialog) rescanMailboxes() error {
	if err := d.lister.ExamineMailboxes(&d.state); err != nil {
		return err
	}
	d.sort.Apply(&d.state)
	return nil
}

// relistRemote rebuilds the listing from the remote account rooted at
// path. A failed listing leaves an empty remote view, reported but not
// fatal.
func (d *Dialog) relistRemote(path string) {
	if _, err := d.lister.ExamineRemote(&d.state, path); err != nil {
		d.state.Reset()
		d.state.RemoteBrowse = true
		d.errorf("%s", err)
	}
	d.sort.Apply(&d.state)
}

// initMenu resizes the menu to the current listing and rebuilds the
// title. When the previously selected path sits inside the listed
// directory the cursor goes back on it, otherwise to the default
// highlight.
func (d *Dialog) initMenu() {
	d.menu.SetMax(d.state.Len())
	if d.menu.Top > d.menu.Current {
		d.menu.Top = 0
	}
	d.menu.NumTagged = 0

	if d.state.IsMailboxList {
		d.title = fmt.Sprintf("Mailboxes [%d]", d.newMailCount())
	} else {
		pretty := paths.Pretty(d.sess.LastDir, d.cfg.Folder)
		if d.state.RemoteBrowse && d.cfg.ImapListSubscribed {
			d.title = fmt.Sprintf("Subscribed [%s], File mask: %s", pretty, d.mask.Pattern())
		} else {
			d.title = fmt.Sprintf("Directory [%s], File mask: %s", pretty, d.mask.Pattern())
		}
	}

	if strings.HasPrefix(d.sess.LastDirBackup, d.sess.LastDir) {
		target := d.sess.LastDirBackup
		if !isRemotePath(target) {
			if i := strings.LastIndexByte(target, '/'); i >= 0 {
				target = target[i+1:]
			}
		}
		for i := range d.state.Entries {
			if d.state.Entries[i].Name == target {
				d.menu.SetIndex(i)
				return
			}
		}
	}
	d.highlightDefault()
}

// highlightDefault puts the cursor on the first entry, skipping a
// leading ".." when there is anything else to land on.
func (d *Dialog) highlightDefault() {
	d.menu.Top = 0
	if d.state.Len() > 1 {
		if e := d.state.At(0); e != nil && isUp(e) {
			d.menu.SetIndex(1)
			return
		}
	}
	d.menu.SetIndex(0)
}

// reselectMailbox puts the cursor back on the mailbox that was selected
// before the view last left the mailbox list.
func (d *Dialog) reselectMailbox() {
	if d.state.IsMailboxList && d.lastSelectedMailbox >= 0 &&
		d.lastSelectedMailbox < d.menu.Max {
		d.menu.SetIndex(d.lastSelectedMailbox)
	}
}

// newMailCount is the number of registered mailboxes with new mail.
func (d *Dialog) newMailCount() int {
	if d.lister.Registry == nil {
		return 0
	}
	n := 0
	for _, mb := range d.lister.Registry.All() {
		if mb.HasNewMail {
			n++
		}
	}
	return n
}

func (d *Dialog) makeRow(i int) string {
	e := d.state.At(i)
	if e == nil {
		return ""
	}
	return FormatEntry(e, i, d.width, d.cfg.FolderFormat, d.cfg.DateFormat, time.Now())
}

func (d *Dialog) matchRow(i int, re *regexp.Regexp) bool {
	e := d.state.At(i)
	return e != nil && re.MatchString(e.Desc)
}

func (d *Dialog) errorf(format string, args ...any) {
	d.msgText = fmt.Sprintf(format, args...)
	d.msgIsError = true
	log.WarningLog.Printf("browser: %s", d.msgText)
}

func (d *Dialog) messagef(format string, args ...any) {
	d.msgText = fmt.Sprintf(format, args...)
	d.msgIsError = false
}

func (d *Dialog) clearMessage() {
	d.msgText = ""
	d.msgIsError = false
}

// Busy reports whether a prompt, confirmation, choice or file view sits
// on top of the listing and is eating the keys.
func (d *Dialog) Busy() bool {
	return d.input != nil || d.confirmDone != nil || d.choiceDone != nil || d.view != nil
}

// EnableMouse turns on bubblezone marks around the menu rows. Call only
// after zone.NewGlobal.
func (d *Dialog) EnableMouse() {
	d.menu.MarkZones = true
}

// HandleMouse scrolls on the wheel and moves the cursor to a clicked
// row, selecting it on a second click of the same row. Returns true
// once the dialog has finished.
func (d *Dialog) HandleMouse(msg tea.MouseMsg) bool {
	if d.Done || d.Busy() {
		return d.Done
	}
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		d.menu.NextEntry()
		return false
	case tea.MouseButtonWheelUp:
		d.menu.PrevEntry()
		return false
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return false
	}
	last := d.menu.Top + d.menu.PageLen
	if last > d.menu.Max {
		last = d.menu.Max
	}
	for i := d.menu.Top; i < last; i++ {
		if !zone.Get(ui.MenuRowZoneID(i)).InBounds(msg) {
			continue
		}
		if i == d.menu.Current {
			d.DispatchOp(keys.OpSelectEntry)
		} else {
			d.menu.SetIndex(i)
		}
		break
	}
	return d.Done
}

// Status summarizes the dialog for the status bar.
func (d *Dialog) Status() ui.StatusBarData {
	return ui.StatusBarData{
		Dir:       paths.Pretty(d.sess.LastDir, d.cfg.Folder),
		Mask:      d.mask.Pattern(),
		Sort:      d.sort.String(),
		Mailboxes: d.state.IsMailboxList,
		NewMail:   d.newMailCount(),
		Tagged:    d.menu.NumTagged,
	}
}

// Multiple reports whether the dialog allows tagging several entries.
func (d *Dialog) Multiple() bool { return d.multiple }

// File returns the committed selection once the dialog is done.
func (d *Dialog) File() string { return d.file }

// Files returns every committed selection in multi-select mode.
func (d *Dialog) Files() []string { return d.files }

// SetSize lays the dialog out for a terminal of width by height cells.
func (d *Dialog) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.menu.SetSize(width, height-2)
	if d.input != nil {
		d.input.SetSize(width, height)
	}
	if d.view != nil {
		d.view.SetSize(width, height)
	}
}

// View renders the title bar, the listing and the bottom line shared by
// messages and prompts. An open file view replaces everything.
func (d *Dialog) View() string {
	if d.view != nil {
		return lipgloss.Place(d.width, d.height,
			lipgloss.Center, lipgloss.Center, d.view.Render())
	}

	title := d.title
	if d.width > 0 {
		title = truncate.StringWithTail(title, uint(d.width), "…")
	}
	parts := []string{
		dialogTitleStyle.Width(d.width).Render(title),
		d.menu.View(),
	}
	switch {
	case d.input != nil:
		parts = append(parts, d.input.Render())
	case d.confirmDone != nil:
		parts = append(parts, dialogPromptStyle.Render(d.confirmMsg+" ([no]/yes): "))
	case d.choiceDone != nil:
		parts = append(parts, dialogPromptStyle.Render(d.choiceMsg))
	case d.msgText != "" && d.msgIsError:
		parts = append(parts, dialogErrorStyle.Render(d.msgText))
	case d.msgText != "":
		parts = append(parts, dialogInfoStyle.Render(d.msgText))
	default:
		parts = append(parts, dialogHintStyle.Render(d.hint))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

var hintOps = []keys.Op{
	keys.OpSelectEntry, keys.OpGotoParent, keys.OpToggleMailboxes,
	keys.OpChangeDirectory, keys.OpEnterMask, keys.OpSort,
	keys.OpHelp, keys.OpExit,
}

func keyHints() string {
	parts := make([]string, 0, len(hintOps))
	for _, op := range hintOps {
		b, ok := keys.OpBindings[op]
		if !ok {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " · ")
}

// concatPath joins dir and name with exactly one slash, without
// cleaning the result.
func concatPath(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

// isRemotePath reports whether path names a folder tree the remote
// account, not the filesystem, must list.
func isRemotePath(path string) bool {
	return mail.SchemeType(path) == mail.TypeIMAP
}

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return "/"
	}
	return dir
}
