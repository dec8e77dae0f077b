package browser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/jmllorens/cartero/config/history"
	"github.com/jmllorens/cartero/internal/paths"
	"github.com/jmllorens/cartero/keys"
	"github.com/jmllorens/cartero/mail"
	"github.com/jmllorens/cartero/ui"
	"github.com/jmllorens/cartero/ui/overlay"
)

// handleBrowserOp is the dialog-level handler, claiming everything the
// menu's movement handler leaves unclaimed.
func (d *Dialog) handleBrowserOp(op keys.Op) ui.Result {
	switch op {
	case keys.OpJump:
		return d.promptJump("")
	case keys.OpSearch, keys.OpSearchReverse:
		return d.opSearch(op)
	case keys.OpSearchNext, keys.OpSearchOpposite:
		return d.opSearchNext(op)
	case keys.OpTag:
		return d.opTag()
	case keys.OpChangeDirectory, keys.OpGotoParent:
		return d.opChangeDirectory(op)
	case keys.OpGotoFolder, keys.OpToggleMailboxes, keys.OpCheckNew:
		return d.opToggleMailboxes(op)
	case keys.OpSelectEntry, keys.OpDescend:
		return d.opSelectEntry(op)
	case keys.OpEnterMask:
		return d.opEnterMask()
	case keys.OpSort, keys.OpSortReverse:
		return d.opSort(op)
	case keys.OpNewFile:
		return d.opNewFile()
	case keys.OpBrowserTell:
		return d.opTell()
	case keys.OpCopyPath:
		return d.opCopyPath()
	case keys.OpViewFile:
		return d.opViewFile()
	case keys.OpToggleSubscribed:
		return d.opToggleSubscribed()
	case keys.OpSubscribe, keys.OpUnsubscribe:
		return d.opSubscribe(op)
	case keys.OpCreateMailbox:
		return d.opCreateMailbox()
	case keys.OpDeleteMailbox:
		return d.opDeleteMailbox()
	case keys.OpRenameMailbox:
		return d.opRenameMailbox()
	case keys.OpExit:
		return d.opExit()
	}
	return ui.ResultUnknown
}

// opChangeDirectory prompts for a directory to re-list at; the
// goto-parent flavor computes it instead.
func (d *Dialog) opChangeDirectory(op keys.Op) ui.Result {
	buf := d.sess.LastDir
	if !d.state.RemoteBrowse && buf != "" && !strings.HasSuffix(buf, "/") {
		buf += "/"
	}
	if op == keys.OpGotoParent {
		if isRemotePath(buf) {
			d.changeDirectory(remoteParent(buf))
		} else {
			d.changeDirectory(paths.Parent(buf))
		}
		return ui.ResultSuccess
	}
	d.openInput("Chdir to: ", buf, history.ClassFile, func(value string) {
		if value != "" {
			d.changeDirectory(value)
		}
	})
	return ui.ResultSuccess
}

// changeDirectory re-lists at target, resolved relative to the current
// directory. A failed scan falls back to rescanning the old directory;
// losing that too closes the dialog.
func (d *Dialog) changeDirectory(target string) {
	d.state.IsMailboxList = false
	buf := paths.Expand(target, d.cfg.Folder)
	if isRemotePath(buf) {
		d.sess.LastDir = buf
		d.relistRemote(buf)
		d.highlightDefault()
		d.initMenu()
		return
	}
	if buf[0] != '/' {
		buf = concatPath(d.sess.LastDir, buf)
	}
	if resolved, err := paths.Realpath(buf); err == nil {
		buf = resolved
	}
	fi, err := os.Stat(buf)
	if err != nil {
		d.errorf("%s: %s", buf, sysError(err))
		return
	}
	if !fi.IsDir() {
		d.errorf("%s is not a directory", buf)
		return
	}
	if err := d.rescanDirectory(buf, d.prefix); err == nil {
		d.sess.LastDir = buf
	} else {
		d.errorf("Error scanning directory")
		if err := d.rescanDirectory(d.sess.LastDir, d.prefix); err != nil {
			d.Done = true
			return
		}
	}
	d.highlightDefault()
	d.initMenu()
}

// opCreateMailbox makes a new folder on the remote account and
// re-lists.
func (d *Dialog) opCreateMailbox() ui.Result {
	if !d.state.RemoteBrowse || d.lister.Remote == nil {
		d.errorf("Create is only supported for IMAP mailboxes")
		return ui.ResultError
	}
	d.openInput("Create mailbox: ", d.sess.LastDir, history.ClassFile, func(value string) {
		if value == "" {
			return
		}
		if err := d.lister.Remote.CreateFolder(value); err != nil {
			d.errorf("%s", err)
			return
		}
		d.messagef("Mailbox created")
		d.relistRemote(d.sess.LastDir)
		d.highlightDefault()
		d.initMenu()
	})
	return ui.ResultSuccess
}

// opDeleteMailbox removes the highlighted remote folder after a
// confirmation that defaults to no.
func (d *Dialog) opDeleteMailbox() ui.Result {
	e := d.state.At(d.menu.Current)
	if e == nil || !e.Remote || d.lister.Remote == nil {
		d.errorf("Delete is only supported for IMAP mailboxes")
		return ui.ResultError
	}
	if d.currentFolder == e.Name {
		d.errorf("Can't delete currently selected mailbox")
		return ui.ResultError
	}
	name := e.Name
	index := d.menu.Current
	d.openConfirm(fmt.Sprintf("Really delete mailbox \"%s\"?", name), func(yes bool) {
		if !yes {
			d.messagef("Mailbox not deleted")
			return
		}
		if err := d.lister.Remote.DeleteFolder(name); err != nil {
			d.errorf("Mailbox deletion failed")
			return
		}
		d.state.Remove(index)
		d.messagef("Mailbox deleted")
		d.initMenu()
	})
	return ui.ResultSuccess
}

// opRenameMailbox renames the highlighted remote folder and re-lists.
func (d *Dialog) opRenameMailbox() ui.Result {
	e := d.state.At(d.menu.Current)
	if e == nil || !e.Remote || d.lister.Remote == nil {
		d.errorf("Rename is only supported for IMAP mailboxes")
		return ui.ResultError
	}
	oldName := e.Name
	d.openInput(fmt.Sprintf("Rename mailbox %s to: ", oldName), oldName,
		history.ClassFile, func(value string) {
			if value == "" || value == oldName {
				return
			}
			if err := d.lister.Remote.RenameFolder(oldName, value); err != nil {
				d.errorf("Rename failed: %s", err)
				return
			}
			d.messagef("Mailbox renamed")
			d.relistRemote(d.sess.LastDir)
			d.highlightDefault()
			d.initMenu()
		})
	return ui.ResultSuccess
}

// opSelectEntry descends into directories and commits files. Descend
// insists on a directory; plain select treats a directory that probes
// as a mailbox as selectable.
func (d *Dialog) opSelectEntry(op keys.Op) ui.Result {
	if d.state.Len() == 0 {
		d.errorf("No files match the file mask")
		return ui.ResultError
	}
	e := d.state.At(d.menu.Current)
	if e == nil {
		return ui.ResultError
	}

	if e.Mode.IsDir() ||
		(e.Mode&fs.ModeSymlink != 0 && linkIsDir(d.sess.LastDir, e.Name)) ||
		e.HasChildren {
		typ, err := mail.DetectType(d.entryPath(e))
		if op == keys.OpDescend || err != nil || typ == mail.TypeUnknown || e.HasChildren {
			d.descend(e)
			return ui.ResultSuccess
		}
	} else if op == keys.OpDescend {
		d.errorf("%s is not a directory", e.Name)
		return ui.ResultError
	}

	d.file = d.entryPath(e)
	return d.opExit()
}

// descend re-lists inside e, special-casing ".." to strip the last
// path segment. A failed scan restores the previous directory; losing
// that too falls back to the home directory and closes the dialog.
func (d *Dialog) descend(e *Entry) {
	oldLastDir := d.sess.LastDir
	wasRemote := d.state.RemoteBrowse

	switch {
	case e.Name == "..":
		d.sess.LastDir = parentStep(d.sess.LastDir)
	case d.state.IsMailboxList:
		d.sess.LastDir = paths.Expand(e.Name, d.cfg.Folder)
	case wasRemote:
		dir := e.Name
		if e.Delim != 0 && remoteFolderPath(e.Name) != "" {
			dir += string(e.Delim)
		}
		d.sess.LastDir = dir
	default:
		d.sess.LastDir = concatPath(d.sess.LastDir, e.Name)
	}

	if d.killPrefix {
		d.prefix = ""
		d.killPrefix = false
	}
	d.state.IsMailboxList = false

	if wasRemote {
		d.relistRemote(d.sess.LastDir)
	} else if err := d.rescanDirectory(d.sess.LastDir, d.prefix); err != nil {
		d.sess.LastDir = oldLastDir
		if err := d.rescanDirectory(d.sess.LastDir, d.prefix); err != nil {
			d.sess.LastDir = homeDir()
			d.Done = true
			return
		}
	}
	if !wasRemote {
		if resolved, err := paths.Realpath(d.sess.LastDir); err == nil {
			d.sess.LastDir = resolved
		}
	}
	d.highlightDefault()
	d.initMenu()
	d.sess.GotoSwapper = ""
}

// opEnterMask prompts for a new file mask and re-lists with it. A blank
// mask means match everything.
func (d *Dialog) opEnterMask() ui.Result {
	d.openInput("File Mask: ", d.cfg.Mask, history.ClassMask, func(value string) {
		d.state.IsMailboxList = false
		if value == "" {
			value = "."
		}
		if err := d.cfg.Set("mask", value); err != nil {
			d.errorf("%s", err)
			return
		}
		mask, err := ParseMask(d.cfg.Mask)
		if err != nil {
			d.errorf("%s", err)
			return
		}
		d.mask = mask

		remote := d.state.RemoteBrowse
		if remote {
			d.relistRemote(d.sess.LastDir)
			d.initMenu()
		} else if err := d.rescanDirectory(d.sess.LastDir, ""); err != nil {
			d.errorf("Error scanning directory")
			d.Done = true
			return
		} else {
			d.initMenu()
		}
		d.killPrefix = false
		if d.state.Len() == 0 {
			d.errorf("No files match the file mask")
		}
	})
	return ui.ResultSuccess
}

// opExit closes the dialog, committing the tagged set in multi-select
// mode.
func (d *Dialog) opExit() ui.Result {
	if d.multiple {
		if d.menu.NumTagged > 0 {
			d.files = d.files[:0]
			for i := range d.state.Entries {
				e := &d.state.Entries[i]
				if e.Tagged {
					d.files = append(d.files, paths.Expand(d.entryPath(e), d.cfg.Folder))
				}
			}
		} else if d.file != "" {
			d.file = paths.Expand(d.file, d.cfg.Folder)
			d.files = []string{d.file}
		}
	}
	return ui.ResultDone
}

// opNewFile prompts for a path that need not exist yet and commits it.
func (d *Dialog) opNewFile() ui.Result {
	d.openInput("New file name: ", d.sess.LastDir+"/", history.ClassFile, func(value string) {
		d.file = value
		d.Done = true
	})
	return ui.ResultSuccess
}

// sortChoices maps the "dazecwn" prompt letters to sort keys.
var sortChoices = []SortKey{
	SortDate, SortAlpha, SortSize, SortDesc, SortCount, SortUnread, SortOrder,
}

// opSort asks for a sort key, stores the choice and re-sorts the
// listing in place.
func (d *Dialog) opSort(op keys.Op) ui.Result {
	reverse := op == keys.OpSortReverse
	msg := "Sort by (d)ate, (a)lpha, si(z)e, d(e)scription, (c)ount, ne(w) count, or do(n)'t sort?"
	if reverse {
		msg = "Reverse sort by (d)ate, (a)lpha, si(z)e, d(e)scription, (c)ount, ne(w) count, or do(n)'t sort?"
	}
	d.openChoice(msg, "dazecwn", func(choice int) {
		if choice < 1 {
			return
		}
		d.sort = Sort{Key: sortChoices[choice-1], Reverse: reverse}
		if err := d.cfg.Set("sort_browser", d.sort.String()); err != nil {
			d.errorf("%s", err)
			return
		}
		d.sort.Apply(&d.state)
		d.highlightDefault()
	})
	return ui.ResultSuccess
}

// opSubscribe flips the subscription of the highlighted remote folder.
func (d *Dialog) opSubscribe(op keys.Op) ui.Result {
	e := d.state.At(d.menu.Current)
	if e == nil || !d.state.RemoteBrowse || d.lister.Remote == nil {
		d.errorf("Bad mailbox name")
		return ui.ResultError
	}
	subscribe := op == keys.OpSubscribe
	if subscribe {
		d.messagef("Subscribing to %s...", e.Name)
	} else {
		d.messagef("Unsubscribing from %s...", e.Name)
	}
	path := paths.Expand(e.Name, d.cfg.Folder)
	if err := d.lister.Remote.Subscribe(path, subscribe); err != nil {
		d.errorf("%s", err)
		return ui.ResultError
	}
	return ui.ResultSuccess
}

// opTell shows the full name of the highlighted entry.
func (d *Dialog) opTell() ui.Result {
	e := d.state.At(d.menu.Current)
	if e == nil {
		return ui.ResultError
	}
	d.messagef("%s", e.Name)
	return ui.ResultSuccess
}

// opToggleSubscribed switches the remote listing between all folders
// and subscribed ones, then queues a re-list.
func (d *Dialog) opToggleSubscribed() ui.Result {
	d.cfg.ImapListSubscribed = !d.cfg.ImapListSubscribed
	d.pending = append(d.pending, keys.OpCheckNew)
	return ui.ResultSuccess
}

// opToggleMailboxes flips between the directory view and the mailbox
// list, and handles the goto-folder jump with its swap-back slot. The
// check-new flavor just re-lists.
func (d *Dialog) opToggleMailboxes(op keys.Op) ui.Result {
	if d.state.IsMailboxList {
		d.lastSelectedMailbox = d.menu.Current
	}
	if op == keys.OpToggleMailboxes {
		d.state.IsMailboxList = !d.state.IsMailboxList
	}
	if op == keys.OpGotoFolder && d.cfg.Folder != "" {
		if d.sess.GotoSwapper == "" {
			if d.sess.LastDir != d.cfg.Folder {
				d.sess.GotoSwapper = d.sess.LastDir
				d.sess.LastDirBackup = d.sess.LastDir
				d.sess.LastDir = d.cfg.Folder
			}
		} else {
			d.sess.LastDirBackup = d.sess.LastDir
			d.sess.LastDir = d.sess.GotoSwapper
			d.sess.GotoSwapper = ""
		}
	}
	d.prefix = ""
	d.killPrefix = false

	switch {
	case d.state.IsMailboxList:
		if err := d.rescanMailboxes(); err != nil {
			d.errorf("%s", err)
		}
	case isRemotePath(d.sess.LastDir):
		d.relistRemote(d.sess.LastDir)
	default:
		if err := d.rescanDirectory(d.sess.LastDir, d.prefix); err != nil {
			d.Done = true
			return ui.ResultDone
		}
	}
	d.initMenu()
	d.reselectMailbox()
	return ui.ResultSuccess
}

// opViewFile pages through the highlighted file. A selectable remote
// folder is committed instead, matching select.
func (d *Dialog) opViewFile() ui.Result {
	if d.state.Len() == 0 {
		d.errorf("No files match the file mask")
		return ui.ResultError
	}
	e := d.state.At(d.menu.Current)
	if e == nil {
		return ui.ResultError
	}
	if e.Selectable {
		d.file = e.Name
		d.Done = true
		return ui.ResultDone
	}
	if e.Mode.IsDir() || (e.Mode&fs.ModeSymlink != 0 && linkIsDir(d.sess.LastDir, e.Name)) {
		d.errorf("Can't view a directory")
		return ui.ResultError
	}
	view, err := overlay.NewFileViewOverlay(concatPath(d.sess.LastDir, e.Name))
	if err != nil {
		d.errorf("Error trying to view file")
		return ui.ResultError
	}
	view.SetSize(d.width, d.height)
	d.view = view
	return ui.ResultSuccess
}

// opCopyPath puts the highlighted entry's full path on the system
// clipboard.
func (d *Dialog) opCopyPath() ui.Result {
	e := d.state.At(d.menu.Current)
	if e == nil {
		d.errorf("No entries")
		return ui.ResultError
	}
	full := d.entryPath(e)
	if err := clipboard.WriteAll(full); err != nil {
		d.errorf("%s", err)
		return ui.ResultError
	}
	d.messagef("Copied %s", full)
	return ui.ResultSuccess
}

// opTag toggles the highlighted entry's tag and advances the cursor.
// Directories cannot be tagged; they cannot be attached.
func (d *Dialog) opTag() ui.Result {
	if !d.multiple {
		d.errorf("Tagging is not supported")
		return ui.ResultError
	}
	if d.menu.Max == 0 {
		d.errorf("No entries")
		return ui.ResultError
	}
	e := d.state.At(d.menu.Current)
	if e == nil {
		return ui.ResultError
	}
	if e.Mode.IsDir() || (e.Mode&fs.ModeSymlink != 0 && linkIsDir(d.sess.LastDir, e.Name)) {
		d.errorf("Can't attach a directory")
		return ui.ResultError
	}
	e.Tagged = !e.Tagged
	delta := 1
	if !e.Tagged {
		delta = -1
	}
	d.menu.NumTagged += delta
	if d.menu.Current < d.menu.Max-1 {
		d.menu.SetIndex(d.menu.Current + 1)
	}
	return ui.ResultSuccess
}

// opSearch prompts for a pattern and runs the first step.
func (d *Dialog) opSearch(op keys.Op) ui.Result {
	reverse := op == keys.OpSearchReverse
	title := "Search for: "
	if reverse {
		title = "Reverse search for: "
	}
	d.openInput(title, d.searchPattern, history.ClassPattern, func(value string) {
		if value == "" {
			return
		}
		if err := d.menu.SetSearch(value, reverse); err != nil {
			d.errorf("%s", err)
			return
		}
		d.searchPattern = value
		d.searchReverse = reverse
		d.searchStep(false)
	})
	return ui.ResultSuccess
}

// opSearchNext repeats the last search; opposite flips its direction.
func (d *Dialog) opSearchNext(op keys.Op) ui.Result {
	if !d.menu.HasSearch() {
		d.errorf("No search pattern")
		return ui.ResultError
	}
	return d.searchStep(op == keys.OpSearchOpposite)
}

// searchStep advances the search one match, reporting wrap-around.
func (d *Dialog) searchStep(opposite bool) ui.Result {
	idx := d.menu.SearchStep(opposite)
	if idx < 0 {
		d.errorf("Not found")
		return ui.ResultError
	}
	forward := d.searchReverse == opposite
	if forward && idx <= d.menu.Current {
		d.messagef("Search wrapped to top.")
	} else if !forward && idx >= d.menu.Current {
		d.messagef("Search wrapped to bottom.")
	}
	d.menu.SetIndex(idx)
	return ui.ResultSuccess
}

// entryPath is the full path of e the way selection would commit it.
func (d *Dialog) entryPath(e *Entry) string {
	switch {
	case d.state.IsMailboxList:
		return paths.Expand(e.Name, d.cfg.Folder)
	case d.state.RemoteBrowse:
		return e.Name
	default:
		return concatPath(d.sess.LastDir, e.Name)
	}
}

// parentStep strips the last path segment for a ".." descend, stacking
// "/.." once the path is already a parent chain.
func parentStep(dir string) string {
	if len(dir) > 1 && strings.HasSuffix(dir, "..") {
		return dir + "/.."
	}
	if len(dir) > 1 {
		if i := strings.LastIndexByte(dir[1:], '/'); i >= 0 {
			return dir[:i+1]
		}
	}
	if strings.HasPrefix(dir, "/") {
		return "/"
	}
	return dir + "/.."
}

// remoteFolderPath is the folder part of a remote URL, empty at the
// account root.
func remoteFolderPath(name string) string {
	i := strings.Index(name, "://")
	if i <= 0 {
		return ""
	}
	rest := name[i+3:]
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		return strings.TrimPrefix(rest[j:], "/")
	}
	return ""
}

// remoteParent strips the last folder segment of a remote URL, keeping
// at least the account root.
func remoteParent(p string) string {
	i := strings.Index(p, "://")
	if i <= 0 {
		return p
	}
	hostStart := i + 3
	slash := strings.IndexByte(p[hostStart:], '/')
	if slash < 0 {
		return p
	}
	rootLen := hostStart + slash
	trimmed := strings.TrimRight(p, "/")
	if len(trimmed) <= rootLen {
		return p[:rootLen+1]
	}
	if j := strings.LastIndexByte(trimmed[rootLen:], '/'); j > 0 {
		return trimmed[:rootLen+j]
	}
	return p[:rootLen+1]
}

// sysError strips the Go path wrapper so stat failures read like
// perror output.
func sysError(err error) string {
	var pe *fs.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/"
	}
	return home
}
