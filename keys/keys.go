package keys

import (
	"github.com/charmbracelet/bubbles/key"
)

// Op is an operation code. Every key press resolves to exactly one Op, which
// is then offered to the focused window's dispatch chain. Dialog-mode menus
// synthesize codes past OpMax (see DialogOp).
type Op int

const (
	OpNull Op = iota

	// Menu movement
	OpNextEntry
	OpPrevEntry
	OpNextLine
	OpPrevLine
	OpNextPage
	OpPrevPage
	OpHalfDown
	OpHalfUp
	OpTopPage
	OpMiddlePage
	OpBottomPage
	OpFirstEntry
	OpLastEntry
	OpJump

	// Menu search and tagging
	OpSearch
	OpSearchReverse
	OpSearchNext
	OpSearchOpposite
	OpTag

	// Dialog-wide
	OpHelp
	OpExit
	OpVersion

	// Browser
	OpChangeDirectory
	OpGotoParent
	OpGotoFolder
	OpSelectEntry
	OpDescend
	OpEnterMask
	OpSort
	OpSortReverse
	OpToggleMailboxes
	OpCheckNew
	OpBrowserTell
	OpCopyPath
	OpViewFile
	OpNewFile
	OpCreateMailbox
	OpDeleteMailbox
	OpRenameMailbox
	OpSubscribe
	OpUnsubscribe
	OpToggleSubscribed

	// OpMax must stay last: dialog-mode menus report key letter i as
	// OpMax + i + 1.
	OpMax
)

// DialogOp returns the synthetic op for the i-th (0-based) letter of a
// dialog-mode menu's key string.
func DialogOp(i int) Op {
	return OpMax + Op(i) + 1
}

// DialogIndex is the inverse of DialogOp. ok is false for ordinary ops.
func DialogIndex(op Op) (int, bool) {
	if op <= OpMax {
		return 0, false
	}
	return int(op-OpMax) - 1, true
}

// MenuKeyStringsMap maps key strings to the ops every menu understands.
var MenuKeyStringsMap = map[string]Op{
	"up":     OpPrevEntry,
	"k":      OpPrevEntry,
	"down":   OpNextEntry,
	"j":      OpNextEntry,
	"K":      OpPrevLine,
	"J":      OpNextLine,
	"pgup":   OpPrevPage,
	"ctrl+b": OpPrevPage,
	"pgdown": OpNextPage,
	"ctrl+f": OpNextPage,
	"ctrl+u": OpHalfUp,
	"ctrl+d": OpHalfDown,
	"H":      OpTopPage,
	"M":      OpMiddlePage,
	"L":      OpBottomPage,
	"home":   OpFirstEntry,
	"g":      OpFirstEntry,
	"end":    OpLastEntry,
	"G":      OpLastEntry,
	"=":      OpJump,
	"/":      OpSearch,
	"n":      OpSearchNext,
	"N":      OpSearchOpposite,
	"t":      OpTag,
	"?":      OpHelp,
	"q":      OpExit,
	"esc":    OpExit,
	"V":      OpVersion,
}

// BrowserKeyStringsMap maps key strings to browser ops. Consulted before the
// menu map, so a browser binding may shadow a generic one.
var BrowserKeyStringsMap = map[string]Op{
	"enter": OpSelectEntry,
	"right": OpSelectEntry,
	"l":     OpSelectEntry,
	"left":  OpGotoParent,
	"h":     OpGotoParent,
	"-":     OpGotoParent,
	"=":     OpGotoFolder,
	">":     OpDescend,
	"c":     OpChangeDirectory,
	"m":     OpEnterMask,
	"o":     OpSort,
	"O":     OpSortReverse,
	"tab":   OpToggleMailboxes,
	"R":     OpCheckNew,
	"@":     OpBrowserTell,
	"y":     OpCopyPath,
	"v":     OpViewFile,
	"e":     OpNewFile,
	"C":     OpCreateMailbox,
	"d":     OpDeleteMailbox,
	"r":     OpRenameMailbox,
	"s":     OpSubscribe,
	"u":     OpUnsubscribe,
	"T":     OpToggleSubscribed,
}

// Resolve turns a key string into an op. Browser bindings win over generic
// menu bindings when both are active.
func Resolve(s string, browser bool) (Op, bool) {
	if browser {
		if op, ok := BrowserKeyStringsMap[s]; ok {
			return op, true
		}
	}
	op, ok := MenuKeyStringsMap[s]
	return op, ok
}

// OpBindings is the op-indexed binding table used by the help overlay and the
// bottom menu bar.
var OpBindings = map[Op]key.Binding{
	OpPrevEntry: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	OpNextEntry: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	OpSelectEntry: key.NewBinding(
		key.WithKeys("enter", "right", "l"),
		key.WithHelp("↵", "select"),
	),
	OpGotoParent: key.NewBinding(
		key.WithKeys("left", "h", "-"),
		key.WithHelp("←/h", "parent"),
	),
	OpToggleMailboxes: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "mailboxes"),
	),
	OpChangeDirectory: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "chdir"),
	),
	OpEnterMask: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "mask"),
	),
	OpSort: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "sort"),
	),
	OpSortReverse: key.NewBinding(
		key.WithKeys("O"),
		key.WithHelp("O", "rev-sort"),
	),
	OpTag: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "tag"),
	),
	OpSearch: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	OpViewFile: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "view"),
	),
	OpJump: key.NewBinding(
		key.WithKeys("="),
		key.WithHelp("1..9", "jump"),
	),
	OpCheckNew: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "rescan"),
	),
	OpCopyPath: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy path"),
	),
	OpNewFile: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "new file"),
	),
	OpCreateMailbox: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "create"),
	),
	OpDeleteMailbox: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	OpRenameMailbox: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "rename"),
	),
	OpHelp: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	OpExit: key.NewBinding(
		key.WithKeys("q", "esc"),
		key.WithHelp("q", "quit"),
	),
	OpVersion: key.NewBinding(
		key.WithKeys("V"),
		key.WithHelp("V", "version"),
	),
}

var opNames = map[Op]string{
	OpNull:             "null",
	OpNextEntry:        "next-entry",
	OpPrevEntry:        "previous-entry",
	OpNextLine:         "next-line",
	OpPrevLine:         "previous-line",
	OpNextPage:         "next-page",
	OpPrevPage:         "previous-page",
	OpHalfDown:         "half-down",
	OpHalfUp:           "half-up",
	OpTopPage:          "top-page",
	OpMiddlePage:       "middle-page",
	OpBottomPage:       "bottom-page",
	OpFirstEntry:       "first-entry",
	OpLastEntry:        "last-entry",
	OpJump:             "jump",
	OpSearch:           "search",
	OpSearchReverse:    "search-reverse",
	OpSearchNext:       "search-next",
	OpSearchOpposite:   "search-opposite",
	OpTag:              "tag-entry",
	OpHelp:             "help",
	OpExit:             "exit",
	OpVersion:          "version",
	OpChangeDirectory:  "change-dir",
	OpGotoParent:       "goto-parent",
	OpGotoFolder:       "goto-folder",
	OpSelectEntry:      "select-entry",
	OpDescend:          "descend-directory",
	OpEnterMask:        "enter-mask",
	OpSort:             "sort",
	OpSortReverse:      "sort-reverse",
	OpToggleMailboxes:  "toggle-mailboxes",
	OpCheckNew:         "check-new",
	OpBrowserTell:      "browser-tell",
	OpCopyPath:         "copy-path",
	OpViewFile:         "view-file",
	OpNewFile:          "new-file",
	OpCreateMailbox:    "create-mailbox",
	OpDeleteMailbox:    "delete-mailbox",
	OpRenameMailbox:    "rename-mailbox",
	OpSubscribe:        "subscribe",
	OpUnsubscribe:      "unsubscribe",
	OpToggleSubscribed: "toggle-subscribed",
}

// String returns the op's function name as shown in help and trace logs.
func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	if i, ok := DialogIndex(op); ok {
		return "dialog-key-" + string(rune('1'+i))
	}
	return "unknown"
}
