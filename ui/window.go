package ui

import (
	"fmt"

	"github.com/jmllorens/cartero/keys"
)

// Result is a handler's verdict on one operation.
type Result int

const (
	// ResultUnknown means no handler claimed the operation. Dispatch keeps
	// searching on it; callers must not confuse it with success.
	ResultUnknown Result = iota
	// ResultError means a handler claimed the operation and failed.
	ResultError
	// ResultSuccess means a handler claimed the operation and acted on it.
	ResultSuccess
	// ResultNoAction means a handler recognized the operation but had nothing
	// to do, e.g. next-entry while already on the last entry.
	ResultNoAction
	// ResultNotImpl means the operation is valid but unavailable in the
	// current mode, e.g. jump inside a static dialog.
	ResultNotImpl
	// ResultDone means the dialog is finished and should close.
	ResultDone
)

var resultNames = map[Result]string{
	ResultUnknown:  "unknown",
	ResultError:    "error",
	ResultSuccess:  "success",
	ResultNoAction: "no-action",
	ResultNotImpl:  "not-implemented",
	ResultDone:     "done",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// OpHandler processes a single operation. Implementations return
// ResultUnknown for operations they do not recognize so that dispatch can
// keep searching the rest of the tree.
type OpHandler interface {
	HandleOp(op keys.Op) Result
}

// HandlerFunc adapts an ordinary function to the OpHandler interface.
type HandlerFunc func(keys.Op) Result

func (f HandlerFunc) HandleOp(op keys.Op) Result { return f(op) }

// Window is one node in a dialog's layout tree. Windows own their children;
// the parent link exists only for walking back up. A window with a nil
// Handler is purely structural and passes every operation through.
type Window struct {
	Name    string
	Visible bool
	Handler OpHandler

	parent   *Window
	children []*Window
}

// NewWindow returns a visible window with no handler attached.
func NewWindow(name string) *Window {
	return &Window{Name: name, Visible: true}
}

// AddChild appends child in tab order and wires its parent link. It returns
// child so tree construction can chain.
func (w *Window) AddChild(child *Window) *Window {
	child.parent = w
	w.children = append(w.children, child)
	return child
}

// traverse searches w's subtree depth-first, the window itself before its
// children. ignore marks a child branch a previous pass already covered.
// An invisible window cuts its entire subtree out of the search, its own
// handler included.
func (w *Window) traverse(ignore *Window, op keys.Op) Result {
	if w == nil || !w.Visible {
		return ResultUnknown
	}
	if w.Handler != nil {
		if r := w.Handler.HandleOp(op); r != ResultUnknown {
			return r
		}
	}
	for _, child := range w.children {
		if child == ignore {
			continue
		}
		if r := child.traverse(nil, op); r != ResultUnknown {
			return r
		}
	}
	return ResultUnknown
}

// Dispatch resolves op to the nearest handler willing to process it. The
// search starts at w's subtree, then widens to each ancestor in turn, each
// pass excluding the branch the previous one covered so no handler sees the
// operation twice. A window inside an invisible branch cannot take
// operations even when targeted directly; the search resumes above the dead
// branch. Returns ResultUnknown when nothing in the tree claims op.
func (w *Window) Dispatch(op keys.Op) Result {
	var ignore *Window
	for p := w; p != nil; p = p.parent {
		if !p.Visible {
			w, ignore = p.parent, p
		}
	}
	for ; w != nil; ignore, w = w, w.parent {
		if r := w.traverse(ignore, op); r != ResultUnknown {
			return r
		}
	}
	return ResultUnknown
}
