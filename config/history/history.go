// Package history persists the input-line history of the browser's
// prompts across runs, one ring per prompt class.
package history

// Class identifies which prompt a history entry belongs to. Prompts of
// the same class share one history, so a path typed at the chdir prompt
// comes back at the new-file prompt.
type Class string

const (
	// ClassFile holds directory and file paths.
	ClassFile Class = "file"
	// ClassMask holds file mask patterns.
	ClassMask Class = "mask"
	// ClassPattern holds search and subscribe patterns.
	ClassPattern Class = "pattern"
)

// Store records and recalls prompt input.
type Store interface {
	// Add records entry at the front of the class's history. Empty
	// entries are dropped; a duplicate moves to the front.
	Add(class Class, entry string)
	// List returns up to limit entries, oldest first. Limit <= 0 means
	// all retained entries.
	List(class Class, limit int) ([]string, error)
	Close() error
}

// nopStore is a no-op Store used when the history db cannot be opened.
type nopStore struct{}

// NopStore returns a Store that records nothing and recalls nothing.
func NopStore() Store {
	return &nopStore{}
}

func (n *nopStore) Add(_ Class, _ string) {}

func (n *nopStore) List(_ Class, _ int) ([]string, error) {
	return nil, nil
}

func (n *nopStore) Close() error {
	return nil
}
