package config

import "github.com/jmllorens/cartero/internal/paths"

// ExpandedMailboxes returns the watched mailboxes with their paths
// expanded against the mail root, declaration order kept. Entries with
// an empty path are dropped.
func (c *Config) ExpandedMailboxes() []MailboxDef {
	out := make([]MailboxDef, 0, len(c.Mailboxes))
	for _, def := range c.Mailboxes {
		if def.Path == "" {
			continue
		}
		def.Path = paths.Expand(def.Path, c.Folder)
		out = append(out, def)
	}
	return out
}

// DisplayName is the mailbox's short name, falling back to its path.
func (d MailboxDef) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Path
}
