// Package paths resolves the mailbox-path shorthands used throughout the
// browser: "~" for home directories and "=" / "+" for the configured folder
// root, plus the display-side inverse.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// Expand resolves a leading shorthand in path: "~" or "~/x" for the home
// directory, "~user/x" for another user's home, "=x" or "+x" for a path
// under the folder root. A shorthand that cannot be resolved leaves the
// path unchanged.
func Expand(path, folder string) string {
	switch {
	case path == "":
		return path
	case path[0] == '~':
		return expandTilde(path)
	case path[0] == '=' || path[0] == '+':
		if folder == "" {
			return path
		}
		return filepath.Join(folder, path[1:])
	}
	return path
}

func expandTilde(path string) string {
	rest := path[1:]
	if rest == "" || rest[0] == '/' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home + rest
	}
	name := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		name = rest[:i]
	}
	u, err := user.Lookup(name)
	if err != nil {
		return path
	}
	return u.HomeDir + rest[len(name):]
}

// Pretty abbreviates path for display: a path under the folder root
// collapses to "=", a path under the home directory to "~". The folder
// abbreviation wins when both apply.
func Pretty(path, folder string) string {
	if folder != "" && strings.HasPrefix(path, folder) && len(path) > len(folder) && path[len(folder)] == '/' {
		return "=" + path[len(folder)+1:]
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if strings.HasPrefix(path, home) && path[len(home)] == '/' {
		return "~" + path[len(home):]
	}
	return path
}

// Parent returns the directory containing path. The root directory is its
// own parent.
func Parent(path string) string {
	if path == "" {
		return "."
	}
	return filepath.Dir(filepath.Clean(path))
}

// Realpath canonicalizes path to an absolute form with all symlinks
// resolved. The path must exist.
func Realpath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
