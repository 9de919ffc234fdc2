// Package pathutil holds small path-normalization helpers shared across the
// descriptor store, coverage reader, and index builder.
package pathutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Canonicalize turns p into an absolute, slash-normalized path and resolves
// its symlinks in one filepath.EvalSymlinks pass. It never fails: a path that does not
// exist on disk (or whose symlink cannot be read) is returned verbatim after
// the Abs/Clean step, with ok=false so the caller can mark it unverified.
func Canonicalize(p string) (abs string, ok bool) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.ToSlash(filepath.Clean(p)), false
	}
	abs = filepath.Clean(abs)

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	} else {
		return filepath.ToSlash(abs), false
	}

	if _, err := os.Stat(abs); err != nil {
		return filepath.ToSlash(abs), false
	}

	return filepath.ToSlash(abs), true
}

// WithinRoot reports whether target lies inside root (both expected
// absolute), guarding against a naive HasPrefix match on sibling directories
// that share a prefix (e.g. "/a/bc" vs "/a/b").
func WithinRoot(target, root string) bool {
	root = filepath.Clean(root)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CaseInsensitiveFS reports whether the host filesystem is conventionally
// case-insensitive (Windows and macOS's default volumes), for callers that
// need to fold a path before using it as a map key.
func CaseInsensitiveFS() bool {
	return caseInsensitiveFS()
}

func caseInsensitiveFS() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}
