package changedet

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/blackcoderx/difftests/internal/pathutil"
)

// GitDiffFiles is algorithm B from spec section 4.4: a file is changed iff
// it appears in the file-level diff between the reference commit and the
// working tree.
type GitDiffFiles struct {
	backend    *gitBackend
	changed    map[string]bool // repo-relative paths, case-folded per normalizeKey
	diffFailed bool            // the diff could not be fetched; every query reports changed
}

// NewGitDiffFiles constructs the detector, fetching the full diff once.
func NewGitDiffFiles(ctx context.Context, dir, commit string) (*GitDiffFiles, error) {
	backend, err := newGitBackend(ctx, dir, commit)
	if err != nil {
		return nil, err
	}
	files, err := backend.changedFiles(ctx)
	diffFailed := err != nil
	if diffFailed {
		// I/O error after a successful construction is folded into
		// "changed": IsChanged reports every touched file as changed.
		files = map[string]bool{}
	}

	changed := make(map[string]bool, len(files))
	for f := range files {
		changed[normalizeKey(f)] = true
	}

	return &GitDiffFiles{backend: backend, changed: changed, diffFailed: diffFailed}, nil
}

func (d *GitDiffFiles) Algorithm() string { return AlgoGitDiffFiles }

func (d *GitDiffFiles) IsChanged(t Touched) bool {
	if d.diffFailed {
		return true
	}
	rel, inside := toRepoRelative(t.File, d.backend.repoRoot)
	if !inside {
		// "Files outside the repository are always considered changed."
		return true
	}
	return d.changed[normalizeKey(rel)]
}

// toRepoRelative converts an absolute touched path to a path relative to
// root, as git diff --name-only would report it.
func toRepoRelative(absPath, root string) (string, bool) {
	if !pathutil.WithinRoot(absPath, root) {
		return "", false
	}
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func normalizeKey(p string) string {
	if pathutil.CaseInsensitiveFS() {
		return strings.ToLower(p)
	}
	return p
}
