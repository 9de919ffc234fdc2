package changedet

import (
	"context"
	"os"
)

// GitDiffHunks is algorithm C from spec section 4.4: a region is changed
// iff its line range intersects any post-image hunk of its file. A file
// absent from the diff contributes no changed regions; a file present in
// the touched set but absent from the working tree is always changed
// (spec section 4.4, "files not present in the working tree are changed").
type GitDiffHunks struct {
	backend    *gitBackend
	hunks      map[string][]Hunk // keyed by normalizeKey(repo-relative path)
	diffFailed bool              // the diff could not be fetched; every query reports changed
}

// NewGitDiffHunks constructs the detector, fetching per-file hunk ranges
// once.
func NewGitDiffHunks(ctx context.Context, dir, commit string) (*GitDiffHunks, error) {
	backend, err := newGitBackend(ctx, dir, commit)
	if err != nil {
		return nil, err
	}
	raw, err := backend.fileHunks(ctx)
	diffFailed := err != nil
	if diffFailed {
		raw = map[string][]Hunk{}
	}

	hunks := make(map[string][]Hunk, len(raw))
	for f, hs := range raw {
		hunks[normalizeKey(f)] = hs
	}

	return &GitDiffHunks{backend: backend, hunks: hunks, diffFailed: diffFailed}, nil
}

func (d *GitDiffHunks) Algorithm() string { return AlgoGitDiffHunks }

// IsChanged narrows by t.Region when it is set. The analyzer only queries
// this detector with regions from a full index — it calls
// pkg/index.Index.RequireFull before building the touched set (spec
// section 4.3's VariantMismatch); a nil Region reports the file changed
// iff the diff lists any hunk for it.
func (d *GitDiffHunks) IsChanged(t Touched) bool {
	if d.diffFailed {
		return true
	}
	rel, inside := toRepoRelative(t.File, d.backend.repoRoot)
	if !inside {
		return true
	}

	if !fileExists(t.File) {
		return true
	}

	hunks, ok := d.hunks[normalizeKey(rel)]
	if !ok {
		// Not listed in the diff: no changed regions for this file.
		return false
	}
	if t.Region == nil {
		// No region to narrow by: presence in the diff is enough.
		return len(hunks) > 0
	}

	for _, h := range hunks {
		if regionIntersectsHunk(t.Region.StartLine, t.Region.EndLine, h) {
			return true
		}
	}
	return false
}

// regionIntersectsHunk implements spec section 4.4 Algorithm C and section
// 9's open question on out-of-range lines: a hunk with NewLen == 0 (pure
// deletion, post-image is empty at that point) is treated as touching the
// single line at NewStart, the conservative reading of "changed" for a
// region that straddles a deletion.
func regionIntersectsHunk(startLine, endLine int, h Hunk) bool {
	hunkEnd := h.NewStart + h.NewLen
	if h.NewLen == 0 {
		hunkEnd = h.NewStart + 1
	}
	return startLine < hunkEnd && endLine >= h.NewStart
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
