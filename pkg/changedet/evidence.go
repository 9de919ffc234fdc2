package changedet

import (
	"context"
	"fmt"
	"os"

	"github.com/aymanbagabas/go-udiff"
)

// UnifiedExcerpt renders a short unified-diff between the reference
// commit's copy of file and its current working-tree content, for use as
// human-readable dirty evidence alongside a git-diff-hunks verdict. It is
// best-effort: any error producing it is folded into an empty string
// rather than failing the analysis (evidence is a diagnostic aid, never
// part of the verdict itself).
func (b *gitBackend) UnifiedExcerpt(ctx context.Context, file string) string {
	rel, inside := toRepoRelative(file, b.repoRoot)
	if !inside {
		return ""
	}

	before, err := b.FileAt(ctx, rel)
	if err != nil {
		return ""
	}
	after, err := os.ReadFile(file)
	if err != nil {
		return ""
	}

	return udiff.Unified(fmt.Sprintf("%s (%s)", rel, b.commit), rel, string(before), string(after))
}

// FileAt returns relPath's content as of b.commit via `git show`.
func (b *gitBackend) FileAt(ctx context.Context, relPath string) ([]byte, error) {
	res, err := runGitShow(ctx, b.repoRoot, b.commit, relPath)
	if err != nil {
		return nil, err
	}
	return res, nil
}
