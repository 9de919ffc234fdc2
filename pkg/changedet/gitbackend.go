package changedet

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/blackcoderx/difftests/internal/subproc"
)

// Errors from spec section 4.4 / 7.
var (
	ErrNotARepository = errors.New("not a git repository")
	ErrBadRevision     = errors.New("bad revision")
)

// Hunk is a post-image line range a file's diff reports changed: new_start
// is 1-based, new_len may be 0 for a pure-deletion hunk (spec section 4.4,
// Algorithm C).
type Hunk struct {
	NewStart int
	NewLen   int
}

// gitBackend resolves file- and hunk-level diffs between a reference
// commit and the working tree. Construction fails fast per spec section
// 4.4 ("A detector fails construction with NotARepository ... BadRevision
// ..."); queries afterward never fail.
type gitBackend struct {
	repoRoot string
	commit   string
}

func newGitBackend(ctx context.Context, dir, commit string) (*gitBackend, error) {
	res, err := subproc.Run(ctx, dir, "git", "rev-parse", "--show-toplevel")
	if err != nil || res.ExitCode != 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, dir)
	}
	root := strings.TrimSpace(string(res.Stdout))

	if commit == "" {
		commit = "HEAD"
	}
	res, err = subproc.Run(ctx, root, "git", "rev-parse", "--verify", commit+"^{commit}")
	if err != nil || res.ExitCode != 0 {
		return nil, fmt.Errorf("%w: %s", ErrBadRevision, commit)
	}

	return &gitBackend{repoRoot: root, commit: commit}, nil
}

// changedFiles returns the set of files differing between b.commit and the
// working tree (spec section 4.4, Algorithm B), ignoring submodule entries
// per the "Submodules and gitlinks are skipped" policy.
func (b *gitBackend) changedFiles(ctx context.Context) (map[string]bool, error) {
	res, err := subproc.Run(ctx, b.repoRoot, "git", "diff", "--name-only", "--no-ext-diff", b.commit)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			set[line] = true
		}
	}
	return set, nil
}

var hunkHeaderRE = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// fileHunks returns, per changed file, the post-image hunk ranges the
// diff reports (spec section 4.4, Algorithm C). It shells out to
// `git diff --unified=0`, which emits the minimal hunk headers needed to
// derive [new_start, new_start+new_len) ranges without a diff library
// reimplementing git's own line-matching.
func (b *gitBackend) fileHunks(ctx context.Context) (map[string][]Hunk, error) {
	res, err := subproc.Run(ctx, b.repoRoot, "git", "diff", "--unified=0", "--no-ext-diff", b.commit)
	if err != nil {
		return nil, err
	}

	hunks := make(map[string][]Hunk)
	var currentFile string

	for _, line := range strings.Split(string(res.Stdout), "\n") {
		switch {
		case strings.HasPrefix(line, "+++ "):
			path := strings.TrimPrefix(line, "+++ ")
			path = strings.TrimPrefix(path, "b/")
			if path == "/dev/null" {
				currentFile = ""
				continue
			}
			currentFile = path
		case strings.HasPrefix(line, "@@ "):
			if currentFile == "" {
				continue
			}
			m := hunkHeaderRE.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			newStart, _ := strconv.Atoi(m[3])
			newLen := 1
			if m[4] != "" {
				newLen, _ = strconv.Atoi(m[4])
			}
			hunks[currentFile] = append(hunks[currentFile], Hunk{NewStart: newStart, NewLen: newLen})
		}
	}

	return hunks, nil
}

// RepoRoot exposes the resolved repository root.
func (b *gitBackend) RepoRoot() string { return b.repoRoot }

// runGitShow fetches relPath's content as of commit, relative to root.
func runGitShow(ctx context.Context, root, commit, relPath string) ([]byte, error) {
	res, err := subproc.Run(ctx, root, "git", "show", commit+":"+relPath)
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("git show %s:%s: %s", commit, relPath, res.Stderr)
	}
	return res.Stdout, nil
}
