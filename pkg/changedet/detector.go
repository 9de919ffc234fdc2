// Package changedet implements the change detector (component C4): three
// algorithms sharing one narrow query interface, per spec section 4.4 and
// design note "Algorithm polymorphism" (a tagged variant with three
// constructors, not a deep hierarchy — their state is disjoint).
package changedet

import "github.com/blackcoderx/difftests/pkg/coverage"

// Touched is the unit is_changed is asked about: a file, or (for
// git-diff-hunks) a file plus one of its regions.
type Touched struct {
	File   string
	Region *coverage.Region // nil unless the algorithm is region-aware
}

// Detector is the uniform interface spec section 4.4 describes. A Detector
// is constructed once per analysis and is safe to query concurrently
// afterward (spec section 4.4, "Tie-breaks and policies").
type Detector interface {
	// IsChanged reports whether t should be considered changed. It never
	// fails: an internal I/O error is folded into "changed" per spec
	// section 4.4 ("query operations do not fail").
	IsChanged(t Touched) bool

	// Algorithm names which of the three algorithms this Detector is.
	Algorithm() string
}

// Algorithm name constants matching spec section 4.4 exactly.
const (
	AlgoFSMtime      = "fs-mtime"
	AlgoGitDiffFiles = "git-diff-files"
	AlgoGitDiffHunks = "git-diff-hunks"
)
