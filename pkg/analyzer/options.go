package analyzer

import "github.com/blackcoderx/difftests/pkg/coverage"

// Options configures a single-test or batch analysis run.
type Options struct {
	Toolchain   coverage.Toolchain
	MaxEvidence int  // 0 = unbounded; SPEC_FULL's CLI default is 20
	CacheIndex  bool // recompile and persist self.index after a fresh read
	Concurrency int  // AnalyzeAll's subprocess concurrency cap; 0 = DefaultConcurrency

	// IndexOnly restricts loadOrBuildIndex to cached indices: no raw
	// profile is ever read. Used by rerun-dirty-from-indexes (spec
	// section 6), which by definition "reads indices instead of raw
	// profiles".
	IndexOnly bool

	// IndexPath overrides the TestDirectory's default self.index location
	// (spec section 6's `analyze --index-path P`). Empty uses the
	// directory default.
	IndexPath string
}

// DefaultConcurrency bounds how many coverage-export/profile-merge
// subprocesses AnalyzeAll runs at once, so a large test pool doesn't
// fork-bomb the host toolchain (SPEC_FULL's x/time/rate wiring).
const DefaultConcurrency = 8
