package analyzer

import (
	"context"
	"fmt"

	"github.com/blackcoderx/difftests/pkg/changedet"
	"github.com/blackcoderx/difftests/pkg/coverage"
	"github.com/blackcoderx/difftests/pkg/index"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

// AnalyzeOne runs the full per-TestDirectory pipeline from spec section 2's
// data flow: read the descriptor, load or rebuild its index, consult det,
// and emit a verdict. It never returns a nil Result: even a failed
// analysis yields a conservatively-dirty Result with Err set, per spec
// section 4.5/7's conservatism rule. The returned error additionally flags
// the failure to callers (like the single-test `analyze` CLI command) that
// need a distinct exit code for it.
func AnalyzeOne(ctx context.Context, dir *testdesc.TestDirectory, det changedet.Detector, opts Options) (Result, error) {
	desc, err := testdesc.ReadDescriptor(dir)
	if err != nil {
		return Result{Verdict: Dirty, Err: err.Error()}, err
	}

	idx, err := loadOrBuildIndex(ctx, dir, desc, det, opts)
	if err != nil {
		return Result{Desc: desc, Verdict: Dirty, Err: err.Error()}, err
	}

	touched, err := touchedFromIndex(idx, det)
	if err != nil {
		return Result{Desc: desc, Verdict: Dirty, Err: err.Error()}, err
	}

	verdict, evidence, truncated := evaluate(touched, det, opts.MaxEvidence)
	return Result{Desc: desc, Verdict: verdict, Evidence: evidence, Truncated: truncated}, nil
}

// loadOrBuildIndex prefers a cached self.index that already satisfies det's
// algorithm; otherwise it recomputes a full index straight from the raw
// profile (a full index always satisfies either algorithm family, per spec
// section 4.3's header-level file list).
func loadOrBuildIndex(ctx context.Context, dir *testdesc.TestDirectory, desc testdesc.TestDescriptor, det changedet.Detector, opts Options) (*index.Index, error) {
	needsRegions := det.Algorithm() == changedet.AlgoGitDiffHunks

	indexPath := dir.IndexPath()
	if opts.IndexPath != "" {
		indexPath = opts.IndexPath
	}

	if cached, err := index.Read(indexPath); err == nil {
		if !needsRegions || cached.Variant == index.Full {
			index.Unflatten(cached)
			return cached, nil
		}
	}

	if opts.IndexOnly {
		return nil, fmt.Errorf("no usable cached index for %s", desc.BinPath)
	}

	rm, err := coverage.Read(ctx, opts.Toolchain, dir, desc.BinPath)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", desc.BinPath, err)
	}

	// Built full regardless of what this particular query needs: it's the
	// same RegionMap already in memory, and caching it full lets a later
	// git-diff-hunks run reuse it without recomputing coverage.
	idx := index.Build(rm, index.Full, desc)
	if opts.CacheIndex {
		if err := index.WriteAtomic(idx, indexPath); err != nil {
			return nil, fmt.Errorf("caching index for %s: %w", desc.BinPath, err)
		}
	}
	return idx, nil
}
