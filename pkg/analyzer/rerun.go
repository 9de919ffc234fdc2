package analyzer

import (
	"context"
	"fmt"

	"github.com/blackcoderx/difftests/pkg/coverage"
	"github.com/blackcoderx/difftests/pkg/index"
	"github.com/blackcoderx/difftests/pkg/runner"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

// RerunOutcome is what RerunDirty reports back to the CLI: the runner's
// exit code (propagated verbatim per spec section 6's RunnerFailed
// passthrough) and which directories were refreshed afterward.
type RerunOutcome struct {
	ExitCode  int
	Refreshed []*testdesc.TestDirectory
	Skipped   []*testdesc.TestDirectory // dirty tests' directories whose index refresh failed
}

// RerunDirty implements the `rerun_dirty` action (spec section 4.5):
// gather the dirty subset of results, spawn r once with all of them in a
// single JSON payload, and — only on a zero exit — refresh each affected
// TestDirectory's index in place (spec section 4.5, "Refresh").
//
// dirs lets callers pass the bin_path→directory association AnalyzeAll
// already built; results with no matching directory (e.g. a synthetic
// group Result) are still sent to the runner but silently excluded from
// refresh.
func RerunDirty(ctx context.Context, results []Result, dirs map[string]*testdesc.TestDirectory, r runner.Runner, opts Options) (RerunOutcome, error) {
	var dirty []testdesc.TestDescriptor
	var dirtyDirs []*testdesc.TestDirectory

	for _, res := range results {
		if res.Verdict != Dirty {
			continue
		}
		dirty = append(dirty, res.Desc)
		if dir, ok := dirs[res.Desc.BinPath]; ok {
			dirtyDirs = append(dirtyDirs, dir)
		}
	}

	if len(dirty) == 0 {
		return RerunOutcome{ExitCode: 0}, nil
	}

	inv := runner.NewInvocation(dirty)
	exitCode, err := r.Run(ctx, inv)
	if err != nil {
		return RerunOutcome{}, fmt.Errorf("rerunner invocation failed: %w", err)
	}

	outcome := RerunOutcome{ExitCode: exitCode}
	if exitCode != 0 {
		// Spec section 4.5: "the analyzer does not retry" and does not
		// refresh on a failed rerun — the prior indices remain authoritative.
		return outcome, nil
	}

	for _, dir := range dirtyDirs {
		if err := RefreshIndex(ctx, dir, opts); err != nil {
			outcome.Skipped = append(outcome.Skipped, dir)
			continue
		}
		outcome.Refreshed = append(outcome.Refreshed, dir)
	}

	return outcome, nil
}

// RefreshIndex recompiles dir's index from its (now test-client-overwritten)
// raw profile and atomically replaces the prior index file, per spec
// section 4.5's "write to sibling, rename" refresh rule.
func RefreshIndex(ctx context.Context, dir *testdesc.TestDirectory, opts Options) error {
	desc, err := testdesc.ReadDescriptor(dir)
	if err != nil {
		return fmt.Errorf("refreshing %s: %w", dir.Path, err)
	}

	rm, err := coverage.Read(ctx, opts.Toolchain, dir, desc.BinPath)
	if err != nil {
		return fmt.Errorf("refreshing %s: %w", dir.Path, err)
	}

	idx := index.Build(rm, index.Full, desc)
	if err := index.WriteAtomic(idx, dir.IndexPath()); err != nil {
		return fmt.Errorf("refreshing %s: %w", dir.Path, err)
	}
	return nil
}
