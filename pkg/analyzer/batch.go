package analyzer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/blackcoderx/difftests/internal/config"
	"github.com/blackcoderx/difftests/pkg/changedet"
	"github.com/blackcoderx/difftests/pkg/index"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

var batchLogger = config.NewLogger("analyzer")

// AnalyzeAll implements spec section 4.5's analyze_all: recursively
// enumerate TestDirectories under root and analyze each. Per-test failures
// come in two flavors per spec section 7: a directory that never opens as a
// TestDirectory at all (NoDescriptor/CorruptDescriptor) is fatal only for
// that directory — it is skipped with a stderr warning and omitted from the
// returned slice entirely, not reported as a test result. A directory that
// opens but fails analysis afterward (ExportFailed, ParseFailed, ...) is
// folded into a conservative dirty Result instead, since by that point the
// caller already knows this was meant to be a test directory. Results are
// returned sorted by descriptor bin_path for determinism (spec section 5).
// The returned map associates each Result's descriptor bin_path with the
// TestDirectory it came from, for callers (like RerunDirty) that need to
// resolve a dirty Result back to the directory to refresh.
func AnalyzeAll(ctx context.Context, root string, det changedet.Detector, opts Options) ([]Result, map[string]*testdesc.TestDirectory, error) {
	dirs, err := testdesc.ListUnder(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to enumerate test directories under %s: %w", root, err)
	}

	gate := newSubprocGate(opts.Concurrency)
	slots := make([]*Result, len(dirs))
	byBinPath := make(map[string]*testdesc.TestDirectory)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, dir := range dirs {
		i, dir := i, dir
		wg.Add(1)
		go func() {
			defer wg.Done()

			if _, err := testdesc.Open(dir.Path); err != nil {
				batchLogger.Warnf("skipping %s: %v", dir.Path, err)
				return
			}
			if _, err := testdesc.ReadDescriptor(dir); err != nil {
				batchLogger.Warnf("skipping %s: %v", dir.Path, err)
				return
			}

			release, err := gate.acquire(ctx)
			if err != nil {
				res := Result{Verdict: Dirty, Err: err.Error()}
				slots[i] = &res
				return
			}
			defer release()

			res, _ := AnalyzeOne(ctx, dir, det, opts)
			slots[i] = &res

			if res.Desc.BinPath != "" {
				mu.Lock()
				byBinPath[res.Desc.BinPath] = dir
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	results := make([]Result, 0, len(slots))
	for _, s := range slots {
		if s != nil {
			results = append(results, *s)
		}
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Desc.BinPath < results[b].Desc.BinPath })
	return results, byBinPath, nil
}

// AnalyzeGroup implements spec section 4.5's analyze_group: every
// TestDirectory under root is treated as a member of one group, the
// touched sets are unioned via pkg/index.Merge, and a single detector
// evaluates the union (spec section 3, "Group").
func AnalyzeGroup(ctx context.Context, root string, det changedet.Detector, opts Options) (Result, []*testdesc.TestDirectory, error) {
	dirs, err := testdesc.ListUnder(root)
	if err != nil {
		return Result{}, nil, fmt.Errorf("failed to enumerate test directories under %s: %w", root, err)
	}

	var members []*testdesc.TestDirectory
	var indexes []*index.Index

	gate := newSubprocGate(opts.Concurrency)
	var mu sync.Mutex
	var wg sync.WaitGroup
	var firstErr error

	for _, dir := range dirs {
		dir := dir
		if _, err := testdesc.Open(dir.Path); err != nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := gate.acquire(ctx)
			if err != nil {
				return
			}
			defer release()

			desc, err := testdesc.ReadDescriptor(dir)
			if err != nil {
				return
			}
			idx, err := loadOrBuildIndex(ctx, dir, desc, det, opts)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			members = append(members, dir)
			indexes = append(indexes, idx)
		}()
	}
	wg.Wait()

	if len(indexes) == 0 {
		if firstErr != nil {
			return Result{Verdict: Dirty, Err: firstErr.Error()}, members, firstErr
		}
		return Result{Verdict: Clean}, members, nil
	}

	groupDesc := testdesc.TestDescriptor{BinPath: fmt.Sprintf("group:%s", root)}
	merged, err := index.Merge(indexes, groupDesc)
	if err != nil {
		return Result{Verdict: Dirty, Err: err.Error()}, members, err
	}

	touched, err := touchedFromIndex(merged, det)
	if err != nil {
		return Result{Desc: groupDesc, Verdict: Dirty, Err: err.Error()}, members, err
	}

	verdict, evidence, truncated := evaluate(touched, det, opts.MaxEvidence)
	return Result{Desc: groupDesc, Verdict: verdict, Evidence: evidence, Truncated: truncated}, members, nil
}
