package coverage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/blackcoderx/difftests/internal/pathutil"
	"github.com/blackcoderx/difftests/internal/subproc"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

// Errors from spec section 4.2 / 7.
var (
	ErrExportFailed = errors.New("coverage export failed")
	ErrParseFailed  = errors.New("coverage export parse failed")
)

// Toolchain names the two external utilities the coverage reader shells
// out to. Defaults match the LLVM coverage toolchain (llvm-profdata /
// llvm-cov), which is what the instrumentation runtime this spec targets
// actually emits; either can be overridden to point at a vendored copy.
type Toolchain struct {
	ProfileMergeBin   string // e.g. "llvm-profdata"
	CoverageExportBin string // e.g. "llvm-cov"
}

// DefaultToolchain returns the conventional LLVM tool names, resolved via
// PATH at invocation time.
func DefaultToolchain() Toolchain {
	return Toolchain{ProfileMergeBin: "llvm-profdata", CoverageExportBin: "llvm-cov"}
}

// Read implements the C2 protocol from spec section 4.2: merge every
// *.profraw fragment in dir, export it against bin, and parse the result
// into a canonicalized RegionMap.
func Read(ctx context.Context, tc Toolchain, dir *testdesc.TestDirectory, binPath string) (*RegionMap, error) {
	fragments := dir.ProfrawPaths()
	if len(fragments) == 0 {
		return nil, fmt.Errorf("%w: no .profraw fragments in %s", ErrExportFailed, dir.Path)
	}

	mergeArgs := append([]string{"merge", "-sparse", "-o", dir.MergedProfilePath()}, fragments...)
	if res, err := subproc.Run(ctx, "", tc.ProfileMergeBin, mergeArgs...); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	} else if res.ExitCode != 0 {
		return nil, fmt.Errorf("%w: profile-merge exited %d: %s", ErrExportFailed, res.ExitCode, res.Stderr)
	}

	exportArgs := []string{
		"export", binPath,
		"-instr-profile=" + dir.MergedProfilePath(),
		"-format=text",
	}
	res, err := subproc.Run(ctx, "", tc.CoverageExportBin, exportArgs...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("%w: coverage-export exited %d: %s", ErrExportFailed, res.ExitCode, res.Stderr)
	}

	if err := os.WriteFile(dir.ExportJSONPath(), res.Stdout, 0644); err != nil {
		return nil, fmt.Errorf("failed to cache export JSON: %w", err)
	}

	return Parse(res.Stdout)
}

// exportDoc mirrors the shape llvm-cov export -format=text emits: a list of
// per-translation-unit "data" entries, each with per-function records
// naming the files they touch and the region table for each.
type exportDoc struct {
	Data []struct {
		Functions []struct {
			Filenames []string    `json:"filenames"`
			Regions   [][7]int    `json:"regions"`
		} `json:"functions"`
	} `json:"data"`
}

// Offsets within a region tuple (regionFileIdx is the owning file's index
// into the function's filenames): [line_start, col_start, line_end, col_end, execution_count,
// file_id, kind].
const (
	regionLineStart = 0
	regionColStart  = 1
	regionLineEnd   = 2
	regionColEnd    = 3
	regionCount     = 4
	regionFileIdx   = 5
)

// Parse decodes a cached or freshly-produced export JSON document into a
// canonicalized RegionMap (spec section 4.2, steps 4-5).
func Parse(raw []byte) (*RegionMap, error) {
	var doc exportDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	rm := NewRegionMap()
	for _, unit := range doc.Data {
		for _, fn := range unit.Functions {
			for _, tuple := range fn.Regions {
				fileIdx := tuple[regionFileIdx]
				if fileIdx < 0 || fileIdx >= len(fn.Filenames) {
					continue
				}
				count := tuple[regionCount]
				if count == 0 {
					continue
				}

				canon, ok := pathutil.Canonicalize(fn.Filenames[fileIdx])
				if !ok {
					rm.MarkUnverified(canon)
				}

				rm.Add(canon, Region{
					StartLine: tuple[regionLineStart],
					StartCol:  tuple[regionColStart],
					EndLine:   tuple[regionLineEnd],
					EndCol:    tuple[regionColEnd],
					Count:     count,
				})
			}
		}
	}

	rm.Finalize()
	return rm, nil
}
