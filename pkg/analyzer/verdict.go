package analyzer

import (
	"github.com/blackcoderx/difftests/pkg/changedet"
	"github.com/blackcoderx/difftests/pkg/index"
)

// touchedFromIndex expands idx into the Touched units det's algorithm
// needs: regions for git-diff-hunks (requiring a full index, spec section
// 4.3), files otherwise — even for a full index, fs-mtime and
// git-diff-files "collapse to their file" (spec section 4.4), and the
// header already lifts files to the top level for exactly this case.
func touchedFromIndex(idx *index.Index, det changedet.Detector) ([]changedet.Touched, error) {
	if det.Algorithm() == changedet.AlgoGitDiffHunks {
		if err := idx.RequireFull(); err != nil {
			return nil, err
		}
		var touched []changedet.Touched
		for file, regions := range idx.Regions {
			for i := range regions {
				touched = append(touched, changedet.Touched{File: file, Region: &regions[i]})
			}
		}
		return touched, nil
	}

	touched := make([]changedet.Touched, len(idx.Files))
	for i, f := range idx.Files {
		touched[i] = changedet.Touched{File: f}
	}
	return touched, nil
}

// evaluate computes the verdict from a touched set (spec section 4.5,
// "Verdict"): clean iff every entry's IsChanged is false. Evidence is the
// dirty subset, truncated to maxEvidence (0 means unbounded).
func evaluate(touched []changedet.Touched, det changedet.Detector, maxEvidence int) (Verdict, []Evidence, bool) {
	var evidence []Evidence
	truncated := false

	for _, t := range touched {
		if !det.IsChanged(t) {
			continue
		}
		if maxEvidence > 0 && len(evidence) >= maxEvidence {
			truncated = true
			continue
		}
		evidence = append(evidence, Evidence{File: t.File, Region: t.Region})
	}

	if len(evidence) == 0 && !truncated {
		return Clean, nil, false
	}
	return Dirty, evidence, truncated
}
