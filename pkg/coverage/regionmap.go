// Package coverage implements the coverage reader (component C2): turning
// the raw profile fragments in a TestDirectory into a RegionMap by shelling
// out to the host toolchain's profile-merge and coverage-export utilities.
package coverage

import "sort"

// Region is a contiguous source span the instrumentation treats as one
// coverage unit, plus its execution count (spec section 3, "RegionMap").
type Region struct {
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
	Count     int `json:"count"`
}

// RegionMap maps an absolute, canonicalized source path to its sorted,
// deduplicated set of touched regions. Unverified flags paths that did not
// exist on disk at parse time; Parse adds their regions to Files as well,
// so they are still "touched files" for tiny-index purposes (spec section
// 4.2, path canonicalization). TouchedFiles reads only Files.
type RegionMap struct {
	Files      map[string][]Region `json:"files"`
	Unverified map[string]bool     `json:"unverified,omitempty"`
}

// NewRegionMap returns an empty, ready-to-use RegionMap.
func NewRegionMap() *RegionMap {
	return &RegionMap{Files: make(map[string][]Region), Unverified: make(map[string]bool)}
}

// Add records a touched region for file, discarding it if count is zero
// (spec section 3: "Regions with zero count are discarded at parse time").
func (m *RegionMap) Add(file string, r Region) {
	if r.Count == 0 {
		return
	}
	m.Files[file] = append(m.Files[file], r)
}

// MarkUnverified flags file as present in the map despite not existing on
// disk at canonicalization time (spec section 4.2).
func (m *RegionMap) MarkUnverified(file string) {
	m.Unverified[file] = true
}

// Finalize sorts each file's regions by (start_line, start_col) and merges
// duplicate keys by keeping the maximum execution count observed — the
// spec requires "no two equal keys" but does not say how to resolve a
// collision; taking the max is the conservative choice (a region counted
// as touched by either merge input stays touched).
func (m *RegionMap) Finalize() {
	for file, regions := range m.Files {
		sort.Slice(regions, func(i, j int) bool {
			if regions[i].StartLine != regions[j].StartLine {
				return regions[i].StartLine < regions[j].StartLine
			}
			return regions[i].StartCol < regions[j].StartCol
		})
		m.Files[file] = dedupRegions(regions)
	}
}

func dedupRegions(regions []Region) []Region {
	if len(regions) == 0 {
		return regions
	}
	out := regions[:1]
	for _, r := range regions[1:] {
		last := &out[len(out)-1]
		if last.StartLine == r.StartLine && last.StartCol == r.StartCol {
			if r.Count > last.Count {
				*last = r
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// TouchedFiles returns the sorted list of touched source paths.
func (m *RegionMap) TouchedFiles() []string {
	files := make([]string, 0, len(m.Files))
	for f := range m.Files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}
