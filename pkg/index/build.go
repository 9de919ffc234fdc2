package index

import (
	"sort"
	"time"

	"github.com/blackcoderx/difftests/pkg/coverage"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

// Build folds rm into an Index of the requested variant for desc (spec
// section 4.3, "build(region_map, variant) -> index").
func Build(rm *coverage.RegionMap, variant Variant, desc testdesc.TestDescriptor) *Index {
	idx := &Index{
		Header: Header{
			Version:   FormatVersion,
			Variant:   variant,
			CreatedAt: time.Now().UTC(),
			Desc:      desc,
		},
		Files: rm.TouchedFiles(),
	}

	if variant == Full {
		idx.Regions = make(map[string][]coverage.Region, len(rm.Files))
		for file, regions := range rm.Files {
			cp := make([]coverage.Region, len(regions))
			copy(cp, regions)
			idx.Regions[file] = cp
		}
	}

	idx.Hash = ContentHash(idx)
	return idx
}

// Merge unions a set of indices by file (and by region for full indices)
// into a single group index, per spec section 4.3's merge operation and
// section 3's "Group" — the group's touched set is the union of its
// members'. All inputs must share a variant; Merge widens nothing.
func Merge(indexes []*Index, groupDesc testdesc.TestDescriptor) (*Index, error) {
	if len(indexes) == 0 {
		return &Index{
			Header: Header{Version: FormatVersion, Variant: Tiny, CreatedAt: time.Now().UTC(), Desc: groupDesc},
			Files:  []string{},
		}, nil
	}

	variant := indexes[0].Variant
	for _, idx := range indexes {
		if idx.Variant != variant {
			return nil, ErrVariantMismatch
		}
	}

	fileSet := make(map[string]bool)
	var regionUnion map[string][]coverage.Region
	if variant == Full {
		regionUnion = make(map[string][]coverage.Region)
	}

	for _, idx := range indexes {
		for _, f := range idx.Files {
			fileSet[f] = true
		}
		if variant == Full {
			for file, regions := range idx.Regions {
				regionUnion[file] = append(regionUnion[file], regions...)
			}
		}
	}

	merged := &Index{
		Header: Header{Version: FormatVersion, Variant: variant, CreatedAt: time.Now().UTC(), Desc: groupDesc},
		Files:  sortedKeys(fileSet),
	}

	if variant == Full {
		merged.Regions = make(map[string][]coverage.Region, len(regionUnion))
		for file, regions := range regionUnion {
			rm := coverage.NewRegionMap()
			for _, r := range regions {
				rm.Add(file, r)
			}
			rm.Finalize()
			merged.Regions[file] = rm.Files[file]
		}
	}

	merged.Hash = ContentHash(merged)
	return merged, nil
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
