package index

import (
	"path/filepath"

	"github.com/blackcoderx/difftests/internal/pathutil"
	"github.com/blackcoderx/difftests/pkg/coverage"
)

// Flatten rewrites idx's touched paths to be relative to root, recording
// root in the header so the analyzer can resolve them back at read time
// (spec section 4.3, "Optional flattening"). It mutates idx in place and
// recomputes the content hash.
func Flatten(idx *Index, root string) error {
	root = filepath.Clean(root)
	idx.FlattenRoot = &root

	idx.Files = relativizeAll(idx.Files, root)
	idx.Regions = rekeyRegions(idx.Regions, root)

	idx.Hash = ContentHash(idx)
	return nil
}

// Unflatten resolves idx's paths back to absolute by prepending the stored
// flatten root (spec section 4.3: "the analyzer resolves paths by
// prepending the configured root at read time"). Paths Flatten left absolute
// (those outside the root) are kept as they are. It is a no-op if idx was
// never flattened.
func Unflatten(idx *Index) {
	if idx.FlattenRoot == nil {
		return
	}
	root := *idx.FlattenRoot

	for i, f := range idx.Files {
		if !filepath.IsAbs(f) {
			idx.Files[i] = filepath.Join(root, f)
		}
	}
	if idx.Regions != nil {
		resolved := make(map[string][]coverage.Region, len(idx.Regions))
		for f, regions := range idx.Regions {
			if !filepath.IsAbs(f) {
				f = filepath.Join(root, f)
			}
			resolved[f] = regions
		}
		idx.Regions = resolved
	}
}

func relativizeAll(files []string, root string) []string {
	out := make([]string, len(files))
	for i, f := range files {
		if rel, err := filepath.Rel(root, f); err == nil && pathutil.WithinRoot(f, root) {
			out[i] = rel
			continue
		}
		out[i] = f
	}
	return out
}

func rekeyRegions(regions map[string][]coverage.Region, root string) map[string][]coverage.Region {
	if regions == nil {
		return nil
	}
	out := make(map[string][]coverage.Region, len(regions))
	for f, rs := range regions {
		if rel, err := filepath.Rel(root, f); err == nil && pathutil.WithinRoot(f, root) {
			out[rel] = rs
			continue
		}
		out[f] = rs
	}
	return out
}
