// Package index implements the index builder (component C3): folding a
// coverage.RegionMap into a durable, ordered, deduplicated summary of one
// test's (or group's) touched source regions.
package index

import (
	"errors"
	"time"

	"github.com/blackcoderx/difftests/pkg/coverage"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

// Variant is the index's granularity tag (spec section 3, "Index").
type Variant string

const (
	Tiny Variant = "tiny"
	Full Variant = "full"
)

// FormatVersion is this binary's index format version. It is a semver
// string so Read can refuse a self.index produced by an incompatible major
// version while accepting a forward-compatible minor/patch bump (spec
// section 4.3, "forward-compatible variant tag").
const FormatVersion = "1.0.0"

// Header carries every field spec section 6's JSON illustration lists
// outside "files"/"regions": format version, variant, the generating
// test's (or group's) descriptor, creation time, and the flatten root.
type Header struct {
	Version     string                 `json:"v"`
	Variant     Variant                `json:"variant"`
	CreatedAt   time.Time              `json:"created_at"`
	Desc        testdesc.TestDescriptor `json:"desc"`
	FlattenRoot *string                `json:"flatten_root"`
}

// Index is the durable, compact form produced from a RegionMap for one
// test or the union of several (spec section 3, "Index").
type Index struct {
	Header
	Files   []string                       `json:"files"`
	Regions map[string][]coverage.Region   `json:"regions,omitempty"`
	Hash    string                         `json:"hash"`
}

// ErrVariantMismatch is returned when a git-diff-hunks analysis (which
// needs regions) is attempted against a tiny index (spec section 4.3).
var ErrVariantMismatch = errors.New("index variant mismatch: regions requested from a tiny index")

// RequireFull returns ErrVariantMismatch if idx is not a full index.
func (idx *Index) RequireFull() error {
	if idx.Variant != Full {
		return ErrVariantMismatch
	}
	return nil
}
