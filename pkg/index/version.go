package index

import (
	"fmt"

	"github.com/blang/semver"
)

// ErrIncompatibleVersion is returned when an on-disk index's format version
// has a newer major component than this binary understands — the
// forward-compatible variant-tag promise from spec section 4.3 covers
// minor/patch additions, not breaking major bumps.
var ErrIncompatibleVersion = fmt.Errorf("index format version incompatible")

// CheckVersion parses stored as semver and compares its major component
// against FormatVersion's.
func CheckVersion(stored string) error {
	want, err := semver.Parse(FormatVersion)
	if err != nil {
		panic(fmt.Sprintf("index: FormatVersion is not valid semver: %v", err))
	}

	got, err := semver.Parse(stored)
	if err != nil {
		return fmt.Errorf("%w: unparseable version %q: %v", ErrIncompatibleVersion, stored, err)
	}

	if got.Major > want.Major {
		return fmt.Errorf("%w: index is format v%s, this binary understands up to v%d.x.x", ErrIncompatibleVersion, stored, want.Major)
	}
	return nil
}
