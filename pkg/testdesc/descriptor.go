// Package testdesc implements the descriptor store (component C1): the
// per-test TestDirectory and the TestDescriptor it holds.
package testdesc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TestDescriptor is the ordered pair (bin_path, extra) from spec section 3.
// Extra is kept as raw JSON: the engine never interprets it, only preserves
// it verbatim so the external runner can decode test identity after rerun.
type TestDescriptor struct {
	BinPath string          `json:"bin_path"`
	Extra   json.RawMessage `json:"extra,omitempty"`
}

// DescriptorFilename is the fixed name of the descriptor file inside a
// TestDirectory.
const DescriptorFilename = "self.json"

// Validate reports whether d is well-formed enough to analyze: bin_path
// must be non-empty. Extra may be any JSON value, including absent.
func (d TestDescriptor) Validate() error {
	if d.BinPath == "" {
		return fmt.Errorf("%w: bin_path is empty", ErrCorruptDescriptor)
	}
	return nil
}

// Errors from spec section 4.1 and section 7.
var (
	// ErrNoDescriptor is returned when a directory lacks self.json.
	ErrNoDescriptor = errors.New("no descriptor")
	// ErrCorruptDescriptor is returned on malformed descriptor JSON.
	ErrCorruptDescriptor = errors.New("corrupt descriptor")
	// ErrNotATestDirectory is returned for a directory containing neither a
	// profile nor an index — it is not a difftests directory at all.
	ErrNotATestDirectory = errors.New("not a test directory")
)
