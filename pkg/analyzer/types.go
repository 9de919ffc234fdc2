// Package analyzer implements the analyzer & group engine (component C5):
// the verdict engine that consumes an index and a change detector,
// produces clean/dirty per test or group, and drives the rerun loop.
package analyzer

import (
	"github.com/blackcoderx/difftests/pkg/coverage"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

// Verdict is the analyzer's binary output (spec section 4.5): it does not
// distinguish "how dirty".
type Verdict string

const (
	Clean Verdict = "clean"
	Dirty Verdict = "dirty"
)

// Evidence is one touched entry that triggered a dirty verdict.
type Evidence struct {
	File   string           `json:"file"`
	Region *coverage.Region `json:"region,omitempty"`
}

// Result is the per-test (or per-group) record the analyzer emits (spec
// section 4.5, "Result record").
type Result struct {
	Desc     testdesc.TestDescriptor `json:"desc"`
	Verdict  Verdict                 `json:"verdict"`
	Evidence []Evidence              `json:"evidence,omitempty"`
	Truncated bool                   `json:"truncated,omitempty"`

	// Err is set when this test's own analysis failed (ExportFailed,
	// CorruptDescriptor, ...). A non-nil Err always pairs with
	// Verdict == Dirty per spec section 4.5/7's conservatism rule: "a test
	// whose status cannot be determined is conservatively assumed to need
	// rerunning".
	Err string `json:"error,omitempty"`
}

// Action selects what AnalyzeAll does with its results (spec section 4.5).
type Action string

const (
	ActionPrint       Action = "print"
	ActionAssertClean Action = "assert-clean"
	ActionRerunDirty  Action = "rerun-dirty"
)
