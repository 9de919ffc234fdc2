// Package runner implements the pluggable "rerunner" (spec section 1): the
// external process that actually re-executes dirty tests. difftests itself
// never identifies or executes tests (spec section 1's Non-goals); it only
// hands the runner a JSON description of which ones to run and propagates
// its exit code.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/blackcoderx/difftests/internal/subproc"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

// Invocation is the JSON payload written to a temp file and passed as the
// default rerunner's sole argument (spec section 4.5, "spawn the external
// runner once, passing it a JSON payload describing those tests").
type Invocation struct {
	Tests []TestInvocation `json:"tests"`
}

// TestInvocation carries exactly the fields a rerunner needs to identify and
// re-launch one test: bin_path to locate the executable, and extra passed
// through verbatim since the engine never interprets it (spec section 3,
// "TestDescriptor").
type TestInvocation struct {
	BinPath string          `json:"bin_path"`
	Extra   json.RawMessage `json:"extra,omitempty"`
}

// NewInvocation builds an Invocation from a set of dirty test descriptors.
func NewInvocation(descs []testdesc.TestDescriptor) Invocation {
	tests := make([]TestInvocation, len(descs))
	for i, d := range descs {
		tests[i] = TestInvocation{BinPath: d.BinPath, Extra: d.Extra}
	}
	return Invocation{Tests: tests}
}

// Runner reruns a set of tests and reports the exit code it finished with.
// A non-nil error means the runner itself could not be invoked at all
// (spec section 7, distinct from the runner running and failing, which is
// reported via exit code per the RunnerFailed taxonomy entry).
type Runner interface {
	Run(ctx context.Context, inv Invocation) (exitCode int, err error)
}

// CommandRunner is the default rerunner (spec section 1): a command-line
// template invocation. The invocation JSON is written to a temp file and
// its path is appended after ExtraArgs; PROFILE and RUNNER_EXTRA_ARGS are
// exported into the child's environment per spec section 6.
type CommandRunner struct {
	Path      string   // external rerunner binary
	ExtraArgs []string // RUNNER_EXTRA_ARGS, split (spec section 6)
	Profile   string   // PROFILE env var echoed to the rerunner
}

// New constructs a CommandRunner from a resolved runner path and the
// RUNNER_EXTRA_ARGS/PROFILE environment conventions.
func New(path string, extraArgs []string, profile string) CommandRunner {
	return CommandRunner{Path: path, ExtraArgs: extraArgs, Profile: profile}
}

// Run writes inv to a temp file and invokes Path with ExtraArgs followed by
// that file's path, returning the child's exit code.
func (r CommandRunner) Run(ctx context.Context, inv Invocation) (int, error) {
	if r.Path == "" {
		return 0, fmt.Errorf("no runner configured")
	}

	payload, err := json.MarshalIndent(inv, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode rerun invocation: %w", err)
	}

	tmp, err := os.CreateTemp("", "difftests-rerun-*.json")
	if err != nil {
		return 0, fmt.Errorf("failed to create invocation file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("failed to write invocation file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("failed to close invocation file: %w", err)
	}

	args := append(append([]string{}, r.ExtraArgs...), tmpPath)

	var env []string
	if r.Profile != "" {
		env = append(env, "PROFILE="+r.Profile)
	}

	path := r.Path
	if !filepath.IsAbs(path) {
		if resolved, err := filepath.Abs(path); err == nil {
			path = resolved
		}
	}

	res, err := subproc.RunEnv(ctx, "", env, path, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to invoke runner %s: %w", r.Path, err)
	}
	return res.ExitCode, nil
}
