// Package subproc is the single place that shells out to external tools:
// the host toolchain's profile-merge and coverage-export utilities, the
// version-control backend, and the user's rerunner. Centralizing it keeps
// the suspension points named in spec section 5 ("Concurrency & Resource
// Model") easy to audit and cancel.
package subproc

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Result captures a finished invocation's output streams and exit status.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Run executes name with args under ctx, in dir (cwd unchanged if dir is
// empty). It returns a non-nil error only when the process could not be
// started or was killed by ctx; a non-zero exit is reported via
// Result.ExitCode with a nil error so callers can inspect stderr before
// deciding how to classify the failure.
func Run(ctx context.Context, dir string, name string, args ...string) (Result, error) {
	return RunEnv(ctx, dir, nil, name, args...)
}

// RunEnv is Run with additional environment variables ("KEY=value") appended
// on top of the current process environment, for invocations like the
// default rerunner that need PROFILE or RUNNER_EXTRA_ARGS visible to the
// child (spec section 6, "Environment").
func RunEnv(ctx context.Context, dir string, extraEnv []string, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}
	if len(extraEnv) > 0 {
		cmd.Env = append(os.Environ(), extraEnv...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if err == nil {
		res.ExitCode = 0
		return res, nil
	}

	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}

	return res, fmt.Errorf("failed to run %s: %w", name, err)
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}
