package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/blackcoderx/difftests/pkg/runner"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

func newFakeRunner(t *testing.T, exitCode int) runner.CommandRunner {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	script := filepath.Join(t.TempDir(), "fake-runner.sh")
	contents := "#!/bin/sh\nexit " + strconv.Itoa(exitCode) + "\n"
	if err := os.WriteFile(script, []byte(contents), 0755); err != nil {
		t.Fatal(err)
	}
	return runner.New(script, nil, "")
}

func TestRerunDirtySkipsWhenNothingDirty(t *testing.T) {
	r := newFakeRunner(t, 0)
	results := []Result{{Desc: testdesc.TestDescriptor{BinPath: "/bin/a"}, Verdict: Clean}}

	outcome, err := RerunDirty(context.Background(), results, nil, r, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ExitCode != 0 || len(outcome.Refreshed) != 0 {
		t.Errorf("expected a no-op outcome, got %+v", outcome)
	}
}

func TestRerunDirtyDoesNotRefreshOnFailedRunner(t *testing.T) {
	root := t.TempDir()
	dir := seedTestDir(t, root, "t1", "/bin/a", filepath.Join(root, "a.go"))

	r := newFakeRunner(t, 3)
	results := []Result{{Desc: testdesc.TestDescriptor{BinPath: "/bin/a"}, Verdict: Dirty}}
	dirs := map[string]*testdesc.TestDirectory{"/bin/a": dir}

	outcome, err := RerunDirty(context.Background(), results, dirs, r, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ExitCode != 3 {
		t.Errorf("expected exit code 3 propagated verbatim, got %d", outcome.ExitCode)
	}
	if len(outcome.Refreshed) != 0 {
		t.Errorf("expected no refresh after a failed rerun, got %+v", outcome.Refreshed)
	}
}

func TestRerunDirtySkipsRefreshWhenProfileMissing(t *testing.T) {
	root := t.TempDir()
	dir := seedTestDir(t, root, "t1", "/bin/a", filepath.Join(root, "a.go"))

	r := newFakeRunner(t, 0)
	results := []Result{{Desc: testdesc.TestDescriptor{BinPath: "/bin/a"}, Verdict: Dirty}}
	dirs := map[string]*testdesc.TestDirectory{"/bin/a": dir}

	outcome, err := RerunDirty(context.Background(), results, dirs, r, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", outcome.ExitCode)
	}
	if len(outcome.Refreshed) != 0 {
		t.Errorf("expected no refresh without a raw profile to recompile from, got %+v", outcome.Refreshed)
	}
	if len(outcome.Skipped) != 1 {
		t.Errorf("expected the directory to be reported skipped, got %+v", outcome.Skipped)
	}
}
