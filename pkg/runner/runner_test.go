package runner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/blackcoderx/difftests/pkg/testdesc"
)

func TestNewInvocationPreservesExtraVerbatim(t *testing.T) {
	descs := []testdesc.TestDescriptor{
		{BinPath: "/bin/a", Extra: json.RawMessage(`{"suite":"unit"}`)},
		{BinPath: "/bin/b"},
	}

	inv := NewInvocation(descs)
	if len(inv.Tests) != 2 {
		t.Fatalf("expected 2 tests, got %d", len(inv.Tests))
	}
	if string(inv.Tests[0].Extra) != `{"suite":"unit"}` {
		t.Errorf("extra not preserved verbatim: %s", inv.Tests[0].Extra)
	}
	if inv.Tests[1].Extra != nil {
		t.Errorf("expected nil extra for a descriptor with none, got %s", inv.Tests[1].Extra)
	}
}

func TestCommandRunnerPropagatesExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	script := filepath.Join(t.TempDir(), "fake-runner.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 7\n"), 0755); err != nil {
		t.Fatal(err)
	}

	r := New(script, nil, "")
	code, err := r.Run(context.Background(), NewInvocation(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 7 {
		t.Errorf("expected exit code 7, got %d", code)
	}
}

func TestCommandRunnerWritesInvocationFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}

	captured := filepath.Join(t.TempDir(), "captured.json")
	script := filepath.Join(t.TempDir(), "fake-runner.sh")
	contents := "#!/bin/sh\ncp \"$1\" \"" + captured + "\"\nexit 0\n"
	if err := os.WriteFile(script, []byte(contents), 0755); err != nil {
		t.Fatal(err)
	}

	r := New(script, nil, "")
	inv := NewInvocation([]testdesc.TestDescriptor{{BinPath: "/bin/test1"}})
	code, err := r.Run(context.Background(), inv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}

	data, err := os.ReadFile(captured)
	if err != nil {
		t.Fatalf("runner did not receive an invocation file: %v", err)
	}
	var got Invocation
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invocation file was not valid JSON: %v", err)
	}
	if len(got.Tests) != 1 || got.Tests[0].BinPath != "/bin/test1" {
		t.Errorf("unexpected invocation contents: %+v", got)
	}
}

func TestCommandRunnerRequiresPath(t *testing.T) {
	r := CommandRunner{}
	if _, err := r.Run(context.Background(), NewInvocation(nil)); err == nil {
		t.Error("expected an error when no runner path is configured")
	}
}
