package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackcoderx/difftests/pkg/changedet"
	"github.com/blackcoderx/difftests/pkg/coverage"
	"github.com/blackcoderx/difftests/pkg/index"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

// seedTestDir writes a self.json and a pre-cached full self.index touching
// srcFile, so AnalyzeAll/AnalyzeGroup never need to shell out to a
// coverage toolchain.
func seedTestDir(t *testing.T, root, name, binPath, srcFile string) *testdesc.TestDirectory {
	t.Helper()
	dirPath := filepath.Join(root, name)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		t.Fatal(err)
	}

	desc := testdesc.TestDescriptor{BinPath: binPath}
	td := &testdesc.TestDirectory{Path: dirPath}
	if err := testdesc.WriteDescriptor(td, desc); err != nil {
		t.Fatal(err)
	}

	rm := coverage.NewRegionMap()
	rm.Add(srcFile, coverage.Region{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 10, Count: 1})
	rm.Finalize()

	built := index.Build(rm, index.Full, desc)
	if err := index.WriteAtomic(built, td.IndexPath()); err != nil {
		t.Fatal(err)
	}
	return td
}

func TestAnalyzeAllSortsByBinPathAndClassifiesCleanDirty(t *testing.T) {
	root := t.TempDir()

	cleanSrc := filepath.Join(root, "clean.go")
	dirtySrc := filepath.Join(root, "dirty.go")
	if err := os.WriteFile(cleanSrc, []byte("package x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dirtySrc, []byte("package x"), 0644); err != nil {
		t.Fatal(err)
	}

	seedTestDir(t, root, "b-test", "/bin/b", cleanSrc)
	seedTestDir(t, root, "a-test", "/bin/a", dirtySrc)

	ref := time.Now()
	time.Sleep(5 * time.Millisecond)
	if err := os.WriteFile(dirtySrc, []byte("package x changed"), 0644); err != nil {
		t.Fatal(err)
	}

	det := changedet.NewFSMtime(ref)
	results, byBinPath, err := AnalyzeAll(context.Background(), root, det, Options{IndexOnly: true, MaxEvidence: 20})
	if err != nil {
		t.Fatalf("AnalyzeAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Desc.BinPath != "/bin/a" || results[1].Desc.BinPath != "/bin/b" {
		t.Errorf("results not sorted by bin_path: %+v", results)
	}
	if results[0].Verdict != Dirty {
		t.Errorf("expected /bin/a dirty, got %s", results[0].Verdict)
	}
	if results[1].Verdict != Clean {
		t.Errorf("expected /bin/b clean, got %s", results[1].Verdict)
	}
	if _, ok := byBinPath["/bin/a"]; !ok {
		t.Error("expected byBinPath to resolve /bin/a")
	}
}

func TestAnalyzeAllSkipsNonTestDirectoriesWithoutSynthesizingDirty(t *testing.T) {
	root := t.TempDir()

	cleanSrc := filepath.Join(root, "clean.go")
	if err := os.WriteFile(cleanSrc, []byte("package x"), 0644); err != nil {
		t.Fatal(err)
	}
	seedTestDir(t, root, "real-test", "/bin/real", cleanSrc)

	// A directory with a self.json but neither a profile nor an index:
	// ListUnder finds it (it has self.json), but testdesc.Open rejects it
	// as ErrNotATestDirectory. Spec section 7 says this class of failure is
	// skipped with a warning, not folded into a dirty Result.
	strayDir := filepath.Join(root, "stray")
	if err := os.MkdirAll(strayDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(strayDir, "self.json"), []byte(`{"bin_path":"/bin/stray"}`), 0644); err != nil {
		t.Fatal(err)
	}

	det := changedet.NewFSMtime(time.Now())
	results, _, err := AnalyzeAll(context.Background(), root, det, Options{IndexOnly: true, MaxEvidence: 20})
	if err != nil {
		t.Fatalf("AnalyzeAll: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected the stray directory to be skipped and omitted, got %d results: %+v", len(results), results)
	}
	if results[0].Desc.BinPath != "/bin/real" {
		t.Errorf("expected only /bin/real to survive, got %+v", results)
	}
}

func TestAnalyzeGroupUnionsAcrossMembers(t *testing.T) {
	root := t.TempDir()

	srcA := filepath.Join(root, "a.go")
	srcB := filepath.Join(root, "b.go")
	if err := os.WriteFile(srcA, []byte("package x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(srcB, []byte("package x"), 0644); err != nil {
		t.Fatal(err)
	}

	seedTestDir(t, root, "t1", "/bin/t1", srcA)
	seedTestDir(t, root, "t2", "/bin/t2", srcB)

	ref := time.Now()
	time.Sleep(5 * time.Millisecond)
	if err := os.WriteFile(srcB, []byte("package x changed"), 0644); err != nil {
		t.Fatal(err)
	}

	det := changedet.NewFSMtime(ref)
	res, members, err := AnalyzeGroup(context.Background(), root, det, Options{IndexOnly: true, MaxEvidence: 20})
	if err != nil {
		t.Fatalf("AnalyzeGroup: %v", err)
	}
	if res.Verdict != Dirty {
		t.Errorf("expected group dirty since one member touched a changed file, got %s", res.Verdict)
	}
	if len(members) != 2 {
		t.Errorf("expected 2 group members, got %d", len(members))
	}
}
