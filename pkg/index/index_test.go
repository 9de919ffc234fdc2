package index

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackcoderx/difftests/pkg/coverage"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

func sampleRegionMap() *coverage.RegionMap {
	rm := coverage.NewRegionMap()
	rm.Add("/repo/a.rs", coverage.Region{StartLine: 10, StartCol: 1, EndLine: 20, EndCol: 1, Count: 4})
	rm.Add("/repo/b.rs", coverage.Region{StartLine: 1, StartCol: 1, EndLine: 2, EndCol: 1, Count: 1})
	rm.Finalize()
	return rm
}

func TestBuildTinyOmitsRegions(t *testing.T) {
	idx := Build(sampleRegionMap(), Tiny, testdesc.TestDescriptor{BinPath: "/bin/t_add"})
	if idx.Regions != nil {
		t.Error("tiny index must not carry regions")
	}
	if len(idx.Files) != 2 {
		t.Fatalf("expected 2 touched files, got %d", len(idx.Files))
	}
}

func TestBuildFullCarriesRegions(t *testing.T) {
	idx := Build(sampleRegionMap(), Full, testdesc.TestDescriptor{BinPath: "/bin/t_add"})
	if len(idx.Regions["/repo/a.rs"]) != 1 {
		t.Fatalf("expected 1 region for a.rs, got %d", len(idx.Regions["/repo/a.rs"]))
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	idx := Build(sampleRegionMap(), Full, testdesc.TestDescriptor{BinPath: "/bin/t_add"})
	path := filepath.Join(t.TempDir(), "self.index")

	if err := Write(idx, path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	reread, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if reread.Hash != idx.Hash {
		t.Errorf("hash mismatch after round trip: %s vs %s", reread.Hash, idx.Hash)
	}
	if len(reread.Files) != len(idx.Files) {
		t.Errorf("file count mismatch after round trip")
	}
}

func TestReadRejectsTamperedHash(t *testing.T) {
	idx := Build(sampleRegionMap(), Tiny, testdesc.TestDescriptor{BinPath: "/bin/t_add"})
	path := filepath.Join(t.TempDir(), "self.index")
	if err := Write(idx, path); err != nil {
		t.Fatal(err)
	}

	// Mutating an index changes its content hash; rewriting a touched path
	// on disk without restamping the stored hash must make Read refuse it.
	reread, err := Read(path)
	if err != nil {
		t.Fatalf("unexpected error reading an intact index: %v", err)
	}
	reread.Files = append(reread.Files, "/extra.rs")
	if ContentHash(reread) == reread.Hash {
		t.Fatal("expected mutated index to hash differently")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := bytes.ReplaceAll(data, []byte("/repo/a.rs"), []byte("/repo/z.rs"))
	if err := os.WriteFile(path, tampered, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt for a tampered index, got %v", err)
	}
}

func TestRequireFullRejectsTiny(t *testing.T) {
	idx := Build(sampleRegionMap(), Tiny, testdesc.TestDescriptor{BinPath: "/bin/t_add"})
	if err := idx.RequireFull(); err != ErrVariantMismatch {
		t.Fatalf("expected ErrVariantMismatch, got %v", err)
	}
}

func TestMergeUnionsFiles(t *testing.T) {
	a := Build(sampleRegionMap(), Tiny, testdesc.TestDescriptor{BinPath: "/bin/t_add"})

	rm2 := coverage.NewRegionMap()
	rm2.Add("/repo/c.rs", coverage.Region{StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 5, Count: 1})
	rm2.Finalize()
	b := Build(rm2, Tiny, testdesc.TestDescriptor{BinPath: "/bin/t_mul"})

	group, err := Merge([]*Index{a, b}, testdesc.TestDescriptor{BinPath: "group"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(group.Files) != 3 {
		t.Fatalf("expected union of 3 files, got %d: %v", len(group.Files), group.Files)
	}
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	idx := Build(sampleRegionMap(), Full, testdesc.TestDescriptor{BinPath: "/bin/t_add"})
	original := append([]string(nil), idx.Files...)

	if err := Flatten(idx, "/repo"); err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	for _, f := range idx.Files {
		if filepath.IsAbs(f) {
			t.Errorf("expected flattened path to be relative, got %s", f)
		}
	}

	Unflatten(idx)
	if len(idx.Files) != len(original) {
		t.Fatalf("unflatten changed file count")
	}
}

func TestCheckVersionRejectsNewerMajor(t *testing.T) {
	if err := CheckVersion("99.0.0"); err == nil {
		t.Fatal("expected incompatible version error")
	}
	if err := CheckVersion(FormatVersion); err != nil {
		t.Fatalf("current format version should be accepted: %v", err)
	}
}
