package testdesc

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSelfJSON(t *testing.T, dir, binPath string) {
	t.Helper()
	desc := TestDescriptor{BinPath: binPath, Extra: []byte(`{"name":"t_add"}`)}
	td := &TestDirectory{Path: dir}
	if err := WriteDescriptor(td, desc); err != nil {
		t.Fatalf("WriteDescriptor: %v", err)
	}
}

func TestOpenRefusesEmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSelfJSON(t, dir, "/bin/t_add")

	if _, err := Open(dir); err == nil {
		t.Fatal("expected Open to refuse a directory with neither profile nor index")
	}
}

func TestOpenAcceptsDirectoryWithProfile(t *testing.T) {
	dir := t.TempDir()
	writeSelfJSON(t, dir, "/bin/t_add")
	if err := os.WriteFile(filepath.Join(dir, "frag0.profraw"), []byte{0xDE, 0xAD}, 0644); err != nil {
		t.Fatal(err)
	}

	td, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(td.ProfrawPaths()) != 1 {
		t.Fatalf("expected 1 profraw, got %d", len(td.ProfrawPaths()))
	}
}

func TestOpenMissingDescriptor(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(dir); err == nil {
		t.Fatal("expected error for directory without self.json")
	}
}

func TestReadDescriptorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeSelfJSON(t, dir, "/bin/t_mul")

	td := &TestDirectory{Path: dir}
	desc, err := ReadDescriptor(td)
	if err != nil {
		t.Fatalf("ReadDescriptor: %v", err)
	}
	if desc.BinPath != "/bin/t_mul" {
		t.Errorf("BinPath = %q, want /bin/t_mul", desc.BinPath)
	}
}

func TestReadDescriptorCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, DescriptorFilename), []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	td := &TestDirectory{Path: dir}
	if _, err := ReadDescriptor(td); err == nil {
		t.Fatal("expected error for malformed descriptor JSON")
	}
}

func TestListUnderFindsNestedDirectories(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "t_add")
	b := filepath.Join(root, "group", "t_mul")
	for _, d := range []string{a, b} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
		writeSelfJSON(t, d, filepath.Join(d, "bin"))
		if err := os.WriteFile(filepath.Join(d, "x.profraw"), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	dirs, err := ListUnder(root)
	if err != nil {
		t.Fatalf("ListUnder: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("expected 2 test directories, got %d", len(dirs))
	}
	if dirs[0].Path >= dirs[1].Path {
		t.Errorf("expected sorted order, got %v", dirs)
	}
}
