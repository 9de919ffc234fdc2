package coverage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDiscardsZeroCountRegions(t *testing.T) {
	dir := t.TempDir()
	srcFile := filepath.Join(dir, "a.rs")
	if err := os.WriteFile(srcFile, []byte("fn main() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	doc := `{"data":[{"functions":[{"filenames":["` + srcFile + `"],"regions":[
		[10,1,20,1,3,0,0],
		[40,1,45,1,0,0,0]
	]}]}]}`

	rm, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	touched := rm.TouchedFiles()
	if len(touched) != 1 {
		t.Fatalf("expected 1 touched file, got %d: %v", len(touched), touched)
	}

	regions := rm.Files[touched[0]]
	if len(regions) != 1 {
		t.Fatalf("expected 1 surviving region, got %d", len(regions))
	}
	if regions[0].StartLine != 10 || regions[0].Count != 3 {
		t.Errorf("unexpected region: %+v", regions[0])
	}
}

func TestParseMarksMissingFileUnverified(t *testing.T) {
	doc := `{"data":[{"functions":[{"filenames":["/does/not/exist.rs"],"regions":[
		[1,1,2,1,1,0,0]
	]}]}]}`

	rm, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(rm.TouchedFiles()) != 1 {
		t.Fatalf("expected the unresolved file to still be touched")
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Fatal("expected ParseFailed error")
	}
}

func TestRegionMapFinalizeDedupesSameKey(t *testing.T) {
	rm := NewRegionMap()
	rm.Add("a.rs", Region{StartLine: 5, StartCol: 1, EndLine: 6, EndCol: 1, Count: 1})
	rm.Add("a.rs", Region{StartLine: 5, StartCol: 1, EndLine: 6, EndCol: 1, Count: 9})
	rm.Finalize()

	if len(rm.Files["a.rs"]) != 1 {
		t.Fatalf("expected dedup to collapse to 1 region, got %d", len(rm.Files["a.rs"]))
	}
	if rm.Files["a.rs"][0].Count != 9 {
		t.Errorf("expected dedup to keep the max count, got %d", rm.Files["a.rs"][0].Count)
	}
}
