package changedet

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFSMtimeCleanWhenUnmodified(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.rs")
	if err := os.WriteFile(file, []byte("fn main(){}"), 0644); err != nil {
		t.Fatal(err)
	}

	ref := time.Now().Add(time.Hour) // reference after the write
	d := NewFSMtime(ref)
	if d.IsChanged(Touched{File: file}) {
		t.Error("expected clean for a file older than the reference time")
	}
}

func TestFSMtimeDirtyWhenTouchedAfterReference(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "a.rs")
	if err := os.WriteFile(file, []byte("fn main(){}"), 0644); err != nil {
		t.Fatal(err)
	}

	ref := time.Now().Add(-time.Hour) // reference before the write
	d := NewFSMtime(ref)
	if !d.IsChanged(Touched{File: file}) {
		t.Error("expected dirty for a file newer than the reference time")
	}
}

func TestFSMtimeDirtyWhenMissing(t *testing.T) {
	d := NewFSMtime(time.Now())
	if !d.IsChanged(Touched{File: filepath.Join(t.TempDir(), "gone.rs")}) {
		t.Error("expected dirty for a missing file (conservatism property)")
	}
}

func TestRegionIntersectsHunk(t *testing.T) {
	cases := []struct {
		name             string
		start, end       int
		hunk             Hunk
		want             bool
	}{
		{"fully before", 10, 20, Hunk{NewStart: 40, NewLen: 5}, false},
		{"overlaps tail", 10, 45, Hunk{NewStart: 40, NewLen: 5}, true},
		{"single line edit inside", 40, 45, Hunk{NewStart: 42, NewLen: 1}, true},
		{"pure deletion touches line", 10, 12, Hunk{NewStart: 10, NewLen: 0}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := regionIntersectsHunk(c.start, c.end, c.hunk); got != c.want {
				t.Errorf("regionIntersectsHunk(%d,%d,%v) = %v, want %v", c.start, c.end, c.hunk, got, c.want)
			}
		})
	}
}
