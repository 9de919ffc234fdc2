package testdesc

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// TestDirectory is a filesystem directory owned 1:1 by one test invocation
// (spec section 3, "TestDirectory"). It is a thin handle over a path; all
// reads hit disk directly since the directory is regenerated on every run
// and the engine must never cache data that might already be stale.
type TestDirectory struct {
	Path string
}

// Filenames fixed by spec section 6's "TestDirectory layout".
const (
	MergedProfileFilename = "self.profdata"
	ExportJSONFilename     = "self.export.json"
	IndexFilename          = "self.index"
	profrawGlob            = "*.profraw"
)

// Open validates that path is a real difftests directory and returns a
// handle to it. It refuses directories that contain neither a profile
// fragment nor a compiled index, per spec section 4.1.
func Open(path string) (*TestDirectory, error) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotATestDirectory, path)
	}

	descPath := filepath.Join(path, DescriptorFilename)
	if _, err := os.Stat(descPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDescriptor, path)
	}

	dir := &TestDirectory{Path: path}
	hasProfile := len(dir.ProfrawPaths()) > 0
	hasIndex := dir.HasIndex()
	if !hasProfile && !hasIndex {
		return nil, fmt.Errorf("%w: %s has neither a profile nor an index", ErrNotATestDirectory, path)
	}

	return dir, nil
}

// ListUnder recursively scans root for test directories: any directory
// containing a self.json file is admitted, regardless of nesting depth.
// The descriptor's contents are not parsed here, so a malformed self.json
// is admitted too; callers read it with ReadDescriptor.
// The result is sorted by path for deterministic downstream ordering (spec
// section 5, "result set is returned sorted by descriptor path").
func ListUnder(root string) ([]*TestDirectory, error) {
	var dirs []*TestDirectory

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if _, statErr := os.Stat(filepath.Join(path, DescriptorFilename)); statErr != nil {
			return nil
		}
		td, openErr := Open(path)
		if openErr != nil {
			// Has self.json but fails the profile-or-index check: still
			// surfaced, callers decide whether to skip with a warning.
			dirs = append(dirs, &TestDirectory{Path: path})
			return nil
		}
		dirs = append(dirs, td)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Path < dirs[j].Path })
	return dirs, nil
}

// ReadDescriptor loads and parses self.json.
func ReadDescriptor(dir *TestDirectory) (TestDescriptor, error) {
	data, err := os.ReadFile(filepath.Join(dir.Path, DescriptorFilename))
	if err != nil {
		if os.IsNotExist(err) {
			return TestDescriptor{}, fmt.Errorf("%w: %s", ErrNoDescriptor, dir.Path)
		}
		return TestDescriptor{}, fmt.Errorf("failed to read descriptor: %w", err)
	}

	var desc TestDescriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return TestDescriptor{}, fmt.Errorf("%w: %s: %v", ErrCorruptDescriptor, dir.Path, err)
	}
	if err := desc.Validate(); err != nil {
		return TestDescriptor{}, fmt.Errorf("%w: %s: %v", ErrCorruptDescriptor, dir.Path, err)
	}
	return desc, nil
}

// WriteDescriptor writes desc as self.json. Descriptors are immutable after
// creation by the test-client; within this module only tests call it.
func WriteDescriptor(dir *TestDirectory, desc TestDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode descriptor: %w", err)
	}
	if err := os.MkdirAll(dir.Path, 0755); err != nil {
		return fmt.Errorf("failed to create test directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir.Path, DescriptorFilename), data, 0644); err != nil {
		return fmt.Errorf("failed to write descriptor: %w", err)
	}
	return nil
}

// ProfrawPaths lists the raw profile fragments in dir, sorted for
// determinism.
func (d *TestDirectory) ProfrawPaths() []string {
	matches, err := filepath.Glob(filepath.Join(d.Path, profrawGlob))
	if err != nil {
		return nil
	}
	sort.Strings(matches)
	return matches
}

// HasIndex reports whether a compiled index is already cached in dir.
func (d *TestDirectory) HasIndex() bool {
	_, err := os.Stat(d.IndexPath())
	return err == nil
}

func (d *TestDirectory) DescriptorPath() string   { return filepath.Join(d.Path, DescriptorFilename) }
func (d *TestDirectory) MergedProfilePath() string { return filepath.Join(d.Path, MergedProfileFilename) }
func (d *TestDirectory) ExportJSONPath() string     { return filepath.Join(d.Path, ExportJSONFilename) }
func (d *TestDirectory) IndexPath() string          { return filepath.Join(d.Path, IndexFilename) }

// ReferenceTime returns the fs-mtime algorithm's reference time for this
// directory: the creation time of the compiled index if present, otherwise
// the mtime of the descriptor file (spec section 4.4, Algorithm A).
func (d *TestDirectory) ReferenceTime() (os.FileInfo, error) {
	if d.HasIndex() {
		info, err := os.Stat(d.IndexPath())
		if err == nil {
			return info, nil
		}
	}
	return os.Stat(d.DescriptorPath())
}
