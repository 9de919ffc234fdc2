package index

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ContentHash computes a sha256 over the header and payload (files and, for
// full indices, regions), excluding the Hash field itself — spec section
// 4.3's "a content hash over header+payload to detect corruption". Go's
// encoding/json sorts string map keys, so this is deterministic given
// identical field values, including map-typed Regions.
func ContentHash(idx *Index) string {
	clone := *idx
	clone.Hash = ""
	data, err := json.Marshal(clone)
	if err != nil {
		// Marshal of a struct composed entirely of strings, times and ints
		// cannot fail; a panic here would indicate a programming error, not
		// a runtime condition callers can meaningfully recover from.
		panic(fmt.Sprintf("index: content hash marshal: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ErrCorrupt is returned by Read when the stored hash does not match the
// recomputed content hash.
var ErrCorrupt = fmt.Errorf("index corrupt: content hash mismatch")

// Write persists idx to path, recomputing and stamping its content hash
// first. The write is not atomic by itself; callers performing a refresh
// of a live index should write to a sibling and rename (spec section 4.5).
func Write(idx *Index, path string) error {
	idx.Hash = ContentHash(idx)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index: %w", err)
	}
	return nil
}

// WriteAtomic implements the "refresh" step from spec section 4.5: write
// to a sibling temp file, then rename over path.
func WriteAtomic(idx *Index, path string) error {
	tmp := path + ".tmp"
	if err := Write(idx, tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace index atomically: %w", err)
	}
	return nil
}

// Read loads and validates an index from path: JSON-schema shape, semver
// compatibility, and content-hash integrity, in that order.
func Read(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	if err := ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if err := CheckVersion(idx.Version); err != nil {
		return nil, err
	}

	want := idx.Hash
	got := ContentHash(&idx)
	if want != got {
		return nil, fmt.Errorf("%w: stored %s, recomputed %s", ErrCorrupt, want, got)
	}

	return &idx, nil
}
