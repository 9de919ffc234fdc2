package changedet

import (
	"os"
	"sync"
	"time"
)

// FSMtime is algorithm A from spec section 4.4: a file is changed iff its
// current mtime is strictly greater than the reference time, or it does
// not exist, or it cannot be stat'd. Regions collapse to their file.
type FSMtime struct {
	reference time.Time

	mu    sync.Mutex
	cache map[string]bool
}

// NewFSMtime builds the default algorithm, referenced against reference
// (the creation time of an index, or a descriptor's mtime — spec section
// 4.4).
func NewFSMtime(reference time.Time) *FSMtime {
	return &FSMtime{reference: reference, cache: make(map[string]bool)}
}

func (d *FSMtime) Algorithm() string { return AlgoFSMtime }

func (d *FSMtime) IsChanged(t Touched) bool {
	d.mu.Lock()
	if changed, ok := d.cache[t.File]; ok {
		d.mu.Unlock()
		return changed
	}
	d.mu.Unlock()

	changed := d.statIsChanged(t.File)

	d.mu.Lock()
	d.cache[t.File] = changed
	d.mu.Unlock()

	return changed
}

func (d *FSMtime) statIsChanged(file string) bool {
	info, err := os.Stat(file)
	if err != nil {
		// Missing, or unstatable: conservative dirty per spec section 4.4
		// and the "Conservatism" testable property in section 8.
		return true
	}
	return info.ModTime().After(d.reference)
}
