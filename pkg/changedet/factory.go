package changedet

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownAlgorithm is returned when algo names something other than the
// three algorithms spec section 4.4 defines.
var ErrUnknownAlgorithm = errors.New("unknown change-detection algorithm")

// New constructs the Detector named by algo (spec section 4.4's three
// algorithm names), the single switch point the CLI needs instead of
// importing all three constructors directly.
func New(ctx context.Context, algo string, dir, commit string, reference time.Time) (Detector, error) {
	switch algo {
	case AlgoFSMtime:
		return NewFSMtime(reference), nil
	case AlgoGitDiffFiles:
		return NewGitDiffFiles(ctx, dir, commit)
	case AlgoGitDiffHunks:
		return NewGitDiffHunks(ctx, dir, commit)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algo)
	}
}
