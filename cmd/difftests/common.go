package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/blackcoderx/difftests/internal/config"
	"github.com/blackcoderx/difftests/pkg/analyzer"
	"github.com/blackcoderx/difftests/pkg/changedet"
	"github.com/blackcoderx/difftests/pkg/coverage"
	"github.com/blackcoderx/difftests/pkg/testdesc"
)

// logger is the CLI's LOG-gated stderr logger, shared by every subcommand.
var logger = config.NewLogger("difftests")

// buildDetector resolves a Detector for dir using ref as the fs-mtime
// reference time (spec section 4.4, Algorithm A).
func buildDetector(ctx context.Context, algo, workdir, commit string, ref time.Time) (changedet.Detector, error) {
	logger.Debugf("building %q detector for %s (commit=%s)", algo, workdir, commit)
	det, err := changedet.New(ctx, algo, workdir, commit, ref)
	if err != nil {
		logger.Errorf("failed to build detector: %v", err)
	}
	return det, err
}

// loadConfig resolves the layered Config and overlays any explicitly-set
// flag values on top, per internal/config's documented priority order.
func loadConfig(algo, commitFlag string) config.Config {
	cfg, err := config.Load(".")
	if err != nil {
		exitWith(exitUsageOrIO, "error: %v", err)
	}
	if algo != "" {
		cfg.Algorithm = algo
	}
	if commitFlag != "" {
		cfg.Commit = commitFlag
	}
	return cfg
}

func defaultOptions(cfg config.Config) analyzer.Options {
	return analyzer.Options{
		Toolchain:   coverage.DefaultToolchain(),
		MaxEvidence: cfg.MaxEvidence,
		CacheIndex:  true,
		Concurrency: analyzer.DefaultConcurrency,
	}
}

// openTestDir opens dir with exitUsageOrIO on any NoDescriptor/
// NotATestDirectory failure, since a bad --dir is a usage error, not a
// per-test analysis failure.
func openTestDir(path string) *testdesc.TestDirectory {
	dir, err := testdesc.Open(path)
	if err != nil {
		exitWith(exitUsageOrIO, "error: %v", err)
	}
	return dir
}

// referenceTime resolves the fs-mtime reference for dir, exiting on I/O
// failure.
func referenceTime(dir *testdesc.TestDirectory) time.Time {
	info, err := dir.ReferenceTime()
	if err != nil {
		exitWith(exitUsageOrIO, "error: %v", err)
	}
	return info.ModTime()
}

func printErrAndExit(code int, err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(code)
}
