package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/blackcoderx/difftests/internal/config"
	"github.com/blackcoderx/difftests/pkg/analyzer"
	"github.com/blackcoderx/difftests/pkg/runner"
	"github.com/blackcoderx/difftests/pkg/testdesc"
	"github.com/blackcoderx/difftests/pkg/tui"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// earliestReference scans root for its oldest per-directory fs-mtime
// reference (spec section 4.4, Algorithm A), the conservative choice for a
// single shared Detector over a whole batch: a file touched after any
// member's own reference is never mistaken for clean.
func earliestReference(root string) time.Time {
	dirs, err := testdesc.ListUnder(root)
	if err != nil || len(dirs) == 0 {
		return time.Now()
	}
	var earliest time.Time
	for _, d := range dirs {
		info, err := d.ReferenceTime()
		if err != nil {
			continue
		}
		if earliest.IsZero() || info.ModTime().Before(earliest) {
			earliest = info.ModTime()
		}
	}
	if earliest.IsZero() {
		return time.Now()
	}
	return earliest
}

func newAnalyzeAllCmd() *cobra.Command {
	var dir, algo, commitFlag, action, runnerPath string
	var useTUI, yes, copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "analyze-all",
		Short: "Analyze every test directory under a root",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			cfg := loadConfig(algo, commitFlag)
			if runnerPath != "" {
				cfg.RunnerPath = runnerPath
			}

			det, err := buildDetector(ctx, cfg.Algorithm, dir, cfg.Commit, earliestReference(dir))
			if err != nil {
				printErrAndExit(exitUsageOrIO, err)
			}

			opts := defaultOptions(cfg)
			results, byBinPath, err := analyzer.AnalyzeAll(ctx, dir, det, opts)
			if err != nil {
				printErrAndExit(exitUsageOrIO, err)
			}

			if useTUI {
				if err := tui.Run(results); err != nil {
					printErrAndExit(exitUsageOrIO, err)
				}
				return
			}

			if copyToClipboard {
				copyResultsToClipboard(results)
			}

			switch analyzer.Action(action) {
			case analyzer.ActionAssertClean:
				allClean := true
				for _, r := range results {
					if r.Verdict == analyzer.Dirty {
						allClean = false
						break
					}
				}
				if !allClean {
					printResultsJSON(results)
					os.Exit(exitDirty)
				}
				fmt.Println("clean")

			case analyzer.ActionRerunDirty:
				runDirtyAction(ctx, results, byBinPath, cfg, opts, yes)

			default: // analyzer.ActionPrint
				printResultsJSON(results)
			}
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "root directory to scan for test directories (required)")
	cmd.Flags().StringVar(&algo, "algo", "", "change-detection algorithm")
	cmd.Flags().StringVar(&commitFlag, "commit", "", "reference commit for the git backends")
	cmd.Flags().StringVar(&action, "action", "print", "print|assert-clean|rerun-dirty")
	cmd.Flags().StringVar(&runnerPath, "runner", "", "external rerunner binary")
	cmd.Flags().BoolVar(&useTUI, "tui", false, "open the interactive results browser instead of printing")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the rerun confirmation prompt")
	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "copy the JSON result array to the system clipboard")
	cmd.MarkFlagRequired("dir")

	return cmd
}

// copyResultsToClipboard is a convenience mirrored from the predecessor's
// use of atotto/clipboard for copy-paste-friendly CLI output: a failure to
// reach the system clipboard (e.g. a headless CI runner) is a warning, not
// a reason to abort the analysis the user actually asked for.
func copyResultsToClipboard(results []analyzer.Result) {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to copy results to clipboard: %v\n", err)
	}
}

func printResultsJSON(results []analyzer.Result) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		printErrAndExit(exitUsageOrIO, err)
	}
}

// runDirtyAction implements the `rerun-dirty` action shared by analyze-all
// and rerun-dirty-from-indexes: confirm (unless --yes), spawn the runner
// once over the dirty subset, and propagate its exit code verbatim (spec
// section 6's RunnerFailed passthrough).
func runDirtyAction(ctx context.Context, results []analyzer.Result, byBinPath map[string]*testdesc.TestDirectory, cfg config.Config, opts analyzer.Options, yes bool) {
	dirtyCount := 0
	for _, r := range results {
		if r.Verdict == analyzer.Dirty {
			dirtyCount++
		}
	}

	if dirtyCount == 0 {
		logger.Infof("nothing dirty, skipping rerun")
		printResultsJSON(results)
		return
	}
	logger.Infof("%d dirty test(s) to rerun", dirtyCount)

	if !yes {
		confirmed := true
		prompt := huh.NewConfirm().
			Title(fmt.Sprintf("Rerun %d dirty test(s)?", dirtyCount)).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed)
		if err := huh.NewForm(huh.NewGroup(prompt)).Run(); err != nil {
			printErrAndExit(exitUsageOrIO, err)
		}
		if !confirmed {
			fmt.Fprintln(os.Stderr, "rerun cancelled")
			os.Exit(exitUsageOrIO)
		}
	}

	if cfg.RunnerPath == "" {
		printErrAndExit(exitUsageOrIO, fmt.Errorf("rerun-dirty requires --runner or runner_path in config"))
	}

	r := runner.New(cfg.RunnerPath, cfg.RunnerExtraArgs(), os.Getenv("PROFILE"))
	outcome, err := analyzer.RerunDirty(ctx, results, byBinPath, r, opts)
	if err != nil {
		printErrAndExit(exitExternalTool, err)
	}
	logger.Infof("runner exited %d, refreshed %d index(es), skipped %d", outcome.ExitCode, len(outcome.Refreshed), len(outcome.Skipped))

	printResultsJSON(results)
	os.Exit(outcome.ExitCode)
}
