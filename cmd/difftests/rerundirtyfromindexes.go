package main

import (
	"os"

	"github.com/blackcoderx/difftests/pkg/analyzer"
	"github.com/spf13/cobra"
)

func newRerunDirtyFromIndexesCmd() *cobra.Command {
	var indexRoot, algo, commitFlag, runnerPath string
	var yes bool

	cmd := &cobra.Command{
		Use:   "rerun-dirty-from-indexes",
		Short: "Like analyze-all --action rerun-dirty, but reads indices instead of raw profiles",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			cfg := loadConfig(algo, commitFlag)
			if runnerPath != "" {
				cfg.RunnerPath = runnerPath
			}

			det, err := buildDetector(ctx, cfg.Algorithm, indexRoot, cfg.Commit, earliestReference(indexRoot))
			if err != nil {
				printErrAndExit(exitUsageOrIO, err)
			}

			opts := defaultOptions(cfg)
			opts.IndexOnly = true
			opts.CacheIndex = false

			results, byBinPath, err := analyzer.AnalyzeAll(ctx, indexRoot, det, opts)
			if err != nil {
				printErrAndExit(exitUsageOrIO, err)
			}

			runDirtyAction(ctx, results, byBinPath, cfg, opts, yes)
			os.Exit(exitSuccess)
		},
	}

	cmd.Flags().StringVar(&indexRoot, "index-root", "", "root under which compiled indices are looked up (required)")
	cmd.Flags().StringVar(&algo, "algo", "", "change-detection algorithm")
	cmd.Flags().StringVar(&commitFlag, "commit", "", "reference commit for the git backends")
	cmd.Flags().StringVar(&runnerPath, "runner", "", "external rerunner binary")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the rerun confirmation prompt")
	cmd.MarkFlagRequired("index-root")

	return cmd
}
