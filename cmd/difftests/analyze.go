package main

import (
	"fmt"

	"github.com/blackcoderx/difftests/pkg/analyzer"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var dir, algo, commitFlag, indexPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a single test directory and print clean or dirty",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			cfg := loadConfig(algo, commitFlag)

			td := openTestDir(dir)
			ref := referenceTime(td)

			det, err := buildDetector(ctx, cfg.Algorithm, dir, cfg.Commit, ref)
			if err != nil {
				printErrAndExit(exitUsageOrIO, err)
			}

			opts := defaultOptions(cfg)
			opts.IndexPath = indexPath

			res, err := analyzer.AnalyzeOne(ctx, td, det, opts)
			if err != nil {
				fmt.Println("dirty")
				printErrAndExit(exitExternalTool, err)
			}

			fmt.Println(res.Verdict)
			if res.Verdict == analyzer.Dirty {
				exitWith(exitDirty, "")
			}
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "test directory to analyze (required)")
	cmd.Flags().StringVar(&algo, "algo", "", "change-detection algorithm (fs-mtime|git-diff-files|git-diff-hunks)")
	cmd.Flags().StringVar(&commitFlag, "commit", "", "reference commit for the git backends")
	cmd.Flags().StringVar(&indexPath, "index-path", "", "explicit index file path, overriding the directory default")
	cmd.MarkFlagRequired("dir")

	return cmd
}
