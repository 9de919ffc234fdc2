package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/blackcoderx/difftests/pkg/analyzer"
	"github.com/spf13/cobra"
)

func newAnalyzeGroupCmd() *cobra.Command {
	var dir, algo, commitFlag string

	cmd := &cobra.Command{
		Use:   "analyze-group",
		Short: "Analyze every test directory under a root as one group",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			cfg := loadConfig(algo, commitFlag)

			det, err := buildDetector(ctx, cfg.Algorithm, dir, cfg.Commit, earliestReference(dir))
			if err != nil {
				printErrAndExit(exitUsageOrIO, err)
			}

			opts := defaultOptions(cfg)
			res, _, err := analyzer.AnalyzeGroup(ctx, dir, det, opts)
			if err != nil {
				printErrAndExit(exitUsageOrIO, err)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(res)

			fmt.Fprintln(os.Stderr, res.Verdict)
			if res.Verdict == analyzer.Dirty {
				os.Exit(exitDirty)
			}
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "root directory whose tests are treated as one group (required)")
	cmd.Flags().StringVar(&algo, "algo", "", "change-detection algorithm")
	cmd.Flags().StringVar(&commitFlag, "commit", "", "reference commit for the git backends")
	cmd.MarkFlagRequired("dir")

	return cmd
}
