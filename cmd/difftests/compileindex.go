package main

import (
	"fmt"
	"path/filepath"

	"github.com/blackcoderx/difftests/pkg/coverage"
	"github.com/blackcoderx/difftests/pkg/index"
	"github.com/blackcoderx/difftests/pkg/testdesc"
	"github.com/spf13/cobra"
)

func newCompileIndexCmd() *cobra.Command {
	var dir, indexPath, indexRoot, root, flattenTo string
	var tiny, full bool

	cmd := &cobra.Command{
		Use:   "compile-index",
		Short: "Compile a test directory's raw profile into a self.index",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()

			if tiny && full {
				printErrAndExit(exitUsageOrIO, fmt.Errorf("--tiny and --full are mutually exclusive"))
			}

			td := openTestDir(dir)
			desc, err := testdesc.ReadDescriptor(td)
			if err != nil {
				printErrAndExit(exitUsageOrIO, err)
			}

			rm, err := coverage.Read(ctx, coverage.DefaultToolchain(), td, desc.BinPath)
			if err != nil {
				printErrAndExit(exitExternalTool, err)
			}

			variant := index.Full
			if tiny {
				variant = index.Tiny
			}

			idx := index.Build(rm, variant, desc)

			switch flattenTo {
			case "", "none":
			case "repo-root":
				if root == "" {
					printErrAndExit(exitUsageOrIO, fmt.Errorf("--flatten-files-to repo-root requires --root"))
				}
				if err := index.Flatten(idx, root); err != nil {
					printErrAndExit(exitUsageOrIO, err)
				}
			default:
				printErrAndExit(exitUsageOrIO, fmt.Errorf("unknown --flatten-files-to value %q", flattenTo))
			}

			outPath := resolveIndexOutputPath(td, indexPath, indexRoot, desc.BinPath)
			if err := index.WriteAtomic(idx, outPath); err != nil {
				printErrAndExit(exitUsageOrIO, err)
			}

			fmt.Println(outPath)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "test directory to compile (required)")
	cmd.Flags().StringVar(&indexPath, "index-path", "", "explicit output path for the compiled index")
	cmd.Flags().StringVar(&indexRoot, "index-root", "", "root under which the index is written, named after the test's bin_path")
	cmd.Flags().StringVar(&root, "root", "", "repository root, required by --flatten-files-to repo-root")
	cmd.Flags().StringVar(&flattenTo, "flatten-files-to", "none", "repo-root|none")
	cmd.Flags().BoolVar(&tiny, "tiny", false, "build a tiny index (files only)")
	cmd.Flags().BoolVar(&full, "full", false, "build a full index (files and regions, default)")
	cmd.MarkFlagRequired("dir")

	return cmd
}

// resolveIndexOutputPath implements compile-index's three output modes
// (spec section 6): an explicit --index-path, a --index-root keyed by the
// test's bin_path, or the TestDirectory's own default self.index location.
func resolveIndexOutputPath(td *testdesc.TestDirectory, indexPath, indexRoot, binPath string) string {
	switch {
	case indexPath != "":
		return indexPath
	case indexRoot != "":
		name := filepath.Base(binPath) + ".index"
		return filepath.Join(indexRoot, name)
	default:
		return td.IndexPath()
	}
}
