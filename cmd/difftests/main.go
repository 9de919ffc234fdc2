// Command difftests is the driver CLI (spec section 6): a thin cobra
// wrapper over pkg/testdesc, pkg/coverage, pkg/index, pkg/changedet and
// pkg/analyzer.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Exit codes from spec section 6.
const (
	exitSuccess      = 0
	exitDirty        = 1
	exitUsageOrIO    = 2
	exitExternalTool = 3
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "difftests",
	Short: "Selective re-testing engine driven by per-test coverage",
	Long: `difftests partitions a pool of previously executed tests into clean
(skippable) and dirty (must rerun) based on which source regions each test
touched and which files have changed since. It does not identify, compile,
or execute tests itself — it drives a pluggable external runner.`,
}

func init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newAnalyzeAllCmd(),
		newAnalyzeGroupCmd(),
		newCompileIndexCmd(),
		newRerunDirtyFromIndexesCmd(),
		newVersionCmd(),
	)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("difftests %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitUsageOrIO)
	}
}

// exitWith prints msg to stderr (if non-empty) and exits with code,
// matching the teacher's "fmt.Fprintf(os.Stderr, ...); os.Exit(1)" style
// rather than propagating errors back up through cobra, since the CLI
// surface needs the specific exit codes in spec section 6.
func exitWith(code int, format string, args ...any) {
	if format != "" {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
	os.Exit(code)
}
