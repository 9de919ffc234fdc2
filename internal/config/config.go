// Package config loads the ambient settings shared by every difftests
// subcommand: an optional .env (RUNNER_EXTRA_ARGS, PROFILE, LOG, EXTRA_ARGS),
// an optional project file (.difftests.yaml), and viper-bound defaults that
// cobra flags can override. The .env and viper layering mirrors the
// teacher's cmd/falcon/main.go; the YAML struct shape follows its
// pkg/core/init.go Config.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the resolved set of defaults for a difftests invocation. Load
// fills it from (in priority order) environment, the project YAML file,
// then these hardcoded fallbacks; subcommands then overlay their own flags
// (--algo, --commit, --runner) on Algorithm, Commit and RunnerPath.
type Config struct {
	Algorithm    string `yaml:"algorithm"`     // fs-mtime | git-diff-files | git-diff-hunks
	Commit       string `yaml:"commit"`        // reference commit for the git backends
	IndexRoot    string `yaml:"index_root"`    // loaded only; rerun-dirty-from-indexes takes its root from --index-root
	FlattenRoot  string `yaml:"flatten_root"`  // loaded only; compile-index takes its flatten root from --root
	RunnerPath   string `yaml:"runner_path"`   // default external rerunner binary
	MaxEvidence  int    `yaml:"max_evidence"`  // cap on touched-entries reported as dirty evidence
	RunnerExtras string `yaml:"-"`             // RUNNER_EXTRA_ARGS, comma-separated, env-only
	ExtraArgs    string `yaml:"-"`             // EXTRA_ARGS, env-only; loaded only, nothing forwards it
}

// Default returns the hardcoded fallback configuration.
func Default() Config {
	return Config{
		Algorithm:   "fs-mtime",
		Commit:      "HEAD",
		MaxEvidence: 20,
	}
}

// ProjectConfigName is the optional project-level YAML config file name,
// searched for in the current directory and its parents up to the
// filesystem root, same lookup order viper uses for its config search path.
const ProjectConfigName = ".difftests.yaml"

// Load resolves a Config by layering, in increasing priority:
//  1. Default()
//  2. .difftests.yaml found by walking up from workdir
//  3. process environment (DIFFTESTS_* via viper for the string fields,
//     plus the raw RUNNER_EXTRA_ARGS and EXTRA_ARGS; LOG is read by
//     NewLogger and PROFILE by the CLI)
//
// CLI flags are layered on top of the returned Config by the caller, which
// already holds the bound *pflag.FlagSet values.
func Load(workdir string) (Config, error) {
	cfg := Default()

	// A missing .env is not an error; a malformed one is only a warning,
	// matching the teacher's main() behavior around godotenv.Load().
	if err := godotenv.Load(filepath.Join(workdir, ".env")); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	if path, ok := findProjectConfig(workdir); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("DIFFTESTS")
	v.AutomaticEnv()
	bindIfSet(v, "algorithm", &cfg.Algorithm)
	bindIfSet(v, "commit", &cfg.Commit)
	bindIfSet(v, "index_root", &cfg.IndexRoot)
	bindIfSet(v, "flatten_root", &cfg.FlattenRoot)
	bindIfSet(v, "runner_path", &cfg.RunnerPath)

	cfg.RunnerExtras = os.Getenv("RUNNER_EXTRA_ARGS")
	cfg.ExtraArgs = os.Getenv("EXTRA_ARGS")

	return cfg, nil
}

func bindIfSet(v *viper.Viper, key string, dst *string) {
	if val := v.GetString(key); val != "" {
		*dst = val
	}
}

// findProjectConfig walks up from dir looking for ProjectConfigName.
func findProjectConfig(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// RunnerExtraArgs splits the RUNNER_EXTRA_ARGS env convention into a slice,
// dropping empty segments produced by a trailing comma.
func (c Config) RunnerExtraArgs() []string {
	if c.RunnerExtras == "" {
		return nil
	}
	parts := strings.Split(c.RunnerExtras, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
