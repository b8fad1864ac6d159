package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/derivekit/derivekit/compiler/gen"
	"github.com/derivekit/derivekit/compiler/load"
)

// defaultConfigFile is looked up in the working directory when --config is
// not given.
const defaultConfigFile = ".derivekit.yaml"

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: false,
	Prefix:          "derivekit",
})

var rootCmd = &cobra.Command{
	Use:   "derivekit",
	Short: "Derive conversions and wrappers for annotated Go types",
	Long: "derivekit scans Go packages for //derive: directives and generates\n" +
		"conversion constructors and transparent wrapper methods for the\n" +
		"annotated types.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default .derivekit.yaml)")
	rootCmd.PersistentFlags().StringP("dir", "C", ".", "working directory for package loading")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

// config is the file-backed generation configuration. Flags override it.
type config struct {
	// Patterns are the package patterns to scan, ./... by default.
	Patterns []string `yaml:"patterns"`
	// Filename names the generated file in each package.
	Filename string `yaml:"filename"`
	// Header overrides the generated file header comment.
	Header string `yaml:"header"`
	// Workers bounds generation parallelism; 0 means GOMAXPROCS.
	Workers int `yaml:"workers"`
	// BuildFlags are passed to the build system when loading packages.
	BuildFlags []string `yaml:"build_flags"`
}

// loadConfig reads the configuration file. A missing default file is not an
// error; an explicitly named file must exist.
func loadConfig(cmd *cobra.Command, dir string) (*config, error) {
	cfg := &config{Patterns: []string{"./..."}}
	path, _ := cmd.Flags().GetString("config")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(dir, defaultConfigFile)
	}
	buf, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if len(cfg.Patterns) == 0 {
			cfg.Patterns = []string{"./..."}
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command) (*config, string, error) {
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		logger.SetLevel(log.DebugLevel)
	}
	dir, _ := cmd.Flags().GetString("dir")
	cfg, err := loadConfig(cmd, dir)
	if err != nil {
		return nil, "", err
	}
	return cfg, dir, nil
}

// runGenerate performs one scan-and-generate pass.
func runGenerate(ctx context.Context, cfg *config, dir string, patterns []string) error {
	if len(patterns) == 0 {
		patterns = cfg.Patterns
	}
	pkgs, err := (&load.Config{Dir: dir, BuildFlags: cfg.BuildFlags}).Load(patterns...)
	if err != nil {
		return err
	}
	if len(pkgs) == 0 {
		logger.Warn("no derive directives found", "patterns", patterns)
		return nil
	}
	sources := make([]gen.Source, len(pkgs))
	for i, p := range pkgs {
		logger.Debug("scanned package", "pkg", p.PkgPath, "decls", len(p.Decls))
		sources[i] = gen.Source{Dir: p.Dir, Package: p.Name, Decls: p.Decls}
	}
	g := gen.NewGenerator(sources...).
		WithWorkers(cfg.Workers).
		WithFilename(cfg.Filename).
		WithHeader(cfg.Header)
	if err := g.Generate(ctx); err != nil {
		return err
	}
	logger.Info("generated", "packages", len(sources))
	return nil
}
