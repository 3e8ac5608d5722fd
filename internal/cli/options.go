package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/example/extstub/internal/config"
	"github.com/example/extstub/internal/discovery"
	"github.com/spf13/cobra"
)

// rootOptions holds the flags shared by every subcommand. Values are read
// back through config.Load so that file and environment settings apply too.
type rootOptions struct {
	configPath string
}

func (o *rootOptions) register(cmd *cobra.Command) {
	d := config.Default()
	flags := cmd.PersistentFlags()

	flags.StringVar(&o.configPath, "config", "", "Path to config file (default <project>/"+config.FileName+")")
	flags.String("project", d.ProjectDir, "Project root containing composer.json and vendor/")
	flags.String("output", d.OutputDir, "Output directory for generated stubs, relative to the project")
	flags.String("declaration-file", d.DeclarationFile, "Declaration file name looked up in each package root")
	flags.String("extension", d.Extension, "File extension of generated stubs")
	flags.Bool("include-root", d.IncludeRoot, "Also read the root project's declaration file")
	flags.Bool("clean", d.Clean, "Remove the output directory before generating")
	flags.String("log-level", d.LogLevel, "Log level: debug, info, warn or error")
	flags.StringArray("package", nil, "Extra package as name=path (repeatable)")
}

// env is everything a subcommand needs to run.
type env struct {
	cfg      *config.Config
	logger   *log.Logger
	packages []discovery.Package
}

func (o *rootOptions) load(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load(o.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Debug("config loaded", "file", cfg.File)
	}

	packages, err := resolvePackages(cfg)
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, logger: logger, packages: packages}, nil
}

func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "extstub",
		Level:  lvl,
	}), nil
}

// resolvePackages combines Composer discovery with packages given
// explicitly. An explicit package replaces a discovered one of the same
// name in place; new names are appended in the order given.
func resolvePackages(cfg *config.Config) ([]discovery.Package, error) {
	locator := &discovery.ComposerLocator{
		ProjectDir:  cfg.ProjectDir,
		IncludeRoot: cfg.IncludeRoot,
	}
	packages, err := locator.Packages()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(packages))
	for i, p := range packages {
		index[p.Name] = i
	}

	for _, spec := range cfg.Packages {
		pkg, err := discovery.ParseSpec(spec)
		if err != nil {
			return nil, err
		}
		if i, ok := index[pkg.Name]; ok {
			packages[i] = pkg
			continue
		}
		index[pkg.Name] = len(packages)
		packages = append(packages, pkg)
	}

	return packages, nil
}
