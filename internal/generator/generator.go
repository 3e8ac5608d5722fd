// Package generator merges extension-method declarations from many packages
// into one namespace tree and writes a stub file per class.
package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/extstub/internal/declaration"
	"github.com/example/extstub/internal/discovery"
)

// DefaultDeclarationFile is the file a package places at its root.
const DefaultDeclarationFile = "extension-methods.json"

// Options controls a generation run
type Options struct {
	DeclarationFile string // relative to each package root
	OutputDir       string
	Extension       string
	Clean           bool   // remove OutputDir before emitting
	ProjectDir      string // never removed by Clean, nor anything containing it
}

// PackageError ties a per-package failure to the package it came from.
type PackageError struct {
	Package string
	Path    string
	Err     error
}

func (e *PackageError) Error() string {
	return fmt.Sprintf("package %s (%s): %v", e.Package, e.Path, e.Err)
}

func (e *PackageError) Unwrap() error { return e.Err }

// Report summarises a run.
type Report struct {
	Processed   []string // packages whose declarations merged without error
	Skipped     []string // packages without a declaration file
	Failures    []*PackageError
	Written     []string
	WriteErrors []error
}

// Failed reports whether any package or file failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0 || len(r.WriteErrors) > 0
}

// Generator drives parse, merge and emit over a list of packages.
type Generator struct {
	opts   Options
	logger Logger
}

// New creates a generator. A nil logger discards output.
func New(opts Options, logger Logger) *Generator {
	if opts.DeclarationFile == "" {
		opts.DeclarationFile = DefaultDeclarationFile
	}
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Generator{opts: opts, logger: logger}
}

// Build parses and merges every package in order. A package that fails to
// read, parse or merge is reported and the next package is processed.
func (g *Generator) Build(packages []discovery.Package) (*Tree, *Report) {
	tree := NewTree()
	report := &Report{}

	for _, pkg := range packages {
		path := filepath.Join(pkg.Path, g.opts.DeclarationFile)

		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				g.logger.Debug("no declarations", "package", pkg.Name)
				report.Skipped = append(report.Skipped, pkg.Name)
				continue
			}
			g.fail(report, pkg.Name, path, err)
			continue
		}

		g.logger.Info("found declarations", "package", pkg.Name, "path", path)

		doc, err := declaration.ParseFile(path)
		if err != nil {
			g.fail(report, pkg.Name, path, err)
			continue
		}

		if err := Merge(tree, pkg.Name, doc); err != nil {
			g.fail(report, pkg.Name, path, err)
			continue
		}

		if len(doc.Extensions) == 0 {
			g.logger.Warn("declaration file has no extensions", "package", pkg.Name, "path", path)
		}
		report.Processed = append(report.Processed, pkg.Name)
	}

	return tree, report
}

// Run builds the tree and writes it to the output directory. The only error
// returned is a failure to prepare the output directory; everything else is
// logged and collected in the report.
func (g *Generator) Run(packages []discovery.Package) (*Report, error) {
	tree, report := g.Build(packages)

	if g.opts.OutputDir == "" {
		return report, errors.New("output directory is not set")
	}
	if g.opts.Clean {
		if err := g.checkCleanTarget(); err != nil {
			return report, err
		}
		if err := os.RemoveAll(g.opts.OutputDir); err != nil {
			return report, fmt.Errorf("failed to clean output directory: %w", err)
		}
	}
	if err := os.MkdirAll(g.opts.OutputDir, 0755); err != nil {
		return report, fmt.Errorf("failed to create output directory: %w", err)
	}

	emitter := NewEmitter(g.opts.Extension, g.logger)
	err := emitter.Emit(tree, g.opts.OutputDir)
	report.Written = emitter.Written()
	if err != nil {
		report.WriteErrors = splitJoined(err)
		for _, werr := range report.WriteErrors {
			g.logger.Error("write failed", "err", werr)
		}
	}

	g.logger.Info("stubs generated",
		"dir", g.opts.OutputDir,
		"files", len(report.Written),
		"packages", len(report.Processed),
		"failed", len(report.Failures))

	return report, nil
}

// checkCleanTarget refuses to remove a filesystem root, the project
// directory or any directory that contains the project.
func (g *Generator) checkCleanTarget() error {
	out, err := filepath.Abs(g.opts.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to resolve output directory: %w", err)
	}
	if filepath.Dir(out) == out {
		return fmt.Errorf("refusing to clean %s: filesystem root", out)
	}
	if g.opts.ProjectDir == "" {
		return nil
	}

	project, err := filepath.Abs(g.opts.ProjectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project directory: %w", err)
	}
	rel, err := filepath.Rel(out, project)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("refusing to clean %s: it contains the project directory %s", out, project)
	}
	return nil
}

func (g *Generator) fail(report *Report, pkg, path string, err error) {
	g.logger.Error("skipping package", "package", pkg, "path", path, "err", err)
	report.Failures = append(report.Failures, &PackageError{Package: pkg, Path: path, Err: err})
}

// splitJoined flattens an errors.Join tree into its leaf errors.
func splitJoined(err error) []error {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, splitJoined(e)...)
	}
	return out
}
