package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is the file extension of emitted stubs.
const DefaultExtension = "php"

// Emitter writes a merged tree to disk, one file per class.
type Emitter struct {
	Extension string
	Logger    Logger

	root    string
	written []string
}

// NewEmitter creates an emitter writing files with the given extension.
func NewEmitter(extension string, logger Logger) *Emitter {
	if extension == "" {
		extension = DefaultExtension
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Emitter{Extension: extension, Logger: logger}
}

// Written lists the files produced by the last Emit call, in walk order.
func (e *Emitter) Written() []string {
	return e.written
}

// Emit walks tree and writes every class under root. Existing files are
// overwritten. A failure on one file or directory is recorded and the walk
// carries on; all failures are returned joined.
func (e *Emitter) Emit(tree *Tree, root string) error {
	e.written = nil
	e.root = filepath.Clean(root)
	return e.emitNamespace(tree.Root, e.root)
}

func (e *Emitter) emitNamespace(node *Namespace, dir string) error {
	var errs []error

	for _, name := range node.ClassNames() {
		if err := e.emitClass(node.Classes[name], dir); err != nil {
			errs = append(errs, err)
		}
	}

	for _, name := range node.ChildNames() {
		childDir := filepath.Join(dir, name)
		if err := e.checkContained(childDir, name); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.MkdirAll(childDir, 0755); err != nil {
			errs = append(errs, fmt.Errorf("failed to create directory %s: %w", childDir, err))
			continue
		}
		if err := e.emitNamespace(node.Children[name], childDir); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (e *Emitter) emitClass(class *MergedClass, dir string) error {
	content, err := Render(class)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, class.Class+"."+e.Extension)
	if err := e.checkContained(path, class.Class); err != nil {
		return err
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	e.written = append(e.written, path)
	e.Logger.Debug("stub written", "class", class.FQCN(), "path", path)
	return nil
}

// checkContained refuses paths that leave the root directory or that do not
// sit directly below their parent, e.g. names containing a separator.
func (e *Emitter) checkContained(path, name string) error {
	rel, err := filepath.Rel(e.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) ||
		name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("refusing to write %q outside %s", name, e.root)
	}
	return nil
}
