package generator

import (
	"fmt"

	"github.com/example/extstub/internal/declaration"
)

// ConflictError is returned when a package declares a method name that the
// class already carries.
type ConflictError struct {
	Package string
	Class   string // fully-qualified
	Method  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("method %q already declared on %s (package %s)", e.Method, e.Class, e.Package)
}

// Merge folds one package's document into tree.
//
// Extensions are applied in document order. On the first duplicate method
// name Merge stops and returns a *ConflictError: the rest of the document is
// skipped, while everything merged before the conflict (from this package
// or earlier ones) stays in the tree.
func Merge(tree *Tree, pkg string, doc *declaration.Document) error {
	if doc == nil {
		return nil
	}

	for _, ext := range doc.Extensions {
		node := tree.Node(ext.Namespace)

		for _, className := range ext.Class {
			class := node.class(className)

			for _, use := range ext.Uses {
				class.addUse(use)
			}

			for _, m := range ext.Methods {
				if class.hasMethod(m.Name) {
					return &ConflictError{Package: pkg, Class: class.FQCN(), Method: m.Name}
				}
				class.addMethod(m)
			}
		}
	}

	return nil
}
