// Package declaration decodes the extension-method declaration file a
// package ships at its root.
package declaration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/extstub/internal/validator"
	"gopkg.in/yaml.v3"
)

// Format selects the structured-data syntax of a declaration file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks the format from a file name's extension. Anything that
// is not .yaml or .yml is treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseError reports a declaration file that could not be decoded or that
// is missing a required name.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to parse declarations: %v", e.Err)
	}
	return fmt.Sprintf("failed to parse declarations in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes and validates one declaration document.
func Parse(data []byte, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		// A blank YAML file decodes to io.EOF and means "no extensions".
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: err}
		}
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Err: err}
		}
	default:
		return nil, &ParseError{Err: fmt.Errorf("unsupported format: %s", format)}
	}

	if err := validator.Struct(doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	return &doc, nil
}

// ParseFile reads path and parses it in the format implied by its extension.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read declarations: %w", err)
	}

	doc, err := Parse(data, FormatFor(path))
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return doc, nil
}
