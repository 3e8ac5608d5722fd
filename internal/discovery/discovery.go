// Package discovery resolves the installed packages of a project and where
// each one lives on disk.
package discovery

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RootPackageName is used when the project's composer.json has no name.
const RootPackageName = "__root__"

// Package is an installed package and its root directory.
type Package struct {
	Name string
	Path string
}

// Locator lists packages in the order they should be processed.
type Locator interface {
	Packages() ([]Package, error)
}

// StaticLocator returns a fixed list.
type StaticLocator []Package

// Packages implements Locator.
func (s StaticLocator) Packages() ([]Package, error) {
	return append([]Package(nil), s...), nil
}

// ParseSpec parses a "name=path" pair as given on the command line.
func ParseSpec(spec string) (Package, error) {
	name, path, ok := strings.Cut(spec, "=")
	name = strings.TrimSpace(name)
	path = strings.TrimSpace(path)
	if !ok || name == "" || path == "" {
		return Package{}, fmt.Errorf("invalid package %q, expected name=path", spec)
	}
	return Package{Name: name, Path: path}, nil
}

// ComposerLocator reads packages from a Composer project:
// vendor/composer/installed.json for dependencies and composer.json for the
// root package.
type ComposerLocator struct {
	ProjectDir  string
	VendorDir   string // defaults to <ProjectDir>/vendor
	IncludeRoot bool
}

type installedPackage struct {
	Name        string `json:"name"`
	InstallPath string `json:"install-path"`
}

// Packages returns dependencies sorted by name, followed by the root
// package when IncludeRoot is set. A project without installed.json has no
// dependencies.
func (c *ComposerLocator) Packages() ([]Package, error) {
	vendorDir := c.VendorDir
	if vendorDir == "" {
		vendorDir = filepath.Join(c.ProjectDir, "vendor")
	}

	installed, err := readInstalled(filepath.Join(vendorDir, "composer", "installed.json"))
	if err != nil {
		return nil, err
	}

	packages := make([]Package, 0, len(installed)+1)
	seen := make(map[string]bool, len(installed))
	for _, p := range installed {
		if p.Name == "" || seen[p.Name] {
			continue
		}
		seen[p.Name] = true

		path := filepath.Join(vendorDir, filepath.FromSlash(p.Name))
		if p.InstallPath != "" {
			path = filepath.Join(vendorDir, "composer", filepath.FromSlash(p.InstallPath))
		}
		packages = append(packages, Package{Name: p.Name, Path: path})
	}

	sort.Slice(packages, func(i, j int) bool {
		return packages[i].Name < packages[j].Name
	})

	if c.IncludeRoot {
		name, err := rootName(filepath.Join(c.ProjectDir, "composer.json"))
		if err != nil {
			return nil, err
		}
		packages = append(packages, Package{Name: name, Path: c.ProjectDir})
	}

	return packages, nil
}

// readInstalled understands both the Composer 1 layout (a bare array) and
// the Composer 2 layout ({"packages": [...]}).
func readInstalled(path string) ([]installedPackage, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var v2 struct {
		Packages []installedPackage `json:"packages"`
	}
	if err := json.Unmarshal(data, &v2); err == nil {
		return v2.Packages, nil
	}

	var v1 []installedPackage
	if err := json.Unmarshal(data, &v1); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return v1, nil
}

func rootName(path string) (string, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RootPackageName, nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	var manifest struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if manifest.Name == "" {
		return RootPackageName, nil
	}
	return manifest.Name, nil
}
