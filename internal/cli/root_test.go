package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// setupProject creates a Composer project with two vendor packages and a
// root declaration file.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "composer.json"), `{"name": "app/site"}`)
	writeFile(t, filepath.Join(dir, "vendor", "composer", "installed.json"), `{"packages": [
		{"name": "acme/macros", "install-path": "../acme/macros"},
		{"name": "acme/plain", "install-path": "../acme/plain"}
	]}`)
	writeFile(t, filepath.Join(dir, "vendor", "acme", "macros", "extension-methods.json"),
		`{"extensions":[{"namespace":"App\\Models","class":"User","methods":[{"name":"save"}]}]}`)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vendor", "acme", "plain"), 0755))
	writeFile(t, filepath.Join(dir, "extension-methods.json"),
		`{"extensions":[{"namespace":"App\\Models","class":"User","methods":[{"name":"delete"}]}]}`)

	return dir
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestGenerateCommand(t *testing.T) {
	dir := setupProject(t)

	stdout, stderr, err := run(t, "generate", "--project", dir)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Generated 1 stubs")

	data, err := os.ReadFile(filepath.Join(dir, ".ide-stubs", "App", "Models", "User.php"))
	require.NoError(t, err)
	assert.Contains(t, string(data), " * @method delete()\n * @method save()\n")
	assert.Contains(t, stderr, "found declarations")
}

func TestGenerateCommandWithoutRoot(t *testing.T) {
	dir := setupProject(t)

	_, stderr, err := run(t, "generate", "--project", dir, "--include-root=false", "--output", "out")
	require.NoError(t, err, stderr)

	data, err := os.ReadFile(filepath.Join(dir, "out", "App", "Models", "User.php"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "delete")
}

func TestGenerateCommandContinuesOnBadPackage(t *testing.T) {
	dir := setupProject(t)
	writeFile(t, filepath.Join(dir, "vendor", "acme", "plain", "extension-methods.json"), `{broken`)

	stdout, stderr, err := run(t, "generate", "--project", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 failed")
	assert.Contains(t, stderr, "acme/plain")
	assert.FileExists(t, filepath.Join(dir, ".ide-stubs", "App", "Models", "User.php"))
}

func TestCheckCommand(t *testing.T) {
	dir := setupProject(t)

	stdout, _, err := run(t, "check", "--project", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 classes from 2 packages")
	assert.NoDirExists(t, filepath.Join(dir, ".ide-stubs"))

	extra := filepath.Join(t.TempDir(), "extra")
	writeFile(t, filepath.Join(extra, "extension-methods.json"),
		`{"extensions":[{"namespace":"App.Models","class":"User","methods":[{"name":"save"}]}]}`)

	stdout, _, err = run(t, "check", "--project", dir, "--package", "extra/dup="+extra)
	require.Error(t, err)
	assert.Contains(t, stdout, "FAIL extra/dup")
	assert.Contains(t, stdout, `"save"`)
}

func TestGenerateCommandRefusesToCleanProject(t *testing.T) {
	dir := setupProject(t)

	_, _, err := run(t, "generate", "--project", dir, "--clean", "--output", ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to clean")
	assert.FileExists(t, filepath.Join(dir, "composer.json"))
	assert.FileExists(t, filepath.Join(dir, "vendor", "composer", "installed.json"))
	assert.FileExists(t, filepath.Join(dir, "extension-methods.json"))
}

func TestPackagesCommand(t *testing.T) {
	dir := setupProject(t)

	stdout, _, err := run(t, "packages", "--project", dir, "--log-level", "error")
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace([]byte(stdout)), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Contains(t, string(lines[0]), "PACKAGE")
	assert.Contains(t, string(lines[1]), "acme/macros")
	assert.Contains(t, string(lines[1]), "extension-methods.json")
	assert.Contains(t, string(lines[2]), "acme/plain")
	assert.Contains(t, string(lines[2]), " - ")
	assert.Contains(t, string(lines[3]), "app/site")
}

func TestInvalidConfig(t *testing.T) {
	dir := setupProject(t)

	_, _, err := run(t, "generate", "--project", dir, "--log-level", "verbose")
	require.Error(t, err)

	_, _, err = run(t, "generate", "--project", dir, "--package", "no-path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name=path")
}

func TestConfigFile(t *testing.T) {
	dir := setupProject(t)
	writeFile(t, filepath.Join(dir, ".extstub.yml"), "output_dir: ide\nextension: phpstub\n")

	_, stderr, err := run(t, "generate", "--project", dir)
	require.NoError(t, err, stderr)
	assert.FileExists(t, filepath.Join(dir, "ide", "App", "Models", "User.phpstub"))
}
