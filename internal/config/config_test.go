package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	d := Default()
	flags.String("project", d.ProjectDir, "")
	flags.String("output", d.OutputDir, "")
	flags.String("declaration-file", d.DeclarationFile, "")
	flags.String("extension", d.Extension, "")
	flags.Bool("include-root", d.IncludeRoot, "")
	flags.Bool("clean", d.Clean, "")
	flags.String("log-level", d.LogLevel, "")
	flags.StringArray("package", nil, "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load("", newFlags(t, "--project", dir))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ProjectDir)
	assert.Equal(t, filepath.Join(dir, DefaultOutputDir), cfg.OutputDir)
	assert.Equal(t, "extension-methods.json", cfg.DeclarationFile)
	assert.Equal(t, "php", cfg.Extension)
	assert.True(t, cfg.IncludeRoot)
	assert.False(t, cfg.Clean)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.File)
}

func TestLoadProjectConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`
output_dir: build/stubs
declaration_file: macros.yml
clean: true
packages:
  - acme/macros=/opt/acme
`), 0644))

	cfg, err := Load("", newFlags(t, "--project", dir))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), cfg.File)
	assert.Equal(t, filepath.Join(dir, "build", "stubs"), cfg.OutputDir)
	assert.Equal(t, "macros.yml", cfg.DeclarationFile)
	assert.True(t, cfg.Clean)
	assert.Equal(t, []string{"acme/macros=/opt/acme"}, cfg.Packages)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("output_dir: from-file\nlog_level: warn\nextension: inc\n"), 0644))

	t.Setenv("EXTSTUB_LOG_LEVEL", "debug")
	t.Setenv("EXTSTUB_EXTENSION", "stub")

	cfg, err := Load(cfgFile, newFlags(t, "--project", dir, "--extension", "phps"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "from-file"), cfg.OutputDir)
	assert.Equal(t, "debug", cfg.LogLevel, "env beats file")
	assert.Equal(t, "phps", cfg.Extension, "flag beats env")
}

func TestLoadAbsoluteOutputDir(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "abs")

	cfg, err := Load("", newFlags(t, "--project", dir, "--output", out))
	require.NoError(t, err)
	assert.Equal(t, out, cfg.OutputDir)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("output_dir: [unterminated\n"), 0644))
	_, err = Load(bad, nil)
	require.Error(t, err)

	_, err = Load("", newFlags(t, "--project", dir, "--log-level", "loud"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log_level")

	_, err = Load("", newFlags(t, "--project", dir, "--extension", "p.h.p"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extension")
}

func TestGeneratorOptions(t *testing.T) {
	cfg := &Config{ProjectDir: "/app", DeclarationFile: "x.json", OutputDir: "/out", Extension: "php", Clean: true}
	opts := cfg.GeneratorOptions()
	assert.Equal(t, "x.json", opts.DeclarationFile)
	assert.Equal(t, "/out", opts.OutputDir)
	assert.Equal(t, "php", opts.Extension)
	assert.True(t, opts.Clean)
	assert.Equal(t, "/app", opts.ProjectDir)
}

func TestLoadPackageFlagKeepsCommas(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load("", newFlags(t, "--project", dir,
		"--package", "acme/a=/tmp/with,comma",
		"--package", "acme/b=/tmp/b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"acme/a=/tmp/with,comma", "acme/b=/tmp/b"}, cfg.Packages)
}
