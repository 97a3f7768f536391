package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, Filename)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[project]
name = "demo"
version = "0.1.0"
authors = ["Ada", "Grace"]
license = "MIT"

[build]
entry_point = "src/main.gr"
include = ["src/**/*.gr"]

[test]
test_pattern = "*_spec.gr"
coverage_threshold = 80

[dependencies]
foo = "1.0"
`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "demo", m.Project.Name)
	assert.Equal(t, "0.1.0", m.Project.Version)
	assert.Equal(t, []string{"Ada", "Grace"}, m.Project.Authors)
	assert.Equal(t, "MIT", m.Project.License)
	assert.Equal(t, "src/main.gr", m.Build.EntryPoint)
	assert.Equal(t, []string{"src/**/*.gr"}, m.Build.Include)
	assert.Equal(t, "*_spec.gr", m.Test.TestPattern)
	assert.Equal(t, 80.0, m.Test.CoverageThreshold)
	assert.Equal(t, "1.0", m.Dependencies["foo"])
}

func TestLoadMalformedLine(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[project]\nnot-an-assignment\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadUnknownSection(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[bogus]\nkey = \"value\"\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	m := &Manifest{}
	assert.Error(t, m.Validate(), "missing project name")

	m.Project.Name = "demo"
	assert.NoError(t, m.Validate())

	m.Test.CoverageThreshold = 150
	assert.Error(t, m.Validate())
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[project]\nname = \"demo\"\n")
	nested := filepath.Join(root, "src", "pkg")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, ok := FindProjectRoot(nested)
	require.True(t, ok)
	resolvedRoot, _ := filepath.EvalSymlinks(root)
	resolvedFound, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, resolvedRoot, resolvedFound)
}

func TestFindProjectRootNone(t *testing.T) {
	dir := t.TempDir()
	_, ok := FindProjectRoot(dir)
	assert.False(t, ok)
}
