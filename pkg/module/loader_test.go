package module

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvandervort/graphoid/pkg/environment"
	"github.com/xvandervort/graphoid/pkg/value"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestImportBindsNamespaceAndCaches(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "greet.gr", "module greet\nfn hello() {\n  return \"hi\"\n}\nanswer = 42\n")

	l := New("", "")
	v, err := l.Import(dir, "./greet.gr")
	require.NoError(t, err)
	require.Equal(t, value.KindModule, v.Kind)
	assert.Equal(t, "greet", v.Mod.Name)

	hello, ok := v.Mod.Get("hello")
	require.True(t, ok)
	assert.Equal(t, value.KindFunction, hello.Kind)

	answer, ok := v.Mod.Get("answer")
	require.True(t, ok)
	assert.True(t, value.Equals(value.Num(42), answer))

	v2, err := l.Import(dir, "./greet.gr")
	require.NoError(t, err)
	assert.Same(t, v.Mod, v2.Mod, "a second import of the same path must return the cached Value")
}

func TestImportRespectsModuleAlias(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "m.gr", "module real_name alias short\n")

	l := New("", "")
	v, err := l.Import(dir, "./m.gr")
	require.NoError(t, err)
	assert.Equal(t, "short", v.Mod.Name)
}

func TestImportDefaultNameIsFileStem(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "util.gr", "x = 1\n")

	l := New("", "")
	v, err := l.Import(dir, "./util.gr")
	require.NoError(t, err)
	assert.Equal(t, "util", v.Mod.Name)
}

func TestImportExcludesPrivateFunctions(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "m.gr", "fn pub_fn() {\n  return 1\n}\npriv fn secret_fn() {\n  return 2\n}\n")

	l := New("", "")
	v, err := l.Import(dir, "./m.gr")
	require.NoError(t, err)

	_, ok := v.Mod.Get("pub_fn")
	assert.True(t, ok)
	_, ok = v.Mod.Get("secret_fn")
	assert.False(t, ok, "priv functions are not exported")
}

func TestLoadMergesBindingsWithoutNamespace(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "vals.gr", "a = 1\nb = 2\n")

	l := New("", "")
	bindings, err := l.Load(dir, "./vals.gr")
	require.NoError(t, err)
	require.Len(t, bindings, 2)
	assert.True(t, value.Equals(value.Num(1), bindings["a"]))
	assert.True(t, value.Equals(value.Num(2), bindings["b"]))
}

func TestImportModuleNotFound(t *testing.T) {
	dir := t.TempDir()
	l := New("", "")
	_, err := l.Import(dir, "./missing.gr")
	assert.Error(t, err)
}

func TestImportCircularDependency(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.gr", "import \"./b.gr\" as b\n")
	writeSource(t, dir, "b.gr", "import \"./a.gr\" as a\n")

	l := New("", "")
	_, err := l.Import(dir, "./a.gr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CircularImport")
}

func TestResolveProjectRootSrcThenLib(t *testing.T) {
	root := t.TempDir()
	srcDir := filepath.Join(root, "src")
	libDir := filepath.Join(root, "lib")
	require.NoError(t, os.MkdirAll(srcDir, 0o755))
	require.NoError(t, os.MkdirAll(libDir, 0o755))
	writeSource(t, libDir, "helpers.gr", "x = 1\n")

	l := New(root, "")
	v, err := l.Import(root, "helpers")
	require.NoError(t, err)
	assert.Equal(t, "helpers", v.Mod.Name)
}

func TestDirectoryModuleWithModFile(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "mypkg")
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	writeSource(t, pkgDir, modFile, "x = 1\n")

	l := New("", "")
	v, err := l.Import(root, "./mypkg")
	require.NoError(t, err)
	assert.Equal(t, "mypkg", v.Mod.Name)
}

func TestExportNamespaceSkipsOnlyPrivateFunctions(t *testing.T) {
	global := environment.New()
	global.Define("value_a", value.Num(1))
	global.Define("public_fn", value.FromFunc(&value.Function{Kind: value.FnUser, Name: "public_fn"}))
	global.Define("private_fn", value.FromFunc(&value.Function{Kind: value.FnUser, Name: "private_fn", Private: true}))

	ns := exportNamespace(global)
	_, ok := ns["value_a"]
	assert.True(t, ok)
	_, ok = ns["public_fn"]
	assert.True(t, ok)
	_, ok = ns["private_fn"]
	assert.False(t, ok)
}
