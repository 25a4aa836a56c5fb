package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), Filename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), Filename), Env{})
	require.NoError(t, err)
	assert.Empty(t, cfg.Switches)
	assert.Empty(t, cfg.Patches)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[switches]
"/Qpar" = "-ftree-parallelize-loops=4"

[libraries]
"MyVendor.lib" = "myvendor"

[macros]
ExternalDir = "third_party/"
`)

	cfg, err := Load(path, Env{Config: "Release", Platform: "x64"})
	require.NoError(t, err)

	assert.Equal(t, "-ftree-parallelize-loops=4", cfg.Switches["/Qpar"])
	assert.Equal(t, "myvendor", cfg.Libraries["MyVendor.lib"])
	assert.Equal(t, "third_party/", cfg.Macros["ExternalDir"])
}

func TestLoadConditionalSections(t *testing.T) {
	path := writeConfig(t, `
[macros]
Base = "always"

[when.'config == "Debug"'.macros]
Mode = "debug"

[when.'platform == "x64"'.macros]
Arch = "wide"
`)

	cfg, err := Load(path, Env{Config: "Release", Platform: "x64"})
	require.NoError(t, err)

	assert.Equal(t, "always", cfg.Macros["Base"])
	assert.Equal(t, "wide", cfg.Macros["Arch"], "matching condition merges")
	assert.NotContains(t, cfg.Macros, "Mode", "non-matching condition is skipped")
}

func TestLoadBadCondition(t *testing.T) {
	path := writeConfig(t, `
[when.'config ==='.macros]
X = "y"
`)
	_, err := Load(path, Env{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "condition")
}

func TestLoadBadTOML(t *testing.T) {
	path := writeConfig(t, "[switches\n")
	_, err := Load(path, Env{})
	require.Error(t, err)
}

func TestApplyPatches(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "build.h")
	require.NoError(t, os.WriteFile(src, []byte("hello_world\n"), 0644))

	cfg := &Config{Patches: []Patch{{
		File: "build.h",
		Diff: "@@ -1,11 +1,11 @@\n hello_\n-world\n+there\n",
	}}}

	require.NoError(t, cfg.ApplyPatches(dir))

	patched, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "hello_there\n", string(patched))
}

func TestApplyPatchesNoHunkApplied(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "build.h")
	require.NoError(t, os.WriteFile(src, []byte("something_else\n"), 0644))

	cfg := &Config{Patches: []Patch{{
		File: "build.h",
		Diff: "@@ -1,11 +1,11 @@\n hello_\n-world\n+there\n",
	}}}

	// a patch with no applicable hunk warns but is not fatal
	require.NoError(t, cfg.ApplyPatches(dir))

	content, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, "something_else\n", string(content), "file stays untouched")
}

func TestApplyPatchesMissingFile(t *testing.T) {
	cfg := &Config{Patches: []Patch{{File: "gone.cpp", Diff: ""}}}
	assert.Error(t, cfg.ApplyPatches(t.TempDir()))
}
