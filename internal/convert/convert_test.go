package convert

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slncross/slncross/internal/config"
	"github.com/slncross/slncross/internal/sln"
)

const testSolution = `Microsoft Visual Studio Solution File, Format Version 12.00
Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "app", "app\app.vcxproj", "{BBBBBBBB-0000-0000-0000-000000000001}"
	ProjectSection(ProjectDependencies) = postProject
		{BBBBBBBB-0000-0000-0000-000000000002} = {BBBBBBBB-0000-0000-0000-000000000002}
	EndProjectSection
EndProject
Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "core", "core\core.vcxproj", "{BBBBBBBB-0000-0000-0000-000000000002}"
EndProject
Global
	GlobalSection(SolutionConfigurationPlatforms) = preSolution
		Debug|x64 = Debug|x64
		Release|x64 = Release|x64
	EndGlobalSection
EndGlobal
`

const appProject = `<?xml version="1.0" encoding="utf-8"?>
<Project xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup Condition="'$(Configuration)|$(Platform)'=='Release|x64'">
    <ConfigurationType>Application</ConfigurationType>
  </PropertyGroup>
  <ItemDefinitionGroup Condition="'$(Configuration)|$(Platform)'=='Release|x64'">
    <Link>
      <SubSystem>Console</SubSystem>
      <AdditionalDependencies>Ws2_32.lib;Atl.lib</AdditionalDependencies>
    </Link>
  </ItemDefinitionGroup>
  <ItemGroup>
    <ClCompile Include="main.cpp" />
  </ItemGroup>
</Project>`

const coreProject = `<?xml version="1.0" encoding="utf-8"?>
<Project xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <PropertyGroup Condition="'$(Configuration)|$(Platform)'=='Release|x64'">
    <ConfigurationType>StaticLibrary</ConfigurationType>
  </PropertyGroup>
  <ItemGroup>
    <ClCompile Include="core.cpp" />
  </ItemGroup>
</Project>`

// writeTree materializes the two-project test solution and parses it.
func writeTree(t *testing.T) *sln.Solution {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write("tree.sln", testSolution)
	write("app/app.vcxproj", appProject)
	write("core/core.vcxproj", coreProject)

	s, err := sln.Parse(filepath.Join(dir, "tree.sln"))
	require.NoError(t, err)
	return s
}

func releaseOptions() Options {
	return Options{Config: "Release", Platform: "x64", Emit: EmitCMake}
}

func TestSolutionConvert(t *testing.T) {
	s := writeTree(t)

	results, err := Solution(s, releaseOptions(), &config.Config{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// results arrive in build order: the dependency precedes its dependent
	assert.Equal(t, "core", results[0].Project.Name)
	assert.Equal(t, "app", results[1].Project.Name)
	for _, r := range results {
		require.NoError(t, r.Err)
	}

	assert.Equal(t, "StaticLibrary", results[0].Target.Kind)
	assert.Equal(t, "Application", results[1].Target.Kind)

	// the solution dependency edge becomes a target link dependency
	assert.Equal(t, []string{"core"}, results[1].Target.Dependencies)
	assert.Empty(t, results[0].Target.Dependencies)

	assert.Contains(t, results[1].Target.Libraries, "ws2_32")
	assert.NotContains(t, results[1].Target.Libraries, "atl")
}

func TestSolutionCollectsWarnings(t *testing.T) {
	s := writeTree(t)

	results, err := Solution(s, releaseOptions(), &config.Config{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	// app links Atl.lib, which has no MinGW equivalent; the degradation
	// surfaces on the result rather than being printed by the worker
	require.NotEmpty(t, results[1].Warnings)
	assert.Contains(t, results[1].Warnings[0], "Atl")
	assert.Empty(t, results[0].Warnings)
}

func TestWriteSolution(t *testing.T) {
	s := writeTree(t)
	opts := releaseOptions()

	results, err := Solution(s, opts, &config.Config{})
	require.NoError(t, err)

	failed, err := WriteSolution(s, results, opts)
	require.NoError(t, err)
	assert.Empty(t, failed)

	for _, rel := range []string{"app/CMakeLists.txt", "core/CMakeLists.txt", "CMakeLists.txt"} {
		_, err := os.Stat(filepath.Join(s.Dir, filepath.FromSlash(rel)))
		assert.NoError(t, err, rel)
	}

	root, err := os.ReadFile(filepath.Join(s.Dir, "CMakeLists.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(root), "add_subdirectory(core)")
	assert.Contains(t, string(root), "add_subdirectory(app)")
}

func TestSolutionBrokenProjectDoesNotAbortSiblings(t *testing.T) {
	s := writeTree(t)
	require.NoError(t, os.Remove(filepath.Join(s.Dir, "core", "core.vcxproj")))

	opts := releaseOptions()
	results, err := Solution(s, opts, &config.Config{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	failed, err := WriteSolution(s, results, opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"core"}, failed)

	// the healthy sibling still got its output
	_, err = os.Stat(filepath.Join(s.Dir, "app", "CMakeLists.txt"))
	assert.NoError(t, err)
}

func TestSolutionOnlyFilter(t *testing.T) {
	s := writeTree(t)
	opts := releaseOptions()
	opts.Only = `name == "core"`

	results, err := Solution(s, opts, &config.Config{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "core", results[0].Project.Name)
}

func TestProjectFilter(t *testing.T) {
	accept, err := ProjectFilter(`name startsWith "lib" and type == "C++"`)
	require.NoError(t, err)

	assert.True(t, accept(&sln.Project{Name: "libfoo", Type: "C++"}))
	assert.False(t, accept(&sln.Project{Name: "app", Type: "C++"}))
	assert.False(t, accept(&sln.Project{Name: "libbar", Type: "C#"}))

	_, err = ProjectFilter("name ===")
	assert.Error(t, err)
}

func TestProjectSingle(t *testing.T) {
	s := writeTree(t)
	path := filepath.Join(s.Dir, "app", "app.vcxproj")

	text, _, err := Project(path, releaseOptions(), &config.Config{})
	require.NoError(t, err)
	assert.Contains(t, text, "add_executable(app")
	assert.Contains(t, text, "-mconsole")
}

func TestProjectJSONEmit(t *testing.T) {
	s := writeTree(t)
	path := filepath.Join(s.Dir, "core", "core.vcxproj")
	opts := releaseOptions()
	opts.Emit = EmitJSON

	text, _, err := Project(path, opts, &config.Config{})
	require.NoError(t, err)

	var target map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &target))
	assert.Equal(t, "core", target["name"])
	assert.Equal(t, "StaticLibrary", target["kind"])
}

func TestProjectFallback(t *testing.T) {
	opts := releaseOptions()
	opts.Name = "ghost"

	text, warnings, err := Project(filepath.Join(t.TempDir(), "ghost.vcxproj"), opts, &config.Config{})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Contains(t, text, `file(GLOB_RECURSE SOURCES "*.cpp" "*.c")`)
	assert.Contains(t, text, "add_executable(ghost")

	// without a name override a missing file is an error
	_, _, err = Project(filepath.Join(t.TempDir(), "gone.vcxproj"), releaseOptions(), &config.Config{})
	assert.Error(t, err)
}
