package sln

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slncross/slncross/internal/vcxproj"
)

const sampleSolution = `Microsoft Visual Studio Solution File, Format Version 12.00
# Visual Studio Version 17
Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "app", "app\app.vcxproj", "{AAAAAAAA-0000-0000-0000-000000000001}"
	ProjectSection(ProjectDependencies) = postProject
		{AAAAAAAA-0000-0000-0000-000000000002} = {AAAAAAAA-0000-0000-0000-000000000002}
	EndProjectSection
EndProject
Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "core", "core\core.vcxproj", "{aaaaaaaa-0000-0000-0000-000000000002}"
	ProjectSection(ProjectDependencies) = postProject
		{AAAAAAAA-0000-0000-0000-000000000003} = {AAAAAAAA-0000-0000-0000-000000000003}
	EndProjectSection
EndProject
Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "base", "base\base.vcxproj", "{AAAAAAAA-0000-0000-0000-000000000003}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "Solution Items", "Solution Items", "{AAAAAAAA-0000-0000-0000-0000000000FF}"
EndProject
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "managed", "managed\managed.csproj", "{AAAAAAAA-0000-0000-0000-0000000000AB}"
EndProject
Global
	GlobalSection(SolutionConfigurationPlatforms) = preSolution
		Debug|Win32 = Debug|Win32
		Release|x64 = Release|x64
	EndGlobalSection
EndGlobal
`

func parseSample(t *testing.T) *Solution {
	t.Helper()
	s, err := ParseBytes("work/sample.sln", []byte(sampleSolution))
	require.NoError(t, err)
	return s
}

func TestParseProjects(t *testing.T) {
	s := parseSample(t)

	projects := s.Projects()
	require.Len(t, projects, 5)

	// declaration order is preserved
	assert.Equal(t, "app", projects[0].Name)
	assert.Equal(t, "core", projects[1].Name)
	assert.Equal(t, "base", projects[2].Name)

	assert.Equal(t, TypeCpp, projects[0].Type)
	assert.Equal(t, TypeFolder, projects[3].Type)
	assert.Equal(t, TypeCSharp, projects[4].Type)

	// backslash paths normalize, absolute paths anchor at the solution dir
	assert.Equal(t, "app/app.vcxproj", projects[0].Path)
	assert.Equal(t, filepath.Join(s.Dir, "app", "app.vcxproj"), projects[0].AbsPath)
}

func TestGUIDNormalization(t *testing.T) {
	s := parseSample(t)

	// the file declares core's GUID lower-case but app's dependency edge
	// upper-case; both must land on the same registry entry
	p, ok := s.ProjectByGUID("{aaaaaaaa-0000-0000-0000-000000000002}")
	require.True(t, ok)
	assert.Equal(t, "core", p.Name)

	app, ok := s.ProjectByGUID("AAAAAAAA-0000-0000-0000-000000000001")
	require.True(t, ok)
	deps := s.DependenciesOf(app)
	require.Len(t, deps, 1)
	assert.Equal(t, "core", deps[0].Name)
}

func TestConfigurations(t *testing.T) {
	s := parseSample(t)
	assert.Equal(t, []vcxproj.Key{
		{Config: "Debug", Platform: "Win32"},
		{Config: "Release", Platform: "x64"},
	}, s.Configurations())
}

func TestConfigurationsDefault(t *testing.T) {
	content := `Project("{8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942}") = "only", "only\only.vcxproj", "{AAAAAAAA-0000-0000-0000-000000000001}"
EndProject
`
	s, err := ParseBytes("work/bare.sln", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, vcxproj.DefaultKeys(), s.Configurations())
}

func TestProjectsOfType(t *testing.T) {
	s := parseSample(t)
	cpp := s.ProjectsOfType(TypeCpp)
	require.Len(t, cpp, 3)
	assert.Equal(t, "app", cpp[0].Name)
}

func TestParseNoProjects(t *testing.T) {
	_, err := ParseBytes("work/empty.sln", []byte("Microsoft Visual Studio Solution File\n"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestDiscover(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "myapp")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range []string{"other.sln", "myapp.sln"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	// prefer the solution named after the directory
	path, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "myapp.sln"), path)

	_, err = Discover(t.TempDir())
	assert.Error(t, err)
}
