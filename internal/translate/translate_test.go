package translate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slncross/slncross/internal/vcxproj"
)

func releaseSettings() *vcxproj.ResolvedSettings {
	return &vcxproj.ResolvedSettings{
		ProjectName:       "sample",
		Config:            "Release",
		Platform:          "x64",
		ConfigurationType: "Application",
		Subsystem:         "Console",
		RuntimeLibrary:    "MultiThreadedDLL",
		Standard:          "c++17",
		Optimization:      "-O2",
	}
}

func TestTranslateOptions(t *testing.T) {
	rs := releaseSettings()
	rs.Options = []string{"/W4", "/DEXTRA=1", "/Iext/include", "-DALREADY", "/UNKNOWN:thing"}

	tr := Translate(rs, DefaultTables())

	assert.Contains(t, tr.CompileOptions, "-Wall")
	assert.Contains(t, tr.CompileOptions, "-Wextra")
	assert.Contains(t, tr.CompileOptions, "-DEXTRA=1")
	assert.Contains(t, tr.CompileOptions, "-Iext/include")
	assert.Contains(t, tr.CompileOptions, "-DALREADY")
	assert.Contains(t, tr.CompileOptions, "-O2")

	// the unmappable switch is dropped, not passed through, and warned about
	assert.NotContains(t, tr.CompileOptions, "/UNKNOWN:thing")
	require.Len(t, tr.Warnings, 1)
	assert.Contains(t, tr.Warnings[0], "/UNKNOWN:thing")

	// the compatibility tail always applies
	assert.Contains(t, tr.CompileOptions, "-fms-extensions")
	assert.Contains(t, tr.CompileOptions, "-municode")

	assert.NotContains(t, tr.CompileOptions, "-g")
}

func TestTranslateOptionsDebug(t *testing.T) {
	rs := releaseSettings()
	rs.Config = "Debug"
	rs.Optimization = "-O0"

	tr := Translate(rs, DefaultTables())
	assert.Contains(t, tr.CompileOptions, "-g")
	assert.Contains(t, tr.CompileOptions, "-O0")
}

func TestTranslateOptionsNoDuplicates(t *testing.T) {
	rs := releaseSettings()
	// /W1 through /W3 all map to -Wall; it must appear once
	rs.Options = []string{"/W1", "/W3"}

	tr := Translate(rs, DefaultTables())
	count := 0
	for _, opt := range tr.CompileOptions {
		if opt == "-Wall" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestTranslateDefinitions(t *testing.T) {
	rs := releaseSettings()
	rs.Definitions = []string{"FOO=1", "_CRT_SECURE_NO_WARNINGS", "_MBCS"}

	tr := Translate(rs, DefaultTables())

	assert.Contains(t, tr.Definitions, "FOO=1")
	for _, denied := range []string{"_CRT_SECURE_NO_WARNINGS", "_MBCS"} {
		assert.NotContains(t, tr.Definitions, denied)
	}
	for _, essential := range []string{"WIN32", "_WINDOWS", "UNICODE", "_UNICODE", "SECURITY_WIN32"} {
		assert.Contains(t, tr.Definitions, essential)
	}

	assert.Contains(t, tr.Definitions, "NDEBUG")
	assert.NotContains(t, tr.Definitions, "_DEBUG")
	assert.IsIncreasing(t, tr.Definitions)
}

func TestTranslateDefinitionsDebugTokens(t *testing.T) {
	rs := releaseSettings()
	rs.Config = "Debug"

	tr := Translate(rs, DefaultTables())
	assert.Contains(t, tr.Definitions, "_DEBUG")
	assert.Contains(t, tr.Definitions, "DEBUG")
	assert.NotContains(t, tr.Definitions, "NDEBUG")
}

func TestMapLibraryIdempotent(t *testing.T) {
	tables := DefaultTables()

	for _, spelling := range []string{"Ws2_32.lib", "ws2_32", "WS2_32.LIB", `lib\ws2_32.lib`} {
		mapped, ok := tables.MapLibrary(spelling)
		require.True(t, ok, spelling)
		assert.Equal(t, "ws2_32", mapped, spelling)
	}

	// mapping output maps to itself
	mapped, ok := tables.MapLibrary("d3dcompiler")
	require.True(t, ok)
	again, ok := tables.MapLibrary(mapped)
	require.True(t, ok)
	assert.Equal(t, mapped, again)
}

func TestMapLibraryUnavailable(t *testing.T) {
	tables := DefaultTables()
	for _, name := range []string{"atl", "mfc", "vcruntime", "never-heard-of-it"} {
		_, ok := tables.MapLibrary(name)
		assert.False(t, ok, name)
	}
}

func TestTranslateLibraries(t *testing.T) {
	rs := releaseSettings()
	rs.Libraries = []string{"Ws2_32", "msvcrtd", "atl", "no_such_thing"}

	tr := Translate(rs, DefaultTables())

	assert.Contains(t, tr.Libraries, "ws2_32")
	assert.Contains(t, tr.Libraries, "msvcrt", "debug CRT maps to the release one")
	assert.NotContains(t, tr.Libraries, "atl")
	assert.NotContains(t, tr.Libraries, "no_such_thing")

	// the implicit baseline is unioned in
	for _, lib := range []string{"kernel32", "user32", "ntdll", "shlwapi"} {
		assert.Contains(t, tr.Libraries, lib)
	}
	assert.IsIncreasing(t, tr.Libraries)

	// one warning per dropped library
	assert.Len(t, tr.Warnings, 2)
}

func TestTranslateLinkOptions(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*vcxproj.ResolvedSettings)
		want       []string
		wantAbsent []string
	}{
		{
			name:       "console subsystem",
			mutate:     func(rs *vcxproj.ResolvedSettings) {},
			want:       []string{"-mconsole"},
			wantAbsent: []string{"-mwindows", "-static"},
		},
		{
			name:       "windows subsystem",
			mutate:     func(rs *vcxproj.ResolvedSettings) { rs.Subsystem = "Windows" },
			want:       []string{"-mwindows"},
			wantAbsent: []string{"-mconsole"},
		},
		{
			name:   "static runtime",
			mutate: func(rs *vcxproj.ResolvedSettings) { rs.RuntimeLibrary = "MultiThreaded" },
			want:   []string{"-static", "-static-libgcc", "-static-libstdc++"},
		},
		{
			name:       "dynamic debug runtime stays dynamic",
			mutate:     func(rs *vcxproj.ResolvedSettings) { rs.RuntimeLibrary = "MultiThreadedDebugDLL" },
			wantAbsent: []string{"-static"},
		},
		{
			name:   "raw link options pass through",
			mutate: func(rs *vcxproj.ResolvedSettings) { rs.LinkOptions = []string{"-Wl,--export-all-symbols"} },
			want:   []string{"-Wl,--export-all-symbols"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := releaseSettings()
			tt.mutate(rs)
			tr := Translate(rs, DefaultTables())
			for _, opt := range tt.want {
				assert.Contains(t, tr.LinkOptions, opt)
			}
			for _, opt := range tt.wantAbsent {
				assert.NotContains(t, tr.LinkOptions, opt)
			}
		})
	}
}

func TestHasWideEntryPoint(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	write("wide.cpp", "int wmain(int argc, wchar_t* argv[]) { return 0; }\n")
	write("narrow.cpp", "int main() { return 0; }\n")
	write("gui.cpp", "int WINAPI wWinMain(HINSTANCE h, HINSTANCE p, PWSTR s, int n) { return 0; }\n")
	// a macro-generated entry point is a documented false negative
	write("macro.cpp", "DEFINE_ENTRY(mytool)\n")

	tests := []struct {
		name    string
		sources []string
		want    bool
	}{
		{"wmain", []string{"wide.cpp"}, true},
		{"wWinMain", []string{"gui.cpp"}, true},
		{"narrow only", []string{"narrow.cpp"}, false},
		{"mixed", []string{"narrow.cpp", "wide.cpp"}, true},
		{"macro-generated entry missed", []string{"macro.cpp"}, false},
		{"unreadable files skipped", []string{"missing.cpp", "wide.cpp"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasWideEntryPoint(dir, tt.sources))
		})
	}
}

func TestMixedFamilySplit(t *testing.T) {
	rs := releaseSettings()
	rs.SourceFiles = []string{"src/main.cpp", "src/compat.c"}
	rs.Options = []string{"/EHsc", "/permissive-"}

	tr := Translate(rs, DefaultTables())

	assert.Contains(t, tr.CompileOptions, "-fexceptions")
	assert.Contains(t, tr.CompileOptions, "-fpermissive")

	require.NotNil(t, tr.COptions)
	assert.NotContains(t, tr.COptions, "-fexceptions")
	assert.NotContains(t, tr.COptions, "-fpermissive")
	assert.Contains(t, tr.COptions, "-O2")
}

func TestPureFamilyNoSplit(t *testing.T) {
	rs := releaseSettings()
	rs.SourceFiles = []string{"src/main.cpp", "src/util.cxx"}

	tr := Translate(rs, DefaultTables())
	assert.Nil(t, tr.COptions)
}

func TestIncludeDirsPrependDot(t *testing.T) {
	rs := releaseSettings()
	rs.IncludeDirs = []string{"zlib", "src"}

	tr := Translate(rs, DefaultTables())
	assert.Equal(t, []string{".", "zlib", "src"}, tr.IncludeDirs)

	rs.IncludeDirs = []string{".", "src"}
	tr = Translate(rs, DefaultTables())
	assert.Equal(t, []string{".", "src"}, tr.IncludeDirs)
}

func TestOverride(t *testing.T) {
	tables := DefaultTables()
	tables.Override(
		map[string]string{"/Qpar": "-ftree-parallelize-loops=4"},
		map[string]string{"MyCustom.lib": "mycustom", "atl": "atls"},
	)

	assert.Equal(t, "-ftree-parallelize-loops=4", tables.Switches["/Qpar"])

	mapped, ok := tables.MapLibrary("mycustom.lib")
	require.True(t, ok)
	assert.Equal(t, "mycustom", mapped)

	// overrides can resurrect a default-unavailable library
	mapped, ok = tables.MapLibrary("Atl.lib")
	require.True(t, ok)
	assert.Equal(t, "atls", mapped)

	// the package-level defaults stay untouched
	_, ok = DefaultTables().MapLibrary("atl")
	assert.False(t, ok)
}
