package translate

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/slncross/slncross/internal/vcxproj"
)

// Tables is a per-run copy of the static translation data, so user-config
// overrides never touch the package-level maps shared between goroutines.
type Tables struct {
	Switches  map[string]string
	Libraries map[string]string // normalized name -> target name, "" = unavailable
}

// DefaultTables clones the built-in translation tables.
func DefaultTables() *Tables {
	return &Tables{
		Switches:  maps.Clone(switchTable),
		Libraries: maps.Clone(libraryTable),
	}
}

// Override merges user-supplied mappings over the defaults. Switch keys are
// taken verbatim; library keys are normalized first.
func (t *Tables) Override(switches, libraries map[string]string) {
	for k, v := range switches {
		t.Switches[k] = v
	}
	for k, v := range libraries {
		t.Libraries[NormalizeLibrary(k)] = strings.ToLower(v)
	}
}

// NormalizeLibrary lower-cases a library name, strips any path prefix, and
// removes the .lib suffix.
func NormalizeLibrary(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if i := strings.LastIndexAny(n, `/\`); i >= 0 {
		n = n[i+1:]
	}
	return strings.TrimSuffix(n, ".lib")
}

// MapLibrary maps a Windows library name onto its MinGW equivalent. The
// second return is false when the target toolchain has no equivalent.
// Mapping is idempotent: a decorated name and its normalized form translate
// identically.
func (t *Tables) MapLibrary(name string) (string, bool) {
	mapped, ok := t.Libraries[NormalizeLibrary(name)]
	if !ok || mapped == "" {
		return "", false
	}
	return mapped, true
}

// DefaultLibraries returns the commonly-needed system library set.
func DefaultLibraries() []string {
	return slices.Clone(defaultLibraries)
}

// AllMappings returns the full library map with sorted keys, for operator
// inspection.
func AllMappings() map[string]string {
	return maps.Clone(libraryTable)
}

// Categories returns the documentation grouping of system libraries.
func Categories() map[string][]string {
	out := make(map[string][]string, len(libraryCategories))
	for k, v := range libraryCategories {
		out[k] = slices.Clone(v)
	}
	return out
}

// Translated is one project's settings record in the target toolchain's
// vocabulary. When a project mixes C and C++ source families, COptions
// carries the single-byte family's option set and CompileOptions the C++
// one; they share one definition and library set.
type Translated struct {
	Settings *vcxproj.ResolvedSettings

	CompileOptions []string
	COptions       []string // nil unless both source families are present
	LinkOptions    []string
	Definitions    []string
	IncludeDirs    []string
	Libraries      []string

	// Warnings records best-effort degradations (dropped switches and
	// libraries) for operator visibility.
	Warnings []string
}

var (
	wideEntryRe = regexp.MustCompile(`\b(wmain|wWinMain)\s*\(`)
	cxxExts     = map[string]bool{".cpp": true, ".cc": true, ".cxx": true, ".c++": true}
)

// Translate converts one resolved settings record into the target
// toolchain's vocabulary using the given tables. It never fails: switches
// and libraries without an equivalent degrade to warnings.
func Translate(rs *vcxproj.ResolvedSettings, tables *Tables) *Translated {
	tr := &Translated{Settings: rs}

	tr.CompileOptions = tr.translateOptions(rs, tables)
	tr.Definitions = tr.translateDefinitions(rs)
	tr.Libraries = tr.translateLibraries(rs, tables)
	tr.LinkOptions = tr.translateLinkOptions(rs)
	tr.IncludeDirs = includeDirs(rs)

	if mixedFamilies(rs.SourceFiles) {
		tr.COptions = cFamilyOptions(tr.CompileOptions)
	}

	return tr
}

// translateOptions maps each raw option through the switch table with the
// documented fallback chain, then appends the fixed compatibility tail, the
// optimization level, and debug info for debug-like configurations.
func (tr *Translated) translateOptions(rs *vcxproj.ResolvedSettings, tables *Tables) []string {
	var out []string
	appendFlag := func(flag string) {
		for _, f := range strings.Fields(flag) {
			if !slices.Contains(out, f) {
				out = append(out, f)
			}
		}
	}

	for _, opt := range rs.Options {
		switch {
		case tableHas(tables.Switches, opt):
			appendFlag(tables.Switches[opt])
		case strings.HasPrefix(opt, "/D"):
			appendFlag("-D" + opt[2:])
		case strings.HasPrefix(opt, "/I"):
			appendFlag("-I" + opt[2:])
		case strings.HasPrefix(opt, "-D"), strings.HasPrefix(opt, "-I"):
			appendFlag(opt)
		case strings.HasPrefix(opt, "/"):
			// no universal equivalent; a missing warning or optimization
			// switch is not fatal to producing a working build
			tr.Warnings = append(tr.Warnings, fmt.Sprintf("dropped unmappable switch %q", opt))
		default:
			appendFlag(opt)
		}
	}

	for _, flag := range compatFlags {
		appendFlag(flag)
	}

	appendFlag(rs.Optimization)
	if strings.Contains(strings.ToLower(rs.Config), "debug") {
		appendFlag("-g")
	}

	return out
}

func tableHas(m map[string]string, key string) bool {
	_, ok := m[key]
	return ok
}

// translateDefinitions filters the deny-list and guarantees the essential
// baseline plus the build-mode token for the requested configuration.
func (tr *Translated) translateDefinitions(rs *vcxproj.ResolvedSettings) []string {
	var out []string
	for _, def := range rs.Definitions {
		if denyDefinitions[def] {
			continue
		}
		out = append(out, def)
	}

	ensure := slices.Clone(essentialDefinitions)
	if strings.Contains(strings.ToLower(rs.Config), "debug") {
		ensure = append(ensure, "_DEBUG", "DEBUG")
	} else {
		ensure = append(ensure, "NDEBUG")
	}
	for _, def := range ensure {
		if !slices.Contains(out, def) {
			out = append(out, def)
		}
	}

	slices.Sort(out)
	return out
}

// translateLibraries maps and filters the requested libraries and unions in
// the implicit baseline set.
func (tr *Translated) translateLibraries(rs *vcxproj.ResolvedSettings, tables *Tables) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(lib string) {
		if !seen[lib] {
			seen[lib] = true
			out = append(out, lib)
		}
	}

	for _, lib := range rs.Libraries {
		mapped, ok := tables.MapLibrary(lib)
		if !ok {
			tr.Warnings = append(tr.Warnings, fmt.Sprintf("dropped library %q: no MinGW equivalent", lib))
			continue
		}
		add(mapped)
	}
	for _, lib := range baselineLibraries {
		add(lib)
	}

	slices.Sort(out)
	return out
}

// translateLinkOptions derives linker switches from the subsystem, runtime
// library mode, and the wide entry-point heuristic.
func (tr *Translated) translateLinkOptions(rs *vcxproj.ResolvedSettings) []string {
	var out []string

	subsystem := strings.ToLower(rs.Subsystem)
	switch {
	case strings.Contains(subsystem, "console"):
		out = append(out, "-mconsole")
	case strings.Contains(subsystem, "windows"):
		out = append(out, "-mwindows")
	}

	if strings.Contains(rs.RuntimeLibrary, "MultiThreaded") && !strings.Contains(rs.RuntimeLibrary, "DLL") {
		out = append(out, "-static", "-static-libgcc", "-static-libstdc++")
	}

	if HasWideEntryPoint(rs.ProjectDir, rs.SourceFiles) {
		out = append(out, "-municode")
	}

	out = append(out, rs.LinkOptions...)
	return out
}

// HasWideEntryPoint scans source text for a wide-character program entry
// signature (wmain or wWinMain). Best-effort: entry points generated by a
// macro yield a false negative, and unreadable files are skipped.
func HasWideEntryPoint(projectDir string, sources []string) bool {
	for _, src := range sources {
		path := src
		if !filepath.IsAbs(path) {
			path = filepath.Join(projectDir, filepath.FromSlash(src))
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if wideEntryRe.Match(data) {
			return true
		}
	}
	return false
}

// includeDirs prepends the project directory itself while keeping the
// origin's order: first match wins during compilation.
func includeDirs(rs *vcxproj.ResolvedSettings) []string {
	if slices.Contains(rs.IncludeDirs, ".") {
		return slices.Clone(rs.IncludeDirs)
	}
	return append([]string{"."}, rs.IncludeDirs...)
}

// mixedFamilies reports whether sources span both the C and C++ families.
func mixedFamilies(sources []string) bool {
	var hasC, hasCxx bool
	for _, src := range sources {
		ext := strings.ToLower(filepath.Ext(src))
		if ext == ".c" {
			hasC = true
		} else if cxxExts[ext] {
			hasCxx = true
		}
	}
	return hasC && hasCxx
}

// cFamilyOptions strips C++-only flags from a translated option set.
func cFamilyOptions(options []string) []string {
	out := make([]string, 0, len(options))
	for _, opt := range options {
		if cxxOnlyFlags[opt] || strings.HasPrefix(opt, "-std=c++") {
			continue
		}
		out = append(out, opt)
	}
	return out
}
