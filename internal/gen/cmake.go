package gen

import "strings"

// CMakeGen emits a CMakeLists.txt per target, tuned for MinGW
// cross-compilation. Pure formatting: every decision was already made by the
// resolver and translator.
type CMakeGen struct {
	targets []*Target
}

func NewCMakeGen() *CMakeGen { return &CMakeGen{} }

func (g *CMakeGen) AddTarget(t *Target) { g.targets = append(g.targets, t) }

func (g *CMakeGen) BuildFile() string { return "CMakeLists.txt" }

func (g *CMakeGen) Generate() string {
	var sb strings.Builder
	for i, t := range g.targets {
		if i > 0 {
			writeln(&sb)
		}
		g.writeTarget(&sb, t)
	}
	return sb.String()
}

// GenerateRoot emits a top-level CMakeLists.txt wiring per-project
// subdirectories together in build order.
func GenerateRoot(solutionName string, subdirs []string) string {
	var sb strings.Builder
	writeln(&sb, "# Auto-generated by slncross")
	writeln(&sb, "# Solution: ", solutionName)
	writeln(&sb)
	writeln(&sb, "cmake_minimum_required(VERSION 3.10)")
	writeln(&sb, "project(", sanitizeName(solutionName), ")")
	writeln(&sb)
	writeln(&sb, "# Subdirectories in dependency build order")
	for _, dir := range subdirs {
		writeln(&sb, "add_subdirectory(", dir, ")")
	}
	return sb.String()
}

func (g *CMakeGen) writeTarget(sb *strings.Builder, t *Target) {
	name := sanitizeName(t.Name)

	writeln(sb, "# Auto-generated by slncross")
	writeln(sb, "# Project: ", t.Name)
	writeln(sb)
	writeln(sb, "cmake_minimum_required(VERSION 3.10)")
	writeln(sb, "project(", name, ")")
	writeln(sb)

	if t.Standard != "" {
		writeln(sb, "set(CMAKE_CXX_STANDARD ", strings.TrimPrefix(t.Standard, "c++"), ")")
		writeln(sb, "set(CMAKE_CXX_STANDARD_REQUIRED ON)")
		writeln(sb)
	}

	if len(t.Sources) > 0 {
		writeln(sb, "# Source files")
		writeln(sb, "set(SOURCES")
		for _, src := range t.Sources {
			writeln(sb, "    ", src)
		}
		writeln(sb, ")")
		writeln(sb)
	}
	if len(t.Resources) > 0 {
		writeln(sb, "# Resource files")
		writeln(sb, "set(RESOURCES")
		for _, rc := range t.Resources {
			writeln(sb, "    ", rc)
		}
		writeln(sb, ")")
		writeln(sb)
	}

	g.writeArtifact(sb, t, name)

	if len(t.IncludeDirs) > 0 {
		writeln(sb, "# Include directories")
		writeln(sb, "target_include_directories(", name, " PRIVATE")
		for _, inc := range t.IncludeDirs {
			writeln(sb, "    ", inc)
		}
		writeln(sb, ")")
		writeln(sb)
	}

	if len(t.Definitions) > 0 {
		writeln(sb, "# Preprocessor definitions")
		writeln(sb, "target_compile_definitions(", name, " PRIVATE")
		for _, def := range t.Definitions {
			writeln(sb, "    ", def)
		}
		writeln(sb, ")")
		writeln(sb)
	}

	g.writeCompileOptions(sb, t, name)

	if len(t.LinkOptions) > 0 {
		writeln(sb, "# Linker options")
		writeln(sb, "target_link_options(", name, " PRIVATE")
		for _, opt := range t.LinkOptions {
			writeln(sb, "    ", opt)
		}
		writeln(sb, ")")
		writeln(sb)
	}

	libs := append([]string{}, t.Libraries...)
	// dependency targets were declared under their sanitized names
	for _, dep := range t.Dependencies {
		libs = append(libs, sanitizeName(dep))
	}
	if len(libs) > 0 {
		writeln(sb, "# Link libraries")
		writeln(sb, "target_link_libraries(", name)
		for _, lib := range libs {
			writeln(sb, "    ", lib)
		}
		writeln(sb, ")")
		writeln(sb)
	}

	writeln(sb, "# Output settings")
	writeln(sb, "set_target_properties(", name, " PROPERTIES")
	writeln(sb, `    OUTPUT_NAME "`, t.Name, `"`)
	writeln(sb, `    SUFFIX "`, artifactSuffix(t.Kind), `"`)
	writeln(sb, ")")
}

// writeArtifact declares the executable or library, falling back to a glob
// when the project lists no sources.
func (g *CMakeGen) writeArtifact(sb *strings.Builder, t *Target, name string) {
	var addCmd string
	switch t.Kind {
	case "DynamicLibrary":
		addCmd = "add_library(" + name + " SHARED"
	case "StaticLibrary":
		addCmd = "add_library(" + name + " STATIC"
	default:
		addCmd = "add_executable(" + name
	}

	switch {
	case len(t.Sources) > 0 && len(t.Resources) > 0:
		writeln(sb, "# Create target")
		writeln(sb, addCmd, " ${SOURCES} ${RESOURCES})")
	case len(t.Sources) > 0:
		writeln(sb, "# Create target")
		writeln(sb, addCmd, " ${SOURCES})")
	default:
		writeln(sb, "# No sources listed, fall back to globbing")
		writeln(sb, `file(GLOB_RECURSE SOURCES "*.cpp" "*.c")`)
		writeln(sb, `file(GLOB_RECURSE RESOURCES "*.rc")`)
		writeln(sb, addCmd, " ${SOURCES} ${RESOURCES})")
	}
	writeln(sb)
}

// writeCompileOptions emits one option block, or per-language blocks when the
// translator produced a separate C-family set.
func (g *CMakeGen) writeCompileOptions(sb *strings.Builder, t *Target, name string) {
	if len(t.CompileOptions) == 0 {
		return
	}
	writeln(sb, "# Compiler options")
	if len(t.COptions) == 0 {
		writeln(sb, "target_compile_options(", name, " PRIVATE")
		for _, opt := range t.CompileOptions {
			writeln(sb, "    ", opt)
		}
		writeln(sb, ")")
		writeln(sb)
		return
	}

	writeln(sb, "target_compile_options(", name, " PRIVATE")
	for _, opt := range t.CompileOptions {
		writeln(sb, "    $<$<COMPILE_LANGUAGE:CXX>:", opt, ">")
	}
	for _, opt := range t.COptions {
		writeln(sb, "    $<$<COMPILE_LANGUAGE:C>:", opt, ">")
	}
	writeln(sb, ")")
	writeln(sb)
}

func artifactSuffix(kind string) string {
	switch kind {
	case "DynamicLibrary":
		return ".dll"
	case "StaticLibrary":
		return ".a"
	}
	return ".exe"
}

var nameSanitizer = strings.NewReplacer(" ", "_", "(", "_", ")", "_", "&", "_")

// sanitizeName makes a project name safe for use as a CMake target name.
func sanitizeName(name string) string {
	return nameSanitizer.Replace(name)
}
