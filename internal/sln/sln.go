package sln

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/slncross/slncross/internal/vcxproj"
)

// ParseError reports a malformed or unreadable solution file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Project type names, as mapped from the solution's type GUIDs.
const (
	TypeCpp       = "C++"
	TypeCSharp    = "C#"
	TypeCSharpSDK = "C# SDK-style"
	TypeVBNet     = "VB.NET"
	TypeFolder    = "SolutionFolder"
	TypeWiX       = "WiX"
	TypeWebsite   = "Website"
	TypeUnknown   = "Unknown"
)

// https://github.com/VISTALL/visual-studio-project-type-guids
var projectTypeNames = map[string]string{
	"8BC9CEB8-8B4A-11D0-8D11-00A0C91BC942": TypeCpp,
	"FAE04EC0-301F-11D3-BF4B-00C04F79EFBC": TypeCSharp,
	"9A19103F-16F7-4668-BE54-9A1E7A4F7556": TypeCSharpSDK,
	"F184B08F-C81C-45F6-A57F-5ABD9991F28F": TypeVBNet,
	"2150E333-8FDC-42A3-9474-1A3956D46DE8": TypeFolder,
	"930C7802-8A8C-48F9-8165-68863BCCD9DD": TypeWiX,
	"E24C65DC-7377-472B-9ABA-BC803B73C61A": TypeWebsite,
}

// Project is one project entry of a solution. Created once per solution
// parse, read-only thereafter.
type Project struct {
	GUID     string
	TypeGUID string
	Name     string
	Path     string
	Type     string
	AbsPath  string
}

// Solution is the parsed registry of projects, their declared dependency
// edges, and the solution-wide configuration list.
type Solution struct {
	Path string
	Dir  string

	projects map[string]*Project // GUID -> project
	order    []string            // GUIDs in declaration order
	deps     map[string][]string // GUID -> dependency GUIDs
	configs  []vcxproj.Key
}

var (
	projectRe      = regexp.MustCompile(`Project\("\{([^}]+)\}"\)\s*=\s*"([^"]+)",\s*"([^"]+)",\s*"\{([^}]+)\}"`)
	projectBlockRe = regexp.MustCompile(`(?s)Project\("[^"]+"\)\s*=\s*"[^"]+",\s*"[^"]+",\s*"\{([^}]+)\}".*?EndProject\b`)
	depPairRe      = regexp.MustCompile(`\{([^}]+)\}\s*=\s*\{([^}]+)\}`)
	solutionCfgRe  = regexp.MustCompile(`(\w+)\|(\w+)\s*=\s*\w+\|\w+`)
	cfgSectionRe   = regexp.MustCompile(`(?s)GlobalSection\(SolutionConfigurationPlatforms\).*?EndGlobalSection`)
)

// Parse reads and parses a solution file from disk.
func Parse(path string) (*Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return ParseBytes(path, data)
}

// ParseBytes parses raw solution file content.
func ParseBytes(path string, data []byte) (*Solution, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	s := &Solution{
		Path:     abs,
		Dir:      filepath.Dir(abs),
		projects: make(map[string]*Project),
		deps:     make(map[string][]string),
	}

	// strip a UTF-8 BOM, solution files routinely carry one
	content := strings.TrimPrefix(string(data), "\ufeff")

	s.parseProjects(content)
	s.parseDependencies(content)
	s.parseConfigurations(content)

	if len(s.projects) == 0 {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("no project entries found")}
	}
	return s, nil
}

// normalizeGUID upper-cases and canonicalizes a GUID string. Values that do
// not parse are kept verbatim (upper-cased) rather than rejected: dependency
// edges referencing them should still line up.
func normalizeGUID(raw string) string {
	if u, err := uuid.Parse(strings.Trim(raw, "{}")); err == nil {
		return strings.ToUpper(u.String())
	}
	return strings.ToUpper(raw)
}

func (s *Solution) parseProjects(content string) {
	for _, m := range projectRe.FindAllStringSubmatch(content, -1) {
		typeGUID := normalizeGUID(m[1])
		name := m[2]
		relPath := strings.ReplaceAll(m[3], `\`, "/")
		guid := normalizeGUID(m[4])

		typeName, ok := projectTypeNames[typeGUID]
		if !ok {
			typeName = TypeUnknown
		}

		if _, exists := s.projects[guid]; exists {
			continue
		}
		s.projects[guid] = &Project{
			GUID:     guid,
			TypeGUID: typeGUID,
			Name:     name,
			Path:     relPath,
			Type:     typeName,
			AbsPath:  filepath.Join(s.Dir, filepath.FromSlash(relPath)),
		}
		s.order = append(s.order, guid)
	}
}

// parseDependencies extracts ProjectSection(ProjectDependencies) sub-sections
// from each project block.
func (s *Solution) parseDependencies(content string) {
	for _, m := range projectBlockRe.FindAllStringSubmatch(content, -1) {
		guid := normalizeGUID(m[1])
		block := m[0]

		start := strings.Index(block, "ProjectDependencies")
		if start < 0 {
			continue
		}
		end := strings.Index(block[start:], "EndProjectSection")
		if end < 0 {
			continue
		}
		section := block[start : start+end]

		for _, dep := range depPairRe.FindAllStringSubmatch(section, -1) {
			s.deps[guid] = append(s.deps[guid], normalizeGUID(dep[1]))
		}
	}
}

// parseConfigurations extracts the solution-wide configuration/platform
// enumeration, substituting the fixed default set when none is declared.
func (s *Solution) parseConfigurations(content string) {
	if section := cfgSectionRe.FindString(content); section != "" {
		seen := make(map[vcxproj.Key]struct{})
		for _, m := range solutionCfgRe.FindAllStringSubmatch(section, -1) {
			key := vcxproj.Key{Config: m[1], Platform: m[2]}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			s.configs = append(s.configs, key)
		}
	}
	if len(s.configs) == 0 {
		s.configs = vcxproj.DefaultKeys()
	}
}

// Configurations returns the canonical solution-wide configuration list.
func (s *Solution) Configurations() []vcxproj.Key {
	return s.configs
}

// Projects returns every project in declaration order.
func (s *Solution) Projects() []*Project {
	out := make([]*Project, 0, len(s.order))
	for _, guid := range s.order {
		out = append(out, s.projects[guid])
	}
	return out
}

// ProjectsOfType returns projects of the given type, in declaration order.
func (s *Solution) ProjectsOfType(typeName string) []*Project {
	var out []*Project
	for _, guid := range s.order {
		if p := s.projects[guid]; p.Type == typeName {
			out = append(out, p)
		}
	}
	return out
}

// ProjectByGUID looks up a project by its normalized GUID.
func (s *Solution) ProjectByGUID(guid string) (*Project, bool) {
	p, ok := s.projects[normalizeGUID(guid)]
	return p, ok
}

// DependenciesOf returns the declared (not transitive) dependency edges of a
// project. Edges to GUIDs missing from the registry are skipped.
func (s *Solution) DependenciesOf(p *Project) []*Project {
	var out []*Project
	for _, guid := range s.deps[p.GUID] {
		if dep, ok := s.projects[guid]; ok {
			out = append(out, dep)
		}
	}
	return out
}

// Discover finds a solution file in a directory, preferring one named after
// the directory itself.
func Discover(dir string) (string, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), "*.sln")
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no .sln file found in %s", dir)
	}
	dirName := strings.ToLower(filepath.Base(dir))
	for _, m := range matches {
		stem := strings.TrimSuffix(strings.ToLower(m), ".sln")
		if stem == dirName {
			return filepath.Join(dir, m), nil
		}
	}
	return filepath.Join(dir, matches[0]), nil
}
