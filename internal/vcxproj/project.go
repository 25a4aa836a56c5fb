package vcxproj

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ParseError reports a structurally malformed or unreadable project file.
// It is fatal to that file's translation only, never to sibling projects.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

//
// structures for .vcxproj
//

type projectXML struct {
	XMLName              xml.Name              `xml:"Project"`
	PropertyGroups       []propertyGroup       `xml:"PropertyGroup"`
	ItemGroups           []itemGroup           `xml:"ItemGroup"`
	ItemDefinitionGroups []itemDefinitionGroup `xml:"ItemDefinitionGroup"`
}

type propertyGroup struct {
	Condition         string `xml:"Condition,attr"`
	Label             string `xml:"Label,attr"`
	ProjectName       string `xml:"ProjectName"`
	RootNamespace     string `xml:"RootNamespace"`
	ConfigurationType string `xml:"ConfigurationType"`
	CharacterSet      string `xml:"CharacterSet"`
	SubSystem         string `xml:"SubSystem"`
}

type itemGroup struct {
	Label                 string                 `xml:"Label,attr"`
	ProjectConfigurations []projectConfiguration `xml:"ProjectConfiguration"`
	ClCompiles            []fileItem             `xml:"ClCompile"`
	ClIncludes            []fileItem             `xml:"ClInclude"`
	ResourceCompiles      []fileItem             `xml:"ResourceCompile"`
	Nones                 []fileItem             `xml:"None"`
	Midls                 []fileItem             `xml:"Midl"`
}

type projectConfiguration struct {
	Include       string `xml:"Include,attr"`
	Configuration string `xml:"Configuration"`
	Platform      string `xml:"Platform"`
}

type fileItem struct {
	Include string `xml:"Include,attr"`
}

type itemDefinitionGroup struct {
	Condition string       `xml:"Condition,attr"`
	ClCompile clCompileDef `xml:"ClCompile"`
	Link      linkDef      `xml:"Link"`
}

type clCompileDef struct {
	PreprocessorDefinitions      string `xml:"PreprocessorDefinitions"`
	AdditionalIncludeDirectories string `xml:"AdditionalIncludeDirectories"`
	AdditionalOptions            string `xml:"AdditionalOptions"`
	RuntimeLibrary               string `xml:"RuntimeLibrary"`
	LanguageStandard             string `xml:"LanguageStandard"`
	WarningLevel                 string `xml:"WarningLevel"`
	Optimization                 string `xml:"Optimization"`
}

type linkDef struct {
	SubSystem              string `xml:"SubSystem"`
	AdditionalDependencies string `xml:"AdditionalDependencies"`
	AdditionalOptions      string `xml:"AdditionalOptions"`
}

// scope is one conditionally-guarded property container, assembled once
// during parse so resolution never has to re-scan the element tree.
type scope struct {
	condition string
	cl        clCompileDef
	link      linkDef
	props     propertyGroup
}

// Project is the parsed form of one .vcxproj file. It is read-only after
// Parse; all per-configuration state lives in ResolvedSettings.
type Project struct {
	Path   string
	Dir    string
	doc    projectXML
	scopes []scope
}

// Parse reads and parses a project file from disk.
func Parse(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return ParseBytes(path, data)
}

// ParseBytes parses raw project file content. The path is used for macro
// bindings and error reporting only.
func ParseBytes(path string, data []byte) (*Project, error) {
	p := &Project{
		Path: path,
		Dir:  filepath.ToSlash(filepath.Dir(path)),
	}
	// encoding/xml matches local names, which strips the MSBuild namespace
	// noise before structural traversal.
	if err := xml.Unmarshal(data, &p.doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	p.buildScopes()
	return p, nil
}

// buildScopes flattens PropertyGroups and ItemDefinitionGroups into a single
// ordered scope list, carrying each group's condition along.
func (p *Project) buildScopes() {
	for _, pg := range p.doc.PropertyGroups {
		p.scopes = append(p.scopes, scope{condition: pg.Condition, props: pg})
	}
	for _, idg := range p.doc.ItemDefinitionGroups {
		p.scopes = append(p.scopes, scope{
			condition: idg.Condition,
			cl:        idg.ClCompile,
			link:      idg.Link,
		})
	}
}

// Name returns the declared project name, falling back to the root namespace
// and finally the file stem.
func (p *Project) Name() string {
	for _, pg := range p.doc.PropertyGroups {
		if pg.ProjectName != "" {
			return pg.ProjectName
		}
	}
	for _, pg := range p.doc.PropertyGroups {
		if pg.RootNamespace != "" {
			return pg.RootNamespace
		}
	}
	base := filepath.Base(p.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Configurations lists every declared configuration/platform pair, or the
// fixed default set when the project declares none.
func (p *Project) Configurations() []Key {
	var keys []Key
	for _, ig := range p.doc.ItemGroups {
		for _, pc := range ig.ProjectConfigurations {
			if pc.Configuration != "" && pc.Platform != "" {
				keys = append(keys, Key{Config: pc.Configuration, Platform: pc.Platform})
			}
		}
	}
	if len(keys) == 0 {
		keys = DefaultKeys()
	}
	return keys
}

// SourceFiles returns all compiled sources with normalized paths.
func (p *Project) SourceFiles() []string {
	var files []string
	for _, ig := range p.doc.ItemGroups {
		for _, item := range ig.ClCompiles {
			if item.Include != "" {
				files = append(files, normalizeSourcePath(item.Include))
			}
		}
	}
	return files
}

// HeaderFiles returns all declared headers with normalized paths.
func (p *Project) HeaderFiles() []string {
	var files []string
	for _, ig := range p.doc.ItemGroups {
		for _, item := range ig.ClIncludes {
			if item.Include != "" {
				files = append(files, normalizeSourcePath(item.Include))
			}
		}
	}
	return files
}

// ResourceFiles returns resource scripts, including .rc files tucked into
// None items, with normalized paths.
func (p *Project) ResourceFiles() []string {
	var files []string
	for _, ig := range p.doc.ItemGroups {
		for _, item := range ig.ResourceCompiles {
			if item.Include != "" {
				files = append(files, normalizeSourcePath(item.Include))
			}
		}
		for _, item := range ig.Nones {
			if strings.HasSuffix(strings.ToLower(item.Include), ".rc") {
				files = append(files, normalizeSourcePath(item.Include))
			}
		}
	}
	return files
}

// IdlFiles returns MIDL interface definition files with normalized paths.
func (p *Project) IdlFiles() []string {
	var files []string
	for _, ig := range p.doc.ItemGroups {
		for _, item := range ig.Midls {
			if item.Include != "" {
				files = append(files, normalizeSourcePath(item.Include))
			}
		}
	}
	return files
}

// normalizeSourcePath converts separators to forward slashes and lowercases
// the final path segment. The target file system may be case-sensitive while
// the origin's is not, so this is required for correctness.
func normalizeSourcePath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[:i+1] + strings.ToLower(path[i+1:])
	}
	return strings.ToLower(path)
}
