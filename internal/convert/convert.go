// Package convert wires the pipeline together: discover the solution, parse
// it, resolve and translate every project concurrently, then emit build
// descriptions in dependency order. A failure in one project never aborts
// its siblings.
package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/expr-lang/expr"
	"golang.org/x/sync/errgroup"

	"github.com/slncross/slncross/internal/config"
	"github.com/slncross/slncross/internal/gen"
	"github.com/slncross/slncross/internal/msg"
	"github.com/slncross/slncross/internal/sln"
	"github.com/slncross/slncross/internal/translate"
	"github.com/slncross/slncross/internal/vcxproj"
)

const (
	EmitCMake = "cmake"
	EmitJSON  = "json"
)

type Options struct {
	Config   string // e.g. "Release"
	Platform string // e.g. "x64"
	Emit     string // EmitCMake or EmitJSON
	Only     string // expr filter over {name, path, type}
	Name     string // target name override for metadata-less projects
	Jobs     int    // 0 = NumCPU
}

func (o Options) key() vcxproj.Key {
	return vcxproj.NewKey(o.Config, o.Platform)
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.NumCPU()
}

// newGenerator picks the emitter for the requested output format.
func newGenerator(emit string) gen.Generator {
	if emit == EmitJSON {
		return gen.NewJSONGen()
	}
	return gen.NewCMakeGen()
}

// macroEnv builds the macro bindings for one project resolution, with
// config-file extras layered on top.
func macroEnv(projectDir, solutionDir, name string, key vcxproj.Key, cfg *config.Config) vcxproj.MacroEnv {
	env := vcxproj.NewMacroEnv(projectDir, solutionDir, name, key)
	for k, v := range cfg.Macros {
		env[k] = v
	}
	return env
}

// tables builds the per-run translation tables with config overrides merged.
func tables(cfg *config.Config) *translate.Tables {
	t := translate.DefaultTables()
	t.Override(cfg.Switches, cfg.Libraries)
	return t
}

// buildTarget assembles the emitter input for one translated project.
func buildTarget(tr *translate.Translated, name string) *gen.Target {
	rs := tr.Settings
	if name == "" {
		name = rs.ProjectName
	}
	return &gen.Target{
		Name:           name,
		Kind:           rs.ConfigurationType,
		Standard:       rs.Standard,
		Sources:        rs.SourceFiles,
		Resources:      rs.ResourceFiles,
		IncludeDirs:    tr.IncludeDirs,
		Definitions:    tr.Definitions,
		CompileOptions: tr.CompileOptions,
		COptions:       tr.COptions,
		LinkOptions:    tr.LinkOptions,
		Libraries:      tr.Libraries,
	}
}

// Project converts a single project file and returns the emitted text plus
// any degradation warnings.
func Project(path string, opts Options, cfg *config.Config) (string, []string, error) {
	key := opts.key()

	proj, err := vcxproj.Parse(path)
	if err != nil {
		if opts.Name != "" && errors.Is(err, os.ErrNotExist) {
			// no project metadata at all: emit the documented glob fallback
			return Fallback(opts.Name, opts), nil, nil
		}
		return "", nil, err
	}

	solutionDir := filepath.Dir(proj.Dir)
	env := macroEnv(proj.Dir, solutionDir, proj.Name(), key, cfg)
	rs := proj.Resolve(key, env)
	tr := translate.Translate(rs, tables(cfg))

	g := newGenerator(opts.Emit)
	g.AddTarget(buildTarget(tr, opts.Name))
	return g.Generate(), tr.Warnings, nil
}

// Fallback emits a build description for a target with no project metadata:
// sources are globbed and every setting takes its documented default.
func Fallback(name string, opts Options) string {
	key := opts.key()
	rs := (&vcxproj.Project{}).Resolve(key, vcxproj.MacroEnv{})
	rs.ProjectName = name

	tr := translate.Translate(rs, translate.DefaultTables())
	g := newGenerator(opts.Emit)
	g.AddTarget(buildTarget(tr, name))
	return g.Generate()
}

// Result reports the outcome for one project of a solution run. Warnings are
// carried here rather than printed by the worker so concurrent projects never
// interleave output mid-line.
type Result struct {
	Project  *sln.Project
	Target   *gen.Target
	Warnings []string
	Err      error
}

// filterEnv is the variable set visible to --only expressions.
type filterEnv struct {
	Name string `expr:"name"`
	Path string `expr:"path"`
	Type string `expr:"type"`
}

// ProjectFilter compiles an --only expression into a project predicate. An
// empty expression accepts every project.
func ProjectFilter(expression string) (func(*sln.Project) bool, error) {
	if expression == "" {
		return func(*sln.Project) bool { return true }, nil
	}
	program, err := expr.Compile(expression, expr.Env(filterEnv{}))
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return func(p *sln.Project) bool {
		result, err := expr.Run(program, filterEnv{Name: p.Name, Path: p.Path, Type: p.Type})
		if err != nil {
			return false
		}
		matched, ok := result.(bool)
		return ok && matched
	}, nil
}

// Solution converts every matching C++ project of a solution. Results come
// back in topological build order; resolution itself fans out across
// workers since each project is a pure function of its file and key.
func Solution(s *sln.Solution, opts Options, cfg *config.Config) ([]Result, error) {
	only, err := ProjectFilter(opts.Only)
	if err != nil {
		return nil, err
	}
	filter := func(p *sln.Project) bool {
		return p.Type == sln.TypeCpp && strings.HasSuffix(p.Path, ".vcxproj") && only(p)
	}

	order, cyclic := s.BuildOrder(filter)
	if len(cyclic) > 0 {
		names := make([]string, len(cyclic))
		for i, p := range cyclic {
			names[i] = p.Name
		}
		msg.Warn("dependency cycle between %s; appending them in declaration order", strings.Join(names, ", "))
	}

	key := opts.key()
	tab := tables(cfg)
	results := make([]Result, len(order))

	var eg errgroup.Group
	eg.SetLimit(opts.jobs())
	for i, p := range order {
		eg.Go(func() error {
			results[i] = resolveOne(p, s.Dir, key, tab, cfg)
			return nil
		})
	}
	eg.Wait()

	for _, r := range results {
		for _, w := range r.Warnings {
			msg.Warn("%s: %s", r.Project.Name, w)
		}
	}

	linkSolutionDeps(s, results)
	return results, nil
}

func resolveOne(p *sln.Project, solutionDir string, key vcxproj.Key, tab *translate.Tables, cfg *config.Config) Result {
	proj, err := vcxproj.Parse(p.AbsPath)
	if err != nil {
		return Result{Project: p, Err: err}
	}

	env := macroEnv(proj.Dir, filepath.ToSlash(solutionDir), proj.Name(), key, cfg)
	rs := proj.Resolve(key, env)
	tr := translate.Translate(rs, tab)

	return Result{Project: p, Target: buildTarget(tr, ""), Warnings: tr.Warnings}
}

// linkSolutionDeps turns solution dependency edges into target-level link
// dependencies, but only toward projects that resolved to library targets.
func linkSolutionDeps(s *sln.Solution, results []Result) {
	byGUID := make(map[string]*gen.Target, len(results))
	for _, r := range results {
		if r.Err == nil {
			byGUID[r.Project.GUID] = r.Target
		}
	}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		for _, dep := range s.DependenciesOf(r.Project) {
			target, ok := byGUID[dep.GUID]
			if !ok || target.Kind == "Application" {
				continue
			}
			r.Target.Dependencies = append(r.Target.Dependencies, target.Name)
		}
	}
}

// WriteSolution emits one build description per successful result next to
// its project file, plus a top-level file in the solution directory wiring
// the subdirectories together in build order. It returns the names of
// projects that failed.
func WriteSolution(s *sln.Solution, results []Result, opts Options) ([]string, error) {
	var failed []string
	var subdirs []string

	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Project.Name)
			msg.Error("%s: %v", r.Project.Name, r.Err)
			continue
		}

		g := newGenerator(opts.Emit)
		g.AddTarget(r.Target)

		dir := filepath.Dir(r.Project.AbsPath)
		outPath := filepath.Join(dir, g.BuildFile())
		if err := os.WriteFile(outPath, []byte(g.Generate()), 0644); err != nil {
			return failed, fmt.Errorf("write %s: %w", outPath, err)
		}
		msg.Info("wrote %s", outPath)

		if rel, err := filepath.Rel(s.Dir, dir); err == nil && rel != "." {
			subdirs = append(subdirs, filepath.ToSlash(rel))
		}
	}

	if opts.Emit == EmitCMake && len(subdirs) > 0 {
		rootName := strings.TrimSuffix(filepath.Base(s.Path), filepath.Ext(s.Path))
		rootPath := filepath.Join(s.Dir, "CMakeLists.txt")
		if err := os.WriteFile(rootPath, []byte(gen.GenerateRoot(rootName, subdirs)), 0644); err != nil {
			return failed, fmt.Errorf("write %s: %w", rootPath, err)
		}
		msg.Info("wrote %s", rootPath)
	}

	return failed, nil
}
