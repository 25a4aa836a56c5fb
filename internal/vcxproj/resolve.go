package vcxproj

import (
	"regexp"
	"slices"
	"strings"
)

// Key identifies exactly one build variant: a (configuration, platform) pair.
// All resolution is parametric over this key.
type Key struct {
	Config   string
	Platform string
}

// NewKey builds a Key, aliasing the legacy Win32 platform name to x86.
func NewKey(config, platform string) Key {
	if strings.EqualFold(platform, "Win32") {
		platform = "x86"
	}
	return Key{Config: config, Platform: platform}
}

func (k Key) String() string { return k.Config + "|" + k.Platform }

// platformAliases lists the platform spellings a condition may use for this
// key. Win32 and x86 refer to the same target.
func (k Key) platformAliases() []string {
	switch strings.ToLower(k.Platform) {
	case "x86":
		return []string{k.Platform, "Win32"}
	case "win32":
		return []string{k.Platform, "x86"}
	}
	return []string{k.Platform}
}

// DefaultKeys is the fixed configuration set substituted when a project or
// solution declares none.
func DefaultKeys() []Key {
	return []Key{
		{Config: "Debug", Platform: "Win32"},
		{Config: "Debug", Platform: "x64"},
		{Config: "Release", Platform: "Win32"},
		{Config: "Release", Platform: "x64"},
	}
}

// releaseLike reports whether a configuration name selects optimized
// defaults. Anything that doesn't look like a debug build does.
func (k Key) releaseLike() bool {
	return !strings.Contains(strings.ToLower(k.Config), "debug")
}

// matchCondition evaluates a scope's guard against the requested key by
// normalized case-insensitive substring comparison. An empty condition always
// matches; a condition that cannot be classified is treated as non-matching.
func matchCondition(cond string, key Key) bool {
	cond = strings.TrimSpace(cond)
	if cond == "" {
		return true
	}
	lower := strings.ToLower(cond)
	for _, plat := range key.platformAliases() {
		target := strings.ToLower("'" + key.Config + "|" + plat + "'")
		if strings.Contains(lower, target) {
			return true
		}
	}
	return strings.Contains(lower, strings.ToLower(key.Config))
}

// ResolvedSettings is the fully merged, macro-expanded, per-key settings
// record for one project. Exactly one exists per (file, key) pair and it is
// immutable once produced.
type ResolvedSettings struct {
	ProjectName       string   `json:"project_name"`
	ProjectDir        string   `json:"project_dir"`
	Config            string   `json:"config"`
	Platform          string   `json:"platform"`
	ConfigurationType string   `json:"configuration_type"`
	SourceFiles       []string `json:"source_files"`
	HeaderFiles       []string `json:"header_files"`
	ResourceFiles     []string `json:"resource_files"`
	Definitions       []string `json:"preprocessor_definitions"`
	IncludeDirs       []string `json:"include_directories"`
	Options           []string `json:"additional_options"`
	Libraries         []string `json:"additional_libraries"`
	LinkOptions       []string `json:"additional_link_options"`
	RuntimeLibrary    string   `json:"runtime_library"`
	Subsystem         string   `json:"subsystem"`
	CharacterSet      string   `json:"character_set"`
	Standard          string   `json:"cpp_standard"`
	WarningLevel      int      `json:"warning_level"`
	Optimization      string   `json:"optimization"`
}

// Resolve folds every scope whose condition matches the key into one
// immutable settings record. List properties accumulate and de-duplicate;
// scalar properties take the last matching scope's value; properties never
// set by a matching scope fall back to documented defaults, so a key absent
// from the file is not an error.
func (p *Project) Resolve(key Key, env MacroEnv) *ResolvedSettings {
	rs := &ResolvedSettings{
		ProjectName: p.Name(),
		ProjectDir:  p.Dir,
		Config:      key.Config,
		Platform:    NewKey(key.Config, key.Platform).Platform,
	}

	var (
		defs, includes, options, libs, linkOpts []string
		runtime, subsystem, charset             string
		standard, warning, optimization         string
		configType                              string
	)

	for _, sc := range p.scopes {
		if !matchCondition(sc.condition, key) {
			continue
		}

		defs = append(defs, splitList(env.Expand(sc.cl.PreprocessorDefinitions))...)
		includes = append(includes, splitIncludes(env.Expand(sc.cl.AdditionalIncludeDirectories))...)
		options = append(options, splitOptions(env.Expand(sc.cl.AdditionalOptions))...)
		libs = append(libs, splitList(env.Expand(sc.link.AdditionalDependencies))...)
		linkOpts = append(linkOpts, splitOptions(env.Expand(sc.link.AdditionalOptions))...)

		runtime = lastNonEmpty(runtime, sc.cl.RuntimeLibrary)
		subsystem = lastNonEmpty(subsystem, sc.link.SubSystem, sc.props.SubSystem)
		charset = lastNonEmpty(charset, sc.props.CharacterSet)
		standard = lastNonEmpty(standard, sc.cl.LanguageStandard)
		warning = lastNonEmpty(warning, sc.cl.WarningLevel)
		optimization = lastNonEmpty(optimization, sc.cl.Optimization)
		configType = lastNonEmpty(configType, sc.props.ConfigurationType)
	}

	rs.Definitions = sortedUnique(append(defs, commonDefinitions(key)...))
	rs.IncludeDirs = stableUnique(includes)
	rs.Options = stableUnique(options)
	rs.Libraries = sortedUnique(stripLibSuffixes(libs))
	rs.LinkOptions = stableUnique(linkOpts)

	rs.ConfigurationType = defaulted(configType, "Application")
	rs.RuntimeLibrary = defaulted(runtime, defaultRuntime(key))
	rs.Subsystem = defaulted(subsystem, "Console")
	rs.CharacterSet = defaulted(charset, "Unicode")
	rs.Standard = convertStandard(standard)
	rs.WarningLevel = convertWarningLevel(warning)
	rs.Optimization = convertOptimization(optimization, key)

	rs.SourceFiles = p.SourceFiles()
	rs.HeaderFiles = p.HeaderFiles()
	rs.ResourceFiles = p.ResourceFiles()

	return rs
}

// commonDefinitions is the unconditional baseline the origin toolchain sets
// implicitly, plus the build-mode marker for the requested configuration.
func commonDefinitions(key Key) []string {
	defs := []string{"WIN32", "_WINDOWS", "UNICODE", "_UNICODE"}
	if key.releaseLike() {
		return append(defs, "NDEBUG")
	}
	return append(defs, "_DEBUG", "DEBUG")
}

func defaultRuntime(key Key) string {
	if key.releaseLike() {
		return "MultiThreadedDLL"
	}
	return "MultiThreadedDebugDLL"
}

// convertStandard maps the origin's LanguageStandard vocabulary onto c++NN,
// defaulting to the oldest supported standard.
func convertStandard(raw string) string {
	std := strings.ToLower(raw)
	switch {
	case strings.Contains(std, "c++20"), strings.Contains(std, "stdcpp20"), strings.Contains(std, "latest"):
		return "c++20"
	case strings.Contains(std, "c++17"), strings.Contains(std, "stdcpp17"):
		return "c++17"
	case strings.Contains(std, "c++14"), strings.Contains(std, "stdcpp14"):
		return "c++14"
	}
	return "c++11"
}

var digitRe = regexp.MustCompile(`\d+`)

func convertWarningLevel(raw string) int {
	if m := digitRe.FindString(raw); m != "" {
		level := 0
		for _, c := range m {
			level = level*10 + int(c-'0')
		}
		return level
	}
	return 3
}

// convertOptimization maps the origin's Optimization vocabulary onto a -O
// flag. MinSpace is checked before the speed variants because "maxspeed" and
// "minspace" share no prefix but "full" implies -O3.
func convertOptimization(raw string, key Key) string {
	opt := strings.ToLower(raw)
	switch {
	case strings.Contains(opt, "disabled"):
		return "-O0"
	case strings.Contains(opt, "minspace"):
		return "-Os"
	case strings.Contains(opt, "full"):
		return "-O3"
	case strings.Contains(opt, "maxspeed"):
		return "-O2"
	}
	if key.releaseLike() {
		return "-O2"
	}
	return "-O0"
}

// splitList splits a semicolon-delimited property value, trimming entries
// and dropping empties plus %(...) inherit placeholders, which this system
// suppresses rather than models.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ";") {
		item = strings.TrimSpace(item)
		if item == "" || strings.HasPrefix(item, "%(") {
			continue
		}
		out = append(out, item)
	}
	return out
}

// splitIncludes is splitList plus separator normalization. Include order is
// preserved: first match wins during compilation.
func splitIncludes(raw string) []string {
	items := splitList(raw)
	for i, item := range items {
		items[i] = strings.ReplaceAll(item, `\`, "/")
	}
	return items
}

var optionRe = regexp.MustCompile(`[^\s"]+|"[^"]*"`)

// splitOptions splits on whitespace but preserves quoted arguments.
func splitOptions(raw string) []string {
	var out []string
	for _, part := range optionRe.FindAllString(raw, -1) {
		if part == "" || strings.HasPrefix(part, "%(") {
			continue
		}
		out = append(out, part)
	}
	return out
}

func stripLibSuffixes(libs []string) []string {
	out := make([]string, 0, len(libs))
	for _, lib := range libs {
		if strings.EqualFold(filepathExt(lib), ".lib") {
			lib = lib[:len(lib)-4]
		}
		out = append(out, lib)
	}
	return out
}

func filepathExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

func lastNonEmpty(current string, candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			current = strings.TrimSpace(c)
		}
	}
	return current
}

func defaulted(val, fallback string) string {
	if val == "" {
		return fallback
	}
	return val
}

func sortedUnique(items []string) []string {
	out := stableUnique(items)
	slices.Sort(out)
	return out
}

func stableUnique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
