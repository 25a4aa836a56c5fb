package vcxproj

import "regexp"

var macroRe = regexp.MustCompile(`\$\([^)]*\)`)

// MacroEnv maps MSBuild macro names (without the $() decoration) to their
// expansion strings. Any macro without a binding is removed entirely, never
// left literal: unresolved placeholders are not valid output for the target
// build system.
type MacroEnv map[string]string

// NewMacroEnv builds the fixed binding set for one resolution pass.
func NewMacroEnv(projectDir, solutionDir, projectName string, key Key) MacroEnv {
	return MacroEnv{
		"ProjectDir":    projectDir + "/",
		"SolutionDir":   solutionDir + "/",
		"Configuration": key.Config,
		"Platform":      key.Platform,
		"IntDir":        "build/",
		"OutDir":        "build/",
		"TargetName":    projectName,
		"ProjectName":   projectName,
	}
}

// Expand substitutes every $(Name) token in a single pass. Lookups happen
// per-token so the result does not depend on map iteration order.
func (m MacroEnv) Expand(s string) string {
	if s == "" {
		return s
	}
	return macroRe.ReplaceAllStringFunc(s, func(tok string) string {
		name := tok[2 : len(tok)-1]
		if v, ok := m[name]; ok {
			return v
		}
		return ""
	})
}
