package vcxproj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpand(t *testing.T) {
	env := MacroEnv{
		"ProjectDir":    "proj/",
		"Configuration": "Release",
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no macros", "include;src", "include;src"},
		{"known macro", "$(ProjectDir)src", "proj/src"},
		{"multiple macros", "$(ProjectDir)$(Configuration)", "proj/Release"},
		{"unknown macro removed", "$(IntDir)obj", "obj"},
		{"empty", "", ""},
		{"macro only", "$(Undefined)", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, env.Expand(tt.in))
		})
	}
}

func TestExpandDeterministic(t *testing.T) {
	env := NewMacroEnv("proj", "sln", "tool", NewKey("Debug", "x64"))
	in := "$(SolutionDir)common;$(ProjectDir)include;$(OutDir)gen"
	want := env.Expand(in)
	for range 100 {
		assert.Equal(t, want, env.Expand(in))
	}
}

func TestNewMacroEnv(t *testing.T) {
	env := NewMacroEnv("c:/work/tool", "c:/work", "tool", NewKey("Release", "Win32"))

	assert.Equal(t, "c:/work/tool/", env["ProjectDir"])
	assert.Equal(t, "c:/work/", env["SolutionDir"])
	assert.Equal(t, "Release", env["Configuration"])
	assert.Equal(t, "x86", env["Platform"], "Win32 aliases to x86")
	assert.Equal(t, "tool", env["TargetName"])
}
