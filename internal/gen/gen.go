package gen

// Target is one fully translated build target ready for emission. Emitters
// hold no other state: output is a function of the targets added, enabling
// byte-for-byte reproducibility.
type Target struct {
	Name           string   `json:"name"`
	Kind           string   `json:"kind"` // Application, DynamicLibrary, StaticLibrary
	Standard       string   `json:"cpp_standard"`
	Sources        []string `json:"sources"`
	Resources      []string `json:"resources,omitempty"`
	IncludeDirs    []string `json:"include_directories"`
	Definitions    []string `json:"definitions"`
	CompileOptions []string `json:"compile_options"`
	COptions       []string `json:"c_compile_options,omitempty"`
	LinkOptions    []string `json:"link_options"`
	Libraries      []string `json:"libraries"`
	Dependencies   []string `json:"dependencies,omitempty"`
}

type Generator interface {
	AddTarget(t *Target)
	Generate() string
	BuildFile() string
}
