package gen

import "encoding/json"

// JSONGen dumps the intermediate model instead of build-script text, for
// inspection or downstream tooling.
type JSONGen struct {
	targets []*Target
}

func NewJSONGen() *JSONGen { return &JSONGen{} }

func (g *JSONGen) AddTarget(t *Target) { g.targets = append(g.targets, t) }

func (g *JSONGen) BuildFile() string { return "targets.json" }

func (g *JSONGen) Generate() string {
	var v any = g.targets
	if len(g.targets) == 1 {
		v = g.targets[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Target contains nothing unmarshalable
		panic(err)
	}
	return string(data) + "\n"
}
