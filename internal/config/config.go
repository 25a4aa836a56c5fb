// Package config loads the optional slncross.toml overrides file: extra
// flag and library mappings, extra macro bindings, and source patches
// applied before conversion. Sections under [when.'<expr>'] merge in only
// when the expression matches the requested configuration.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/expr-lang/expr"
	"github.com/pelletier/go-toml/v2"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/slncross/slncross/internal/msg"
)

const Filename = "slncross.toml"

// Env is the variable set visible to [when.'...'] condition expressions.
type Env struct {
	Config   string `expr:"config"`
	Platform string `expr:"platform"`
}

type Patch struct {
	File string `toml:"file"`
	Diff string `toml:"diff"`
}

type Config struct {
	Switches  map[string]string `toml:"switches"`
	Libraries map[string]string `toml:"libraries"`
	Macros    map[string]string `toml:"macros"`
	Patches   []Patch           `toml:"patch"`
}

type rawConfig struct {
	Config
	When map[string]Config `toml:"when"`
}

// Load reads and evaluates an overrides file. A missing file is not an
// error: the zero Config applies no overrides.
func Load(path string, env Env) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var raw rawConfig
	dec := toml.NewDecoder(bufio.NewReader(f))
	if err := dec.Decode(&raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			return nil, fmt.Errorf("parse %s: %s", path, derr.String())
		}
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := raw.Config
	for condition, section := range raw.When {
		matched, err := evalCondition(condition, env)
		if err != nil {
			return nil, fmt.Errorf("condition [when.%q]: %w", condition, err)
		}
		if matched {
			cfg.merge(section)
		}
	}

	return &cfg, nil
}

func evalCondition(condition string, env Env) (bool, error) {
	program, err := expr.Compile(condition, expr.Env(env))
	if err != nil {
		return false, fmt.Errorf("compile: %w", err)
	}
	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("run: %w", err)
	}
	matched, ok := result.(bool)
	return ok && matched, nil
}

func (c *Config) merge(other Config) {
	if len(other.Switches) > 0 && c.Switches == nil {
		c.Switches = make(map[string]string)
	}
	for k, v := range other.Switches {
		c.Switches[k] = v
	}
	if len(other.Libraries) > 0 && c.Libraries == nil {
		c.Libraries = make(map[string]string)
	}
	for k, v := range other.Libraries {
		c.Libraries[k] = v
	}
	if len(other.Macros) > 0 && c.Macros == nil {
		c.Macros = make(map[string]string)
	}
	for k, v := range other.Macros {
		c.Macros[k] = v
	}
	c.Patches = append(c.Patches, other.Patches...)
}

// ApplyPatches applies every configured source patch relative to baseDir.
// A patch where no hunk applies is reported, not fatal: the file may already
// carry the fix.
func (c *Config) ApplyPatches(baseDir string) error {
	dmp := diffmatchpatch.New()

	for _, p := range c.Patches {
		fullPath := filepath.Join(baseDir, filepath.FromSlash(p.File))
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return fmt.Errorf("patch %s: %w", p.File, err)
		}

		patches, err := dmp.PatchFromText(p.Diff)
		if err != nil {
			return fmt.Errorf("patch %s: bad diff: %w", p.File, err)
		}

		patched, results := dmp.PatchApply(patches, string(data))
		applied := false
		for _, ok := range results {
			if ok {
				applied = true
				break
			}
		}
		if !applied {
			msg.Warn("patch %s: no hunk applied, file left untouched", p.File)
			continue
		}

		if err := os.WriteFile(fullPath, []byte(patched), 0644); err != nil {
			return fmt.Errorf("patch %s: %w", p.File, err)
		}
	}

	return nil
}
