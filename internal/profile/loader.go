package profile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML override format:
//
//	kinds:
//	  tap:
//	    grow: 250ms
//	  swipe:
//	    color: 2s
//	flourish:
//	  pop: 120ms
type fileConfig struct {
	Kinds    map[string]map[string]time.Duration `yaml:"kinds"`
	Flourish map[string]time.Duration            `yaml:"flourish"`
}

// Load reads phase duration overrides from a YAML file on top of Default.
func Load(filePath string) (*Table, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read timing profile file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Table, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse timing profile YAML: %w", err)
	}

	t := Default()
	for name, overrides := range cfg.Kinds {
		kind, err := ParseKind(name)
		if err != nil {
			return nil, fmt.Errorf("invalid timing profile: %w", err)
		}
		p, err := applyOverrides(t.profiles[kind], overrides)
		if err != nil {
			return nil, fmt.Errorf("invalid timing profile for %s: %w", kind, err)
		}
		t.profiles[kind] = p
	}
	if len(cfg.Flourish) > 0 {
		p, err := applyOverrides(t.flourish, cfg.Flourish)
		if err != nil {
			return nil, fmt.Errorf("invalid flourish profile: %w", err)
		}
		t.flourish = p
	}
	return t, nil
}

func applyOverrides(p Profile, overrides map[string]time.Duration) (Profile, error) {
	p = p.clone()
	index := make(map[string]int, len(p.Phases))
	for i, ph := range p.Phases {
		index[ph.Name] = i
	}
	for name, d := range overrides {
		i, ok := index[name]
		if !ok {
			return p, fmt.Errorf("unknown phase %q", name)
		}
		if d <= 0 {
			return p, fmt.Errorf("phase %q duration must be positive, got %s", name, d)
		}
		p.Phases[i].Duration = d
	}
	return p, nil
}
