package manifest

import (
	"embed"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config describes which model assets to fetch and how.
type Config struct {
	// Timeout bounds each transfer. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout"`
	Models  []Model       `yaml:"models"`

	// timeoutSet records an explicit timeout key, so "timeout: 0s" in a
	// later file clears an earlier timeout.
	timeoutSet bool
}

// UnmarshalYAML decodes a manifest, noting whether timeout was present.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Timeout *time.Duration `yaml:"timeout"`
		Models  []Model        `yaml:"models"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	*c = Config{Models: raw.Models}
	if raw.Timeout != nil {
		c.Timeout = *raw.Timeout
		c.timeoutSet = true
	}
	return nil
}

// Model is one manifest: a list of relative file paths fetched from
// SourceRoot+path into DestinationRoot/path.
type Model struct {
	Name            string   `yaml:"name"`
	SourceRoot      string   `yaml:"source_root"`
	DestinationRoot string   `yaml:"destination_root"`
	Files           []string `yaml:"files"`
}

//go:embed base-config.yaml
var embeddedBaseConfig embed.FS

// BaseConfig returns the embedded base manifest.
func BaseConfig() (*Config, error) {
	data, err := embeddedBaseConfig.ReadFile("base-config.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedded base config")
	}
	return decodeConfig(data)
}

// LoadConfig loads a manifest file from disk.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file: %s", path)
	}
	return decodeConfig(data)
}

// ParseConfig decodes manifest data from bytes.
func ParseConfig(data []byte) (*Config, error) {
	if len(data) == 0 {
		return &Config{}, nil
	}
	return decodeConfig(data)
}

// MergeConfigs merges multiple configurations together, later entries overriding earlier ones.
// A timeout is overridden when the later config sets it, including to zero.
// Models are matched by name: a later model replaces an earlier one in place, new names are appended.
func MergeConfigs(cfgs ...*Config) (*Config, error) {
	if len(cfgs) == 0 {
		return nil, errors.New("no configurations provided")
	}

	var result Config
	modelIndex := make(map[string]int)

	for _, cfg := range cfgs {
		if cfg == nil {
			continue
		}

		if cfg.timeoutSet || cfg.Timeout != 0 {
			result.Timeout = cfg.Timeout
			result.timeoutSet = true
		}

		for _, model := range cfg.Models {
			name := strings.TrimSpace(model.Name)
			if name == "" {
				continue
			}
			model.Name = name
			model.Files = append([]string(nil), model.Files...)
			if idx, ok := modelIndex[name]; ok {
				result.Models[idx] = model
			} else {
				modelIndex[name] = len(result.Models)
				result.Models = append(result.Models, model)
			}
		}
	}

	return &result, nil
}

// Model returns the model with the given name.
func (c *Config) Model(name string) (Model, bool) {
	for _, m := range c.Models {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

// Names lists model names in manifest order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Models))
	for _, m := range c.Models {
		names = append(names, m.Name)
	}
	return names
}

func decodeConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse manifest configuration")
	}
	return &cfg, nil
}
