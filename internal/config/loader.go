package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// EnvConfig overrides the config path when no explicit path is given.
const EnvConfig = "CCLI_CONFIG"

// FsFactory returns the filesystem configuration is read from.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Loader reads the YAML config file.
type Loader struct {
	path string
	home string
}

// NewLoader builds a loader. An empty path means CCLI_CONFIG, then
// ~/.ccli/config.yaml.
func NewLoader(path, home string) *Loader {
	return &Loader{path: path, home: home}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string {
	if l.path != "" {
		return expandPath(l.path, l.home)
	}
	if custom := os.Getenv(EnvConfig); custom != "" {
		return expandPath(custom, l.home)
	}
	return filepath.Join(l.home, ".ccli", "config.yaml")
}

// Load reads and validates the config. A missing file yields defaults.
func (l *Loader) Load() (Config, error) {
	path := l.Path()
	data, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(l.home), nil
		}
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg = hydrateDefaults(cfg, l.home)
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}
