package config

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig []byte

// ErrConfigExists is returned by WriteSample when the target exists and
// overwrite is false.
var ErrConfigExists = errors.New("config file already exists")

// WriteSample writes the commented sample configuration to path (the user
// config location when empty) and returns the absolute path written.
func WriteSample(path string, overwrite bool) (string, error) {
	var err error
	if path == "" {
		path, err = DefaultConfigPath()
	} else {
		path, err = expandPath(path)
	}
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w at %s (use --overwrite to replace it)", ErrConfigExists, path)
		}
		return "", fmt.Errorf("write sample config: %w", err)
	}
	if _, err := file.Write(sampleConfig); err != nil {
		file.Close()
		return "", fmt.Errorf("write sample config: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("write sample config: %w", err)
	}
	return path, nil
}

// Setting is one effective configuration value keyed by its dotted TOML name.
type Setting struct {
	Key   string
	Value string
}

// Settings lists every effective value, sorted by key, by round-tripping
// the config through its TOML encoding.
func (c *Config) Settings() ([]Setting, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	var tree map[string]any
	if err := toml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	var out []Setting
	for _, section := range slices.Sorted(maps.Keys(tree)) {
		values, ok := tree[section].(map[string]any)
		if !ok {
			out = append(out, Setting{Key: section, Value: fmt.Sprint(tree[section])})
			continue
		}
		for _, key := range slices.Sorted(maps.Keys(values)) {
			out = append(out, Setting{Key: section + "." + key, Value: fmt.Sprint(values[key])})
		}
	}
	return out, nil
}
