// Package configutil loads layered json5 configuration files. A file
// `<name>.json5` may sit next to an optional `<name>.local.json5`
// holding machine-local overrides that never get committed.
package configutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func localName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// readLayer unmarshals one file into out, reporting whether the file
// existed at all.
func readLayer[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json5.Unmarshal(contents, out)
}

// Load reads `name` and merges `<name>.local.<ext>` over it when
// present. Returns os.ErrNotExist when neither file exists.
func Load[T any](name string) (T, error) {
	var out T

	found, err := readLayer(name, &out)
	if err != nil {
		return out, err
	}

	var override T
	foundLocal, err := readLayer(localName(name), &override)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localName(name))
	}

	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// LoadRecursively walks up from the working directory to the
// filesystem root looking for `name`, so tests deep inside the tree
// pick up the repo-level config.
func LoadRecursively[T any](name string) (T, error) {
	var zero T

	current, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for {
		config, err := Load[T](filepath.Join(current, name))
		if !os.IsNotExist(err) {
			return config, err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return zero, os.ErrNotExist
		}
		current = parent
	}
}
