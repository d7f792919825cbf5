// Package registryfile decodes the YAML/JSON registry files the watcher is configured with.
package registryfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type decoder struct {
	name string
	exts []string
	fn   func([]byte, any) error
}

var decoders = []decoder{
	{name: "yaml", exts: []string{".yaml", ".yml"}, fn: yaml.Unmarshal},
	{name: "json", exts: []string{".json"}, fn: json.Unmarshal},
}

// Load reads path and decodes it into a T. The extension picks the format;
// any other extension tries YAML then JSON. what names the file in errors.
func Load[T any](path, what string) (T, error) {
	var zero T

	path = strings.TrimSpace(path)
	if path == "" {
		return zero, fmt.Errorf("%s file path is empty", what)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return zero, fmt.Errorf("read %s file: %w", what, err)
	}
	return Decode[T](raw, filepath.Ext(path), what)
}

// Decode parses raw using the decoder matching ext.
func Decode[T any](raw []byte, ext, what string) (T, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	var errs []error
	for _, d := range decoders {
		if ext != "" && !d.matches(ext) && known(ext) {
			continue
		}
		var out T
		if err := d.fn(raw, &out); err != nil {
			errs = append(errs, fmt.Errorf("decode %s %s: %w", d.name, what, err))
			continue
		}
		return out, nil
	}

	var zero T
	return zero, fmt.Errorf("%s file format not recognized (expected YAML or JSON): %w", what, errors.Join(errs...))
}

func (d decoder) matches(ext string) bool {
	for _, e := range d.exts {
		if e == ext {
			return true
		}
	}
	return false
}

func known(ext string) bool {
	for _, d := range decoders {
		if d.matches(ext) {
			return true
		}
	}
	return false
}
