package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind says where an effective value came from.
type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source locates a value. Line and Column are 1-based and only set for files.
type Source struct {
	Kind   SourceKind
	File   string
	Line   int
	Column int
}

// LoadResult is a loaded configuration plus where each set key was written.
type LoadResult struct {
	Config *Config
	// Sources maps a dotted key such as "taskbar.height" to the last file
	// position that set it. Keys left at their default are absent.
	Sources map[string]Source
	// Files lists every file read, in merge order.
	Files []string
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/taskstrip/config.yaml, falling
// back to ~/.config/taskstrip/config.yaml.
func DefaultConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskstrip", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "taskstrip", "config.yaml"), nil
}

// LoadFromPath layers path over the defaults and validates the result. A
// missing path yields the defaults. Files named under include are applied
// before the file that names them, so the including file wins.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &fileLoader{sources: make(map[string]Source)}

	var raw RawConfig
	if _, err := os.Stat(path); err == nil {
		if raw, err = l.load(path, nil); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	cfg, err := BuildEffectiveConfig(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, l.locate(err)
	}
	return &LoadResult{Config: cfg, Sources: l.sources, Files: l.files}, nil
}

// fileLoader accumulates state across one include tree.
type fileLoader struct {
	sources map[string]Source
	files   []string
}

// load reads one file and its includes. chain holds the files currently
// being loaded, outermost first.
func (l *fileLoader) load(path string, chain []string) (RawConfig, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return RawConfig{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if slices.Contains(chain, path) {
		return RawConfig{}, fmt.Errorf("include cycle: %s", strings.Join(append(chain, path), " -> "))
	}

	info, err := os.Stat(path)
	if err != nil {
		return RawConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	if info.IsDir() {
		return RawConfig{}, fmt.Errorf("%s: include must name a file, not a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return RawConfig{}, fmt.Errorf("failed to read config: %w", err)
	}

	own, err := decodeStrict(data)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", path, err)
	}

	var merged RawConfig
	chain = append(chain, path)
	for _, inc := range own.Include {
		sub, err := l.load(includePath(path, inc), chain)
		if err != nil {
			return RawConfig{}, err
		}
		merged = merged.merge(sub)
	}

	// Recorded after the includes so this file's positions replace theirs.
	if err := l.record(path, data); err != nil {
		return RawConfig{}, err
	}
	l.files = append(l.files, path)
	return merged.merge(own), nil
}

// decodeStrict rejects keys RawConfig does not know. An empty document is
// an empty config.
func decodeStrict(data []byte) (RawConfig, error) {
	var raw RawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return RawConfig{}, err
	}
	return raw, nil
}

// record notes the position of every key data sets. Only the top level and
// the taskbar block are walked since nothing nests deeper.
func (l *fileLoader) record(path string, data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	l.walk(path, "", doc.Content[0])
	return nil
}

func (l *fileLoader) walk(path, prefix string, node *yaml.Node) {
	if node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if prefix == "" && key.Value == "include" {
			continue
		}
		if prefix == "" && key.Value == "taskbar" {
			l.walk(path, "taskbar.", value)
			continue
		}
		l.sources[prefix+key.Value] = Source{Kind: SourceFile, File: path, Line: value.Line, Column: value.Column}
	}
}

// locate fills in the file position of a ValidationError.
func (l *fileLoader) locate(err error) error {
	var verr *ValidationError
	if errors.As(err, &verr) && verr.Source.Kind == "" {
		if src, ok := l.sources[verr.Path]; ok {
			verr.Source = src
		}
	}
	return err
}

// includePath resolves an include entry against the including file. A
// leading ~/ refers to the home directory.
func includePath(from, inc string) string {
	if rest, ok := strings.CutPrefix(inc, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	if filepath.IsAbs(inc) {
		return inc
	}
	return filepath.Join(filepath.Dir(from), inc)
}
