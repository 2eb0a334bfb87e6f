package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Common errors for schema file loading.
var (
	ErrFileNotFound     = errors.New("schema file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidJSON      = errors.New("invalid JSON syntax")
	ErrInvalidYAML      = errors.New("invalid YAML syntax")
	ErrEmptyFile        = errors.New("schema file is empty")
	ErrDuplicateSchema  = errors.New("duplicate schema name")
)

// DefaultPatterns are the glob patterns LoadDir uses when none are given.
var DefaultPatterns = []string{"**/*.yaml", "**/*.yml", "**/*.json"}

// LoadFromFile reads a SchemaSet from a JSON or YAML file. The format is
// auto-detected by extension (.yaml/.yml for YAML, otherwise JSON).
func LoadFromFile(path string) (*SchemaSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".yaml" || ext == ".yml" {
		return ParseYAML(data)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w in file: %s", ErrInvalidJSON, path)
	}
	return ParseJSON(data)
}

// ParseYAML parses a SchemaSet from YAML data.
func ParseYAML(data []byte) (*SchemaSet, error) {
	var set SchemaSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// ParseJSON parses a SchemaSet from JSON data.
func ParseJSON(data []byte) (*SchemaSet, error) {
	var set SchemaSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := set.Validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// LoadDir walks dir and merges every schema file whose path (relative to
// dir) matches one of the doublestar glob patterns. Schema names must be
// unique across the whole directory.
func LoadDir(dir string, patterns ...string) (*SchemaSet, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("directory not found: %s", dir)
		}
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	merged := &SchemaSet{
		Version: "1",
		Schemas: make(map[string]*SchemaDef),
	}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		matched := false
		for _, pattern := range patterns {
			ok, err := doublestar.Match(pattern, rel)
			if err != nil {
				return fmt.Errorf("bad glob pattern %q: %w", pattern, err)
			}
			if ok {
				matched = true
				break
			}
		}
		if !matched {
			return nil
		}

		set, err := LoadFromFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", rel, err)
		}
		for name, def := range set.Schemas {
			if _, exists := merged.Schemas[name]; exists {
				return fmt.Errorf("%w: %q (in %s)", ErrDuplicateSchema, name, rel)
			}
			merged.Schemas[name] = def
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
