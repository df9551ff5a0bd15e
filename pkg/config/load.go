package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ajxudir/turboncu/pkg/errors"
	"github.com/ajxudir/turboncu/pkg/verbose"
	"gopkg.in/yaml.v3"
)

// SearchFiles lists the config file names looked up in the working directory,
// in priority order.
var SearchFiles = []string{".ncurc.json", ".ncurc.yml", ".ncurc.yaml", ".ncurc.toml"}

// Format identifies the encoding of a config file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// File is a loaded config file.
//
// Fields:
//   - Path: File that was read, empty when no config file was found
//   - Format: Encoding the file was decoded with
//   - Overrides: Values the file sets; never nil
type File struct {
	Path      string
	Format    Format
	Overrides *Overrides
}

// readFileFunc is swapped in tests to simulate read failures.
var readFileFunc = os.ReadFile

// Load locates and decodes the config file for a run.
//
// It performs the following operations:
//   - Step 1: If explicitPath is set, load exactly that file
//   - Step 2: Otherwise load the first of SearchFiles present in searchDir
//   - Step 3: Otherwise return an empty File
//
// Unknown keys are ignored. Any file that is found but cannot be read or
// decoded is an error, as is an explicit path with an unsupported extension.
//
// Parameters:
//   - explicitPath: Value of --configFile, empty for discovery
//   - searchDir: Directory searched when explicitPath is empty
//
// Returns:
//   - *File: Loaded file, or an empty File when none exists
//   - error: *errors.ConfigError describing the failing file
func Load(explicitPath, searchDir string) (*File, error) {
	if explicitPath != "" {
		file, err := loadFile(explicitPath)
		if err != nil {
			return nil, err
		}
		verbose.ConfigLoaded(file.Path, string(file.Format))
		return file, nil
	}

	if searchDir == "" {
		searchDir = "."
	}
	for _, name := range SearchFiles {
		path := filepath.Join(searchDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		file, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		verbose.ConfigLoaded(file.Path, string(file.Format))
		return file, nil
	}

	verbose.ConfigLoaded("", "")
	return &File{Overrides: &Overrides{}}, nil
}

// formatFor maps a file extension to its decoder.
func formatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yml", ".yaml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return "", false
	}
}

func loadFile(path string) (*File, error) {
	format, ok := formatFor(path)
	if !ok {
		return nil, &errors.ConfigError{Path: path, Err: errors.ErrUnsupportedConfigFormat}
	}

	data, err := readFileFunc(path)
	if err != nil {
		return nil, &errors.ConfigError{Path: path, Err: err}
	}

	overrides, err := decode(data, format)
	if err != nil {
		return nil, &errors.ConfigError{Path: path, Err: err}
	}

	return &File{Path: path, Format: format, Overrides: overrides}, nil
}

// decode parses config data in the given format.
//
// An empty YAML document decodes to an empty Overrides.
func decode(data []byte, format Format) (*Overrides, error) {
	var o Overrides
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &o); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &o); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	default:
		return nil, errors.ErrUnsupportedConfigFormat
	}
	return &o, nil
}
