package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrInvalidConfig tags every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Scan contains settings shared by every project scan.
type Scan struct {
	FileExtension string `toml:"file_extension"`
	GroupingLevel int    `toml:"grouping_level"`
}

// Extractor configures the external character extraction command.
type Extractor struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Journal configures the SQLite scan history.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Outputs holds the output path templates of one project.
type Outputs struct {
	JSON         string `toml:"json"`
	Success      string `toml:"success"`
	NoFiles      string `toml:"no_files"`
	ExtractError string `toml:"extract_error"`
	WriteError   string `toml:"write_error"`
	Batch        string `toml:"batch"`
}

// Project describes one archive: where it lives, how its identifiers are
// structured, and where scan results go. IDPrefix is the required value of
// the first facet, which keeps projects sharing a base directory apart;
// built-in projects default it to their own name and empty accepts any value.
type Project struct {
	BaseDir       string   `toml:"base_dir"`
	Facets        []string `toml:"facets"`
	VariableFacet string   `toml:"variable_facet"`
	GroupingLevel int      `toml:"grouping_level"`
	IDPrefix      string   `toml:"id_prefix"`
	Outputs       Outputs  `toml:"outputs"`
}

// Config encapsulates all configuration values for charscan.
//
// Configuration sections by subsystem:
//   - Paths: output tree root and log directory
//   - Logging: log format and level
//   - Scan: data file extension and default grouping level
//   - Extractor: external character extraction command
//   - Journal: SQLite scan history
//   - Projects: per-project base directory, facet schema, and output templates
type Config struct {
	Paths     Paths              `toml:"paths"`
	Logging   Logging            `toml:"logging"`
	Scan      Scan               `toml:"scan"`
	Extractor Extractor          `toml:"extractor"`
	Journal   Journal            `toml:"journal"`
	Projects  map[string]Project `toml:"projects"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/charscan/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and templates resolved against paths.output_dir.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("charscan.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the output and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ProjectNames returns the configured project names sorted.
func (c *Config) ProjectNames() []string {
	names := make([]string, 0, len(c.Projects))
	for name := range c.Projects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// JournalPath returns the scan journal location, or "" when the journal is disabled.
func (c *Config) JournalPath() string {
	if !c.Journal.Enabled {
		return ""
	}
	return c.Journal.Path
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
