package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Encoder contains default WebP encoding parameters. The convert command's
// flags override these per run.
type Encoder struct {
	Quality      int  `toml:"quality"`
	Lossless     bool `toml:"lossless"`
	KeepMetadata bool `toml:"keep_metadata"`
	Effort       int  `toml:"effort"`
}

// Pipeline contains traversal and dispatch behavior.
type Pipeline struct {
	Jobs           int      `toml:"jobs"`
	Overwrite      bool     `toml:"overwrite"`
	SkipWebPInputs bool     `toml:"skip_webp_inputs"`
	Exclude        []string `toml:"exclude"`
}

// Index contains defaults for the CSV index output.
type Index struct {
	BaseURL string `toml:"base_url"`
	CSVOut  string `toml:"csv_out"`
}

// Manifest contains configuration for the run manifest database.
type Manifest struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for webpmill.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Encoder  Encoder  `toml:"encoder"`
	Pipeline Pipeline `toml:"pipeline"`
	Index    Index    `toml:"index"`
	Manifest Manifest `toml:"manifest"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/webpmill/config.toml")
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes the embedded sample configuration to target.
func CreateSample(target string) error {
	return os.WriteFile(target, []byte(sampleConfig), 0o644)
}

// ExpandPath expands a leading tilde and absolutizes path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults apply. The returned config has all path fields
// expanded and normalized. The second return value is the resolved path and
// the third reports whether a file was actually read.
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

	projectPath, err := filepath.Abs("webpmill.toml")
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

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Index.BaseURL = strings.TrimSpace(c.Index.BaseURL)
	if strings.TrimSpace(c.Index.CSVOut) != "" {
		if c.Index.CSVOut, err = expandPath(c.Index.CSVOut); err != nil {
			return fmt.Errorf("index.csv_out: %w", err)
		}
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	if c.Pipeline.Jobs <= 0 {
		c.Pipeline.Jobs = defaultJobs
	}
	return nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ManifestPath returns the location of the run manifest database.
func (c *Config) ManifestPath() string {
	return filepath.Join(c.Paths.StateDir, "manifest.db")
}

// LockPath returns the location of the run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "webpmill.lock")
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		trimmed = filepath.Join(home, trimmed[2:])
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("absolutize %q: %w", trimmed, err)
	}
	return abs, nil
}
