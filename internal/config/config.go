package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the per-directory configuration file
const FileName = ".pathgrip.toml"

// ErrNotFound is returned when a configuration file does not exist
var ErrNotFound = errors.New("config file not found")

// Config represents the application configuration
type Config struct {
	Version    int            `toml:"version"`
	Roots      []string       `toml:"roots" comment:"Directories to index, relative to the working directory"`
	Search     SearchSettings `toml:"search"`
	Index      IndexSettings  `toml:"index"`
	UISettings UISettings     `toml:"ui"`
	Log        LogSettings    `toml:"log"`
}

// SearchSettings configures the autocomplete search cycle
type SearchSettings struct {
	DebounceMS      int    `toml:"debounce_ms" comment:"Quiet period after the last keystroke before searching"`
	MinQueryLength  int    `toml:"min_query_length"`
	MaxResults      int    `toml:"max_results"`
	CacheSize       int    `toml:"cache_size" comment:"Number of queries kept in the result cache"`
	CacheTTLSeconds int    `toml:"cache_ttl_seconds" comment:"0 keeps cached results until evicted"`
	Command         string `toml:"command" comment:"External search command; the query is appended as the last argument"`
	TimeoutMS       int    `toml:"timeout_ms"`
}

// IndexSettings configures the file index
type IndexSettings struct {
	MaxDepth  int      `toml:"max_depth"`
	Ignore    []string `toml:"ignore" comment:"Glob patterns matched against base names"`
	Hidden    bool     `toml:"hidden" comment:"Index dot files and directories"`
	Watch     bool     `toml:"watch" comment:"Follow file system changes while running"`
	BatchSize int      `toml:"batch_size"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Placeholder string           `toml:"placeholder"`
	Rows        int              `toml:"rows"`
	MaxRows     int              `toml:"max_rows"`
	CharLimit   int              `toml:"char_limit" comment:"0 means unlimited"`
	Mouse       bool             `toml:"mouse"`
	Dropdown    DropdownSettings `toml:"dropdown"`
}

// DropdownSettings are the dropdown metrics in terminal cells
type DropdownSettings struct {
	Width     int `toml:"width"`
	MaxHeight int `toml:"max_height"`
	MinHeight int `toml:"min_height"`
	Gap       int `toml:"gap"`
	Margin    int `toml:"margin"`
}

// LogSettings configures the log file
type LogSettings struct {
	File  string `toml:"file" comment:"Empty logs to the user cache directory"`
	Level string `toml:"level"`
}

// Debounce returns the debounce delay
func (s SearchSettings) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// CacheTTL returns the cache time-to-live, 0 for none
func (s SearchSettings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

// Timeout returns the per-request provider timeout, 0 for none
func (s SearchSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutMS) * time.Millisecond
}

// Validate clamps out-of-range values and rejects unusable ones
func (c *Config) Validate() error {
	if c.Search.DebounceMS < 0 {
		c.Search.DebounceMS = 0
	}
	if c.Search.MinQueryLength < 1 {
		c.Search.MinQueryLength = 1
	}
	if c.Search.MaxResults < 0 {
		c.Search.MaxResults = 0
	}
	if c.Search.CacheSize < 1 {
		c.Search.CacheSize = 1
	}
	if c.Search.CacheTTLSeconds < 0 {
		c.Search.CacheTTLSeconds = 0
	}
	if c.Index.MaxDepth < 0 {
		c.Index.MaxDepth = 0
	}
	if c.Index.BatchSize < 1 {
		c.Index.BatchSize = DefaultConfig().Index.BatchSize
	}
	if c.UISettings.Rows < 1 {
		c.UISettings.Rows = 1
	}
	if c.UISettings.MaxRows < c.UISettings.Rows {
		c.UISettings.MaxRows = c.UISettings.Rows
	}
	if len(c.Roots) == 0 {
		c.Roots = []string{"."}
	}
	for _, pattern := range c.Index.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("invalid log level %q: %w", c.Log.Level, err)
		}
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service for the user-wide config file
func NewConfigService() ConfigService {
	return &configService{filePath: GlobalPath()}
}

// GlobalPath returns the user-wide config file location
func GlobalPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "pathgrip", "config.toml")
}

func (cs *configService) Path() string { return cs.filePath }

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values; unknown keys are an error.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("failed to parse config %s: %s", path, strict.String())
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Resolve picks the configuration for dir: an explicit path wins, then a
// FileName in dir, then the user-wide file, then defaults. It returns the
// path that was used, empty for defaults.
func Resolve(cs ConfigService, dir, explicit string) (*Config, string, error) {
	if explicit != "" {
		cfg, err := cs.LoadFromPath(explicit)
		return cfg, explicit, err
	}

	local := filepath.Join(dir, FileName)
	cfg, err := cs.LoadFromPath(local)
	if err == nil {
		return cfg, local, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, local, err
	}

	cfg, err = cs.LoadFromPath(cs.Path())
	if err == nil {
		return cfg, cs.Path(), nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, cs.Path(), err
	}

	return DefaultConfig(), "", nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Roots:   []string{"."},
		Search: SearchSettings{
			DebounceMS:      350,
			MinQueryLength:  2,
			MaxResults:      50,
			CacheSize:       256,
			CacheTTLSeconds: 300,
			TimeoutMS:       5000,
		},
		Index: IndexSettings{
			MaxDepth: 12,
			Ignore: []string{
				".git", "node_modules", ".npm", "vendor", ".cache",
				"dist", "build", "target", ".gradle", "__pycache__",
				".pytest_cache", ".tox", "venv", ".venv",
			},
			Watch:     true,
			BatchSize: 256,
		},
		UISettings: UISettings{
			Placeholder: "Type file paths, separated by commas or new lines...",
			Rows:        3,
			MaxRows:     10,
			Mouse:       true,
			Dropdown: DropdownSettings{
				Width:     64,
				MaxHeight: 12,
				MinHeight: 4,
				Gap:       0,
				Margin:    1,
			},
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// IsIgnored reports whether a base name matches one of the ignore globs
func (s IndexSettings) IsIgnored(name string) bool {
	if !s.Hidden && strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	for _, pattern := range s.Ignore {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
