package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ContentDir          string `yaml:"content_dir"`
	Editor              string `yaml:"editor"`
	MaxWorkers          int    `yaml:"max_workers"`
	DefaultSort         string `yaml:"default_sort"`
	ReverseSort         bool   `yaml:"reverse_sort"`
	ShowDrafts          bool   `yaml:"show_drafts"`
	DatePrefixFilenames bool   `yaml:"date_prefix_filenames"`
	LogLevel            string `yaml:"log_level"`

	// New post defaults
	NewPostDraft bool     `yaml:"new_post_draft"`
	DefaultTags  []string `yaml:"default_tags"`

	// Check Settings
	RequireCodeLanguage bool `yaml:"require_code_language"`
	RequireCanonical    bool `yaml:"require_canonical"`

	// UI Settings
	DisplayDateFormat string `yaml:"display_date_format"`
	ColorTheme        string `yaml:"color_theme"`
	HighlightStyle    string `yaml:"highlight_style"`

	// Search Settings
	GrepCaseSensitive bool `yaml:"grep_case_sensitive"`
	MaxSearchResults  int  `yaml:"max_search_results"`

	// Performance
	WatchDebounceMS int `yaml:"watch_debounce_ms"`
}

// DefaultConfig returns a Config struct with default values
func DefaultConfig() *Config {
	return &Config{
		ContentDir:          "content",
		Editor:              "",
		MaxWorkers:          4,
		DefaultSort:         "date",
		ReverseSort:         true,
		ShowDrafts:          false,
		DatePrefixFilenames: false,
		LogLevel:            "warn",
		NewPostDraft:        true,
		DefaultTags:         []string{},
		RequireCodeLanguage: true,
		RequireCanonical:    false,
		DisplayDateFormat:   "Jan 02, 2006",
		ColorTheme:          "auto",
		HighlightStyle:      "monokai",
		GrepCaseSensitive:   false,
		MaxSearchResults:    50,
		WatchDebounceMS:     500,
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	// Start with default config
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config (not an error)
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.DefaultTags == nil {
		cfg.DefaultTags = []string{}
	}

	// Apply defaults for essential values if missing
	if cfg.ContentDir == "" {
		cfg.ContentDir = "content"
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.DisplayDateFormat == "" {
		cfg.DisplayDateFormat = "Jan 02, 2006"
	}
	if cfg.HighlightStyle == "" {
		cfg.HighlightStyle = "monokai"
	}
	if cfg.WatchDebounceMS <= 0 {
		cfg.WatchDebounceMS = 500
	}
	if cfg.MaxSearchResults <= 0 {
		cfg.MaxSearchResults = 50
	}

	if !isValidSort(cfg.DefaultSort) {
		cfg.DefaultSort = "date"
	}

	return cfg, nil
}

// Save persists the current configuration to the specified file path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func isValidSort(sortBy string) bool {
	switch sortBy {
	case "date", "title":
		return true
	}
	return false
}
