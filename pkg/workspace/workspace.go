package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Dir names inside the workspace root
const (
	CacheDirName   = ".postkit"
	IndexFileName  = "index.json"
	DefaultContent = "content"
)

// Workspace represents a blog checkout managed by postkit
type Workspace struct {
	RootPath    string
	ContentPath string
	CachePath   string
	ConfigPath  string
}

// New creates a Workspace rooted at root. An empty root means the current
// directory; contentDir is relative to root unless absolute.
func New(root, contentDir string) (*Workspace, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to determine working directory: %w", err)
		}
		root = wd
	}

	rootPath, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}

	configPath, err := DefaultConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}

	if strings.TrimSpace(contentDir) == "" {
		contentDir = DefaultContent
	}
	contentPath := contentDir
	if !filepath.IsAbs(contentPath) {
		contentPath = filepath.Join(rootPath, contentDir)
	}

	return &Workspace{
		RootPath:    rootPath,
		ContentPath: contentPath,
		CachePath:   filepath.Join(rootPath, CacheDirName),
		ConfigPath:  configPath,
	}, nil
}

// DefaultConfigPath returns the config file location.
// Follows XDG Base Directory specification on Unix and uses AppData on Windows
func DefaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "postkit", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, "postkit", "config.yaml"), nil
	}

	return filepath.Join(homeDir, ".config", "postkit", "config.yaml"), nil
}

// Initialize creates the workspace directory structure if it doesn't exist
func (w *Workspace) Initialize() error {
	directories := []string{
		w.RootPath,
		w.ContentPath,
		w.CachePath,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// Exists checks if the content directory is present
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.ContentPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// GetPostPath returns the full path for a post file
func (w *Workspace) GetPostPath(filename string) string {
	return filepath.Join(w.ContentPath, filename)
}

// GetCachePath returns the full path for a cached file
func (w *Workspace) GetCachePath(filename string) string {
	return filepath.Join(w.CachePath, filename)
}

// IndexPath returns the path to the post index file
func (w *Workspace) IndexPath() string {
	return filepath.Join(w.CachePath, IndexFileName)
}

// CleanCache removes all files in the cache directory
func (w *Workspace) CleanCache() error {
	entries, err := os.ReadDir(w.CachePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, entry := range entries {
		path := filepath.Join(w.CachePath, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	return nil
}

// RelPath returns path relative to the workspace root, or path itself if it
// lies outside of it
func (w *Workspace) RelPath(path string) string {
	rel, err := filepath.Rel(w.RootPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
