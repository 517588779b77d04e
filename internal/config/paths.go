package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the application paths. Relative paths are always resolved
// against the directory of the executable, never the working directory.
type Paths struct {
	ExecutableDir string
	LogsDir       string
	ConfigFile    string
}

// GetPaths returns the application paths relative to the executable location
func GetPaths() (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return NewPaths(filepath.Dir(exe)), nil
}

// NewPaths lays out the application paths under baseDir
func NewPaths(baseDir string) *Paths {
	return &Paths{
		ExecutableDir: baseDir,
		LogsDir:       filepath.Join(baseDir, DefaultLogsDir),
		ConfigFile:    filepath.Join(baseDir, DefaultConfigFile),
	}
}

// Resolve returns path unchanged when absolute, otherwise joined to the executable directory
func (p *Paths) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(p.ExecutableDir, path)
}

// EnsureDirectories creates the directories the application writes into
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// DefaultConfigPath returns the config file next to the executable when it exists, or ""
func (p *Paths) DefaultConfigPath() string {
	if FileExists(p.ConfigFile) {
		return p.ConfigFile
	}
	return ""
}

// ResolveDensify rewrites the densify input, output and log file paths to absolute paths
func (c *Config) ResolveDensify(p *Paths) {
	c.Densify.Input = p.Resolve(c.Densify.Input)
	c.Densify.Output = p.Resolve(c.Densify.Output)
	c.Logging.FilePath = p.Resolve(c.Logging.FilePath)
}

// LogPathResolution logs the resolved paths at debug level
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Path resolution summary",
		slog.Group("paths",
			slog.String("executable", p.ExecutableDir),
			slog.String("logs", p.LogsDir),
			slog.String("config", p.ConfigFile),
		))
}
