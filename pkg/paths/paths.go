package paths

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotsetup/pkg/errors"
)

// Environment variable names
const (
	// EnvRoot is the primary environment variable for the repository location
	EnvRoot = "DOTSETUP_ROOT"

	// EnvDotfilesRoot is honoured when EnvRoot is unset
	EnvDotfilesRoot = "DOTFILES_ROOT"

	// EnvConfigDir overrides the XDG config directory for dotsetup
	EnvConfigDir = "DOTSETUP_CONFIG_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// File and directory names. These are not user-configurable.
const (
	// AppDirName is the directory name for dotsetup-specific files
	AppDirName = "dotsetup"

	// UserConfigFile lives in the config directory
	UserConfigFile = "config.toml"

	// RepoConfigFile lives at the repository root
	RepoConfigFile = ".dotsetup.toml"

	// EnvFile lives at the repository root
	EnvFile = ".env"
)

// Paths provides centralized path management for dotsetup
type Paths interface {
	Root() string
	UsedFallback() bool
	CategoryDir(dir string) string
	ConfigDir() string
	UserConfigPath() string
	RepoConfigPath() string
	EnvFilePath() string
}

type paths struct {
	root         string
	configDir    string
	usedFallback bool
}

// New creates a new Paths instance with the given repository root.
// If root is empty, it is determined from the environment, the enclosing git
// repository, or the current directory, in that order.
func New(root string) (Paths, error) {
	p := &paths{}

	if root == "" {
		found, usedFallback, err := findRoot()
		if err != nil {
			return nil, err
		}
		p.root = found
		p.usedFallback = usedFallback
	} else {
		p.root = ExpandHome(root)
	}

	absRoot, err := filepath.Abs(p.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for repository root")
	}
	p.root = filepath.Clean(absRoot)

	if configDir := os.Getenv(EnvConfigDir); configDir != "" {
		p.configDir = ExpandHome(configDir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	return p, nil
}

// findRoot returns the resolved root and whether the cwd fallback was used.
func findRoot() (string, bool, error) {
	for _, env := range []string{EnvRoot, EnvDotfilesRoot} {
		if root := os.Getenv(env); root != "" {
			return ExpandHome(root), false, nil
		}
	}

	if gitRoot, err := findGitRoot(); err == nil && gitRoot != "" {
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrFileAccess, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	output, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}

	return gitRoot, nil
}

// HomeDir returns the user's home directory, preferring $HOME.
func HomeDir() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFileAccess, "cannot determine home directory")
	}
	return home, nil
}

// ExpandHome expands a leading ~ or ~/ to the home directory. ~user forms
// are returned unchanged.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := HomeDir()
	if err != nil {
		return path
	}

	if len(path) == 1 {
		return homeDir
	}

	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// NormalizePath expands home, makes the path absolute and cleans it
func NormalizePath(path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for %s", path)
	}

	return filepath.Clean(abs), nil
}

// ResolveUnder expands home in path and, when the result is still relative,
// joins it onto base.
func ResolveUnder(base, path string) (string, error) {
	if path == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	expanded := ExpandHome(path)
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(base, expanded)
	}
	return NormalizePath(expanded)
}

// ResolveDestination resolves a mapping destination: relative destinations
// live under the home directory.
func ResolveDestination(path string) (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return ResolveUnder(home, path)
}

// Root returns the managed repository root
func (p *paths) Root() string {
	return p.root
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// CategoryDir returns a directory inside the repository
func (p *paths) CategoryDir(dir string) string {
	return filepath.Join(p.root, dir)
}

// ConfigDir returns the XDG config directory for dotsetup
func (p *paths) ConfigDir() string {
	return p.configDir
}

// UserConfigPath returns the per-user config file
func (p *paths) UserConfigPath() string {
	return filepath.Join(p.configDir, UserConfigFile)
}

// RepoConfigPath returns the repository config file
func (p *paths) RepoConfigPath() string {
	return filepath.Join(p.root, RepoConfigFile)
}

// EnvFilePath returns the repository .env file
func (p *paths) EnvFilePath() string {
	return filepath.Join(p.root, EnvFile)
}
