package descriptor

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/filesystem"
	"github.com/arthur-debert/dotsetup/pkg/logging"
)

// Find returns the descriptor file in dir, trying FileNames in order. The
// second result is false when dir holds no descriptor.
func Find(fsys filesystem.FS, dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := fsys.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Discover returns the descriptor of every immediate subdirectory of root
// that has one, sorted by path. Hidden directories are skipped.
func Discover(fsys filesystem.FS, root string) ([]string, error) {
	logger := logging.GetLogger("descriptor.discover")
	logger.Trace().Str("root", root).Msg("Looking for category descriptors")

	info, err := fsys.Stat(root)
	if err != nil {
		if filesystem.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrNotFound, "repository root does not exist").
				WithDetail("path", root)
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot access repository root").
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrInvalidInput, "repository root is not a directory").
			WithDetail("path", root)
	}

	entries, err := fsys.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read repository root").
			WithDetail("path", root)
	}

	var found []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.IsDir() {
			continue
		}
		if path, ok := Find(fsys, filepath.Join(root, name)); ok {
			found = append(found, path)
			logger.Trace().Str("path", path).Msg("Found category descriptor")
		}
	}

	sort.Strings(found)
	logger.Debug().Int("count", len(found)).Msg("Discovered category descriptors")
	return found, nil
}
