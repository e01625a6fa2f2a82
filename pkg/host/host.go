// Package host answers the two questions mapping applicability depends on:
// whether the process runs with elevated rights, and which platform it runs
// on.
package host

import (
	"io"
	"os"

	"github.com/joho/godotenv"
)

// DefaultOSReleasePath is where the platform id is read from.
const DefaultOSReleasePath = "/etc/os-release"

// Host is queried on every applicability check; implementations must not
// cache.
type Host interface {
	IsElevated() bool
	Platform() string
}

// System reads the live process and OS state.
type System struct {
	// OSReleasePath overrides DefaultOSReleasePath when set.
	OSReleasePath string
}

// NewSystem returns a Host backed by the running system.
func NewSystem() *System {
	return &System{}
}

// IsElevated reports whether the effective uid is root.
func (s *System) IsElevated() bool {
	return os.Geteuid() == 0
}

// Platform returns the os-release ID, or "" when it cannot be determined.
func (s *System) Platform() string {
	path := s.OSReleasePath
	if path == "" {
		path = DefaultOSReleasePath
	}

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	return ParseOSReleaseID(f)
}

// ParseOSReleaseID returns the ID key of an os-release document, which is
// env-file shaped. Unparseable input yields "".
func ParseOSReleaseID(r io.Reader) string {
	vars, err := godotenv.Parse(r)
	if err != nil {
		return ""
	}
	return vars["ID"]
}

// Static is a fixed Host, used when the answers are known up front.
type Static struct {
	Elevated bool
	ID       string
}

func (s Static) IsElevated() bool { return s.Elevated }
func (s Static) Platform() string { return s.ID }
