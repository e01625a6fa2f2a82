package install

import (
	"context"

	"github.com/arthur-debert/dotsetup/pkg/errors"
)

// ManagerSystem selects the platform package manager.
const ManagerSystem = "system"

// manager builds the command installing pkgs.
type manager func(pkgs []string) Command

var managers = map[string]manager{
	"pip": func(pkgs []string) Command {
		return Command{Name: "pip", Args: append([]string{"install"}, pkgs...)}
	},
	"npm": func(pkgs []string) Command {
		return Command{Name: "npm", Args: append([]string{"install", "-g"}, pkgs...)}
	},
	"gem": func(pkgs []string) Command {
		return Command{Name: "gem", Args: append(append([]string{"install"}, pkgs...), "--no-user-install")}
	},
}

// systemManagers maps os-release ids to their package manager.
var systemManagers = map[string]manager{
	"arch": func(pkgs []string) Command {
		return Command{Name: "pacman", Args: append([]string{"-S", "--noconfirm"}, pkgs...)}
	},
	"debian": func(pkgs []string) Command {
		return Command{Name: "apt", Args: append([]string{"--assume-yes", "install"}, pkgs...)}
	},
}

// Packages returns a Func installing packages with the named manager. For
// the system manager, perPlatform overrides the package list on matching
// platforms.
func Packages(name string, pkgs []string, perPlatform map[string][]string) Func {
	return func(ctx context.Context, env Env) error {
		m, list, err := resolve(name, pkgs, perPlatform, env.Host.Platform())
		if err != nil {
			return err
		}
		if len(list) == 0 {
			return nil
		}
		return run(ctx, env, m(list))
	}
}

func resolve(name string, pkgs []string, perPlatform map[string][]string, platform string) (manager, []string, error) {
	if name != ManagerSystem {
		m, ok := managers[name]
		if !ok {
			return nil, nil, errors.Newf(errors.ErrInvalidInput, "unknown package manager %q", name)
		}
		return m, pkgs, nil
	}

	m, ok := systemManagers[platform]
	if !ok {
		return nil, nil, errors.Newf(errors.ErrUnsupportedPlatform, "cannot install packages: unknown or unsupported platform %q", platform).
			WithDetail("platform", platform)
	}
	if list, ok := perPlatform[platform]; ok {
		return m, list, nil
	}
	return m, pkgs, nil
}
