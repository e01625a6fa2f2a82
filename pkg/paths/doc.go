// Package paths provides centralized path handling for dotsetup.
//
// It handles:
//
//   - Repository root discovery (DOTSETUP_ROOT, git top level, cwd)
//   - Home expansion and normalization of mapping paths
//   - XDG config and state locations
//
// # Environment Variables
//
//   - DOTSETUP_ROOT: the managed repository (falls back to DOTFILES_ROOT)
//   - DOTSETUP_CONFIG_DIR: override $XDG_CONFIG_HOME/dotsetup
//
// # Usage
//
//	p, err := paths.New("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	root := p.Root()                          // /home/user/dotfiles
//	dst, _ := paths.ResolveDestination("~/.vimrc") // /home/user/.vimrc
package paths
