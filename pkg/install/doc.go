// Package install turns the install entries of a category descriptor into
// runnable actions.
//
// Three handlers exist. git-clone clones a repository unless it is already
// there; packages installs through the platform package manager or through
// pip, npm or gem; command runs an arbitrary program in the category
// directory. All subprocesses go through a Runner so tests never spawn
// anything.
package install
