// Package registry provides a generic, thread-safe, name-keyed store. The
// category collection keeps its categories in one; nothing is registered
// globally.
package registry
