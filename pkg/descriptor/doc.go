// Package descriptor reads category descriptors.
//
// A category lives in a directory of the repository and describes itself in
// a .category.json, .category.toml or .category.yaml file. Every format is
// first parsed into a generic map and then decoded with mapstructure, so
// the three formats accept exactly the same shapes. Decoding is weakly
// typed: a single string is accepted where a list is expected, which is how
// "distribution": "arch" and "distribution": ["arch"] mean the same thing.
//
// Descriptors only carry strings; resolving paths and building mappings is
// the category package's job.
package descriptor
