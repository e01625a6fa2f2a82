// Package category groups file mappings and install actions into named
// feature areas and runs reconciliation over them.
//
// Every bulk operation walks files then directories and hands each mapping
// to the policy on its own: a failing mapping is reported and recorded in
// the returned Report, and the walk goes on. Nothing in this package turns
// a mapping failure into a returned error; callers decide from the Report.
//
// A Collection holds every category of a repository plus the synthetic
// "all" category, whose operations fan out to the others.
package category
