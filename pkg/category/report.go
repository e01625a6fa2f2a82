package category

import (
	"strings"

	"github.com/arthur-debert/dotsetup/pkg/errors"
)

// Failure is one unit of work that did not succeed.
type Failure struct {
	Category string
	Op       string
	Subject  string
	Err      error
}

// Report summarizes a bulk operation.
type Report struct {
	Category  string
	Processed int
	Failures  []Failure
}

// OK is true when nothing failed.
func (r Report) OK() bool { return len(r.Failures) == 0 }

// Merge adds other's counts and failures to r.
func (r *Report) Merge(other Report) {
	r.Processed += other.Processed
	r.Failures = append(r.Failures, other.Failures...)
}

func (r *Report) fail(op, subject string, err error) {
	r.Failures = append(r.Failures, Failure{Category: r.Category, Op: op, Subject: subject, Err: err})
}

// Err folds the failures into one PARTIAL_FAILURE error, or nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	var subjects []string
	for _, f := range r.Failures {
		subjects = append(subjects, f.Category+": "+f.Subject)
	}
	return errors.Newf(errors.ErrPartialFailure, "%d of %d operations failed", len(r.Failures), r.Processed).
		WithDetail("category", r.Category).
		WithDetail("failures", strings.Join(subjects, "; "))
}
