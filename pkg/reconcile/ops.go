package reconcile

import (
	"github.com/arthur-debert/dotsetup/pkg/errors"
	"github.com/arthur-debert/dotsetup/pkg/mapping"
)

// Op names one of the policy operations.
type Op int

const (
	OpDeleteBackup Op = iota
	OpBackup
	OpDelete
	OpLink
)

// SetUpOrder is the fixed order a full set-up applies operations in.
var SetUpOrder = []Op{OpDeleteBackup, OpBackup, OpDelete, OpLink}

var opNames = [...]string{
	OpDeleteBackup: "delete-backup",
	OpBackup:       "backup",
	OpDelete:       "delete",
	OpLink:         "link",
}

var opTable = [...]func(*Policy, mapping.FileMapping) error{
	OpDeleteBackup: (*Policy).DeleteBackup,
	OpBackup:       (*Policy).Backup,
	OpDelete:       (*Policy).Delete,
	OpLink:         (*Policy).Link,
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return "unknown"
	}
	return opNames[o]
}

// Apply runs op against m.
func (p *Policy) Apply(op Op, m mapping.FileMapping) error {
	if op < 0 || int(op) >= len(opTable) {
		return errors.Newf(errors.ErrInvalidInput, "unknown operation %d", int(op))
	}
	return opTable[op](p, m)
}

// Try runs op against m and reports a failure on the error channel. The
// error is returned so callers can record it; it is never fatal.
func (p *Policy) Try(op Op, m mapping.FileMapping) error {
	err := p.Apply(op, m)
	if err != nil {
		p.ReportFailure(op.String(), m.String(), err)
	}
	return err
}

// ReportFailure writes one error line for a failed unit of work.
func (p *Policy) ReportFailure(op, subject string, err error) {
	p.reporter.Error().
		Err(err).
		Str("op", op).
		Str("code", string(errors.GetErrorCode(err))).
		Msg(subject)
}
