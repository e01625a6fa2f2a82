// Package reconcile brings one file mapping's destination into its desired
// state.
//
// A Policy is built once per run from Options and its collaborators (a
// filesystem, a host and a reporter). Its four operations are independent
// and idempotent:
//
//	Link          create destination -> source when nothing is in the way
//	Backup        rename an existing destination to destination+suffix
//	Delete        remove an existing destination
//	DeleteBackup  remove destination+suffix
//
// Mappings the host cannot apply (missing privilege, other platform) are
// skipped without touching the filesystem. Dry-run computes and reports
// everything but performs no mutation.
package reconcile
