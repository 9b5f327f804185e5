// Package filesystem provides the types.FS implementations used by alps
// (the OS filesystem and an afero adapter for tests) together with the
// recursive copy utility that fills and restores a group's managed mirror.
//
// Copies and removals that fail with a permission error can be retried
// through an Elevator, which runs the equivalent shell command under the
// configured privilege escalation helper (sudo by default).
package filesystem
