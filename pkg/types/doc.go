// Package types defines the small vocabulary shared across alps packages:
// the FS abstraction, entry kinds and the add/remove direction used by the
// validator and the mutation engine.
package types
