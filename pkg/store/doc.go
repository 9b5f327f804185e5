// Package store persists groups on disk: one directory per group under the
// alps root, each holding its record file and its managed mirror.
//
// WriteEntry is the only way a record changes. Every write heals the file
// layout first, applies the change to a fresh snapshot and replaces the
// file atomically, so a hand-edited or interrupted record never leaves a
// half-patched file behind.
package store
