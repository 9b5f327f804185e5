// Package core wires the alps components together and implements the
// five operations (install, remove, sync, query, edit) on top of them.
//
// # Pipeline
//
// Every mutating operation runs the same two stages:
//
//  1. The validator classifies each argument on its own, reporting and
//     dropping the ones that cannot apply. Nothing is written yet.
//  2. The mutation engine applies the survivors, writing the record first
//     and then the mirror or filesystem side effect.
//
// Sync skips validation: it reads the record and hands each section to the
// reconcile engine, which prunes what it finds missing.
//
// # Argument shapes
//
// Group operations take group names. Every other kind takes a group first
// and then entries. A missing group is reported as "Expected group!", a
// missing entry list as "Expected arguments!". These shape errors are the
// only ones that stop a command before any entry is looked at.
package core
