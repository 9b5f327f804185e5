// Package validate filters command arguments before anything is mutated.
//
// Every candidate is classified on its own: one bad argument never blocks
// the others. Each rejection is reported with its reason and collected as
// a Diagnostic. Repeated candidates within one call collapse to the first
// occurrence. The surviving candidates are normalized (resolved source
// path, templated record entry) and can be handed to the mutation engine
// unchanged.
package validate
