// Package dag holds the topology of a step graph: which step points at which
// through its "next" list. Edges are stored in both directions and keep their
// insertion order, so forward and reverse walks visit nodes in the same order
// the plan declares them.
//
// The package knows nothing about step kinds or execution. The step package
// builds one Graph per run and uses it for ancestor lookups and for the
// cycle warning emitted during validation.
package dag
