// Package step defines the unit of work of a slide-editing run and the graph
// that connects those units.
//
// # Step Kinds
//
// Every step is one of three kinds:
//
//   - relayouter: replaces the current layout tree with a new one. It must
//     produce every id listed in ExpectedLayoutIDs.
//   - coupler: reads the original layout and writes free-form constraint
//     text that later executor steps receive.
//   - executor: edits the shapes inside a single layout region, named by
//     LayoutID, and produces a changeset.
//
// # Edges
//
// A step names its successors in Next. The scheduler uses Next to propose
// work after a step completes and to find root steps (steps nobody points
// at). DependsOn is a stricter back-constraint: a proposed step only runs
// once every id in DependsOn has completed.
//
// # Validation
//
// Graph.Validate must pass before a run starts. It rejects duplicate ids,
// unknown kinds, self references and references to ids that do not exist.
// Cycles are legal; Index.Cycle reports them so callers can warn.
package step
