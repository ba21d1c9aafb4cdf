// Package engine runs a step graph in dependency-ordered waves.
//
// A run starts from the roots of the graph. Each wave takes every pending
// step, dispatches all of them concurrently and waits for the wave to
// settle. As each step finishes, in completion order, it joins the past set,
// its successors are admitted to the next wave when their dependencies are
// satisfied, and a checkpoint of the documents is appended.
//
// A failing step never stops the run. What happens to its successors is
// decided by the FailurePolicy. The run ends when nothing is pending, when
// a stop is requested, or when the iteration ceiling is reached; in all
// three cases the artifacts are written to the sink.
//
// Execute is a plain function over an explicit Run value. Nothing about a
// run lives in package-level state, so independent runs can share a
// process.
package engine
