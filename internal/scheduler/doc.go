// Package scheduler decides which steps of a graph may run next.
//
// # Why Scheduler Exists
//
// The wave scheduler in the engine package owns the loop; this package owns
// the rule. Keeping the readiness rule free of goroutines, locks and I/O
// makes it trivial to test and lets the engine's dry-run planner reuse it.
//
// # How It Works
//
// Two questions are answered:
//
//  1. Roots: which steps start the run? A step is a root when no other step
//     lists it in Next. DependsOn plays no part here.
//  2. Admit: after step S completes, which of S.Next may join the pending
//     set? A candidate is admitted when it has not completed yet, is not
//     already pending, and every id in its DependsOn has completed.
//
// A step with several predecessors is proposed once per predecessor
// completion and admitted on the round where its last dependency lands.
// No join counters are needed.
//
// # Relationship with Other Components
//
//   - step: provides the graph being scheduled.
//   - engine: calls Roots once and Admit after every completed step, under
//     its own bookkeeping lock.
package scheduler
