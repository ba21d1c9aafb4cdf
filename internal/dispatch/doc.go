// Package dispatch routes a step to the handler registered for its kind and
// folds the handler's output back into the run state.
//
// Handlers never touch the shared state themselves. They receive snapshots
// taken when dispatch starts and return a value; dispatch then applies that
// value through runstate.State, which serializes every write.
package dispatch
