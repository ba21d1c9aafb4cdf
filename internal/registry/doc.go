// Package registry provides the central "glue" between step kinds and the Go
// code that handles them.
//
// Each step kind (relayouter, coupler, executor) is served by exactly one
// handler. Handlers are contributed by modules: a Module registers whatever
// handlers it implements, and the application registers its modules at
// startup. Before a run, Validate checks that every kind used by the plan
// has a handler, so a misconfigured plan fails before the first wave rather
// than halfway through it.
package registry
