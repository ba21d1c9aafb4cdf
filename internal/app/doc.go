// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the run lifecycle: load the plan and the
// slide documents, wire the handlers, execute the step graph and persist
// the artifacts. It is decoupled from any specific entrypoint like a CLI.
package app
