// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle, decoupled
// from any specific entrypoint like a CLI or server.
//
// The same binary plays two roles: the parent that loads, sequences,
// schedules and reports a run, and the sandboxed child that runs exactly one
// case. ServeChild is the child-side lifecycle.
package app
