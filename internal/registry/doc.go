// Package registry maps the function names used in job files ("pass",
// "shell", ...) to the compiled case functions implementing them.
//
// Modules populate the registry once at startup, in the parent and in every
// forked child alike, so a child can rebind a case by name.
package registry
