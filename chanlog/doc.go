// Package chanlog provides a registry of named logging channels built on
// zap cores.
//
// A [Channel] pairs an atomically adjustable severity threshold with a
// swappable list of receiver cores. Entries logged through a channel carry
// the channel name and a fully rendered message, and are fanned out to every
// receiver whose own Enabled check accepts them. Both the threshold and the
// receiver list may be inspected, replaced, and restored at runtime, which
// is what test fixtures rely on to intercept a channel and later put its
// configuration back.
//
// Channels live in a [Registry] and are created on first use; the empty name
// addresses the root channel. A package-level default registry covers the
// common global-logging path. Registries also accept exit hooks: Go has no
// atexit, so the host process decides when shutdown happens and calls
// RunExitHooks, typically from TestMain after m.Run.
package chanlog
