// Package netbeans mirrors debugger state as annotations in a remote Vim
// instance speaking the NetBeans protocol.
//
// The package tracks, per open file, the set of annotations placed in the
// editor, the registration handshake required before annotations can be
// placed, and the identifier bookkeeping (serial numbers, annotation type
// numbers) the protocol requires to create, toggle and remove annotations
// without duplicates or leaks.
//
// # Architecture
//
// Data flows strictly downward:
//
//	BufferSet ──▶ Buffer ──▶ annotation ──▶ Sink
//
// BufferSet is the global registry of buffers and of every active
// annotation id. A Buffer is one open file: it owns the annotations placed
// in that file and allocates the per-file annotation type numbers. An
// annotation is one placed-or-placeable marker at a line; it comes in two
// variants, the breakpoint annotation (an enabled/disabled pair of
// declared types) and the frame annotation (the single, global "current
// execution point" marker, rebound between buffers rather than
// reallocated). The Sink allocates serial numbers and carries typed
// commands to the editor; CommandSink is the io.Writer implementation.
//
// # Lifecycle
//
// Buffers are created lazily on first reference and are never destroyed.
// A breakpoint annotation lives until it is explicitly deleted; the frame
// annotation is a singleton owned by the BufferSet and survives rebinding.
// Editor-side placement comes and goes far more often than the annotation
// objects themselves, driven by disabled toggles and line moves.
//
// # Concurrency
//
// All BufferSet operations serialize on a single mutex, which preserves
// the per-buffer command ordering guarantee when the caller dispatches
// from more than one goroutine. Buffer and annotation methods are not
// safe for direct concurrent use; go through BufferSet.
package netbeans
