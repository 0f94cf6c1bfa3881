// Package debug tracks debugger-side breakpoint and frame state and
// mirrors it into the editor through a netbeans.BufferSet.
//
// The Tracker is the bridge between a debugger backend and the editor
// annotations: it allocates breakpoint ids, groups breakpoints by source
// file, toggles and enables/disables them, and keeps the editor signs in
// step with every change. Breakpoints can be persisted to disk and
// restored (and re-mirrored) across sessions.
//
// The Tracker owns the debugger's view of a breakpoint; the netbeans
// package owns the editor's. A disabled breakpoint still exists on both
// sides, it is only displayed with the disabled sign.
package debug
