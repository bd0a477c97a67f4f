// Package trace is the event and logging layer of svelte-doctor.
//
// # Usage
//
// Warnings go to stderr by default. A file sink is added with
//
//	svelte-doctor --trace=run.ndjson --trace-level=debug .
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: failures that abort an operation
//   - LevelWarn: recoverable problems (malformed config, rule panics)
//   - LevelInfo: driver phases (scan, analyze, fix, report)
//   - LevelDebug: per-file and per-rule events
//
// # Scopes
//
// Events are categorized by scope: ScopeDriver for a whole run, ScopeFile
// for one analyzed file, ScopeRule for one rule on one file.
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.StartPhase(ctx, "scan")
//	defer span.End("")
//
//	ctx, fs := trace.StartFile(ctx, path) // parent is the "scan" span
//
//	trace.Warn(ctx, "rule panicked", "sv-no-export-let", "file", path)
package trace
