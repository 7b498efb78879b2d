// Package trace records what the solver is doing while it runs.
//
// Queries over millions of rows can take a while; tracing shows which query
// and which row band is active, and how each one finished.
//
// # Usage
//
//	beaconzone gap --trace=- --trace-level=detail input.txt
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (text or NDJSON)
//   - RingTracer: keeps the last N events in memory, dumped on panic
//   - MultiTracer: fans out to several tracers
//
// # Levels and scopes
//
// Every event carries a Scope. The Level decides which scopes are emitted:
//
//   - LevelPhase: ScopeDriver and ScopeQuery (command, parse, row, gap)
//   - LevelDetail: adds ScopeBand (parallel row bands)
//   - LevelDebug: adds ScopeRow (single-row events)
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeQuery, "gap", 0)
//	defer span.End("")
package trace
