// Package orchestrator implements the per-request pipeline: security gate,
// conversation resolve, retrieval, persona enrichment, LLM invocation,
// vocabulary-enforcement post-processing, and state update. It is the one
// place all five subsystems (store, retrieval, persona, conversation,
// security) are wired together.
package orchestrator

import "errors"

// Error kinds surfaced to callers. No error propagates raw store or
// generator diagnostics; Chat maps everything to one of these.
var (
	// ErrInvalidInput is returned for sanitization failures (null bytes,
	// oversize query). No state is mutated.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCancelled is returned when the caller's context is cancelled
	// before the request completes. No state is committed beyond any
	// already-committed security transition.
	ErrCancelled = errors.New("request cancelled")
)
