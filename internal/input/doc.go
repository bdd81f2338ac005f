// Package input validates user-entered values before they reach the engine.
//
// The engine trusts its callers; every rule the original entry forms
// enforced (player count, name length, score format) lives here. Failures
// are returned as *Error with a stable code so the CLI can surface them in
// JSON output.
package input
