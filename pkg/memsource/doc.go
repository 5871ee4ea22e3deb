// Package memsource is an in-memory option Source that behaves like a tmux
// server closely enough for tests and examples.
//
// Tables:
//
//	server            defaults from the registry, one table per server
//	session:global    defaults for session options (set -g)
//	window:global     defaults for window and pane options (set -wg)
//	session/$N        sparse per-session overrides
//	window/@N         sparse per-window overrides
//	pane/%N           sparse per-pane overrides (tmux 3.0+)
//
// Listings are rendered the way tmux prints them: one "name value" line per
// option, array elements as name[i], values quoted when they need it and
// inherited entries (show-options -A) suffixed with "*".
//
// Version emulation: below 3.0 the pane table and the -A, -H and -q flags of
// show-options are rejected as unknown flags. User options need 2.3.
package memsource
