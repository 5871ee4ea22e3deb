// Package tmux implements opts.Source on top of the tmux binary.
//
// Every request is one process: show-options, set-option or tmux -V. Option
// values are never interpreted here; the engine parses the listing text.
package tmux
