package schema

import (
	"sync"

	"github.com/goliatone/go-tmux-options/layering"
)

// PaneScopeMinVersion is the first multiplexer release with per-pane options.
const PaneScopeMinVersion = "3.0"

var (
	builtinOnce     sync.Once
	builtinRegistry *Registry
)

// Builtin returns the process-wide registry of tmux options. It is built on
// first use and never mutated afterwards.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		builtinRegistry = MustRegistry(builtinFields(),
			WithScopeMinVersion(layering.ScopePane, PaneScopeMinVersion),
		)
	})
	return builtinRegistry
}

func declare(scope layering.OptionScope, name, fieldName string, typ Type, def string) Field {
	return Field{
		Name:       name,
		FieldName:  fieldName,
		Type:       typ,
		Default:    def,
		HasDefault: true,
		Scope:      scope,
	}
}

func server(name, fieldName string, typ Type, def string) Field {
	return declare(layering.ScopeServer, name, fieldName, typ, def)
}

func session(name, fieldName string, typ Type, def string) Field {
	return declare(layering.ScopeSession, name, fieldName, typ, def)
}

func window(name, fieldName string, typ Type, def string) Field {
	return declare(layering.ScopeWindow, name, fieldName, typ, def)
}

// pane options live in the window table and may be overridden per pane.
func pane(name, fieldName string, typ Type, def string) Field {
	f := declare(layering.ScopePane, name, fieldName, typ, def)
	f.Holding = []layering.OptionScope{layering.ScopeWindow, layering.ScopePane}
	return f
}

func array(f Field) Field {
	f.HasDefault = false
	f.Default = ""
	return f
}

func since(version string, f Field) Field {
	f.MinVersion = version
	return f
}

var (
	actionEnum  = Enum("any", "none", "current", "other")
	visualEnum  = Enum("on", "off", "both")
	keysEnum    = Enum("vi", "emacs")
	stringArray = Array(String(), ",")
)

func builtinFields() []Field {
	return []Field{
		// server
		server("backspace", "backspace", String(), "C-?"),
		server("buffer-limit", "buffer_limit", Integer(), "50"),
		array(server("command-alias", "command_alias", stringArray, "")),
		since("3.2", server("copy-command", "copy_command", String(), "")),
		server("default-terminal", "default_terminal", String(), "screen"),
		since("3.2", server("editor", "editor", String(), "vi")),
		server("escape-time", "escape_time", Integer(), "500"),
		server("exit-empty", "exit_empty", Flag(), "on"),
		server("exit-unattached", "exit_unattached", Flag(), "off"),
		since("3.2", server("extended-keys", "extended_keys", Enum("off", "on", "always"), "off")),
		server("focus-events", "focus_events", Flag(), "off"),
		server("history-file", "history_file", String(), ""),
		server("message-limit", "message_limit", Integer(), "1000"),
		since("3.3", server("prompt-history-limit", "prompt_history_limit", Integer(), "100")),
		server("set-clipboard", "set_clipboard", Enum("off", "external", "on"), "external"),
		since("3.2", array(server("terminal-features", "terminal_features", stringArray, ""))),
		array(server("terminal-overrides", "terminal_overrides", stringArray, "")),
		array(server("user-keys", "user_keys", stringArray, "")),

		// session
		session("activity-action", "activity_action", actionEnum, "other"),
		session("assume-paste-time", "assume_paste_time", Integer(), "1"),
		session("base-index", "base_index", Integer(), "0"),
		session("bell-action", "bell_action", actionEnum, "any"),
		session("default-command", "default_command", String(), ""),
		session("default-shell", "default_shell", String(), "/bin/sh"),
		since("2.9", session("default-size", "default_size", String(), "80x24")),
		session("destroy-unattached", "destroy_unattached", Flag(), "off"),
		session("detach-on-destroy", "detach_on_destroy", Enum("off", "on", "no-detached", "previous", "next"), "on"),
		session("display-panes-active-colour", "display_panes_active_colour", String(), "red"),
		session("display-panes-colour", "display_panes_colour", String(), "blue"),
		session("display-panes-time", "display_panes_time", Integer(), "1000"),
		session("display-time", "display_time", Integer(), "750"),
		session("history-limit", "history_limit", Integer(), "2000"),
		session("key-table", "key_table", String(), "root"),
		session("lock-after-time", "lock_after_time", Integer(), "0"),
		session("lock-command", "lock_command", String(), "lock -np"),
		session("message-command-style", "message_command_style", StyleType(), "bg=black,fg=yellow"),
		session("message-style", "message_style", StyleType(), "bg=yellow,fg=black"),
		session("mouse", "mouse", Flag(), "off"),
		session("prefix", "prefix", String(), "C-b"),
		session("prefix2", "prefix2", String(), "None"),
		session("renumber-windows", "renumber_windows", Flag(), "off"),
		session("repeat-time", "repeat_time", Integer(), "500"),
		session("set-titles", "set_titles", Flag(), "off"),
		session("set-titles-string", "set_titles_string", String(), `#S:#I:#W - "#T" #{session_alerts}`),
		session("silence-action", "silence_action", actionEnum, "other"),
		session("status", "status", Enum("off", "on", "2", "3", "4", "5"), "on"),
		array(session("status-format", "status_format", stringArray, "")),
		session("status-interval", "status_interval", Integer(), "15"),
		session("status-justify", "status_justify", Enum("left", "centre", "right", "absolute-centre"), "left"),
		session("status-keys", "status_keys", keysEnum, "emacs"),
		session("status-left", "status_left", String(), "[#{session_name}] "),
		session("status-left-length", "status_left_length", Integer(), "10"),
		session("status-left-style", "status_left_style", StyleType(), "default"),
		session("status-position", "status_position", Enum("top", "bottom"), "bottom"),
		session("status-right", "status_right", String(), `"#{=21:pane_title}" %H:%M %d-%b-%y`),
		session("status-right-length", "status_right_length", Integer(), "40"),
		session("status-right-style", "status_right_style", StyleType(), "default"),
		session("status-style", "status_style", StyleType(), "bg=green,fg=black"),
		array(session("update-environment", "update_environment", Array(String(), " "), "")),
		session("visual-activity", "visual_activity", visualEnum, "off"),
		session("visual-bell", "visual_bell", visualEnum, "off"),
		session("visual-silence", "visual_silence", visualEnum, "off"),
		session("word-separators", "word_separators", String(), " -_@"),

		// window
		window("aggressive-resize", "aggressive_resize", Flag(), "off"),
		window("automatic-rename", "automatic_rename", Flag(), "on"),
		window("automatic-rename-format", "automatic_rename_format", String(), "#{?pane_in_mode,[tmux],#{pane_current_command}}#{?pane_dead,[dead],}"),
		window("clock-mode-colour", "clock_mode_colour", String(), "blue"),
		window("clock-mode-style", "clock_mode_style", Enum("12", "24"), "24"),
		since("3.3", window("fill-character", "fill_character", String(), "")),
		window("main-pane-height", "main_pane_height", String(), "24"),
		window("main-pane-width", "main_pane_width", String(), "80"),
		window("mode-keys", "mode_keys", keysEnum, "emacs"),
		window("mode-style", "mode_style", StyleType(), "bg=yellow,fg=black"),
		window("monitor-activity", "monitor_activity", Flag(), "off"),
		window("monitor-bell", "monitor_bell", Flag(), "on"),
		window("monitor-silence", "monitor_silence", Integer(), "0"),
		window("other-pane-height", "other_pane_height", String(), "0"),
		window("other-pane-width", "other_pane_width", String(), "0"),
		window("pane-active-border-style", "pane_active_border_style", StyleType(), "#{?pane_in_mode,fg=yellow,#{?synchronize-panes,fg=red,fg=green}}"),
		window("pane-base-index", "pane_base_index", Integer(), "0"),
		window("pane-border-format", "pane_border_format", String(), `#{?pane_active,#[reverse],}#{pane_index}#[default] "#{pane_title}"`),
		since("3.2", window("pane-border-lines", "pane_border_lines", Enum("single", "double", "heavy", "simple", "number"), "single")),
		window("pane-border-status", "pane_border_status", Enum("off", "top", "bottom"), "off"),
		window("pane-border-style", "pane_border_style", StyleType(), "default"),
		since("3.3", window("popup-border-style", "popup_border_style", StyleType(), "default")),
		since("3.3", window("popup-style", "popup_style", StyleType(), "default")),
		window("window-size", "window_size", Enum("largest", "smallest", "manual", "latest"), "latest"),
		window("window-status-activity-style", "window_status_activity_style", StyleType(), "reverse"),
		window("window-status-bell-style", "window_status_bell_style", StyleType(), "reverse"),
		window("window-status-current-format", "window_status_current_format", String(), "#I:#W#{?window_flags,#{window_flags}, }"),
		window("window-status-current-style", "window_status_current_style", StyleType(), "default"),
		window("window-status-format", "window_status_format", String(), "#I:#W#{?window_flags,#{window_flags}, }"),
		window("window-status-last-style", "window_status_last_style", StyleType(), "default"),
		window("window-status-separator", "window_status_separator", String(), " "),
		window("window-status-style", "window_status_style", StyleType(), "default"),
		window("wrap-search", "wrap_search", Flag(), "on"),

		// pane
		since("3.3", pane("allow-passthrough", "allow_passthrough", Enum("off", "on", "all"), "off")),
		pane("allow-rename", "allow_rename", Flag(), "off"),
		pane("alternate-screen", "alternate_screen", Flag(), "on"),
		since("3.3", pane("cursor-colour", "cursor_colour", String(), "none")),
		since("3.3", pane("cursor-style", "cursor_style", Enum("default", "blinking-block", "block", "blinking-underline", "underline", "blinking-bar", "bar"), "default")),
		pane("remain-on-exit", "remain_on_exit", Enum("off", "on", "failed"), "off"),
		since("3.3", pane("remain-on-exit-format", "remain_on_exit_format", String(), "Pane is dead (#{pane_dead_status})")),
		since("3.3", pane("scroll-on-clear", "scroll_on_clear", Flag(), "on")),
		pane("synchronize-panes", "synchronize_panes", Flag(), "off"),
		pane("window-active-style", "window_active_style", StyleType(), "default"),
		pane("window-style", "window_style", StyleType(), "default"),
	}
}
