package opts

import (
	"context"
	"fmt"

	"github.com/goliatone/go-tmux-options/internal/hydrate"
	"github.com/goliatone/go-tmux-options/internal/parse"
	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/schema"
)

// ServerOptions holds the server table.
type ServerOptions struct {
	Backspace          *string   `json:"backspace,omitempty"`
	BufferLimit        *int      `json:"buffer_limit,omitempty"`
	CommandAlias       []*string `json:"command_alias,omitempty"`
	CopyCommand        *string   `json:"copy_command,omitempty"`
	DefaultTerminal    *string   `json:"default_terminal,omitempty"`
	Editor             *string   `json:"editor,omitempty"`
	EscapeTime         *int      `json:"escape_time,omitempty"`
	ExitEmpty          *bool     `json:"exit_empty,omitempty"`
	ExitUnattached     *bool     `json:"exit_unattached,omitempty"`
	ExtendedKeys       *string   `json:"extended_keys,omitempty"`
	FocusEvents        *bool     `json:"focus_events,omitempty"`
	HistoryFile        *string   `json:"history_file,omitempty"`
	MessageLimit       *int      `json:"message_limit,omitempty"`
	PromptHistoryLimit *int      `json:"prompt_history_limit,omitempty"`
	SetClipboard       *string   `json:"set_clipboard,omitempty"`
	TerminalFeatures   []*string `json:"terminal_features,omitempty"`
	TerminalOverrides  []*string `json:"terminal_overrides,omitempty"`
	UserKeys           []*string `json:"user_keys,omitempty"`
}

// SessionOptions holds session options. Fields stay nil when the listing did
// not report them.
type SessionOptions struct {
	ActivityAction           *string       `json:"activity_action,omitempty"`
	AssumePasteTime          *int          `json:"assume_paste_time,omitempty"`
	BaseIndex                *int          `json:"base_index,omitempty"`
	BellAction               *string       `json:"bell_action,omitempty"`
	DefaultCommand           *string       `json:"default_command,omitempty"`
	DefaultShell             *string       `json:"default_shell,omitempty"`
	DefaultSize              *string       `json:"default_size,omitempty"`
	DestroyUnattached        *bool         `json:"destroy_unattached,omitempty"`
	DetachOnDestroy          *string       `json:"detach_on_destroy,omitempty"`
	DisplayPanesActiveColour *string       `json:"display_panes_active_colour,omitempty"`
	DisplayPanesColour       *string       `json:"display_panes_colour,omitempty"`
	DisplayPanesTime         *int          `json:"display_panes_time,omitempty"`
	DisplayTime              *int          `json:"display_time,omitempty"`
	HistoryLimit             *int          `json:"history_limit,omitempty"`
	KeyTable                 *string       `json:"key_table,omitempty"`
	LockAfterTime            *int          `json:"lock_after_time,omitempty"`
	LockCommand              *string       `json:"lock_command,omitempty"`
	MessageCommandStyle      *schema.Style `json:"message_command_style,omitempty"`
	MessageStyle             *schema.Style `json:"message_style,omitempty"`
	Mouse                    *bool         `json:"mouse,omitempty"`
	Prefix                   *string       `json:"prefix,omitempty"`
	Prefix2                  *string       `json:"prefix2,omitempty"`
	RenumberWindows          *bool         `json:"renumber_windows,omitempty"`
	RepeatTime               *int          `json:"repeat_time,omitempty"`
	SetTitles                *bool         `json:"set_titles,omitempty"`
	SetTitlesString          *string       `json:"set_titles_string,omitempty"`
	SilenceAction            *string       `json:"silence_action,omitempty"`
	Status                   *string       `json:"status,omitempty"`
	StatusFormat             []*string     `json:"status_format,omitempty"`
	StatusInterval           *int          `json:"status_interval,omitempty"`
	StatusJustify            *string       `json:"status_justify,omitempty"`
	StatusKeys               *string       `json:"status_keys,omitempty"`
	StatusLeft               *string       `json:"status_left,omitempty"`
	StatusLeftLength         *int          `json:"status_left_length,omitempty"`
	StatusLeftStyle          *schema.Style `json:"status_left_style,omitempty"`
	StatusPosition           *string       `json:"status_position,omitempty"`
	StatusRight              *string       `json:"status_right,omitempty"`
	StatusRightLength        *int          `json:"status_right_length,omitempty"`
	StatusRightStyle         *schema.Style `json:"status_right_style,omitempty"`
	StatusStyle              *schema.Style `json:"status_style,omitempty"`
	UpdateEnvironment        []*string     `json:"update_environment,omitempty"`
	VisualActivity           *string       `json:"visual_activity,omitempty"`
	VisualBell               *string       `json:"visual_bell,omitempty"`
	VisualSilence            *string       `json:"visual_silence,omitempty"`
	WordSeparators           *string       `json:"word_separators,omitempty"`
}

// WindowOptions holds window options.
type WindowOptions struct {
	AggressiveResize          *bool         `json:"aggressive_resize,omitempty"`
	AutomaticRename           *bool         `json:"automatic_rename,omitempty"`
	AutomaticRenameFormat     *string       `json:"automatic_rename_format,omitempty"`
	ClockModeColour           *string       `json:"clock_mode_colour,omitempty"`
	ClockModeStyle            *string       `json:"clock_mode_style,omitempty"`
	FillCharacter             *string       `json:"fill_character,omitempty"`
	MainPaneHeight            *string       `json:"main_pane_height,omitempty"`
	MainPaneWidth             *string       `json:"main_pane_width,omitempty"`
	ModeKeys                  *string       `json:"mode_keys,omitempty"`
	ModeStyle                 *schema.Style `json:"mode_style,omitempty"`
	MonitorActivity           *bool         `json:"monitor_activity,omitempty"`
	MonitorBell               *bool         `json:"monitor_bell,omitempty"`
	MonitorSilence            *int          `json:"monitor_silence,omitempty"`
	OtherPaneHeight           *string       `json:"other_pane_height,omitempty"`
	OtherPaneWidth            *string       `json:"other_pane_width,omitempty"`
	PaneActiveBorderStyle     *schema.Style `json:"pane_active_border_style,omitempty"`
	PaneBaseIndex             *int          `json:"pane_base_index,omitempty"`
	PaneBorderFormat          *string       `json:"pane_border_format,omitempty"`
	PaneBorderLines           *string       `json:"pane_border_lines,omitempty"`
	PaneBorderStatus          *string       `json:"pane_border_status,omitempty"`
	PaneBorderStyle           *schema.Style `json:"pane_border_style,omitempty"`
	PopupBorderStyle          *schema.Style `json:"popup_border_style,omitempty"`
	PopupStyle                *schema.Style `json:"popup_style,omitempty"`
	WindowSize                *string       `json:"window_size,omitempty"`
	WindowStatusActivityStyle *schema.Style `json:"window_status_activity_style,omitempty"`
	WindowStatusBellStyle     *schema.Style `json:"window_status_bell_style,omitempty"`
	WindowStatusCurrentFormat *string       `json:"window_status_current_format,omitempty"`
	WindowStatusCurrentStyle  *schema.Style `json:"window_status_current_style,omitempty"`
	WindowStatusFormat        *string       `json:"window_status_format,omitempty"`
	WindowStatusLastStyle     *schema.Style `json:"window_status_last_style,omitempty"`
	WindowStatusSeparator     *string       `json:"window_status_separator,omitempty"`
	WindowStatusStyle         *schema.Style `json:"window_status_style,omitempty"`
	WrapSearch                *bool         `json:"wrap_search,omitempty"`
}

// PaneOptions holds the options a pane may override. Before tmux 3.0 they
// are read from the window table.
type PaneOptions struct {
	AllowPassthrough   *string       `json:"allow_passthrough,omitempty"`
	AllowRename        *bool         `json:"allow_rename,omitempty"`
	AlternateScreen    *bool         `json:"alternate_screen,omitempty"`
	CursorColour       *string       `json:"cursor_colour,omitempty"`
	CursorStyle        *string       `json:"cursor_style,omitempty"`
	RemainOnExit       *string       `json:"remain_on_exit,omitempty"`
	RemainOnExitFormat *string       `json:"remain_on_exit_format,omitempty"`
	ScrollOnClear      *bool         `json:"scroll_on_clear,omitempty"`
	SynchronizePanes   *bool         `json:"synchronize_panes,omitempty"`
	WindowActiveStyle  *schema.Style `json:"window_active_style,omitempty"`
	WindowStyle        *schema.Style `json:"window_style,omitempty"`
}

// Options is the union of every scope record, for listings that mix scopes
// (inherited or global views).
type Options struct {
	ServerOptions
	SessionOptions
	WindowOptions
	PaneOptions
}

// BuildRecord fills a record of type T from values keyed by option name, the
// shape ShowAll returns. Only fields declared for scope are read; each is
// looked up by name, then with the inherited marker. ScopeUnknown reads every
// declared field (the Options union).
func BuildRecord[T any](registry *schema.Registry, scope layering.OptionScope, values map[string]any) (T, error) {
	var fields []schema.Field
	if scope.Valid() {
		fields = registry.FieldsFor(scope)
	} else {
		fields = registry.Fields()
	}
	payload := make(map[string]any, len(fields))
	for _, field := range fields {
		value, ok := values[field.Name]
		if !ok {
			value, ok = values[field.Name+parse.InheritedMarker]
		}
		if !ok || value == nil {
			continue
		}
		payload[field.FieldName] = value
	}
	record, err := hydrate.Decode[T](hydrate.Context{Scope: scope.String()}, payload, hydrate.Strict())
	if err != nil {
		var zero T
		return zero, fmt.Errorf("opts: build %s record: %w", scope, err)
	}
	return record, nil
}

func buildRecord[T any](ctx context.Context, e *Engine, t Target, scope layering.OptionScope, opts []CallOption) (T, error) {
	if scope.Valid() {
		opts = append(append([]CallOption(nil), opts...), WithTargetScope(scope))
	}
	values, err := e.ShowAll(ctx, t, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return BuildRecord[T](e.registry, scope, values)
}

// ServerOptions lists the server table into a record.
func (e *Engine) ServerOptions(ctx context.Context, t Target, opts ...CallOption) (ServerOptions, error) {
	return buildRecord[ServerOptions](ctx, e, t, layering.ScopeServer, opts)
}

// SessionOptions lists t's session table (or the global one with WithGlobal)
// into a record.
func (e *Engine) SessionOptions(ctx context.Context, t Target, opts ...CallOption) (SessionOptions, error) {
	return buildRecord[SessionOptions](ctx, e, t, layering.ScopeSession, opts)
}

func (e *Engine) WindowOptions(ctx context.Context, t Target, opts ...CallOption) (WindowOptions, error) {
	return buildRecord[WindowOptions](ctx, e, t, layering.ScopeWindow, opts)
}

func (e *Engine) PaneOptions(ctx context.Context, t Target, opts ...CallOption) (PaneOptions, error) {
	return buildRecord[PaneOptions](ctx, e, t, layering.ScopePane, opts)
}

// Options lists the table selected by t and opts into the union record.
func (e *Engine) Options(ctx context.Context, t Target, opts ...CallOption) (Options, error) {
	values, err := e.ShowAll(ctx, t, opts...)
	if err != nil {
		return Options{}, err
	}
	return BuildRecord[Options](e.registry, layering.ScopeUnknown, values)
}
