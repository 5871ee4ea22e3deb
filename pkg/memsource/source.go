package memsource

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	opts "github.com/goliatone/go-tmux-options"
	"github.com/goliatone/go-tmux-options/internal/coerce"
	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/schema"
)

// DefaultVersion is reported when no version is configured.
const DefaultVersion = "tmux 3.3a"

var errNoSession = errors.New("memsource: no current session")

// Source implements opts.Source over in-memory tables. It is safe for
// concurrent use.
type Source struct {
	mu       sync.Mutex
	registry *schema.Registry
	version  string
	parsed   opts.Version

	tables   map[string]table
	hooks    map[string]map[string][]string
	sessions []*session
	windows  map[string]*window
	panes    map[string]*pane
	counters struct{ session, window, pane int }

	requests []any
	failNext error
	replies  []string
}

type session struct {
	id      string
	windows []string
}

type window struct {
	id      string
	session string
	panes   []string
}

type pane struct {
	id     string
	window string
}

// Option configures a Source.
type Option func(*Source)

// WithVersion sets the version string reported to the engine, e.g. "tmux 2.9".
func WithVersion(raw string) Option {
	return func(s *Source) {
		s.version = raw
	}
}

// WithRegistry replaces the builtin registry used for defaults and name checks.
func WithRegistry(registry *schema.Registry) Option {
	return func(s *Source) {
		s.registry = registry
	}
}

// New builds a server with no sessions and the global tables set to the
// registry defaults available on the configured version.
func New(options ...Option) (*Source, error) {
	s := &Source{
		registry: schema.Builtin(),
		version:  DefaultVersion,
		tables:   map[string]table{},
		hooks:    map[string]map[string][]string{},
		windows:  map[string]*window{},
		panes:    map[string]*pane{},
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	parsed, err := opts.ParseVersion(s.version)
	if err != nil {
		return nil, err
	}
	s.parsed = parsed
	for _, field := range s.registry.Fields() {
		if !field.HasDefault || !parsed.AtLeast(field.MinVersion) {
			continue
		}
		s.globalTable(field.Scope)[field.Name] = field.Default
	}
	return s, nil
}

// MustNew is New that panics on error.
func MustNew(options ...Option) *Source {
	s, err := New(options...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Source) globalTable(scope layering.OptionScope) table {
	ref := tableRef{scope: scope, global: true}
	switch scope {
	case layering.ScopeServer:
		ref = tableRef{scope: layering.ScopeServer}
	case layering.ScopePane:
		ref = tableRef{scope: layering.ScopeWindow, global: true}
	}
	return s.table(ref)
}

func (s *Source) table(ref tableRef) table {
	key := ref.Identifier()
	t, ok := s.tables[key]
	if !ok {
		t = table{}
		s.tables[key] = t
	}
	return t
}

// NewSession creates a session with one window holding one pane.
func (s *Source) NewSession() opts.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters.session++
	sess := &session{id: fmt.Sprintf("$%d", s.counters.session-1)}
	s.sessions = append(s.sessions, sess)
	s.newWindowLocked(sess)
	return opts.SessionTarget(sess.id)
}

// NewWindow adds a window with one pane to sessionID.
func (s *Source) NewWindow(sessionID string) (opts.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.sessionFor(sessionID)
	if err != nil {
		return opts.Target{}, err
	}
	win := s.newWindowLocked(sess)
	return opts.WindowTarget(sess.id, win.id), nil
}

// SplitWindow adds a pane to the window addressed by t.
func (s *Source) SplitWindow(t opts.Target) (opts.Target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	win, err := s.windowFor(t.For(layering.ScopeWindow))
	if err != nil {
		return opts.Target{}, err
	}
	p := s.newPaneLocked(win)
	return opts.PaneTarget(win.session, win.id, p.id), nil
}

func (s *Source) newWindowLocked(sess *session) *window {
	s.counters.window++
	win := &window{id: fmt.Sprintf("@%d", s.counters.window-1), session: sess.id}
	s.windows[win.id] = win
	sess.windows = append(sess.windows, win.id)
	s.newPaneLocked(win)
	return win
}

func (s *Source) newPaneLocked(win *window) *pane {
	s.counters.pane++
	p := &pane{id: fmt.Sprintf("%%%d", s.counters.pane-1), window: win.id}
	s.panes[p.id] = p
	win.panes = append(win.panes, p.id)
	return p
}

// SetHook stores a hook command on the table addressed by scope and t.
// Hooks are only listed when show-options -H is requested.
func (s *Source) SetHook(t opts.Target, scope layering.OptionScope, global bool, name, command string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, err := s.resolve(scope, global, t.For(scope))
	if err != nil {
		return err
	}
	key := ref.Identifier()
	if s.hooks[key] == nil {
		s.hooks[key] = map[string][]string{}
	}
	s.hooks[key][name] = append(s.hooks[key][name], command)
	return nil
}

// SetRaw stores raw text without any validation, for exercising malformed
// values.
func (s *Source) SetRaw(scope layering.OptionScope, global bool, target, name, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, err := s.resolve(scope, global, target)
	if err != nil {
		return err
	}
	s.table(ref)[name] = raw
	return nil
}

// Lookup returns the raw value stored for name in one table.
func (s *Source) Lookup(scope layering.OptionScope, global bool, target, name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, err := s.resolve(scope, global, target)
	if err != nil {
		return "", false
	}
	value, ok := s.tables[ref.Identifier()][name]
	return value, ok
}

// FailNext makes the next request return err.
func (s *Source) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// ReplyNext makes the next list or get request return raw verbatim.
func (s *Source) ReplyNext(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, raw)
}

// Requests returns every request received, in order.
func (s *Source) Requests() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// ResetRequests clears the request log.
func (s *Source) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Source) Version(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.takeFailure(); err != nil {
		return "", err
	}
	return s.version, nil
}

func (s *Source) ListOptions(_ context.Context, req opts.ListRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if err := s.takeFailure(); err != nil {
		return "", err
	}
	if raw, ok := s.takeReply(); ok {
		return raw, nil
	}
	if err := s.checkFlags(req.Scope, true, req.Inherited, req.Hooks, req.Quiet); err != nil {
		return "", err
	}
	ref, err := s.resolve(req.Scope, req.Global, req.Target)
	if err != nil {
		return "", err
	}

	local := s.tables[ref.Identifier()]
	var lines []string
	seen := map[string]bool{}
	for _, key := range local.keys() {
		lines = append(lines, renderLine(key, local[key], false))
		seen[baseName(key)] = true
	}
	if req.Inherited {
		for _, parent := range s.parents(ref) {
			inherited := s.tables[parent.Identifier()]
			added := map[string]bool{}
			for _, key := range inherited.keys() {
				base := baseName(key)
				if seen[base] || !s.visibleAt(base, ref.scope) {
					continue
				}
				lines = append(lines, renderLine(key, inherited[key], true))
				added[base] = true
			}
			for base := range added {
				seen[base] = true
			}
		}
	}
	if req.Hooks {
		hooks := s.hooks[ref.Identifier()]
		names := make([]string, 0, len(hooks))
		for name := range hooks {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			for i, command := range hooks[name] {
				lines = append(lines, hookLine(name, i, command))
			}
		}
	}
	return joinLines(lines), nil
}

func (s *Source) GetOption(_ context.Context, req opts.GetRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if err := s.takeFailure(); err != nil {
		return "", err
	}
	if raw, ok := s.takeReply(); ok {
		return raw, nil
	}
	if err := s.checkFlags(req.Scope, true, false, false, req.Quiet); err != nil {
		return "", err
	}
	ref, err := s.resolve(req.Scope, req.Global, req.Target)
	if err != nil {
		return "", err
	}
	if _, err := s.field(req.Name, ref.scope); err != nil {
		if req.Quiet {
			return "", nil
		}
		return "", err
	}
	tbl := s.tables[ref.Identifier()]
	var lines []string
	for _, key := range tbl.entries(req.Name) {
		lines = append(lines, renderLine(key, tbl[key], false))
	}
	return joinLines(lines), nil
}

func (s *Source) ApplyOption(_ context.Context, req opts.ApplyRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if err := s.takeFailure(); err != nil {
		return err
	}
	if err := s.checkFlags(req.Scope, false, false, false, req.Quiet); err != nil {
		return err
	}
	ref, err := s.resolve(req.Scope, req.Global, req.Target)
	if err != nil {
		return err
	}
	field, err := s.field(req.Name, ref.scope)
	if err != nil {
		if req.Quiet {
			return nil
		}
		return err
	}

	tbl := s.table(ref)
	base, _, indexed := schema.SplitIndex(req.Name)
	if schema.IsCustom(req.Name) {
		base, indexed = req.Name, false
	}
	if field.Type.Kind == schema.KindArray && !indexed {
		elems := splitArray(req.Value, field.Type.Separator)
		elemType := schema.String()
		if field.Type.Elem != nil {
			elemType = *field.Type.Elem
		}
		for _, elem := range elems {
			if _, err := coerce.Value(elem, elemType); err != nil {
				return fmt.Errorf("%w: %s", errInvalidValue, err)
			}
		}
		next := 0
		if req.Append {
			next = tbl.nextIndex(base)
		} else {
			tbl.remove(base)
		}
		for i, elem := range elems {
			tbl[fmt.Sprintf("%s[%d]", base, next+i)] = elem
		}
		return nil
	}

	typ := field.Type
	if indexed && typ.Elem != nil {
		typ = *typ.Elem
	}
	value := req.Value
	if req.Append {
		if current, ok := tbl[req.Name]; ok {
			value = current + value
		}
	}
	if _, err := coerce.Value(value, typ); err != nil {
		return fmt.Errorf("%w: %s", errInvalidValue, err)
	}
	tbl[req.Name] = value
	return nil
}

func (s *Source) UnsetOption(_ context.Context, req opts.UnsetRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if err := s.takeFailure(); err != nil {
		return err
	}
	if err := s.checkFlags(req.Scope, false, false, false, req.Quiet); err != nil {
		return err
	}
	ref, err := s.resolve(req.Scope, req.Global, req.Target)
	if err != nil {
		return err
	}
	field, err := s.field(req.Name, ref.scope)
	if err != nil {
		if req.Quiet {
			return nil
		}
		return err
	}
	tbl := s.tables[ref.Identifier()]
	if tbl == nil {
		return nil
	}
	tbl.remove(req.Name)
	if ref.global || ref.scope == layering.ScopeServer {
		if _, _, indexed := schema.SplitIndex(req.Name); !indexed && field.HasDefault && s.parsed.AtLeast(field.MinVersion) {
			tbl[field.Name] = field.Default
		}
	}
	return nil
}

var errInvalidValue = errors.New("memsource: value is invalid")

func (s *Source) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

func (s *Source) takeReply() (string, bool) {
	if len(s.replies) == 0 {
		return "", false
	}
	raw := s.replies[0]
	s.replies = s.replies[1:]
	return raw, true
}

// checkFlags rejects what the emulated version's show-options and
// set-option do not know.
func (s *Source) checkFlags(scope layering.OptionScope, show, inherited, hooks, quiet bool) error {
	v := s.parsed
	switch {
	case scope == layering.ScopePane && !v.Supports(opts.CapPaneScope):
		return fmt.Errorf("%w: unknown flag -p", opts.ErrUnsupportedScope)
	case inherited && !v.Supports(opts.CapShowInherited):
		return fmt.Errorf("%w: unknown flag -A", opts.ErrUnsupportedScope)
	case hooks && !v.Supports(opts.CapShowHooks):
		return fmt.Errorf("%w: unknown flag -H", opts.ErrUnsupportedScope)
	case quiet && show && !v.Supports(opts.CapQuietShow):
		return fmt.Errorf("%w: unknown flag -q", opts.ErrUnsupportedScope)
	case quiet && !show && !v.Supports(opts.CapQuietSet):
		return fmt.Errorf("%w: unknown flag -q", opts.ErrUnsupportedScope)
	}
	return nil
}

// field checks that name exists on this version and may live in scope's table.
func (s *Source) field(name string, scope layering.OptionScope) (schema.Field, error) {
	if schema.IsCustom(name) {
		if !s.parsed.Supports(opts.CapUserOptions) {
			return schema.Field{}, fmt.Errorf("%w: %s", opts.ErrUnknownOption, name)
		}
		return schema.Field{Name: name, Type: schema.String(), Holding: slices.Clone(layering.Scopes)}, nil
	}
	base, _, indexed := schema.SplitIndex(name)
	field, ok := s.registry.Lookup(base)
	if !ok || !s.parsed.AtLeast(field.MinVersion) {
		return schema.Field{}, fmt.Errorf("%w: %s", opts.ErrUnknownOption, name)
	}
	if indexed && field.Type.Kind != schema.KindArray {
		return schema.Field{}, fmt.Errorf("%w: %s", opts.ErrInvalidOption, name)
	}
	if !field.Holds(scope) {
		return schema.Field{}, fmt.Errorf("%w: %s", opts.ErrInvalidOption, name)
	}
	return field, nil
}

func (s *Source) visibleAt(base string, scope layering.OptionScope) bool {
	if schema.IsCustom(base) {
		return true
	}
	field, ok := s.registry.Lookup(base)
	if !ok {
		return true
	}
	return field.Holds(scope)
}

// resolve finds the table for a request. A target may name the object
// itself or a descendant; an empty target picks the first object.
func (s *Source) resolve(scope layering.OptionScope, global bool, target string) (tableRef, error) {
	switch scope {
	case layering.ScopeServer:
		return tableRef{scope: layering.ScopeServer}, nil
	case layering.ScopeSession:
		if global {
			return tableRef{scope: scope, global: true}, nil
		}
		sess, err := s.sessionFor(target)
		if err != nil {
			return tableRef{}, err
		}
		return tableRef{scope: scope, id: sess.id}, nil
	case layering.ScopeWindow:
		if global {
			return tableRef{scope: scope, global: true}, nil
		}
		win, err := s.windowFor(target)
		if err != nil {
			return tableRef{}, err
		}
		return tableRef{scope: scope, id: win.id}, nil
	case layering.ScopePane:
		if global {
			return tableRef{scope: layering.ScopeWindow, global: true}, nil
		}
		p, err := s.paneFor(target)
		if err != nil {
			return tableRef{}, err
		}
		return tableRef{scope: scope, id: p.id}, nil
	default:
		return tableRef{}, fmt.Errorf("%w: %d", opts.ErrInvalidScope, scope)
	}
}

// parents lists the tables an inherited listing falls back to.
func (s *Source) parents(ref tableRef) []tableRef {
	if ref.global {
		return nil
	}
	switch ref.scope {
	case layering.ScopeSession:
		return []tableRef{{scope: layering.ScopeSession, global: true}}
	case layering.ScopeWindow:
		return []tableRef{{scope: layering.ScopeWindow, global: true}}
	case layering.ScopePane:
		p := s.panes[ref.id]
		return []tableRef{
			{scope: layering.ScopeWindow, id: p.window},
			{scope: layering.ScopeWindow, global: true},
		}
	default:
		return nil
	}
}

func (s *Source) sessionFor(target string) (*session, error) {
	switch {
	case target == "":
		if len(s.sessions) == 0 {
			return nil, errNoSession
		}
		return s.sessions[0], nil
	case strings.HasPrefix(target, "$"):
		for _, sess := range s.sessions {
			if sess.id == target {
				return sess, nil
			}
		}
	case strings.HasPrefix(target, "@"), strings.HasPrefix(target, "%"):
		win, err := s.windowFor(target)
		if err != nil {
			return nil, err
		}
		return s.sessionFor(win.session)
	}
	return nil, fmt.Errorf("memsource: can't find session: %s", target)
}

func (s *Source) windowFor(target string) (*window, error) {
	switch {
	case target == "", strings.HasPrefix(target, "$"):
		sess, err := s.sessionFor(target)
		if err != nil {
			return nil, err
		}
		return s.windows[sess.windows[0]], nil
	case strings.HasPrefix(target, "@"):
		if win, ok := s.windows[target]; ok {
			return win, nil
		}
	case strings.HasPrefix(target, "%"):
		if p, ok := s.panes[target]; ok {
			return s.windows[p.window], nil
		}
	}
	return nil, fmt.Errorf("memsource: can't find window: %s", target)
}

func (s *Source) paneFor(target string) (*pane, error) {
	if strings.HasPrefix(target, "%") {
		if p, ok := s.panes[target]; ok {
			return p, nil
		}
		return nil, fmt.Errorf("memsource: can't find pane: %s", target)
	}
	win, err := s.windowFor(target)
	if err != nil {
		return nil, err
	}
	return s.panes[win.panes[0]], nil
}

func baseName(key string) string {
	base, _, _ := schema.SplitIndex(key)
	return base
}

func splitArray(value, sep string) []string {
	if value == "" {
		return nil
	}
	if sep == "" {
		sep = ","
	}
	return strings.Split(value, sep)
}
