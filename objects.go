package opts

import "context"

// handle binds engine calls to one object.
type handle struct {
	engine *Engine
	target Target
}

// Target returns the address the handle resolves against.
func (h handle) Target() Target {
	return h.target
}

// ShowOptions lists the object's option table.
func (h handle) ShowOptions(ctx context.Context, opts ...CallOption) (map[string]any, error) {
	return h.engine.ShowAll(ctx, h.target, opts...)
}

// ShowOption returns one typed option value.
func (h handle) ShowOption(ctx context.Context, name string, opts ...CallOption) (any, error) {
	return h.engine.Show(ctx, h.target, name, opts...)
}

func (h handle) SetOption(ctx context.Context, name string, value any, opts ...CallOption) error {
	return h.engine.Set(ctx, h.target, name, value, opts...)
}

func (h handle) UnsetOption(ctx context.Context, name string, opts ...CallOption) error {
	return h.engine.Unset(ctx, h.target, name, opts...)
}

// TraceOption reports where the object's value for name comes from.
func (h handle) TraceOption(ctx context.Context, name string, opts ...CallOption) (Trace, error) {
	return h.engine.Trace(ctx, h.target, name, opts...)
}

type Server struct{ handle }

type Session struct{ handle }

type Window struct{ handle }

type Pane struct{ handle }

func (e *Engine) Server() Server {
	return Server{handle{engine: e, target: ServerTarget()}}
}

func (e *Engine) Session(session string) Session {
	return Session{handle{engine: e, target: SessionTarget(session)}}
}

func (e *Engine) Window(session, window string) Window {
	return Window{handle{engine: e, target: WindowTarget(session, window)}}
}

func (e *Engine) Pane(session, window, pane string) Pane {
	return Pane{handle{engine: e, target: PaneTarget(session, window, pane)}}
}

// Object is the option surface shared by servers, sessions, windows and panes.
type Object interface {
	Target() Target
	ShowOptions(ctx context.Context, opts ...CallOption) (map[string]any, error)
	ShowOption(ctx context.Context, name string, opts ...CallOption) (any, error)
	SetOption(ctx context.Context, name string, value any, opts ...CallOption) error
	UnsetOption(ctx context.Context, name string, opts ...CallOption) error
	TraceOption(ctx context.Context, name string, opts ...CallOption) (Trace, error)
}

// Handle returns an Object for t, for callers that hold a Target.
func (e *Engine) Handle(t Target) Object {
	return handle{engine: e, target: t}
}

// Options lists the server table into a record.
func (s Server) Options(ctx context.Context, opts ...CallOption) (ServerOptions, error) {
	return s.engine.ServerOptions(ctx, s.target, opts...)
}

func (s Session) Options(ctx context.Context, opts ...CallOption) (SessionOptions, error) {
	return s.engine.SessionOptions(ctx, s.target, opts...)
}

func (w Window) Options(ctx context.Context, opts ...CallOption) (WindowOptions, error) {
	return w.engine.WindowOptions(ctx, w.target, opts...)
}

func (p Pane) Options(ctx context.Context, opts ...CallOption) (PaneOptions, error) {
	return p.engine.PaneOptions(ctx, p.target, opts...)
}
