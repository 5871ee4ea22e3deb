package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	opts "github.com/goliatone/go-tmux-options"
	"github.com/goliatone/go-tmux-options/internal/appconfig"
	"github.com/goliatone/go-tmux-options/layering"
	"github.com/goliatone/go-tmux-options/pkg/tmux"
)

// newSource builds the option source for a loaded config. Tests replace it.
var newSource = func(cfg appconfig.Config) (opts.Source, error) {
	timeout, err := cfg.Tmux.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	return tmux.New(
		tmux.WithBinary(cfg.Tmux.Binary),
		tmux.WithSocketName(cfg.Tmux.SocketName),
		tmux.WithSocketPath(cfg.Tmux.SocketPath),
		tmux.WithTimeout(timeout),
	), nil
}

type app struct {
	cfgPath    string
	format     string
	socketName string
	socketPath string

	cfg appconfig.Config
}

// load reads the config, applies global flag overrides and installs a logger
// at the configured level on the command context.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := appconfig.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.format != "" {
		cfg.Output.Format = a.format
	}
	if a.socketName != "" {
		cfg.Tmux.SocketName = a.socketName
	}
	if a.socketPath != "" {
		cfg.Tmux.SocketPath = a.socketPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(cmd.ErrOrStderr()),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeConsole, MinLevel: logLevel(cfg.Log.Level)}),
	)
	cmd.SetContext(pslog.ContextWithLogger(cmd.Context(), logger))
	return nil
}

func (a *app) engine(extra ...opts.Option) (*opts.Engine, error) {
	src, err := newSource(a.cfg)
	if err != nil {
		return nil, err
	}
	return opts.New(src, append([]opts.Option{opts.WithActivityChannel("tmuxopts")}, extra...)...)
}

func logLevel(name string) pslog.Level {
	switch strings.ToLower(name) {
	case "trace":
		return pslog.TraceLevel
	case "debug":
		return pslog.DebugLevel
	case "warn":
		return pslog.WarnLevel
	case "error":
		return pslog.ErrorLevel
	default:
		return pslog.InfoLevel
	}
}

// targetFlags are the addressing flags shared by option commands.
type targetFlags struct {
	scope       string
	target      string
	targetScope string
	global      bool
	quiet       bool
}

func (f *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.scope, "scope", "", "scope of the addressed object: server, session, window or pane")
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "tmux target ($session, @window, %pane or session name)")
	cmd.Flags().BoolVarP(&f.global, "global", "g", false, "address the global table")
	cmd.Flags().BoolVarP(&f.quiet, "quiet", "q", false, "ignore unknown or unset options where tmux allows it")
}

func (f *targetFlags) registerTargetScope(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.targetScope, "target-scope", "", "address this scope instead of the object's own")
}

// resolve builds the engine target and call options from the flags.
func (f *targetFlags) resolve() (opts.Target, []opts.CallOption, error) {
	t, err := parseTarget(f.scope, f.target)
	if err != nil {
		return opts.Target{}, nil, err
	}
	var callOpts []opts.CallOption
	if f.global {
		callOpts = append(callOpts, opts.WithGlobal())
	}
	if f.quiet {
		callOpts = append(callOpts, opts.WithIgnoreErrors())
	}
	if f.targetScope != "" {
		scope, err := parseScope(f.targetScope)
		if err != nil {
			return opts.Target{}, nil, err
		}
		callOpts = append(callOpts, opts.WithTargetScope(scope))
	}
	return t, callOpts, nil
}

func parseScope(name string) (layering.OptionScope, error) {
	scope := layering.ParseOptionScope(name)
	if !scope.Valid() {
		return layering.ScopeUnknown, fmt.Errorf("unknown scope %q", name)
	}
	return scope, nil
}

// parseTarget maps a tmux target onto the hierarchy: %N is a pane, @N a
// window and anything else a session. Without --scope the target's own
// kind decides the scope; with neither the server is addressed.
func parseTarget(scopeName, target string) (opts.Target, error) {
	t := opts.ServerTarget()
	switch {
	case target == "":
	case strings.HasPrefix(target, "%"):
		t = opts.Target{Scope: layering.ScopePane, Pane: target}
	case strings.HasPrefix(target, "@"):
		t = opts.Target{Scope: layering.ScopeWindow, Window: target}
	default:
		t = opts.Target{Scope: layering.ScopeSession, Session: target}
	}
	if scopeName != "" {
		scope, err := parseScope(scopeName)
		if err != nil {
			return opts.Target{}, err
		}
		t.Scope = scope
	}
	return t, nil
}
