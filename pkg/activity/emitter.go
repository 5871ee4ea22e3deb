package activity

import (
	"context"
	"strings"
	"time"
)

// DefaultChannel is stamped on events that carry no channel.
const DefaultChannel = "tmux"

// Config controls an Emitter. Clock stamps OccurredAt on events that carry
// none; it defaults to time.Now.
type Config struct {
	Enabled bool
	Channel string
	Clock   func() time.Time
}

// Emitter stamps defaults on option events before fanning them out.
type Emitter struct {
	hooks   Hooks
	channel string
	clock   func() time.Time
}

// NewEmitter returns an emitter over the non-nil hooks. It is disabled when
// cfg.Enabled is false or no hook remains.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	e := &Emitter{
		channel: strings.TrimSpace(cfg.Channel),
		clock:   cfg.Clock,
	}
	if e.channel == "" {
		e.channel = DefaultChannel
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if cfg.Enabled {
		for _, hook := range hooks {
			if hook != nil {
				e.hooks = append(e.hooks, hook)
			}
		}
	}
	return e
}

func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Channel returns the channel stamped on events without one.
func (e *Emitter) Channel() string {
	if e == nil {
		return DefaultChannel
	}
	return e.channel
}

func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = e.clock()
	}
	return e.hooks.Notify(ctx, event)
}
