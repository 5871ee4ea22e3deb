// Package hydrate turns option maps keyed by record field name into typed
// records through their json tags.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNilPayload rejects a missing payload.
var ErrNilPayload = errors.New("hydrate: payload is nil")

// Context identifies the listing a payload was built from.
type Context struct {
	Scope  string
	Target string
}

func (c Context) String() string {
	if c.Target == "" {
		return c.Scope
	}
	return c.Scope + ":" + c.Target
}

// Option adjusts Decode.
type Option func(*settings)

type settings struct {
	strict bool
}

// Strict rejects payload keys the record does not declare.
func Strict() Option {
	return func(s *settings) { s.strict = true }
}

// Decode fills a T from payload. Array values may hold nil gaps, which decode
// into nil slice elements. payload is not modified.
func Decode[T any](ctx Context, payload map[string]any, opts ...Option) (T, error) {
	var (
		record T
		cfg    settings
	)
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if payload == nil {
		return record, fmt.Errorf("%w for %s", ErrNilPayload, ctx)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return record, fmt.Errorf("hydrate: encode %s: %w", ctx, err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if cfg.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&record); err != nil {
		var zero T
		return zero, fmt.Errorf("hydrate: decode %s: %w", ctx, err)
	}
	return record, nil
}
