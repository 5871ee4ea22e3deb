package activity

import (
	"errors"
	"strings"
	"time"
)

const (
	// VerbOptionUpdated is emitted after an option value is written.
	VerbOptionUpdated = "options.updated"
	// VerbOptionDeleted is emitted after an option value is unset.
	VerbOptionDeleted = "options.deleted"
	// ObjectTypeOption is the object type of option events.
	ObjectTypeOption = "tmux.option"
)

// ErrMissingOptionName rejects option events without an option name.
var ErrMissingOptionName = errors.New("activity: option name required")

// OptionEventInput describes the common fields for option mutation events.
type OptionEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Scope      string
	Target     string
	Name       string
	Global     bool
	OldValue   any
	NewValue   any
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildOptionSetEvent constructs a normalized activity event for an option write.
func BuildOptionSetEvent(input OptionEventInput) (Event, error) {
	return buildOptionEvent(VerbOptionUpdated, input)
}

// BuildOptionUnsetEvent constructs a normalized activity event for an option unset.
func BuildOptionUnsetEvent(input OptionEventInput) (Event, error) {
	return buildOptionEvent(VerbOptionDeleted, input)
}

// OptionObjectID renders "scope[:target]/name", or "scope:global/name" for a
// global table.
func OptionObjectID(scope, target, name string, global bool) string {
	id := strings.TrimSpace(scope)
	switch {
	case global:
		id += ":global"
	case strings.TrimSpace(target) != "":
		id += ":" + strings.TrimSpace(target)
	}
	return id + "/" + strings.TrimSpace(name)
}

func buildOptionEvent(verb string, input OptionEventInput) (Event, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Event{}, ErrMissingOptionName
	}

	metadata := cloneMap(input.Metadata)
	metadata = ensureMetadata(metadata)
	metadata["option"] = name
	if input.Scope != "" {
		metadata["scope"] = input.Scope
	}
	if input.Target != "" {
		metadata["target"] = input.Target
	}
	if input.Global {
		metadata["global"] = true
	}
	if input.OldValue != nil {
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata["new_value"] = input.NewValue
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeOption,
		ObjectID:   OptionObjectID(input.Scope, input.Target, name, input.Global),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}, nil
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
