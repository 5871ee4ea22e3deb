// Package usersink forwards option activity to a go-users ActivitySink.
package usersink

import (
	"context"
	"strings"

	"github.com/goliatone/go-tmux-options/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts option events to a go-users ActivitySink. Actor, user and
// tenant ids that are not UUIDs are recorded as uuid.Nil.
type Hook struct {
	Sink usertypes.ActivitySink
}

func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil || !event.Valid() {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return h.Sink.Log(ctx, Record(event))
}

// Record converts event into an ActivityRecord. The event metadata (option,
// scope, target, values) becomes the record data.
func Record(event activity.Event) usertypes.ActivityRecord {
	event = activity.NormalizeEvent(event)
	data := make(map[string]any, len(event.Metadata))
	for key, value := range event.Metadata {
		data[key] = value
	}
	return usertypes.ActivityRecord{
		ActorID:    parseUUID(event.ActorID),
		UserID:     parseUUID(event.UserID),
		TenantID:   parseUUID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		Data:       data,
		OccurredAt: event.OccurredAt,
	}
}

func parseUUID(input string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil
	}
	return id
}
