package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-tmux-options/pkg/activity"
	"github.com/goliatone/go-tmux-options/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
)

type sinkStub struct {
	got  []usertypes.ActivityRecord
	fail error
}

func (s *sinkStub) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.got = append(s.got, record)
	return s.fail
}

func TestHookForwardsSetEvent(t *testing.T) {
	at := time.Date(2025, 3, 9, 8, 30, 0, 0, time.UTC)
	actor, tenant := uuid.New(), uuid.New()
	event, err := activity.BuildOptionSetEvent(activity.OptionEventInput{
		ActorID:    actor.String(),
		TenantID:   tenant.String(),
		Channel:    "dotfiles",
		Scope:      "session",
		Target:     "$1",
		Name:       "status-position",
		NewValue:   "top",
		OccurredAt: at,
	})
	require.NoError(t, err)

	sink := &sinkStub{}
	require.NoError(t, usersink.Hook{Sink: sink}.Notify(context.Background(), event))
	require.Len(t, sink.got, 1)

	got := sink.got[0]
	require.Equal(t, actor, got.ActorID)
	require.Equal(t, uuid.Nil, got.UserID)
	require.Equal(t, tenant, got.TenantID)
	require.Equal(t, activity.VerbOptionUpdated, got.Verb)
	require.Equal(t, activity.ObjectTypeOption, got.ObjectType)
	require.Equal(t, "session:$1/status-position", got.ObjectID)
	require.Equal(t, "dotfiles", got.Channel)
	require.Equal(t, at, got.OccurredAt)
	require.Equal(t, "top", got.Data["new_value"])
}

func TestHookSkips(t *testing.T) {
	valid := activity.Event{
		Verb:       activity.VerbOptionUpdated,
		ObjectType: activity.ObjectTypeOption,
		ObjectID:   "server/escape-time",
	}
	cases := map[string]struct {
		hook  func(*sinkStub) usersink.Hook
		event activity.Event
	}{
		"empty event": {
			hook:  func(s *sinkStub) usersink.Hook { return usersink.Hook{Sink: s} },
			event: activity.Event{},
		},
		"missing object id": {
			hook:  func(s *sinkStub) usersink.Hook { return usersink.Hook{Sink: s} },
			event: activity.Event{Verb: activity.VerbOptionDeleted, ObjectType: activity.ObjectTypeOption},
		},
		"nil sink": {
			hook:  func(*sinkStub) usersink.Hook { return usersink.Hook{} },
			event: valid,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			sink := &sinkStub{}
			require.NoError(t, tc.hook(sink).Notify(context.Background(), tc.event))
			require.Empty(t, sink.got)
		})
	}
}

func TestHookReturnsSinkError(t *testing.T) {
	boom := errors.New("sink down")
	sink := &sinkStub{fail: boom}
	err := usersink.Hook{Sink: sink}.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbOptionDeleted,
		ActorID:    "cli",
		ObjectType: activity.ObjectTypeOption,
		ObjectID:   "pane:%3/@marker",
	})
	require.ErrorIs(t, err, boom)
	require.Len(t, sink.got, 1)
	require.Equal(t, uuid.Nil, sink.got[0].ActorID)
}

func TestRecordCopiesMetadata(t *testing.T) {
	event, err := activity.BuildOptionUnsetEvent(activity.OptionEventInput{
		Scope:  "window",
		Name:   "mode-keys",
		Global: true,
	})
	require.NoError(t, err)

	record := usersink.Record(event)
	require.Equal(t, "window:global/mode-keys", record.ObjectID)
	require.Equal(t, activity.VerbOptionDeleted, record.Verb)
	require.False(t, record.OccurredAt.IsZero())
	require.Equal(t, true, record.Data["global"])

	record.Data["option"] = "changed"
	require.Equal(t, "mode-keys", event.Metadata["option"])
}
