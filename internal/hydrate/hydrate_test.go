package hydrate

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type paneRecord struct {
	RemainOnExit     *string   `json:"remain_on_exit,omitempty"`
	SynchronizePanes *bool     `json:"synchronize_panes,omitempty"`
	HistoryLimit     *int      `json:"history_limit,omitempty"`
	Overrides        []*string `json:"terminal_overrides,omitempty"`
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }

func TestDecodeFieldMap(t *testing.T) {
	cases := []struct {
		name    string
		input   map[string]any
		opts    []Option
		want    paneRecord
		wantErr string
	}{
		{
			name: "scalars and gaps",
			input: map[string]any{
				"remain_on_exit":     "failed",
				"synchronize_panes":  true,
				"history_limit":      2000,
				"terminal_overrides": []any{"xterm*:Tc", nil, "screen*:Tc"},
			},
			want: paneRecord{
				RemainOnExit:     strPtr("failed"),
				SynchronizePanes: boolPtr(true),
				HistoryLimit:     intPtr(2000),
				Overrides:        []*string{strPtr("xterm*:Tc"), nil, strPtr("screen*:Tc")},
			},
		},
		{
			name:  "absent fields stay nil",
			input: map[string]any{"history_limit": 10, "ignored": "x"},
			want:  paneRecord{HistoryLimit: intPtr(10)},
		},
		{
			name:    "unknown fields rejected on request",
			input:   map[string]any{"ignored": "x"},
			opts:    []Option{Strict()},
			wantErr: "unknown field",
		},
		{
			name:    "wrong type",
			input:   map[string]any{"history_limit": "lots"},
			wantErr: "hydrate: decode pane:%1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode[paneRecord](Context{Scope: "pane", Target: "%1"}, tc.input, tc.opts...)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if !reflect.DeepEqual(tc.want, got) {
				t.Fatalf("decoded record mismatch:\nwant: %#v\n got: %#v", tc.want, got)
			}
		})
	}
}

func TestDecodeNilPayload(t *testing.T) {
	_, err := Decode[paneRecord](Context{Scope: "window", Target: "@1"}, nil)
	if !errors.Is(err, ErrNilPayload) {
		t.Fatalf("expected ErrNilPayload, got %v", err)
	}
	if !strings.Contains(err.Error(), "window:@1") {
		t.Fatalf("expected context in error, got %v", err)
	}
}

func TestDecodeLeavesPayloadAlone(t *testing.T) {
	payload := map[string]any{"terminal_overrides": []any{"a", nil}}
	if _, err := Decode[paneRecord](Context{Scope: "pane"}, payload, Strict()); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := payload["terminal_overrides"].([]any); len(got) != 2 || got[1] != nil {
		t.Fatalf("expected payload untouched, got %v", got)
	}
}
