package layering

import (
	"reflect"
	"testing"
)

func TestMergeLayersStrongestWins(t *testing.T) {
	pane := map[string]string{"window-style": "bg=red"}
	window := map[string]string{"window-style": "default", "mode-keys": "vi"}
	server := map[string]string{"buffer-limit": "50", "mode-keys": "emacs"}

	got := MergeLayers(pane, window, server)
	want := map[string]string{
		"window-style": "bg=red",
		"mode-keys":    "vi",
		"buffer-limit": "50",
	}
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("merged mismatch\nwant: %#v\n got: %#v", want, got)
	}

	got["window-style"] = "mutated"
	if pane["window-style"] != "bg=red" {
		t.Fatalf("expected inputs untouched")
	}
}

func TestMergeLayersZeroInput(t *testing.T) {
	got := MergeLayers[string, int]()
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil map, got %#v", got)
	}
}
