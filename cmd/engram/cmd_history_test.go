package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewHistoryCmd(t *testing.T) {
	cmd := newHistoryCmd()
	if cmd.Use != "history" {
		t.Errorf("Use = %q, want history", cmd.Use)
	}
	for _, flag := range []string{"limit", "run"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("missing --%s flag", flag)
		}
	}
}

func TestHistoryCmdEmpty(t *testing.T) {
	isolateHome(t, t.TempDir())

	output, err := runCommand(t, newHistoryCmd(), "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(output, "No runs recorded yet.") {
		t.Errorf("output = %q, want empty-history notice", output)
	}
}

func TestHistoryCmdEmptyJSON(t *testing.T) {
	isolateHome(t, t.TempDir())

	output, err := runCommand(t, newHistoryCmd(), "history", "--json")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(output), &payload); err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, output)
	}
	if payload.Count != 0 {
		t.Errorf("count = %d, want 0", payload.Count)
	}
}

func TestHistoryCmdRunNotFound(t *testing.T) {
	isolateHome(t, t.TempDir())

	output, err := runCommand(t, newHistoryCmd(), "history", "--run", "no-such-run")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(output, "Run not found: no-such-run") {
		t.Errorf("output = %q, want not-found notice", output)
	}
}
