package main

import "testing"

func TestNewMCPServeCmd(t *testing.T) {
	cmd := newMCPServeCmd()
	if cmd.Use != "mcp-serve" {
		t.Errorf("Use = %q, want mcp-serve", cmd.Use)
	}
	if cmd.Flags().Lookup("csv") == nil {
		t.Error("missing --csv flag")
	}
	if cmd.RunE == nil {
		t.Error("mcp-serve has no RunE")
	}
}
