package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestShowCmdAll(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	path := writeTestCatalog(t, tmpDir)

	output, err := runCommand(t, newShowCmd(), "show", path)
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}

	if !strings.Contains(output, "3 melodies of 16 cells (4x4)") {
		t.Errorf("missing catalog headline:\n%s", output)
	}
	for _, want := range []string{"0: flat", "1: alt", "2: pairs", "####", "#_#_"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestShowCmdSingleJSON(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	path := writeTestCatalog(t, tmpDir)

	output, err := runCommand(t, newShowCmd(), "show", path, "--index", "1", "--json")
	if err != nil {
		t.Fatalf("show --json failed: %v", err)
	}

	var got struct {
		Size     int `json:"size"`
		Count    int `json:"count"`
		Melodies []struct {
			Index int       `json:"index"`
			Name  string    `json:"name"`
			Cells []float64 `json:"cells"`
		} `json:"melodies"`
	}
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("failed to parse output %q: %v", output, err)
	}
	if got.Size != 16 || got.Count != 3 {
		t.Errorf("size/count = %d/%d, want 16/3", got.Size, got.Count)
	}
	if len(got.Melodies) != 1 {
		t.Fatalf("melodies = %d entries, want 1", len(got.Melodies))
	}
	if got.Melodies[0].Name != "alt" || got.Melodies[0].Index != 1 {
		t.Errorf("melody = %+v, want index 1 alt", got.Melodies[0])
	}
	if len(got.Melodies[0].Cells) != 16 || got.Melodies[0].Cells[1] != -1 {
		t.Errorf("cells = %v, want 16 cells starting 1,-1", got.Melodies[0].Cells)
	}
}

func TestShowCmdIndexOutOfRange(t *testing.T) {
	tmpDir := t.TempDir()
	isolateHome(t, tmpDir)
	path := writeTestCatalog(t, tmpDir)

	_, err := runCommand(t, newShowCmd(), "show", path, "--index", "3")
	if err == nil {
		t.Fatal("expected error for out-of-range index")
	}
}
