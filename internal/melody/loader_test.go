package melody

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgraupera/engram/internal/hopfield"
)

func TestRead_DefaultLayout(t *testing.T) {
	src := strings.Join([]string{
		"name,c1,c2,c3,c4",
		"do,1,-1,1,-1",
		"re,-1,1,-1,1",
	}, "\n")

	c, err := Read(strings.NewReader(src), DefaultOptions())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if c.Size() != 4 {
		t.Errorf("Size = %d, want 4", c.Size())
	}
	if got := c.Name(0); got != "do" {
		t.Errorf("Name(0) = %q, want %q", got, "do")
	}
	if got := c.Name(1); got != "re" {
		t.Errorf("Name(1) = %q, want %q", got, "re")
	}
	want := hopfield.Pattern{1, -1, 1, -1}
	if !c.Pattern(0).Equal(want) {
		t.Errorf("Pattern(0) = %v, want %v", c.Pattern(0), want)
	}
}

func TestRead_BareGrid(t *testing.T) {
	src := "1,-1\n-1,1\n"

	c, err := Read(strings.NewReader(src), Options{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if c.Len() != 2 || c.Size() != 2 {
		t.Errorf("Len,Size = %d,%d, want 2,2", c.Len(), c.Size())
	}
	if got := c.Name(1); got != "pattern 1" {
		t.Errorf("fallback Name(1) = %q, want %q", got, "pattern 1")
	}
}

func TestRead_TrimsCellSpace(t *testing.T) {
	src := "m, 1 , -1 \n"

	c, err := Read(strings.NewReader(src), Options{LabelColumn: true})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := hopfield.Pattern{1, -1}
	if !c.Pattern(0).Equal(want) {
		t.Errorf("Pattern(0) = %v, want %v", c.Pattern(0), want)
	}
}

func TestRead_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		opts    Options
		wantErr error
	}{
		{
			name:    "non-binary token",
			src:     "a,1,2\n",
			opts:    Options{LabelColumn: true},
			wantErr: ErrBadToken,
		},
		{
			name:    "text token",
			src:     "1,x\n",
			opts:    Options{},
			wantErr: ErrBadToken,
		},
		{
			name:    "zero token",
			src:     "1,0,-1\n",
			opts:    Options{},
			wantErr: ErrBadToken,
		},
		{
			name:    "ragged row",
			src:     "1,-1\n1,-1,1\n",
			opts:    Options{},
			wantErr: ErrRaggedRow,
		},
		{
			name:    "empty input",
			src:     "",
			opts:    Options{},
			wantErr: ErrEmptyCatalog,
		},
		{
			name:    "header only",
			src:     "name,c1,c2\n",
			opts:    DefaultOptions(),
			wantErr: ErrEmptyCatalog,
		},
		{
			name:    "label without cells",
			src:     "only-a-name\n",
			opts:    Options{LabelColumn: true},
			wantErr: ErrEmptyCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.src), tt.opts); !errors.Is(err, tt.wantErr) {
				t.Errorf("Read error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "melodies.csv")
	src := "name,c1,c2\nfa,1,-1\nsol,-1,1\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c, err := Load(path, DefaultOptions())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	if got := c.Names(); got[0] != "fa" || got[1] != "sol" {
		t.Errorf("Names = %v, want [fa sol]", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions()); err == nil {
		t.Error("expected error for missing file")
	}
}
