package hopfield

import (
	"errors"
	"testing"
)

func TestPattern_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       Pattern
		wantErr error
	}{
		{name: "valid", p: Pattern{1, -1, 1, 1}, wantErr: nil},
		{name: "empty", p: Pattern{}, wantErr: nil},
		{name: "zero element", p: Pattern{1, 0, -1}, wantErr: ErrNotBipolar},
		{name: "out of range", p: Pattern{1, 2, -1}, wantErr: ErrNotBipolar},
		{name: "fractional", p: Pattern{0.5, 1}, wantErr: ErrNotBipolar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPatternSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ps      PatternSet
		wantErr error
	}{
		{name: "empty set", ps: PatternSet{}, wantErr: nil},
		{
			name:    "uniform",
			ps:      PatternSet{{1, -1}, {-1, 1}},
			wantErr: nil,
		},
		{
			name:    "ragged",
			ps:      PatternSet{{1, -1}, {1, -1, 1}},
			wantErr: ErrSizeMismatch,
		},
		{
			name:    "non-bipolar member",
			ps:      PatternSet{{1, -1}, {1, 3}},
			wantErr: ErrNotBipolar,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ps.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPattern_Hamming(t *testing.T) {
	a := Pattern{1, 1, -1, -1}
	b := Pattern{1, -1, -1, 1}

	d, err := a.Hamming(b)
	if err != nil {
		t.Fatalf("Hamming failed: %v", err)
	}
	if d != 2 {
		t.Errorf("Hamming = %d, want 2", d)
	}

	same, err := a.Hamming(a)
	if err != nil {
		t.Fatalf("Hamming failed: %v", err)
	}
	if same != 0 {
		t.Errorf("Hamming(a, a) = %d, want 0", same)
	}

	if _, err := a.Hamming(Pattern{1}); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("length mismatch error = %v, want ErrSizeMismatch", err)
	}
}

func TestPattern_CloneIsIndependent(t *testing.T) {
	p := Pattern{1, -1, 1}
	q := p.Clone()
	q[0] = -1
	if p[0] != 1 {
		t.Errorf("mutating clone changed the source: %v", p)
	}
}

func TestPatternSet_CloneIsDeep(t *testing.T) {
	ps := PatternSet{{1, -1}, {-1, 1}}
	cp := ps.Clone()
	cp[0][0] = -1
	if ps[0][0] != 1 {
		t.Errorf("mutating clone changed the source set: %v", ps)
	}
}
