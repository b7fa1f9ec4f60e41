package types

import "testing"

func TestVideoSuggestionResolve(t *testing.T) {
	tests := []struct {
		name        string
		transitions []Validation
		applied     []bool
		final       Validation
	}{
		{
			name:        "confirm once",
			transitions: []Validation{ValidationConfirmed},
			applied:     []bool{true},
			final:       ValidationConfirmed,
		},
		{
			name:        "reject once",
			transitions: []Validation{ValidationRejected},
			applied:     []bool{true},
			final:       ValidationRejected,
		},
		{
			name:        "confirmed never reverts",
			transitions: []Validation{ValidationConfirmed, ValidationRejected},
			applied:     []bool{true, false},
			final:       ValidationConfirmed,
		},
		{
			name:        "rejected never reverts",
			transitions: []Validation{ValidationRejected, ValidationConfirmed},
			applied:     []bool{true, false},
			final:       ValidationRejected,
		},
		{
			name:        "unknown is not a transition",
			transitions: []Validation{ValidationUnknown, ValidationConfirmed},
			applied:     []bool{false, true},
			final:       ValidationConfirmed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewVideoSuggestion("T", "U", "R")
			if s.Validation != ValidationUnknown {
				t.Fatalf("new suggestion validation = %q, want %q", s.Validation, ValidationUnknown)
			}
			for i, state := range tt.transitions {
				if got := s.Resolve(state); got != tt.applied[i] {
					t.Errorf("Resolve(%q) step %d = %t, want %t", state, i, got, tt.applied[i])
				}
			}
			if s.Validation != tt.final {
				t.Errorf("final validation = %q, want %q", s.Validation, tt.final)
			}
		})
	}
}

func TestValidationSettled(t *testing.T) {
	if ValidationUnknown.Settled() {
		t.Error("unknown should not be settled")
	}
	if !ValidationConfirmed.Settled() || !ValidationRejected.Settled() {
		t.Error("confirmed and rejected should be settled")
	}
}
