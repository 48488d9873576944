package cmd

import (
	"errors"
	"testing"

	"github.com/theirongolddev/iceplan/internal/budget"
)

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"numPlayers=15", "teamName=North Stars", "feePercent="})
	if err != nil {
		t.Fatalf("parseAssignments: %v", err)
	}
	want := []assignment{
		{budget.FieldNumPlayers, "15"},
		{budget.FieldTeamName, "North Stars"},
		{budget.FieldFeePercent, ""},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("assignment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseAssignmentsRejects(t *testing.T) {
	tests := []struct {
		arg     string
		invalid bool
	}{
		{"numPlayers", false},
		{"jerseyQuantity=3", true},
		{"goalies=2", true},
	}
	for _, tt := range tests {
		_, err := parseAssignments([]string{"iceHours=10", tt.arg})
		if err == nil {
			t.Fatalf("parseAssignments(%q) succeeded", tt.arg)
		}
		if got := errors.Is(err, budget.ErrInvalidField); got != tt.invalid {
			t.Fatalf("parseAssignments(%q) invalid-field = %v, want %v", tt.arg, got, tt.invalid)
		}
	}
}
