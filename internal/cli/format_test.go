package cli

import (
	"math"
	"strings"
	"testing"

	"github.com/theirongolddev/iceplan/internal/budget"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{0.99, "$0.99"},
		{88, "$88.00"},
		{362.75, "$362.75"},
		{18450.75, "$18,450.75"},
		{1234567.5, "$1,234,567.50"},
		{-15, "-$15.00"},
		{math.NaN(), "$0.00"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{50, "50"},
		{42.5, "42.5"},
		{1200, "1,200"},
		{0.99, "0.99"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.in); got != tt.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4321, "-4,321"},
		{-1234567890, "-1,234,567,890"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(2); got != "2%" {
		t.Fatalf("FormatPercent(2) = %q, want 2%%", got)
	}
	if got := FormatPercent(2.9); got != "2.9%" {
		t.Fatalf("FormatPercent(2.9) = %q, want 2.9%%", got)
	}
}

func TestFieldFormatter(t *testing.T) {
	tests := []struct {
		f    budget.Field
		v    float64
		want string
	}{
		{budget.FieldIceCost, 300, "$300.00"},
		{budget.FieldFixedFee, 0.99, "$0.99"},
		{budget.FieldFeePercent, 2.5, "2.5%"},
		{budget.FieldIceHours, 50, "50"},
		{budget.FieldNumPlayers, 1200, "1,200"},
	}
	for _, tt := range tests {
		if got := FieldFormatter(tt.f)(tt.v); got != tt.want {
			t.Fatalf("FieldFormatter(%s)(%v) = %q, want %q", tt.f, tt.v, got, tt.want)
		}
	}
}

func TestRenderTable_ContainsCells(t *testing.T) {
	out := RenderTable(Table{
		Title:     "Budget",
		Headers:   []string{"Item", "Amount"},
		Rows:      [][]string{{"Ice", "$15,000.00"}, {"---"}, {"Total", "$18,450.75"}},
		TotalRows: 1,
	})
	for _, want := range []string{"Budget", "Item", "Ice", "$15,000.00", "Total", "$18,450.75"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "\n"); got != 8 {
		t.Fatalf("table has %d lines, want 8:\n%s", got, out)
	}
}
