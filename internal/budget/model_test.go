package budget

import (
	"errors"
	"math"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	m := New()

	want := map[Field]float64{
		FieldIceHours:       50,
		FieldIceCost:        300,
		FieldCoachCost:      3000,
		FieldNumPlayers:     1,
		FieldJerseyQuantity: 1,
		FieldJerseyCost:     88,
		FieldFeePercent:     2,
		FieldFixedFee:       0.99,
	}
	for f, v := range want {
		if got := m.Value(f); got != v {
			t.Errorf("%s = %v, want %v", f, got, v)
		}
	}
	if m.TeamName() != "" {
		t.Errorf("TeamName = %q, want empty", m.TeamName())
	}
	if m.Subtotal() != 18088 {
		t.Errorf("Subtotal = %v, want 18088", m.Subtotal())
	}
	if m.Fees() != 362.75 {
		t.Errorf("Fees = %v, want 362.75", m.Fees())
	}
	if m.Total() != 18450.75 {
		t.Errorf("Total = %v, want 18450.75", m.Total())
	}
	if m.PerPlayer() != 18450.75 {
		t.Errorf("PerPlayer = %v, want 18450.75", m.PerPlayer())
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	m := New()
	_ = m.Set(FieldIceHours, 37.5)
	_ = m.Set(FieldIceCost, "312.33")
	_ = m.Set(FieldFeePercent, 2.9)
	_ = m.Set(FieldNumPlayers, 17)

	m.Recompute()
	sub, fees, total := m.Subtotal(), m.Fees(), m.Total()
	m.Recompute()

	if math.Float64bits(m.Subtotal()) != math.Float64bits(sub) {
		t.Fatalf("Subtotal changed on recompute: %v -> %v", sub, m.Subtotal())
	}
	if math.Float64bits(m.Fees()) != math.Float64bits(fees) {
		t.Fatalf("Fees changed on recompute: %v -> %v", fees, m.Fees())
	}
	if math.Float64bits(m.Total()) != math.Float64bits(total) {
		t.Fatalf("Total changed on recompute: %v -> %v", total, m.Total())
	}
}

func TestSet_NumPlayersMirrorsJerseys(t *testing.T) {
	m := New()
	for _, raw := range []any{4, "12", 2.9, -3, "abc", 0} {
		_ = m.Set(FieldNumPlayers, raw)
		if m.JerseyQuantity() != m.NumPlayers() {
			t.Fatalf("after Set(%v): jerseys = %d, players = %d", raw, m.JerseyQuantity(), m.NumPlayers())
		}
		if m.NumPlayers() < 1 {
			t.Fatalf("after Set(%v): players = %d, want >= 1", raw, m.NumPlayers())
		}
	}
	_ = m.Increment(FieldNumPlayers)
	if m.JerseyQuantity() != m.NumPlayers() {
		t.Fatalf("after Increment: jerseys = %d, players = %d", m.JerseyQuantity(), m.NumPlayers())
	}
}

func TestSet_NumPlayersTruncates(t *testing.T) {
	m := New()
	_ = m.Set(FieldNumPlayers, "3.7")
	if m.NumPlayers() != 3 {
		t.Fatalf("NumPlayers = %d, want 3", m.NumPlayers())
	}
	if m.Value(FieldNumPlayers) != 3 {
		t.Fatalf("stored players = %v, want 3", m.Value(FieldNumPlayers))
	}
}

func TestSet_NonNumericUsesMin(t *testing.T) {
	m := New()
	if err := m.Set(FieldCoachCost, "lots"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Value(FieldCoachCost) != 0 {
		t.Fatalf("CoachCost = %v, want 0", m.Value(FieldCoachCost))
	}
	if math.IsNaN(m.Subtotal()) || math.IsNaN(m.Total()) {
		t.Fatalf("NaN leaked: subtotal=%v total=%v", m.Subtotal(), m.Total())
	}
	if m.Subtotal() != 15088 {
		t.Fatalf("Subtotal = %v, want 15088", m.Subtotal())
	}
}

func TestSetField_UnknownAndReadOnly(t *testing.T) {
	m := New()
	before := m.Snapshot()

	for _, name := range []string{"bogus", "jerseyQuantity", "subtotal", "total", ""} {
		err := m.SetField(name, 5)
		if !errors.Is(err, ErrInvalidField) {
			t.Errorf("SetField(%q) error = %v, want ErrInvalidField", name, err)
		}
	}
	if err := m.Set(FieldJerseyQuantity, 9); !errors.Is(err, ErrInvalidField) {
		t.Errorf("Set(JerseyQuantity) error = %v, want ErrInvalidField", err)
	}

	after := m.Snapshot()
	for k, v := range before {
		if after[k] != v {
			t.Errorf("%s changed from %v to %v", k, v, after[k])
		}
	}
}

func TestSetField_TeamNameVerbatim(t *testing.T) {
	m := New()
	name := "  Les Canadiens 🏒 "
	if err := m.SetField("teamName", name); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TeamName() != name {
		t.Fatalf("TeamName = %q, want %q", m.TeamName(), name)
	}
}

func TestSetField_InvalidUTF8TeamName(t *testing.T) {
	m := New()
	if err := m.SetField("teamName", "Caf\xe9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "Caf\uFFFD"; m.TeamName() != want {
		t.Fatalf("TeamName = %q, want %q", m.TeamName(), want)
	}

	m.Restore(State{"teamName": "Ol\xffers"})
	if want := "Ol\uFFFDers"; m.TeamName() != want {
		t.Fatalf("restored TeamName = %q, want %q", m.TeamName(), want)
	}
}

func TestRecompute_HugeInputsStayFinite(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]any
	}{
		{"large coaching, zero fee", map[string]any{"coachCost": "1e307", "feePercent": "0"}},
		{"overflowing ice product", map[string]any{"iceHours": 1e200, "iceCost": 1e200, "feePercent": 0}},
		{"overflowing fee", map[string]any{"coachCost": 1e308, "feePercent": 500}},
	}
	for _, tt := range tests {
		m := New()
		for name, v := range tt.set {
			if err := m.SetField(name, v); err != nil {
				t.Fatalf("%s: SetField(%s): %v", tt.name, name, err)
			}
		}

		figures := map[string]float64{
			"subtotal":    m.Subtotal(),
			"fees":        m.Fees(),
			"total":       m.Total(),
			"perPlayer":   m.PerPlayer(),
			"iceTotal":    m.IceTotal(),
			"percentFee":  m.PercentFee(),
			"jerseyTotal": m.JerseyTotal(),
		}
		for label, v := range figures {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%s: %s = %v, want finite", tt.name, label, v)
			}
		}
		if m.Total() < m.Subtotal() {
			t.Fatalf("%s: total %v below subtotal %v", tt.name, m.Total(), m.Subtotal())
		}
	}
}

func TestNumPlayers_HugeRosterStaysPositive(t *testing.T) {
	m := New()
	m.Restore(State{"numPlayers": 1e300})

	if got := m.NumPlayers(); got != math.MaxInt32 {
		t.Fatalf("NumPlayers = %d, want %d", got, math.MaxInt32)
	}
	if got := m.JerseyQuantity(); got != math.MaxInt32 {
		t.Fatalf("JerseyQuantity = %d, want %d", got, math.MaxInt32)
	}
}

func TestDecrement_SaturatesAtMin(t *testing.T) {
	m := New()
	if err := m.Decrement(FieldNumPlayers); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.NumPlayers() != 1 {
		t.Fatalf("NumPlayers = %d, want 1", m.NumPlayers())
	}

	_ = m.Set(FieldFixedFee, 0.5)
	_ = m.Decrement(FieldFixedFee)
	if m.Value(FieldFixedFee) != 0 {
		t.Fatalf("FixedFee = %v, want 0", m.Value(FieldFixedFee))
	}
}

func TestIncrement_AddsStep(t *testing.T) {
	m := New()
	_ = m.Increment(FieldIceHours)
	if m.Value(FieldIceHours) != 51 {
		t.Fatalf("IceHours = %v, want 51", m.Value(FieldIceHours))
	}
	if m.Subtotal() != 18388 {
		t.Fatalf("Subtotal = %v, want 18388", m.Subtotal())
	}
	if err := m.Increment(FieldTeamName); !errors.Is(err, ErrInvalidField) {
		t.Fatalf("Increment(TeamName) error = %v, want ErrInvalidField", err)
	}
}

func TestReset_RestoresDefaults(t *testing.T) {
	m := New()
	_ = m.SetField("teamName", "Wolves")
	_ = m.SetField("numPlayers", 20)
	_ = m.SetField("fixedFee", 15)
	m.Reset()

	fresh := New()
	if m.TeamName() != "" || m.NumPlayers() != 1 || m.Total() != fresh.Total() {
		t.Fatalf("Reset left name=%q players=%d total=%v", m.TeamName(), m.NumPlayers(), m.Total())
	}
}

func TestSnapshot_ExcludesDerived(t *testing.T) {
	s := New().Snapshot()
	for _, k := range []string{"subtotal", "total", "jerseyQuantity"} {
		if _, ok := s[k]; ok {
			t.Errorf("snapshot contains derived field %q", k)
		}
	}
	if len(s) != 8 {
		t.Errorf("snapshot has %d keys, want 8", len(s))
	}
}

func TestRestore_Partial(t *testing.T) {
	m := New()
	m.Restore(State{"numPlayers": 10.0, "unknown": "x"})

	if m.NumPlayers() != 10 || m.JerseyQuantity() != 10 {
		t.Fatalf("players = %d, jerseys = %d, want 10/10", m.NumPlayers(), m.JerseyQuantity())
	}
	if m.Value(FieldIceHours) != DefaultIceHours {
		t.Fatalf("IceHours = %v, want default", m.Value(FieldIceHours))
	}
	// 15000 + 3000 + 880 = 18880; fees 377.6 + 0.99
	if m.Subtotal() != 18880 {
		t.Fatalf("Subtotal = %v, want 18880", m.Subtotal())
	}
	if m.Total() != 19258.59 {
		t.Fatalf("Total = %v, want 19258.59", m.Total())
	}
}

func TestRestore_CorruptValues(t *testing.T) {
	m := New()
	m.Restore(State{
		"feePercent": "abc",
		"numPlayers": -4,
		"iceHours":   math.NaN(),
		"iceCost":    map[string]any{"nested": true},
		"coachCost":  nil,
		"teamName":   42,
	})

	if m.FeePercent() != 0 {
		t.Errorf("FeePercent = %v, want 0", m.FeePercent())
	}
	if m.NumPlayers() != 1 {
		t.Errorf("NumPlayers = %d, want 1", m.NumPlayers())
	}
	if m.Value(FieldIceHours) != 0 || m.Value(FieldIceCost) != 0 || m.Value(FieldCoachCost) != 0 {
		t.Errorf("ice/coach not reset to min: %v %v %v",
			m.Value(FieldIceHours), m.Value(FieldIceCost), m.Value(FieldCoachCost))
	}
	if m.TeamName() != "" {
		t.Errorf("TeamName = %q, want unchanged empty", m.TeamName())
	}
	for name, v := range map[string]float64{"subtotal": m.Subtotal(), "total": m.Total(), "perPlayer": m.PerPlayer()} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s = %v, want finite", name, v)
		}
	}
}

func TestRestore_SnapshotRoundTrip(t *testing.T) {
	m := New()
	_ = m.SetField("teamName", "Otters")
	_ = m.SetField("iceHours", 42.5)
	_ = m.SetField("jerseyCost", 61.25)
	_ = m.SetField("numPlayers", 18)

	other := New()
	other.Restore(m.Snapshot())
	if other.Total() != m.Total() || other.TeamName() != m.TeamName() || other.NumPlayers() != 18 {
		t.Fatalf("restore mismatch: total %v vs %v", other.Total(), m.Total())
	}
}

func TestPerPlayer_ZeroModel(t *testing.T) {
	var m Model
	if got := m.PerPlayer(); got != 0 || math.IsNaN(got) {
		t.Fatalf("PerPlayer on zero model = %v, want 0", got)
	}
}

func TestInput_JerseyQuantityDisabled(t *testing.T) {
	m := New()
	_ = m.Set(FieldNumPlayers, 6)

	in := m.Input(FieldJerseyQuantity)
	if !in.Disabled {
		t.Fatal("jersey quantity input is editable")
	}
	if in.Value != 6 {
		t.Fatalf("jersey input value = %v, want 6", in.Value)
	}

	players := m.Input(FieldNumPlayers)
	if players.Disabled || players.Min != 1 || players.Step != 1 {
		t.Fatalf("players input = %+v", players)
	}
}
