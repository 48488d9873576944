// Package budget implements the team season budget model: cost inputs,
// derived subtotal/fees/total, and the persisted State shape.
package budget

import (
	"fmt"
	"math"
	"strings"
)

// Documented defaults for a fresh model.
const (
	DefaultIceHours   = 50
	DefaultIceCost    = 300
	DefaultCoachCost  = 3000
	DefaultNumPlayers = 1
	DefaultJerseyCost = 88
	DefaultFeePercent = 2
	DefaultFixedFee   = 0.99
)

// State is the persisted subset of a Model keyed by field name.
// Values may be of any type; Restore coerces them.
type State map[string]any

// InputSpec is what a numeric input widget needs to render one field.
type InputSpec struct {
	Value    float64
	Min      float64
	Step     float64
	Disabled bool
}

// Model holds a team's cost parameters and the figures derived from them.
// The zero value is not ready for use; call New.
type Model struct {
	teamName       string
	iceHours       float64
	iceCost        float64
	coachCost      float64
	numPlayers     float64
	jerseyQuantity float64
	jerseyCost     float64
	feePercent     float64
	fixedFee       float64

	subtotal float64
	fees     float64
	total    float64
}

// New returns a model holding the documented defaults.
func New() *Model {
	m := &Model{}
	m.Reset()
	return m
}

// Reset restores every field to its default and recomputes.
func (m *Model) Reset() {
	*m = Model{
		iceHours:   DefaultIceHours,
		iceCost:    DefaultIceCost,
		coachCost:  DefaultCoachCost,
		numPlayers: DefaultNumPlayers,
		jerseyCost: DefaultJerseyCost,
		feePercent: DefaultFeePercent,
		fixedFee:   DefaultFixedFee,
	}
	m.jerseyQuantity = m.numPlayers
	m.Recompute()
}

// Recompute derives subtotal, fees and total from the current inputs.
func (m *Model) Recompute() {
	m.jerseyQuantity = m.numPlayers
	m.subtotal = saturate(Round2(m.iceHours*m.iceCost + m.coachCost + m.jerseyQuantity*m.jerseyCost))
	m.fees = saturate(Round2(m.subtotal*(m.feePercent/100) + m.fixedFee))
	m.total = saturate(Round2(m.subtotal + m.fees))
}

// Set assigns a raw value to an editable field and recomputes.
// Numeric fields are sanitized; a non-string team name is ignored.
func (m *Model) Set(f Field, raw any) error {
	if !f.Editable() {
		return fmt.Errorf("%w: %s", ErrInvalidField, f)
	}
	if f == FieldTeamName {
		if s, ok := raw.(string); ok {
			m.teamName = cleanName(s)
		}
		return nil
	}
	m.assign(f, f.Bounds().Sanitize(raw))
	m.Recompute()
	return nil
}

// SetField is Set addressed by field name.
func (m *Model) SetField(name string, raw any) error {
	f, err := ParseField(name)
	if err != nil {
		return err
	}
	return m.Set(f, raw)
}

// Increment adds the field's step.
func (m *Model) Increment(f Field) error {
	if !f.Editable() || !f.Numeric() {
		return fmt.Errorf("%w: %s", ErrInvalidField, f)
	}
	m.assign(f, f.Bounds().Increment(m.value(f)))
	m.Recompute()
	return nil
}

// Decrement subtracts the field's step, saturating at the field minimum.
func (m *Model) Decrement(f Field) error {
	if !f.Editable() || !f.Numeric() {
		return fmt.Errorf("%w: %s", ErrInvalidField, f)
	}
	m.assign(f, f.Bounds().Decrement(m.value(f)))
	m.Recompute()
	return nil
}

// Snapshot returns the fields needed to rebuild the model.
func (m *Model) Snapshot() State {
	s := State{FieldTeamName.String(): m.teamName}
	for _, f := range PersistedFields() {
		if f.Numeric() {
			s[f.String()] = m.value(f)
		}
	}
	return s
}

// Restore applies a partial or full State. Unknown keys are ignored,
// missing keys keep their current value, and every numeric value is
// coerced through the field's Bounds.
func (m *Model) Restore(s State) {
	for _, f := range PersistedFields() {
		raw, ok := s[f.String()]
		if !ok {
			continue
		}
		if f == FieldTeamName {
			if name, ok := raw.(string); ok {
				m.teamName = cleanName(name)
			}
			continue
		}
		m.assign(f, f.Bounds().Sanitize(raw))
	}
	m.Recompute()
}

// Input describes a field for a numeric input widget.
func (m *Model) Input(f Field) InputSpec {
	b := f.Bounds()
	return InputSpec{
		Value:    m.value(f),
		Min:      b.Min,
		Step:     b.Step,
		Disabled: !f.Editable(),
	}
}

// Value returns the current numeric value of a field; 0 for the team name.
func (m *Model) Value(f Field) float64 { return m.value(f) }

// TeamName returns the free-form team name.
func (m *Model) TeamName() string { return m.teamName }

// NumPlayers returns the roster size.
func (m *Model) NumPlayers() int { return count(m.numPlayers) }

// JerseyQuantity always equals NumPlayers.
func (m *Model) JerseyQuantity() int { return count(m.jerseyQuantity) }

// FeePercent returns the percentage fee in percentage points.
func (m *Model) FeePercent() float64 { return m.feePercent }

// Subtotal is ice, coaching and jerseys before fees.
func (m *Model) Subtotal() float64 { return m.subtotal }

// Fees is the percentage fee plus the fixed fee.
func (m *Model) Fees() float64 { return m.fees }

// Total is Subtotal plus Fees.
func (m *Model) Total() float64 { return m.total }

// IceTotal is hours times the hourly rate.
func (m *Model) IceTotal() float64 { return saturate(Round2(m.iceHours * m.iceCost)) }

// CoachTotal is the coaching line of the breakdown.
func (m *Model) CoachTotal() float64 { return Round2(m.coachCost) }

// JerseyTotal is quantity times unit cost.
func (m *Model) JerseyTotal() float64 { return saturate(Round2(m.jerseyQuantity * m.jerseyCost)) }

// PercentFee is the percentage part of Fees.
func (m *Model) PercentFee() float64 { return saturate(Round2(m.subtotal * (m.feePercent / 100))) }

// PerPlayer is the total split across the roster. A zero player count
// (the zero Model) divides by one instead.
func (m *Model) PerPlayer() float64 {
	n := m.numPlayers
	if n <= 0 {
		n = 1
	}
	return m.total / n
}

func (m *Model) value(f Field) float64 {
	switch f {
	case FieldIceHours:
		return m.iceHours
	case FieldIceCost:
		return m.iceCost
	case FieldCoachCost:
		return m.coachCost
	case FieldNumPlayers:
		return m.numPlayers
	case FieldJerseyQuantity:
		return m.jerseyQuantity
	case FieldJerseyCost:
		return m.jerseyCost
	case FieldFeePercent:
		return m.feePercent
	case FieldFixedFee:
		return m.fixedFee
	}
	return 0
}

func (m *Model) assign(f Field, v float64) {
	switch f {
	case FieldIceHours:
		m.iceHours = v
	case FieldIceCost:
		m.iceCost = v
	case FieldCoachCost:
		m.coachCost = v
	case FieldNumPlayers:
		m.numPlayers = v
		m.jerseyQuantity = v
	case FieldJerseyCost:
		m.jerseyCost = v
	case FieldFeePercent:
		m.feePercent = v
	case FieldFixedFee:
		m.fixedFee = v
	}
}

// maxCount caps roster-style counts when they are converted to int.
const maxCount = math.MaxInt32

func count(v float64) int {
	if v > maxCount {
		return maxCount
	}
	return int(v)
}

// cleanName replaces invalid UTF-8 so the name survives JSON encoding
// unchanged.
func cleanName(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
