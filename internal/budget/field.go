package budget

import (
	"errors"
	"fmt"
)

// ErrInvalidField is returned for names outside the editable field set.
var ErrInvalidField = errors.New("invalid field")

// Field identifies one BudgetModel input.
type Field int

// Fields in display order.
const (
	FieldTeamName Field = iota
	FieldIceHours
	FieldIceCost
	FieldCoachCost
	FieldNumPlayers
	FieldJerseyQuantity // read-only, mirrors FieldNumPlayers
	FieldJerseyCost
	FieldFeePercent
	FieldFixedFee
	fieldCount // sentinel
)

var fieldNames = [fieldCount]string{
	FieldTeamName:       "teamName",
	FieldIceHours:       "iceHours",
	FieldIceCost:        "iceCost",
	FieldCoachCost:      "coachCost",
	FieldNumPlayers:     "numPlayers",
	FieldJerseyQuantity: "jerseyQuantity",
	FieldJerseyCost:     "jerseyCost",
	FieldFeePercent:     "feePercent",
	FieldFixedFee:       "fixedFee",
}

var fieldLabels = [fieldCount]string{
	FieldTeamName:       "Team Name",
	FieldIceHours:       "Ice Hours",
	FieldIceCost:        "Ice Cost ($/hour)",
	FieldCoachCost:      "Coach Cost ($)",
	FieldNumPlayers:     "Number of Players",
	FieldJerseyQuantity: "Jersey Quantity",
	FieldJerseyCost:     "Jersey Cost ($/jersey)",
	FieldFeePercent:     "Transaction Fee (%)",
	FieldFixedFee:       "Fixed Fee ($)",
}

var fieldBounds = [fieldCount]Bounds{
	FieldIceHours:       {Min: 0, Step: 1},
	FieldIceCost:        {Min: 0, Step: 1},
	FieldCoachCost:      {Min: 0, Step: 1},
	FieldNumPlayers:     {Min: 1, Step: 1, Integer: true},
	FieldJerseyQuantity: {Min: 1, Step: 1, Integer: true},
	FieldJerseyCost:     {Min: 0, Step: 1},
	FieldFeePercent:     {Min: 0, Step: 1},
	FieldFixedFee:       {Min: 0, Step: 1},
}

// Fields lists every field in display order.
func Fields() []Field {
	out := make([]Field, 0, fieldCount)
	for f := Field(0); f < fieldCount; f++ {
		out = append(out, f)
	}
	return out
}

// PersistedFields lists the fields carried by a State, in display order.
func PersistedFields() []Field {
	var out []Field
	for _, f := range Fields() {
		if f != FieldJerseyQuantity {
			out = append(out, f)
		}
	}
	return out
}

// ParseField resolves a field name. Read-only and unknown names fail.
func ParseField(name string) (Field, error) {
	for f := Field(0); f < fieldCount; f++ {
		if fieldNames[f] == name && f.Editable() {
			return f, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidField, name)
}

func (f Field) valid() bool { return f >= 0 && f < fieldCount }

// String returns the persisted name of the field.
func (f Field) String() string {
	if !f.valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldNames[f]
}

// Label returns the human-facing label.
func (f Field) Label() string {
	if !f.valid() {
		return f.String()
	}
	return fieldLabels[f]
}

// Numeric reports whether the field goes through BoundedNumber.
func (f Field) Numeric() bool { return f.valid() && f != FieldTeamName }

// Editable reports whether callers may set the field.
func (f Field) Editable() bool { return f.valid() && f != FieldJerseyQuantity }

// Bounds returns the validation rule of a numeric field.
func (f Field) Bounds() Bounds {
	if !f.Numeric() {
		return Bounds{}
	}
	return fieldBounds[f]
}
