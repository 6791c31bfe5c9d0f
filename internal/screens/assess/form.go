package assess

import (
	"fmt"
	"math"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/aquasafe/internal/sample"
	"github.com/abhisek/aquasafe/internal/ui/components"
	"github.com/abhisek/aquasafe/internal/units"
)

// form holds the five inputs. Conductivity and TDS are kept linked through
// a units.Pair: editing either one rewrites the other on every keystroke.
type form struct {
	inputs  []components.TextInput
	focus   int
	pair    *units.Pair
	errText string
}

func newForm() *form {
	f := &form{pair: units.NewPair()}
	def := sample.Default()
	for _, field := range sample.FeatureNames {
		ti := components.NewTextInput(formatValue(def.Value(field)), true, 10)
		ti.SetValue(formatValue(def.Value(field)))
		f.inputs = append(f.inputs, ti)
	}
	f.inputs[0].Focus()
	return f
}

// formatValue renders a value for an input, trimmed to two decimals.
func formatValue(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func indexOf(field sample.Field) int {
	for i, f := range sample.FeatureNames {
		if f == field {
			return i
		}
	}
	return -1
}

func (f *form) focused() sample.Field {
	return sample.FeatureNames[f.focus]
}

func (f *form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	return f.inputs[f.focus].Focus()
}

// update forwards msg to the focused input and relinks the pair.
func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	f.relink()
	return cmd
}

// relink propagates an edit of conductivity or TDS to the other field.
// Unparseable text, such as an empty field mid-edit, leaves both alone.
func (f *form) relink() {
	field := f.focused()
	if field != sample.FieldConductivity && field != sample.FieldTDS {
		return
	}
	v, err := f.inputs[f.focus].FloatValue()
	if err != nil {
		return
	}

	if field == sample.FieldConductivity {
		f.pair.SetConductivity(v)
		f.inputs[indexOf(sample.FieldTDS)].SetValue(formatValue(f.pair.TDS()))
	} else {
		f.pair.SetTDS(v)
		f.inputs[indexOf(sample.FieldConductivity)].SetValue(formatValue(f.pair.Conductivity()))
	}
}

// set replaces one field's value, relinking when it is half of the pair.
func (f *form) set(field sample.Field, v float64) {
	i := indexOf(field)
	f.inputs[i].SetValue(formatValue(v))
	switch field {
	case sample.FieldConductivity:
		f.pair.SetConductivity(v)
		f.inputs[indexOf(sample.FieldTDS)].SetValue(formatValue(f.pair.TDS()))
	case sample.FieldTDS:
		f.pair.SetTDS(v)
		f.inputs[indexOf(sample.FieldConductivity)].SetValue(formatValue(f.pair.Conductivity()))
	}
}

// sample assembles the sample, checking every field against the form
// bounds. Conductivity and TDS are taken from the pair so they stay exact.
func (f *form) sample() (sample.Sample, bool) {
	var s sample.Sample
	f.errText = ""
	ok := true

	for i, field := range sample.FeatureNames {
		spec := sample.Spec(field)
		v, err := f.inputs[i].FloatValue()
		switch field {
		case sample.FieldConductivity:
			v = f.pair.Conductivity()
		case sample.FieldTDS:
			v = f.pair.TDS()
		}

		bad := err != nil || v < spec.Min || v > spec.InputMax
		f.inputs[i].MarkInvalid(bad)
		if bad {
			if ok {
				f.errText = fmt.Sprintf("%s must be between %s and %s",
					spec.DisplayLabel(), formatValue(spec.Min), formatValue(spec.InputMax))
			}
			ok = false
			continue
		}

		switch field {
		case sample.FieldPH:
			s.PH = v
		case sample.FieldTurbidity:
			s.Turbidity = v
		case sample.FieldConductivity:
			s.Conductivity = v
		case sample.FieldDissolvedOxygen:
			s.DissolvedOxygen = v
		case sample.FieldTDS:
			s.TDS = v
		}
	}
	return s, ok
}
