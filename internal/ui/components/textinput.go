package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquasafe/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with aquasafe styling. With
// DecimalOnly set, only digits and a single decimal point are accepted.
type TextInput struct {
	Model       textinput.Model
	DecimalOnly bool
	MaxWidth    int
	invalid     bool
}

// NewTextInput creates a new styled, unfocused text input.
func NewTextInput(placeholder string, decimalOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""

	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}

	return TextInput{
		Model:       ti,
		DecimalOnly: decimalOnly,
		MaxWidth:    maxWidth,
	}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.DecimalOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			key := kmsg.String()
			if len(key) == 1 && !t.acceptsRune(key[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) acceptsRune(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '.':
		return !strings.Contains(t.Model.Value(), ".")
	}
	return false
}

// View renders the text input, marked when the value failed validation.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.invalid {
		view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return view
}

// Focus focuses the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus from the input.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has focus.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value and clears the invalid mark.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
	t.invalid = false
}

// FloatValue returns the input value as a float64.
func (t TextInput) FloatValue() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(t.Model.Value()), 64)
}

// MarkInvalid flags or clears the input's invalid mark.
func (t *TextInput) MarkInvalid(invalid bool) {
	t.invalid = invalid
}
