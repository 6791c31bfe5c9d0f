package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/aquasafe/internal/ui/theme"
)

// Button is a styled button. Key, when set, is shown after the label and
// also triggers the button.
type Button struct {
	Label   string
	Key     string
	Active  bool
	OnPress func() tea.Cmd
}

// NewButton creates a new button triggered by enter.
func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Key:     "enter",
		Active:  active,
		OnPress: onPress,
	}
}

// Update fires OnPress when the button is active and its key is pressed.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || !b.Active || b.OnPress == nil {
		return b, nil
	}
	if kmsg.String() == b.Key {
		return b, b.OnPress()
	}
	return b, nil
}

// View renders the button. An inactive button is drawn outlined.
func (b Button) View() string {
	label := "▸ " + b.Label
	if b.Key == "enter" {
		label += "  ⏎"
	}
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}
