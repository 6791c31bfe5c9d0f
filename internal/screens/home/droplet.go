package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aquasafe/internal/ui/theme"
)

// DropletVariant selects which droplet art to display.
type DropletVariant int

const (
	DropletIdle   DropletVariant = iota // nothing analyzed yet
	DropletSafe                         // last sample was safe
	DropletUnsafe                       // last sample was unsafe or errored
)

const dropletIdle = `   ╱╲
  ╱  ╲
 │ ·· │
  ╲__╱`

const dropletSafe = `   ╱╲
  ╱  ╲
 │ ◡◡ │
  ╲__╱ ✓`

const dropletUnsafe = `   ╱╲
  ╱  ╲
 │ ×× │ !
  ╲__╱`

// RenderDroplet returns the droplet art for the given variant.
func RenderDroplet(v DropletVariant) string {
	art, fg := dropletIdle, theme.Primary
	switch v {
	case DropletSafe:
		art, fg = dropletSafe, theme.Success
	case DropletUnsafe:
		art, fg = dropletUnsafe, theme.Error
	}
	return lipgloss.NewStyle().Foreground(fg).Render(art)
}

func dropletFor(outcome string) DropletVariant {
	switch outcome {
	case "":
		return DropletIdle
	case "safe":
		return DropletSafe
	default:
		return DropletUnsafe
	}
}
