package components

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"edroute/internal/theme"
)

// MenuComponent is the one-line key-hint bar at the top of the screen
type MenuComponent struct {
	view *tview.TextView
}

type menuEntry struct {
	key   string
	label string
}

var menuEntries = []menuEntry{
	{"L", "Load CSV"},
	{"F", "Fetch stale"},
	{"S", "Skip"},
	{"C", "Clear"},
	{"O", "Settings"},
	{"Q", "Quit"},
}

// NewMenuComponent creates the menu bar
func NewMenuComponent() *MenuComponent {
	menuColors := theme.Current().Menu

	view := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft).
		SetWrap(false)
	view.SetBackgroundColor(menuColors.Background)

	var text strings.Builder
	text.WriteString(" ")
	for i, entry := range menuEntries {
		if i > 0 {
			text.WriteString("  ")
		}
		fmt.Fprintf(&text, "[yellow]%s[white] %s", entry.key, entry.label)
	}
	view.SetText(text.String())

	return &MenuComponent{view: view}
}

// GetView returns the menu bar primitive
func (mc *MenuComponent) GetView() *tview.TextView {
	return mc.view
}
