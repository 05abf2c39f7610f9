package components

import (
	"fmt"

	"github.com/rivo/tview"

	"edroute/internal/theme"
)

// StatusComponent manages the bottom status bar
type StatusComponent struct {
	wrapper       *tview.TextView
	currentSystem string
	message       string
	isError       bool
}

// NewStatusComponent creates a new status bar component
func NewStatusComponent() *StatusComponent {
	statusColors := theme.Current().Status

	statusBar := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft).
		SetWrap(false)
	statusBar.SetBackgroundColor(statusColors.Background)
	statusBar.SetTextColor(statusColors.Foreground)

	sc := &StatusComponent{wrapper: statusBar}
	sc.update()
	return sc
}

// GetWrapper returns the status bar TextView
func (sc *StatusComponent) GetWrapper() *tview.TextView {
	return sc.wrapper
}

// SetCurrentSystem records the player's location from the journal
func (sc *StatusComponent) SetCurrentSystem(system string) {
	sc.currentSystem = system
	sc.update()
}

// SetMessage shows an informational message
func (sc *StatusComponent) SetMessage(message string) {
	sc.message = message
	sc.isError = false
	sc.update()
}

// SetError shows an error message
func (sc *StatusComponent) SetError(message string) {
	sc.message = message
	sc.isError = true
	sc.update()
}

func (sc *StatusComponent) update() {
	location := "unknown"
	if sc.currentSystem != "" {
		location = sc.currentSystem
	}

	text := fmt.Sprintf(" Location: [yellow]%s[-]", tview.Escape(location))
	if sc.message != "" {
		color := "white"
		if sc.isError {
			color = "red"
		}
		text += fmt.Sprintf(" | [%s]%s[-]", color, tview.Escape(sc.message))
	}
	sc.wrapper.SetText(text)
}
