package components

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"edroute/internal/api"
	"edroute/internal/theme"
)

// TargetPanelComponent shows the next system to fly to, with progress and
// remaining distance. This is the panel the player actually watches.
type TargetPanelComponent struct {
	view *tview.TextView
}

// NewTargetPanelComponent creates the next-target panel
func NewTargetPanelComponent() *TargetPanelComponent {
	panelColors := theme.Current().Panel

	view := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft).
		SetWrap(true)
	view.SetBorder(true).
		SetTitle(" Next system ").
		SetTitleColor(panelColors.Title).
		SetBorderColor(panelColors.Border).
		SetBackgroundColor(panelColors.Background)

	tp := &TargetPanelComponent{view: view}
	tp.ShowIdle()
	return tp
}

// GetView returns the panel primitive
func (tp *TargetPanelComponent) GetView() *tview.TextView {
	return tp.view
}

// ShowIdle clears the panel
func (tp *TargetPanelComponent) ShowIdle() {
	tp.view.SetText("\n [gray]No route loaded.\n\n Press [yellow]L[gray] to load a CSV\n or [yellow]F[gray] to fetch stale systems.")
}

// ShowTarget renders the current target
func (tp *TargetPanelComponent) ShowTarget(target api.TargetInfo) {
	var text strings.Builder

	fmt.Fprintf(&text, "\n [white::b]%s[-:-:-]\n", tview.Escape(target.System))
	if target.Note != "" {
		fmt.Fprintf(&text, " [darkcyan]%s[-]\n", tview.Escape(target.Note))
	}
	fmt.Fprintf(&text, "\n Progress: %d/%d", target.Position, target.Total)
	if target.HasRemainingLy {
		fmt.Fprintf(&text, "\n Remaining: %.2f Ly", target.RemainingLy)
	}
	if target.Copied {
		text.WriteString("\n\n [green]Copied to clipboard[-]")
	} else {
		text.WriteString("\n\n [red]Clipboard unavailable[-]")
	}

	tp.view.SetText(text.String())
}

// ShowComplete renders the end-of-route state
func (tp *TargetPanelComponent) ShowComplete() {
	tp.view.SetText("\n [green::b]Route complete[-:-:-]\n\n All systems visited.")
}
