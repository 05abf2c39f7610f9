package components

import (
	"fmt"

	"github.com/rivo/tview"

	"edroute/internal/api"
	"edroute/internal/theme"
)

// RouteListComponent shows the route as a table: visited systems dimmed,
// the current target highlighted, notes alongside.
type RouteListComponent struct {
	table *tview.Table
}

// NewRouteListComponent creates the route table
func NewRouteListComponent() *RouteListComponent {
	panelColors := theme.Current().Panel

	table := tview.NewTable().
		SetSelectable(false, false).
		SetFixed(1, 0)
	table.SetBorder(true).
		SetTitle(" Route ").
		SetTitleColor(panelColors.Title).
		SetBorderColor(panelColors.Border).
		SetBackgroundColor(panelColors.Background)

	rl := &RouteListComponent{table: table}
	rl.SetRoute(api.RouteInfo{})
	return rl
}

// GetView returns the table primitive
func (rl *RouteListComponent) GetView() *tview.Table {
	return rl.table
}

// SetRoute replaces the displayed route
func (rl *RouteListComponent) SetRoute(info api.RouteInfo) {
	panelColors := theme.Current().Panel

	rl.table.Clear()
	rl.table.SetCell(0, 0, tview.NewTableCell("#").
		SetTextColor(panelColors.Title).SetSelectable(false))
	rl.table.SetCell(0, 1, tview.NewTableCell("System").
		SetTextColor(panelColors.Title).SetExpansion(1).SetSelectable(false))
	rl.table.SetCell(0, 2, tview.NewTableCell("Notes").
		SetTextColor(panelColors.Title).SetExpansion(2).SetSelectable(false))

	if len(info.Entries) == 0 {
		rl.table.SetCell(1, 1, tview.NewTableCell("no route loaded").
			SetTextColor(panelColors.VisitedFg))
		return
	}

	for i, entry := range info.Entries {
		row := i + 1

		numberCell := tview.NewTableCell(fmt.Sprintf("%d", i+1))
		systemCell := tview.NewTableCell(entry.System)
		noteCell := tview.NewTableCell(entry.Note).SetTextColor(panelColors.NoteFg)

		switch {
		case entry.Visited:
			numberCell.SetTextColor(panelColors.VisitedFg)
			systemCell.SetTextColor(panelColors.VisitedFg)
			noteCell.SetTextColor(panelColors.VisitedFg)
		case i == info.Position:
			numberCell.SetTextColor(panelColors.TargetFg).SetBackgroundColor(panelColors.TargetBg)
			systemCell.SetTextColor(panelColors.TargetFg).SetBackgroundColor(panelColors.TargetBg)
		default:
			systemCell.SetTextColor(panelColors.Foreground)
		}

		rl.table.SetCell(row, 0, numberCell)
		rl.table.SetCell(row, 1, systemCell)
		rl.table.SetCell(row, 2, noteCell)
	}

	// Keep the current target in view on long routes
	if info.Position < len(info.Entries) {
		rl.table.SetOffset(info.Position, 0)
	}
}
