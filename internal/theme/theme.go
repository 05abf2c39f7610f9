package theme

import (
	"github.com/gdamore/tcell/v2"
)

// StatusColors defines the color scheme for the status bar
type StatusColors struct {
	Background tcell.Color
	Foreground tcell.Color
	ErrorFg    tcell.Color
	SuccessFg  tcell.Color
}

// PanelColors defines the color scheme for the route and target panels
type PanelColors struct {
	Background tcell.Color
	Foreground tcell.Color
	Border     tcell.Color
	Title      tcell.Color
	VisitedFg  tcell.Color
	TargetFg   tcell.Color
	TargetBg   tcell.Color
	NoteFg     tcell.Color
}

// DialogColors defines the color scheme for dialogs and modals
type DialogColors struct {
	Background tcell.Color
	Foreground tcell.Color
	Border     tcell.Color
	ButtonBg   tcell.Color
	ButtonFg   tcell.Color
	FieldBg    tcell.Color
	FieldFg    tcell.Color
}

// MenuColors defines the color scheme for the menu bar
type MenuColors struct {
	Background tcell.Color
	Foreground tcell.Color
	KeyFg      tcell.Color
}

// Theme bundles the color schemes used across the UI
type Theme struct {
	Status StatusColors
	Panel  PanelColors
	Dialog DialogColors
	Menu   MenuColors
}

var current = defaultTheme()

// Current returns the active theme
func Current() Theme {
	return current
}

func defaultTheme() Theme {
	return Theme{
		Status: StatusColors{
			Background: tcell.ColorDarkBlue,
			Foreground: tcell.ColorWhite,
			ErrorFg:    tcell.ColorRed,
			SuccessFg:  tcell.ColorGreen,
		},
		Panel: PanelColors{
			Background: tcell.ColorBlack,
			Foreground: tcell.ColorWhite,
			Border:     tcell.ColorGray,
			Title:      tcell.ColorYellow,
			VisitedFg:  tcell.ColorGray,
			TargetFg:   tcell.ColorBlack,
			TargetBg:   tcell.ColorYellow,
			NoteFg:     tcell.ColorDarkCyan,
		},
		Dialog: DialogColors{
			Background: tcell.ColorDarkBlue,
			Foreground: tcell.ColorWhite,
			Border:     tcell.ColorWhite,
			ButtonBg:   tcell.ColorNavy,
			ButtonFg:   tcell.ColorWhite,
			FieldBg:    tcell.ColorNavy,
			FieldFg:    tcell.ColorWhite,
		},
		Menu: MenuColors{
			Background: tcell.ColorDarkBlue,
			Foreground: tcell.ColorWhite,
			KeyFg:      tcell.ColorYellow,
		},
	}
}
