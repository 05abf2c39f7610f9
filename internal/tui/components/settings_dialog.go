package components

import (
	"strconv"

	"github.com/rivo/tview"

	"edroute/internal/api"
	"edroute/internal/theme"
)

// SettingsDialog edits the persisted user settings.
type SettingsDialog struct {
	form *tview.Form
}

// NewSettingsDialog builds the settings form. onSave receives the edited
// settings; onCancel closes the dialog without applying.
func NewSettingsDialog(settings api.Settings, onSave func(api.Settings), onCancel func()) *SettingsDialog {
	dialogColors := theme.Current().Dialog

	edited := settings

	form := tview.NewForm().
		AddInputField("Faction name", settings.FactionName, 40, nil, func(text string) {
			edited.FactionName = text
		}).
		AddInputField("Minimum age (hours)", strconv.Itoa(settings.MinAgeHours), 6,
			tview.InputFieldInteger, func(text string) {
				if n, err := strconv.Atoi(text); err == nil {
					edited.MinAgeHours = n
				}
			}).
		AddInputField("Max systems (0 = all)", strconv.Itoa(settings.MaxSystems), 6,
			tview.InputFieldInteger, func(text string) {
				if n, err := strconv.Atoi(text); err == nil {
					edited.MaxSystems = n
				}
			}).
		AddInputField("Route CSV path", settings.CSVPath, 40, nil, func(text string) {
			edited.CSVPath = text
		})

	form.AddButton("Save", func() { onSave(edited) })
	form.AddButton("Cancel", onCancel)
	form.SetCancelFunc(onCancel)

	form.SetBorder(true).
		SetTitle(" Settings ").
		SetTitleColor(dialogColors.Foreground).
		SetBorderColor(dialogColors.Border).
		SetBackgroundColor(dialogColors.Background)
	form.SetFieldBackgroundColor(dialogColors.FieldBg).
		SetFieldTextColor(dialogColors.FieldFg).
		SetButtonBackgroundColor(dialogColors.ButtonBg).
		SetButtonTextColor(dialogColors.ButtonFg).
		SetLabelColor(dialogColors.Foreground)

	return &SettingsDialog{form: form}
}

// GetForm returns the form primitive
func (sd *SettingsDialog) GetForm() *tview.Form {
	return sd.form
}
