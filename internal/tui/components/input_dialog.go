package components

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"edroute/internal/theme"
)

// InputDialog is a one-line prompt, used for the CSV path.
type InputDialog struct {
	form *tview.Form
}

// NewInputDialog builds a prompt with an initial value. Enter submits,
// Escape cancels.
func NewInputDialog(title, label, initial string, onSubmit func(string), onCancel func()) *InputDialog {
	dialogColors := theme.Current().Dialog

	value := initial

	form := tview.NewForm().
		AddInputField(label, initial, 50, nil, func(text string) {
			value = text
		})
	form.AddButton("OK", func() { onSubmit(value) })
	form.AddButton("Cancel", onCancel)
	form.SetCancelFunc(onCancel)

	// Enter in the field submits directly
	if field, ok := form.GetFormItem(0).(*tview.InputField); ok {
		field.SetDoneFunc(func(key tcell.Key) {
			if key == tcell.KeyEnter {
				onSubmit(value)
			}
		})
	}

	form.SetBorder(true).
		SetTitle(" " + title + " ").
		SetTitleColor(dialogColors.Foreground).
		SetBorderColor(dialogColors.Border).
		SetBackgroundColor(dialogColors.Background)
	form.SetFieldBackgroundColor(dialogColors.FieldBg).
		SetFieldTextColor(dialogColors.FieldFg).
		SetButtonBackgroundColor(dialogColors.ButtonBg).
		SetButtonTextColor(dialogColors.ButtonFg).
		SetLabelColor(dialogColors.Foreground)

	return &InputDialog{form: form}
}

// GetForm returns the form primitive
func (id *InputDialog) GetForm() *tview.Form {
	return id.form
}
