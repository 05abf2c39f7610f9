package clipboard

import (
	atotto "github.com/atotto/clipboard"

	"edroute/internal/log"
)

// Writer copies text to the system clipboard. A missing clipboard backend
// (headless session, no xclip/xsel) is logged and reported through the
// return value, never treated as fatal: the route keeps advancing with or
// without a clipboard.
type Writer struct {
	copyFn func(string) error
}

func NewWriter() *Writer {
	return &Writer{copyFn: atotto.WriteAll}
}

// NewWriterFunc creates a writer with a custom copy function. Used by
// tests and by anything that wants to observe copies.
func NewWriterFunc(copyFn func(string) error) *Writer {
	return &Writer{copyFn: copyFn}
}

// Copy puts text on the clipboard. Returns false when the clipboard is
// unavailable.
func (w *Writer) Copy(text string) bool {
	if err := w.copyFn(text); err != nil {
		log.Warn("Clipboard unavailable", "error", err)
		return false
	}
	log.Debug("Copied to clipboard", "text", text)
	return true
}
