package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// SubmitEntry extends the multi-line widget.Entry: Ctrl+Enter submits and
// Escape leaves the field.
type SubmitEntry struct {
	widget.Entry
	onSubmit func()
	onEscape func()
}

// NewSubmitEntry creates a new multi-line entry
func NewSubmitEntry() *SubmitEntry {
	entry := &SubmitEntry{}
	entry.MultiLine = true
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedKey handles key events
func (e *SubmitEntry) TypedKey(key *fyne.KeyEvent) {
	if key.Name == fyne.KeyEscape && e.onEscape != nil {
		e.onEscape()
		return
	}
	e.Entry.TypedKey(key)
}

// TypedShortcut handles Ctrl+Enter and passes everything else to the entry
func (e *SubmitEntry) TypedShortcut(s fyne.Shortcut) {
	if isSubmitShortcut(s) && e.onSubmit != nil {
		e.onSubmit()
		return
	}
	e.Entry.TypedShortcut(s)
}

// SetOnSubmit sets the callback for Ctrl+Enter
func (e *SubmitEntry) SetOnSubmit(f func()) {
	e.onSubmit = f
}

// SetOnEscape sets the callback for when Escape is pressed
func (e *SubmitEntry) SetOnEscape(f func()) {
	e.onEscape = f
}

func isSubmitShortcut(s fyne.Shortcut) bool {
	cs, ok := s.(*desktop.CustomShortcut)
	if !ok {
		return false
	}
	return cs.Modifier == fyne.KeyModifierControl &&
		(cs.KeyName == fyne.KeyReturn || cs.KeyName == fyne.KeyEnter)
}
