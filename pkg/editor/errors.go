package editor

import "errors"

var (
	ErrBusy             = errors.New("editor: an edit is already in flight")
	ErrEmptyInstruction = errors.New("editor: instruction text is empty")
	ErrClosed           = errors.New("editor: editor is closed")
	ErrNotImage         = errors.New("editor: object has no pixels to adjust")
)
