package widget

import (
	"errors"
	"fmt"

	"github.com/volume-uploader/backend/internal/models"
)

// Texts shown by the form.
const (
	PlaceholderLabel   = "Choose a file or drag it here"
	NoFileMessage      = "Please select a file"
	UploadFailedText   = "Upload failed"
	UploadButtonLabel  = "Upload File"
	UploadingLabel     = "Uploading..."
	defaultSuccessText = "File uploaded successfully"
)

var (
	// ErrNoFileSelected is returned by BeginUpload when nothing is selected.
	ErrNoFileSelected = errors.New(NoFileMessage)
	// ErrUploadInFlight is returned by BeginUpload while an upload runs.
	ErrUploadInFlight = errors.New("upload already in progress")
)

// Mode is the form mode.
type Mode int

const (
	ModeIdle Mode = iota
	ModeUploading
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeUploading:
		return "uploading"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MessageKind selects message styling and dismissal behaviour.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is the single feedback line of the form. ID increases with
// every message shown, so a dismissal scheduled for an older message can
// be recognised and ignored.
type Message struct {
	ID      uint64
	Text    string
	Kind    MessageKind
	Visible bool
}

// State is everything a View needs to draw the form and the file list.
type State struct {
	Mode     Mode
	Selected *File
	Message  Message
	Files    []models.FileRecord
}

// Label is the text of the file input area.
func (s State) Label() string {
	if s.Selected == nil {
		return PlaceholderLabel
	}
	return fmt.Sprintf("%s (%s MB)", s.Selected.Name, FormatMB(s.Selected.Size))
}

// HasFile reports whether the input area holds a file.
func (s State) HasFile() bool { return s.Selected != nil }

// ButtonLabel is the submit button text.
func (s State) ButtonLabel() string {
	if s.Mode == ModeUploading {
		return UploadingLabel
	}
	return UploadButtonLabel
}

// ButtonEnabled reports whether the submit button accepts clicks.
func (s State) ButtonEnabled() bool { return s.Mode == ModeIdle }

// SpinnerVisible reports whether the upload spinner shows.
func (s State) SpinnerVisible() bool { return s.Mode == ModeUploading }

// List returns the rows for the current files.
func (s State) List() ListView { return BuildList(s.Files) }

// SelectFile records f as the selection. A nil f clears it.
func SelectFile(s State, f *File) State {
	if f == nil {
		s.Selected = nil
		return s
	}
	picked := *f
	s.Selected = &picked
	return s
}

// AcceptDrop selects the first dropped file. Extra files are ignored and
// an empty drop changes nothing.
func AcceptDrop(s State, files []File) State {
	if len(files) == 0 {
		return s
	}
	return SelectFile(s, &files[0])
}

// ShowMessage replaces the current message.
func ShowMessage(s State, text string, kind MessageKind) State {
	s.Message = Message{
		ID:      s.Message.ID + 1,
		Text:    text,
		Kind:    kind,
		Visible: true,
	}
	return s
}

// HideMessage hides the current message.
func HideMessage(s State) State {
	s.Message.Visible = false
	return s
}

// ExpireMessage hides the message only if it is still message id.
func ExpireMessage(s State, id uint64) State {
	if s.Message.ID != id {
		return s
	}
	return HideMessage(s)
}

// BeginUpload validates the form and enters ModeUploading. With no file
// selected it returns the state carrying the validation message together
// with ErrNoFileSelected. While uploading it returns s unchanged and
// ErrUploadInFlight.
func BeginUpload(s State) (State, error) {
	if s.Mode == ModeUploading {
		return s, ErrUploadInFlight
	}
	if s.Selected == nil {
		return ShowMessage(s, NoFileMessage, MessageError), ErrNoFileSelected
	}
	s.Mode = ModeUploading
	return HideMessage(s), nil
}

// CompleteUpload applies the outcome of an upload request and reports
// whether the file list should be refreshed. The form always returns to
// ModeIdle.
func CompleteUpload(s State, resp *models.UploadResponse, err error) (State, bool) {
	s.Mode = ModeIdle

	switch {
	case err != nil:
		return ShowMessage(s, UploadFailedText+": "+err.Error(), MessageError), false
	case resp == nil:
		return ShowMessage(s, UploadFailedText, MessageError), false
	case resp.Success:
		text := resp.Message
		if text == "" {
			text = defaultSuccessText
		}
		s = ShowMessage(s, text, MessageSuccess)
		s.Selected = nil
		return s, true
	default:
		text := resp.Error
		if text == "" {
			text = UploadFailedText
		}
		return ShowMessage(s, text, MessageError), false
	}
}

// ApplyList replaces the file list wholesale.
func ApplyList(s State, files []models.FileRecord) State {
	s.Files = files
	return s
}
