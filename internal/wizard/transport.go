package wizard

import (
	"context"
	"errors"
)

// Transport outcome sentinels. Edit and delete failures of these
// classes are recoverable: the tracker resends or ignores as the
// lifecycle contract requires.
var (
	// ErrMessageNotFound reports that the target message no longer
	// exists or cannot be edited.
	ErrMessageNotFound = errors.New("message not found")
	// ErrNotModified reports an edit whose content matched the
	// current message.
	ErrNotModified = errors.New("message not modified")
	// ErrMessageGone reports a delete whose target was already gone.
	ErrMessageGone = errors.New("message already gone")
)

// Button is one inline keyboard button: visible label plus the payload
// delivered back as a button event.
type Button struct {
	Text string
	Data string
}

// Row builds a single keyboard row.
func Row(buttons ...Button) []Button { return buttons }

// Transport delivers prompts to the user. Implementations wrap the chat
// platform client; the engine only sends, edits and deletes.
type Transport interface {
	Send(ctx context.Context, chat int64, text string, keyboard [][]Button) (int, error)
	Edit(ctx context.Context, chat int64, messageID int, text string, keyboard [][]Button) error
	Delete(ctx context.Context, chat int64, messageID int) error
}

// EventKind tags an inbound event as free text or a button press.
type EventKind string

const (
	EventText   EventKind = "text"
	EventButton EventKind = "button"
)

// Event is one inbound user action routed into the engine.
type Event struct {
	UserID    int64
	ChatID    int64
	Kind      EventKind
	Payload   string
	MessageID int
}
