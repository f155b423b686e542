package hook

import (
	"unicode/utf8"

	"github.com/gen2brain/beeep"
)

const notifyPreviewLimit = 120

// Notify raises a desktop notification when new data arrives. Handy when
// confwatch runs from a user-session timer and a human should know that a
// config they care about just rolled over.
type Notify struct {
	title   string
	message string
}

// NewNotify creates a Notify hook. An empty message falls back to a
// truncated preview of the payload.
func NewNotify(title, message string) *Notify {
	return &Notify{title: title, message: message}
}

func (h *Notify) Name() string { return "notify" }

// Run sends the notification.
func (h *Notify) Run(payload string) error {
	message := h.message
	if message == "" {
		message = preview(payload)
	}
	return beeep.Notify(h.title, message, "")
}

func preview(s string) string {
	if utf8.RuneCountInString(s) <= notifyPreviewLimit {
		return s
	}
	runes := []rune(s)
	return string(runes[:notifyPreviewLimit]) + "…"
}
