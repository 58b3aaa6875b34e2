package line

import (
	"errors"
	"net/http"
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// ErrInvalidSignature is returned for webhook requests that were not signed
// with the channel secret.
var ErrInvalidSignature = webhook.ErrInvalidSignature

// EventKind is the kind of inbound chat event that intake cares about.
type EventKind string

const (
	EventText  EventKind = "text"
	EventImage EventKind = "image"
)

// Event is a user message relevant to complaint intake.
type Event struct {
	ID         string
	Kind       EventKind
	UserID     string
	MessageID  string
	Text       string
	ReceivedAt time.Time
}

// ParseWebhook verifies the request signature and extracts the text and
// image messages users sent to the bot in one-to-one chats. Group chatter
// and other events are dropped.
func ParseWebhook(channelSecret string, r *http.Request) ([]Event, error) {
	cb, err := webhook.ParseRequest(channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			return nil, ErrInvalidSignature
		}
		return nil, err
	}

	events := make([]Event, 0, len(cb.Events))
	for _, raw := range cb.Events {
		e, ok := raw.(webhook.MessageEvent)
		if !ok {
			continue
		}
		src, ok := e.Source.(webhook.UserSource)
		if !ok || src.UserId == "" {
			continue
		}

		ev := Event{
			ID:         e.WebhookEventId,
			UserID:     src.UserId,
			ReceivedAt: time.UnixMilli(e.Timestamp),
		}

		switch m := e.Message.(type) {
		case webhook.TextMessageContent:
			ev.Kind, ev.MessageID, ev.Text = EventText, m.Id, m.Text
		case webhook.ImageMessageContent:
			ev.Kind, ev.MessageID = EventImage, m.Id
		default:
			continue
		}
		if ev.ID == "" {
			ev.ID = ev.MessageID
		}
		events = append(events, ev)
	}
	return events, nil
}
