// Package notify composes lifecycle notifications and delivers them to the
// staff group and the reporter.
//
// Composition produces platform-agnostic messages (Text, Image and Card);
// each chat platform adapter renders them in its own format behind the
// Pusher interface.
package notify

import "context"

// Message is one of Text, Image or Card.
type Message interface {
	isMessage()
}

// Text is a plain text message.
type Text struct {
	Text string
}

// Image is a photo referenced by its public URL.
type Image struct {
	URL        string
	PreviewURL string
}

// Field is a labelled row of a card. When Link is set the value is rendered
// as a hyperlink to it.
type Field struct {
	Label string
	Value string
	Link  string
}

// Action is a button linking to URL.
type Action struct {
	Label   string
	URL     string
	Primary bool
}

// Card is a structured message with a title, labelled fields and buttons.
// AltText is shown by clients that cannot render the card.
type Card struct {
	Title    string
	AltText  string
	Fields   []Field
	Footnote string
	Actions  []Action
}

func (Text) isMessage()  {}
func (Image) isMessage() {}
func (Card) isMessage()  {}

// Notification is the composed output for one lifecycle event.
type Notification struct {
	Group      []Message
	Reporter   []Message
	ReporterID string
}

// HasReporter reports whether the reporter should be notified.
func (n Notification) HasReporter() bool {
	return n.ReporterID != "" && len(n.Reporter) > 0
}

// Pusher delivers an ordered message sequence to one chat recipient.
type Pusher interface {
	Push(ctx context.Context, to string, msgs []Message) error
}
