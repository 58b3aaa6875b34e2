package line

import (
	"encoding/json"

	"complaintdesk/backend/internal/notify"
)

// flexNode covers the bubble components used by notification cards: boxes,
// texts, buttons and separators.
type flexNode struct {
	Type       string     `json:"type"`
	Layout     string     `json:"layout,omitempty"`
	Contents   []flexNode `json:"contents,omitempty"`
	Text       string     `json:"text,omitempty"`
	Size       string     `json:"size,omitempty"`
	Color      string     `json:"color,omitempty"`
	Weight     string     `json:"weight,omitempty"`
	Wrap       bool       `json:"wrap,omitempty"`
	Flex       int        `json:"flex,omitempty"`
	Spacing    string     `json:"spacing,omitempty"`
	Margin     string     `json:"margin,omitempty"`
	Align      string     `json:"align,omitempty"`
	Decoration string     `json:"decoration,omitempty"`
	Style      string     `json:"style,omitempty"`
	Height     string     `json:"height,omitempty"`
	Action     *uriAction `json:"action,omitempty"`
}

type uriAction struct {
	Type   string  `json:"type"`
	Label  string  `json:"label"`
	URI    string  `json:"uri"`
	AltURI *altURI `json:"altUri,omitempty"`
}

type altURI struct {
	Desktop string `json:"desktop"`
}

type flexBubble struct {
	Type   string    `json:"type"`
	Body   flexNode  `json:"body"`
	Footer *flexNode `json:"footer,omitempty"`
}

const (
	labelColor = "#aaaaaa"
	valueColor = "#666666"
	linkColor  = "#155dfc"
)

func newURIAction(label, uri string) *uriAction {
	return &uriAction{Type: "uri", Label: label, URI: uri, AltURI: &altURI{Desktop: uri}}
}

// bubbleJSON renders a card as a flex bubble container.
func bubbleJSON(card notify.Card) ([]byte, error) {
	rows := make([]flexNode, 0, len(card.Fields))
	for _, f := range card.Fields {
		value := flexNode{Type: "text", Text: f.Value, Wrap: true, Color: valueColor, Size: "sm", Flex: 5}
		if f.Link != "" {
			value.Color = linkColor
			value.Decoration = "underline"
			value.Action = newURIAction("action", f.Link)
		}
		rows = append(rows, flexNode{
			Type:    "box",
			Layout:  "baseline",
			Spacing: "sm",
			Contents: []flexNode{
				{Type: "text", Text: f.Label, Color: labelColor, Size: "sm", Flex: 2},
				value,
			},
		})
	}

	body := flexNode{
		Type:   "box",
		Layout: "vertical",
		Contents: []flexNode{
			{Type: "text", Text: card.Title, Weight: "bold", Size: "xl", Wrap: true},
			{Type: "box", Layout: "vertical", Margin: "lg", Spacing: "sm", Contents: rows},
		},
	}
	if card.Footnote != "" {
		body.Contents = append(body.Contents,
			flexNode{Type: "separator", Margin: "md"},
			flexNode{Type: "box", Layout: "vertical", Margin: "md", Contents: []flexNode{
				{Type: "text", Text: card.Footnote, Size: "sm", Color: valueColor, Align: "center", Wrap: true},
			}},
		)
	}

	bubble := flexBubble{Type: "bubble", Body: body}
	if len(card.Actions) > 0 {
		footer := flexNode{Type: "box", Layout: "vertical", Spacing: "sm"}
		for _, a := range card.Actions {
			style := "link"
			if a.Primary {
				style = "primary"
			}
			footer.Contents = append(footer.Contents, flexNode{
				Type:   "button",
				Style:  style,
				Height: "sm",
				Action: &uriAction{Type: "uri", Label: a.Label, URI: a.URL},
			})
		}
		bubble.Footer = &footer
	}
	return json.Marshal(bubble)
}
