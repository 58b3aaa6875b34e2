// Package telegram delivers staff group notifications to a Telegram chat and
// answers staff commands sent in that chat.
package telegram

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"complaintdesk/backend/internal/notify"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI used to send messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Pusher renders notifications as Telegram messages. Telegram has no
// multi-message push, so the sequence is sent one message at a time and
// stops at the first failure.
type Pusher struct {
	bot Sender
}

// NewPusher creates a Pusher sending through bot.
func NewPusher(bot Sender) *Pusher {
	return &Pusher{bot: bot}
}

// Push sends msgs to the chat whose numeric id is to.
func (p *Pusher) Push(ctx context.Context, to string, msgs []notify.Message) error {
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", to, err)
	}
	out, err := render(chatID, msgs)
	if err != nil {
		return err
	}
	for i, c := range out {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := p.bot.Send(c); err != nil {
			return fmt.Errorf("telegram send %d/%d failed: %w", i+1, len(out), err)
		}
	}
	return nil
}

func render(chatID int64, msgs []notify.Message) ([]tgbotapi.Chattable, error) {
	out := make([]tgbotapi.Chattable, 0, len(msgs))
	for _, m := range msgs {
		switch v := m.(type) {
		case notify.Text:
			out = append(out, tgbotapi.NewMessage(chatID, v.Text))
		case notify.Image:
			out = append(out, tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(v.URL)))
		case notify.Card:
			msg := tgbotapi.NewMessage(chatID, cardHTML(v))
			msg.ParseMode = tgbotapi.ModeHTML
			if kb, ok := keyboard(v.Actions); ok {
				msg.ReplyMarkup = kb
			}
			out = append(out, msg)
		default:
			return nil, fmt.Errorf("unsupported message type %T", m)
		}
	}
	return out, nil
}

func cardHTML(c notify.Card) string {
	var b strings.Builder
	b.WriteString("<b>" + html.EscapeString(c.Title) + "</b>\n")
	for _, f := range c.Fields {
		b.WriteString("\n<b>" + html.EscapeString(f.Label) + ":</b> ")
		if f.Link != "" {
			b.WriteString(`<a href="` + html.EscapeString(f.Link) + `">` + html.EscapeString(f.Value) + "</a>")
		} else {
			b.WriteString(html.EscapeString(f.Value))
		}
	}
	if c.Footnote != "" {
		b.WriteString("\n\n<i>" + html.EscapeString(c.Footnote) + "</i>")
	}
	return b.String()
}

func keyboard(actions []notify.Action) (tgbotapi.InlineKeyboardMarkup, bool) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, a := range actions {
		if a.URL == "" {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(a.Label, a.URL)))
	}
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
