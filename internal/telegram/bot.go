package telegram

import (
	"context"
	"strings"

	"complaintdesk/backend/internal/errs"
	"complaintdesk/backend/internal/localization"
	"complaintdesk/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Desk is the complaint operations available to staff from the chat.
type Desk interface {
	Get(ctx context.Context, id string) (*models.Complaint, error)
	Remind(ctx context.Context, id string) (*models.Complaint, error)
}

// Bot answers /status and /remind commands posted in the staff chat.
// Messages from any other chat are ignored.
type Bot struct {
	api    *tgbotapi.BotAPI
	sender Sender
	desk   Desk
	chatID int64
	lang   localization.Lang
	log    logrus.FieldLogger
}

// NewBot creates a command bot for the staff chat chatID.
func NewBot(api *tgbotapi.BotAPI, desk Desk, chatID int64, lang localization.Lang, log logrus.FieldLogger) *Bot {
	return &Bot{api: api, sender: api, desk: desk, chatID: chatID, lang: lang, log: log}
}

// Run long-polls for updates until ctx is done.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.log.WithField("bot", b.api.Self.UserName).Info("telegram command bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handle(ctx, update.Message)
		}
	}
}

func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message) {
	reply := b.reply(ctx, msg)
	if reply == "" {
		return
	}
	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	if _, err := b.sender.Send(out); err != nil {
		b.log.WithError(err).Warn("failed to answer telegram command")
	}
}

// reply returns the answer to a command, or "" when msg needs none.
func (b *Bot) reply(ctx context.Context, msg *tgbotapi.Message) string {
	if msg.Chat.ID != b.chatID || !msg.IsCommand() {
		return ""
	}
	cmd := msg.Command()
	id := strings.TrimSpace(msg.CommandArguments())

	switch cmd {
	case "help", "start":
		return b.lang.T("bot.help")
	case "status", "remind":
	default:
		return ""
	}
	if id == "" {
		return b.lang.F("bot.usage", cmd)
	}

	log := b.log.WithFields(logrus.Fields{"command": cmd, "complaint_id": id})
	var (
		c   *models.Complaint
		err error
	)
	if cmd == "status" {
		c, err = b.desk.Get(ctx, id)
	} else {
		c, err = b.desk.Remind(ctx, id)
	}

	switch {
	case err == nil && cmd == "status":
		return b.lang.F("bot.status", c.ID, b.lang.T("status."+string(c.Status)), c.Description)
	case err == nil:
		return b.lang.F("bot.reminded", c.ShortID())
	case errs.IsNotFound(err):
		return b.lang.F("bot.not_found", id)
	case errs.IsBusinessRule(err):
		return err.Error()
	default:
		log.WithError(err).Error("telegram command failed")
		return b.lang.T("bot.failed")
	}
}
