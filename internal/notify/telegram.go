package notify

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender abstracts the Telegram bot API for testing.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers all changes of a run as one combined MarkdownV2
// message to a single chat. The destination may be a numeric chat ID or
// an @channel username.
type Telegram struct {
	bot      sender
	chatID   int64
	channel  string
	location *time.Location
}

// NewTelegram creates a Telegram notifier. The timeout bounds every
// delivery attempt; the bot API offers no per-call context, so the bound
// lives on the HTTP client.
func NewTelegram(token, chat string, timeout time.Duration, loc *time.Location) (*Telegram, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	if chat == "" {
		return nil, fmt.Errorf("telegram chat id is empty")
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	t := &Telegram{bot: bot, location: loc}
	if strings.HasPrefix(chat, "@") {
		t.channel = chat
		return t, nil
	}
	id, err := strconv.ParseInt(chat, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse telegram chat id %q: %w", chat, err)
	}
	t.chatID = id
	return t, nil
}

// Notify implements Notifier.
func (t *Telegram) Notify(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	lines := make([]string, 0, len(events))
	for _, e := range events {
		lines = append(lines, markdownLine(e, t.location))
	}
	text := strings.Join(lines, "\n\n")

	var msg tgbotapi.MessageConfig
	if t.channel != "" {
		msg = tgbotapi.NewMessageToChannel(t.channel, text)
	} else {
		msg = tgbotapi.NewMessage(t.chatID, text)
	}
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

// markdownLine renders one event with the player name in bold, escaped
// for MarkdownV2.
func markdownLine(e Event, loc *time.Location) string {
	name, body := Describe(e, loc)
	return fmt.Sprintf("*%s* %s",
		tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, name),
		tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, body))
}
