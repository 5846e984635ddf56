package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"aoewatch/internal/status"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func TestTelegramNotifyCombinedMessage(t *testing.T) {
	fake := &fakeSender{}
	tg := &Telegram{bot: fake, chatID: 42}
	m1, m2 := "m1", "m2"
	events := []Event{
		{Change: status.Change{Player: "p1", Kind: status.ChangeUpdated, New: &status.Record{Status: status.StatusInMatch, MatchID: &m1}}},
		{Change: status.Change{Player: "p2", Kind: status.ChangeUpdated, New: &status.Record{Status: status.StatusFinished, MatchID: &m2}}},
	}
	if err := tg.Notify(context.Background(), events); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(fake.sent) != 1 {
		t.Fatalf("expected exactly one message, got %d", len(fake.sent))
	}
	msg, ok := fake.sent[0].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("unexpected chattable type %T", fake.sent[0])
	}
	if msg.ChatID != 42 {
		t.Fatalf("unexpected chat id %d", msg.ChatID)
	}
	if msg.ParseMode != tgbotapi.ModeMarkdownV2 {
		t.Fatalf("unexpected parse mode %q", msg.ParseMode)
	}
	if !strings.Contains(msg.Text, "*p1*") || !strings.Contains(msg.Text, "*p2*") {
		t.Fatalf("message missing player names: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "\n\n") {
		t.Fatalf("expected blank-line separator: %q", msg.Text)
	}
	// MarkdownV2 requires parentheses in the body to be escaped.
	if !strings.Contains(msg.Text, `\(match m1\)`) {
		t.Fatalf("expected escaped match reference: %q", msg.Text)
	}
}

func TestTelegramNotifyNoEvents(t *testing.T) {
	fake := &fakeSender{}
	tg := &Telegram{bot: fake, chatID: 1}
	if err := tg.Notify(context.Background(), nil); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(fake.sent) != 0 {
		t.Fatalf("expected no message for empty events")
	}
}

func TestTelegramNotifySendError(t *testing.T) {
	fake := &fakeSender{err: errors.New("telegram down")}
	tg := &Telegram{bot: fake, chatID: 1}
	events := []Event{{Change: status.Change{Player: "p1", Kind: status.ChangeAppeared, New: &status.Record{Status: status.StatusNoMatches}}}}
	if err := tg.Notify(context.Background(), events); err == nil {
		t.Fatalf("expected delivery error")
	}
}

func TestTelegramNotifyChannelDestination(t *testing.T) {
	fake := &fakeSender{}
	tg := &Telegram{bot: fake, channel: "@aoewatch"}
	events := []Event{{Change: status.Change{Player: "p1", Kind: status.ChangeAppeared, New: &status.Record{Status: status.StatusNoMatches}}}}
	if err := tg.Notify(context.Background(), events); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	msg := fake.sent[0].(tgbotapi.MessageConfig)
	if msg.ChannelUsername != "@aoewatch" {
		t.Fatalf("unexpected channel %q", msg.ChannelUsername)
	}
}
