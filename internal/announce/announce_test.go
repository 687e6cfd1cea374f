package announce

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

type fakeSender struct {
	sent  []tgbotapi.MessageConfig
	err   error
	fails int
	calls int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.calls++
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	if f.calls <= f.fails {
		return tgbotapi.Message{}, errors.New("flaky")
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func TestAnnounceLeader(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	a := NewWithSender(sender, 42)
	if err := a.AnnounceLeader(context.Background(), "doc_killer", 9000, "🇰🇷"); err != nil {
		t.Fatal(err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected one message got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.ChatID != 42 || msg.ParseMode != tgbotapi.ModeMarkdown {
		t.Errorf("unexpected message config %+v", msg)
	}
	if !strings.Contains(msg.Text, `doc\_killer`) || !strings.Contains(msg.Text, "9000") {
		t.Errorf("unexpected text %q", msg.Text)
	}
}

func TestAnnounceLeaderErrors(t *testing.T) {
	t.Parallel()

	a := NewWithSender(&fakeSender{err: errors.New("boom")}, 1)
	if err := a.AnnounceLeader(context.Background(), "p", 1, ""); err == nil {
		t.Fatal("expected send error")
	}
}

func TestAnnounceLeaderRetries(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{fails: 2}
	a := NewWithSender(sender, 1)
	a.retries, a.backoff = 2, time.Millisecond
	if err := a.AnnounceLeader(context.Background(), "p", 1, ""); err != nil {
		t.Fatalf("expected success after retries got %v", err)
	}
	if sender.calls != 3 || len(sender.sent) != 1 {
		t.Errorf("expected 3 calls and 1 message got %d and %d", sender.calls, len(sender.sent))
	}

	sender = &fakeSender{err: errors.New("down")}
	a = NewWithSender(sender, 1)
	a.retries, a.backoff = 1, time.Millisecond
	if err := a.AnnounceLeader(context.Background(), "p", 1, ""); err == nil {
		t.Fatal("expected error once retries run out")
	}
	if sender.calls != 2 {
		t.Errorf("expected 2 calls got %d", sender.calls)
	}
}

func TestDisabled(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if a.Enabled() {
		t.Fatal("expected disabled announcer")
	}
	if err := a.AnnounceLeader(context.Background(), "p", 1, ""); err != nil {
		t.Errorf("disabled announcer must not fail: %v", err)
	}
}
