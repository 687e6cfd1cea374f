// Package announce posts leaderboard news to a Telegram chat.
package announce

import (
	"context"
	"fmt"
	"time"

	"github.com/docbreaker-games/docbreaker/internal/logging"
	"github.com/docbreaker-games/docbreaker/internal/strpool"
	"github.com/docbreaker-games/docbreaker/internal/util"
	"github.com/enescakir/emoji"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
)

type Config struct {
	// Telegram bot token; announcements are disabled when empty
	BotToken string `envconfig:"DOCBREAKER_TG_BOT_TOKEN"`
	ChatID   int64  `envconfig:"DOCBREAKER_TG_CHAT_ID"`
	Debug    bool   `envconfig:"DOCBREAKER_TG_DEBUG" default:"false"`

	// Extra send attempts after a failure, Backoff apart
	Retries int           `envconfig:"DOCBREAKER_TG_RETRIES" default:"2"`
	Backoff time.Duration `envconfig:"DOCBREAKER_TG_BACKOFF" default:"2s"`
}

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// New connects to Telegram, or returns a no-op announcer without a token.
func New(ctx context.Context, config Config) (*Telegram, error) {
	logger := logging.FromContext(ctx).Named("announce.New")
	if config.BotToken == "" {
		logger.Infof("telegram token not set, announcements disabled")
		return &Telegram{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("bot api: %w", err)
	}
	bot.Debug = config.Debug
	logger.Infof("authorized in telegram as %s", bot.Self.UserName)

	t := NewWithSender(bot, config.ChatID)
	t.retries, t.backoff = config.Retries, config.Backoff
	return t, nil
}

func NewWithSender(sender Sender, chatID int64) *Telegram {
	return &Telegram{sender: sender, chatID: chatID}
}

type Telegram struct {
	sender  Sender
	chatID  int64
	retries int
	backoff time.Duration
}

func (t *Telegram) Enabled() bool {
	return t.sender != nil
}

func (t *Telegram) AnnounceLeader(ctx context.Context, playerName string, score int, flag string) error {
	if !t.Enabled() {
		return nil
	}

	msg := tgbotapi.NewMessage(t.chatID, leaderText(playerName, score, flag))
	msg.ParseMode = tgbotapi.ModeMarkdown

	var err error
	for attempt := 0; attempt <= t.retries; attempt++ {
		if attempt > 0 {
			util.Sleep(ctx, t.backoff)
			if ctx.Err() != nil {
				break
			}
		}
		if _, err = t.sender.Send(msg); err == nil {
			return nil
		}
		logging.FromContext(ctx).Named("announce.AnnounceLeader").Debugf("attempt %d: %v", attempt+1, err)
	}

	return fmt.Errorf("send leader message: %w", err)
}

func leaderText(playerName string, score int, flag string) string {
	buf := strpool.Get()
	defer strpool.Put(buf)

	buf.WriteString(emoji.Trophy.String())
	buf.WriteString(" *New leader!* ")
	buf.WriteString(flag)
	buf.WriteString(" ")
	buf.WriteString(escapeMarkdown(playerName))
	_, _ = fmt.Fprintf(buf, " takes first place with %d points ", score)
	buf.WriteString(emoji.Fire.String())

	return buf.String()
}

func escapeMarkdown(s string) string {
	buf := strpool.Get()
	defer strpool.Put(buf)

	for _, r := range s {
		switch r {
		case '_', '*', '`', '[':
			buf.WriteRune('\\')
		}
		buf.WriteRune(r)
	}
	return buf.String()
}
