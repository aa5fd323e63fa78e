package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v4"
)

// Sender is the subset of *tele.Bot used to deliver messages.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Telegram sends notifications to a single chat, spaced by a limiter.
type Telegram struct {
	sender  Sender
	chat    tele.ChatID
	limiter *rate.Limiter
}

// NewTelegram creates a bot for token without polling for updates. every is
// the minimum spacing between messages.
func NewTelegram(token string, chatID int64, every time.Duration) (*Telegram, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("notify: telegram token is empty")
	}
	if chatID == 0 {
		return nil, errors.New("notify: telegram chat id is empty")
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("notify: telegram: %w", err)
	}
	return NewTelegramSender(b, chatID, every), nil
}

// NewTelegramSender wraps an existing sender.
func NewTelegramSender(s Sender, chatID int64, every time.Duration) *Telegram {
	limit := rate.Inf
	if every > 0 {
		limit = rate.Every(every)
	}
	return &Telegram{
		sender:  s,
		chat:    tele.ChatID(chatID),
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (t *Telegram) Notify(ctx context.Context, title, body string) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notify: telegram: %w", err)
	}
	if _, err := t.sender.Send(t.chat, title+"\n"+body); err != nil {
		return fmt.Errorf("notify: telegram: %w", err)
	}
	return nil
}
