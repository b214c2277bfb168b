// Package notify forwards audit messages to an external channel.
package notify

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
)

// Notifier delivers one audit message to wherever the operators watch
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// TelegramNotifier pushes audit messages into an admin chat
type TelegramNotifier struct {
	bot    *bot.Bot
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	b, err := bot.New(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &TelegramNotifier{
		bot:    b,
		chatID: chatID,
	}, nil
}

func (n *TelegramNotifier) Send(ctx context.Context, text string) error {
	_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}

	return nil
}

// NopNotifier is used when no channel is configured
type NopNotifier struct{}

func (NopNotifier) Send(ctx context.Context, text string) error {
	return nil
}
