package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pokeclicker-automation/autoseller/internal/event"
	"golang.org/x/time/rate"
)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	sender  messageSender
	chatID  int64
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewBot(token string, chatID int64, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram bot: %w", err)
	}
	logger.Info(fmt.Sprintf("Telegram bot authorized as %s", api.Self.UserName))

	return &Bot{
		sender:  api,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Every(time.Second), 3),
		logger:  logger,
	}, nil
}

func (b *Bot) Handle(ctx context.Context, e event.Event) error {
	if _, ok := e.(event.NotificationEvent); !ok {
		return nil
	}

	if err := b.limiter.Wait(ctx); err != nil {
		return nil
	}

	msg := tgbotapi.NewMessage(b.chatID, fmt.Sprintf("[%s] %s", e.Source(), e.Message()))
	if _, err := b.sender.Send(msg); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}

	return nil
}
