package notify

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

//go:generate mockgen -source internal/notify/telegram.go -destination=internal/notify/telegram_mock_test.go -package=notify

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram delivers plain-text messages to chats.
type Telegram struct {
	bot    sender
	logger *zap.Logger
}

func NewTelegram(token string, logger *zap.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	bot.Debug = false
	logger.Info("Authorized on telegram account", zap.String("username", bot.Self.UserName))
	return New(bot, logger), nil
}

func New(bot sender, logger *zap.Logger) *Telegram {
	return &Telegram{
		bot:    bot,
		logger: logger,
	}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Warn("Failed to send telegram message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return fmt.Errorf("send to %d: %w", chatID, err)
	}
	return nil
}

// Broadcast sends text to every chat and reports all failures together.
func (t *Telegram) Broadcast(ctx context.Context, chatIDs []int64, text string) error {
	var errs []error
	for _, id := range chatIDs {
		if err := t.Send(ctx, id, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
