package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier sends reminder messages through the Telegram bot API.
type Notifier struct {
	api *tgbotapi.BotAPI
	log *zap.Logger
}

// NewNotifier authenticates the bot with the given token.
func NewNotifier(token string, log *zap.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	api.Debug = false
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("telegram bot authorized", zap.String("account", api.Self.UserName))

	return &Notifier{api: api, log: log}, nil
}

// Send delivers a text message to the chat.
func (n *Notifier) Send(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := n.api.Send(msg)
	return err
}
