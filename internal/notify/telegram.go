package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/neuroledger/internal/models"
	"github.com/sirupsen/logrus"
	tele "gopkg.in/telebot.v3"
)

// TelegramNotifier sends digests to the chat a user linked to their account
type TelegramNotifier struct {
	bot    *tele.Bot
	logger *logrus.Logger
}

// NewTelegramNotifier creates a bot client. apiURL may be empty to use the
// public Bot API.
func NewTelegramNotifier(token, apiURL string, logger *logrus.Logger) (*TelegramNotifier, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:   token,
		URL:     apiURL,
		Poller:  &tele.LongPoller{Timeout: 10 * time.Second},
		Offline: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, logger: logger}, nil
}

func (n *TelegramNotifier) Name() string { return "telegram" }

// Notify posts the digest; users without a linked chat are skipped
func (n *TelegramNotifier) Notify(_ context.Context, user models.User, d Digest) error {
	if user.TelegramChat == 0 {
		return nil
	}
	text := d.Subject + "\n\n" + d.Body
	if _, err := n.bot.Send(tele.ChatID(user.TelegramChat), text); err != nil {
		n.logger.Errorf("Failed to send telegram message to %d: %v", user.TelegramChat, err)
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	n.logger.Infof("Telegram reminder sent to user %s", user.ID)
	return nil
}
