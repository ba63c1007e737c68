// File: internal/infra/notify/telegram.go
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/ledvelvet/doorcheck/internal/config"
	"github.com/ledvelvet/doorcheck/internal/domain/model"
)

// TelegramNotifier pushes denial alerts to the staff chat so floor staff
// hear about revoked cards and repeat scans without watching a dashboard.
// With no token configured every call is a no-op.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *zerolog.Logger
}

func NewTelegramNotifier(cfg config.NotifyConfig, logger *zerolog.Logger) (*TelegramNotifier, error) {
	n := &TelegramNotifier{chatID: cfg.StaffChatID, log: logger}
	if cfg.TelegramToken == "" {
		logger.Info().Msg("telegram notifier disabled: no token configured")
		return n, nil
	}
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("telegram notifier: %w", err)
	}
	n.bot = bot
	return n, nil
}

// NotifyDenial is fire-and-forget: a dead notifier must never fail a scan.
func (n *TelegramNotifier) NotifyDenial(eventTitle string, reason model.CheckinReason, deviceID string) {
	if n == nil || n.bot == nil {
		return
	}
	if deviceID == "" {
		deviceID = "unknown"
	}
	text := fmt.Sprintf("🚫 Door denial at %q\nReason: %s\nDevice: %s", eventTitle, reason, deviceID)
	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Warn().Err(err).Msg("failed to send denial alert")
	}
}
