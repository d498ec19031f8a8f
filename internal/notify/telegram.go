package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends a one-way message to a configured chat whenever
// an appointment is scheduled. Delivery failures are logged, never
// surfaced to the scheduling caller.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

// NewTelegramNotifier creates a new Telegram notifier
func NewTelegramNotifier(token string, chatID int64, logger *slog.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TelegramNotifier{
		api:    api,
		chatID: chatID,
		logger: logger,
	}, nil
}

// AppointmentScheduled announces a newly created calendar event
func (n *TelegramNotifier) AppointmentScheduled(summary, startTime, endTime, link string) {
	msg := tgbotapi.NewMessage(n.chatID, FormatAppointment(summary, startTime, endTime, link))
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		n.logger.Error("Failed to send appointment notification",
			"component", "notify",
			"error", err,
		)
		return
	}

	n.logger.Info("Appointment notification sent",
		"component", "notify",
		"chat_id", n.chatID,
	)
}

// FormatAppointment renders the notification text
func FormatAppointment(summary, startTime, endTime, link string) string {
	text := fmt.Sprintf("📅 New appointment: %s\nStart: %s\nEnd: %s", summary, startTime, endTime)
	if link != "" {
		text += "\n" + link
	}
	return text
}
