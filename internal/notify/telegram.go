// Package notify отправляет уведомления исполнителям задач через
// Telegram Bot API. Отправка всегда best-effort: сбой уведомления не
// должен ломать операцию, которая его породила.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const sendMessageURL = "https://api.telegram.org/bot%s/sendMessage"

// Notifier отправляет сообщения пользователям Telegram
type Notifier struct {
	botToken string
	enabled  bool
	client   *http.Client
	logger   *slog.Logger
}

// New создает новый Notifier. При enabled=false все отправки
// пропускаются (используется в тестах и локальной разработке).
func New(botToken string, enabled bool, logger *slog.Logger) *Notifier {
	return &Notifier{
		botToken: botToken,
		enabled:  enabled && botToken != "",
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// Send отправляет текстовое сообщение пользователю. Ошибки только
// логируются: получатель мог заблокировать бота или еще не открыть чат.
func (n *Notifier) Send(ctx context.Context, chatID int64, text string) {
	if !n.enabled || chatID == 0 {
		return
	}

	body, err := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})
	if err != nil {
		n.logger.Error("Failed to encode telegram notification", "error", err)
		return
	}

	url := fmt.Sprintf(sendMessageURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("Failed to build telegram notification request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error("Failed to send telegram notification", "chat_id", chatID, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Warn("Telegram notification was not delivered", "chat_id", chatID, "status", resp.StatusCode)
	}
}
