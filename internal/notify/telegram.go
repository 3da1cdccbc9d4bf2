package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Dispatcher delivers a prepared message to a user's chat. The engine
// fires and forgets: errors are logged by callers, never awaited as
// delivery confirmation.
type Dispatcher interface {
	Send(ctx context.Context, chatID string, message string) error
}

type TelegramDispatcher struct {
	botToken string
	client   *http.Client
}

func NewTelegramDispatcher(botToken string) *TelegramDispatcher {
	return &TelegramDispatcher{
		botToken: botToken,
		client: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

func (dispatcher *TelegramDispatcher) Send(ctx context.Context, chatID string, message string) error {
	values := url.Values{}
	values.Set("chat_id", chatID)
	values.Set("text", message)

	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", dispatcher.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := dispatcher.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// NoopDispatcher drops every message; used when no bot token is
// configured and in tests.
type NoopDispatcher struct{}

func (NoopDispatcher) Send(ctx context.Context, chatID string, message string) error {
	return nil
}
