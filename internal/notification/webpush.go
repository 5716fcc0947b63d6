package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SherClockHolmes/webpush-go"
)

// WebPushSender delivers notifications over the Web Push protocol. The stored
// token for this provider is the JSON-serialized browser subscription
// (endpoint plus p256dh/auth keys).
type WebPushSender struct {
	Options *webpush.Options
}

// NewWebPushSender creates a sender with the given VAPID options.
func NewWebPushSender(options *webpush.Options) *WebPushSender {
	return &WebPushSender{Options: options}
}

type webPushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *WebPushSender) Send(ctx context.Context, token string, msg Message) error {
	var sub webpush.Subscription
	if err := json.Unmarshal([]byte(token), &sub); err != nil {
		return fmt.Errorf("token is not a web push subscription: %w", err)
	}

	payload, err := json.Marshal(webPushPayload{Title: msg.Title, Body: msg.Body})
	if err != nil {
		return err
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &sub, s.Options)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("web push returned %d", resp.StatusCode)
	}
	return nil
}
