package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ExpoSender delivers notifications through the Expo push service.
type ExpoSender struct {
	URL    string
	Client *http.Client
}

// NewExpoSender creates a sender against the given Expo push endpoint.
func NewExpoSender(url string) *ExpoSender {
	return &ExpoSender{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// IsExpoToken reports whether token has the Expo push token shape,
// e.g. "ExponentPushToken[xxxxxxxx]".
func IsExpoToken(token string) bool {
	return (strings.HasPrefix(token, "ExponentPushToken[") ||
		strings.HasPrefix(token, "ExpoPushToken[")) &&
		strings.HasSuffix(token, "]")
}

type expoPushMessage struct {
	To        string `json:"to"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Sound     string `json:"sound"`
	ChannelID string `json:"channelId"` // required for Android delivery
}

// Send posts a single push message to the Expo API. Tokens that do not look
// like Expo push tokens are rejected before any network traffic.
func (s *ExpoSender) Send(ctx context.Context, token string, msg Message) error {
	if !IsExpoToken(token) {
		return fmt.Errorf("invalid expo push token %q", token)
	}

	payload, err := json.Marshal(expoPushMessage{
		To:        token,
		Title:     msg.Title,
		Body:      msg.Body,
		Sound:     "default",
		ChannelID: "default",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("expo push returned %d: %s", resp.StatusCode, body)
	}
	return nil
}
