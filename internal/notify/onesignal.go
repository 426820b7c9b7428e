package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fixcars/fixcars-service/internal/router/config"
)

const oneSignalURL = "https://onesignal.com/api/v1/notifications"

// Pusher delivers push notifications to registered devices. Delivery is
// best-effort; callers must not fail their own operation on error.
type Pusher interface {
	Send(ctx context.Context, playerIDs []string, heading, message string, data map[string]string) error
}

// OneSignalClient pushes through the OneSignal REST API.
type OneSignalClient struct {
	appID  string
	apiKey string
	client *http.Client
}

// NewOneSignalClient creates a push client from the application config.
func NewOneSignalClient(cfg config.Config) *OneSignalClient {
	return &OneSignalClient{
		appID:  cfg.OneSignalAppID,
		apiKey: cfg.OneSignalAPIKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type oneSignalPayload struct {
	AppID            string            `json:"app_id"`
	IncludePlayerIDs []string          `json:"include_player_ids"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
	Data             map[string]string `json:"data"`
}

// Send pushes a message to the given player ids.
func (c *OneSignalClient) Send(ctx context.Context, playerIDs []string, heading, message string, data map[string]string) error {
	if len(playerIDs) == 0 {
		return fmt.Errorf("no player ids to notify")
	}
	if data == nil {
		data = map[string]string{}
	}

	payload := oneSignalPayload{
		AppID:            c.appID,
		IncludePlayerIDs: playerIDs,
		Headings:         map[string]string{"en": heading},
		Contents:         map[string]string{"en": message},
		Data:             data,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, oneSignalURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Basic "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("onesignal returned status %d", resp.StatusCode)
	}
	return nil
}
