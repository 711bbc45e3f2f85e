package uplink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Register loads or mints the pairing token, then polls the service
// until the token is paired with an account. Blocks until paired or ctx
// is done. Network failures are retried on the poll cadence.
func (c *Client) Register(ctx context.Context) error {
	token, created, err := ensureToken(c.cfg.StatePath)
	if err != nil {
		return fmt.Errorf("uplink: pairing state: %w", err)
	}
	c.token = token

	if created {
		c.log.Info().Str("token", token).
			Str("url", pairingURL(c.cfg.BaseURL, token)).
			Msg("new pairing code minted")
	}

	for {
		status, payload, err := c.requestJSON(ctx, http.MethodGet,
			c.cfg.MeURL+"?token="+url.QueryEscape(token), nil)
		if err == nil && status/100 == 2 && paired(payload) {
			c.username = extractUsername(payload)
			c.log.Info().Str("username", c.username).Msg("bridge paired")
			return nil
		}
		if err != nil {
			c.log.Debug().Err(err).Msg("pairing poll failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.cfg.PairPollInterval):
		}
	}
}

// Run registers, then uploads telemetry until ctx is done. The cadence
// drops to the retry interval while the bridge has nothing to send.
func (c *Client) Run(ctx context.Context) error {
	if err := c.Register(ctx); err != nil {
		return err
	}

	for {
		delay := c.SendOnce(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// SendOnce uploads the current reading, applies any commands in the
// response, and returns the delay before the next attempt. All failures
// are logged and transient.
func (c *Client) SendOnce(ctx context.Context) time.Duration {
	if !c.bridge.IsConnected() {
		return c.cfg.RetryInterval
	}
	frame, ok := c.bridge.Snapshot()
	if !ok {
		return c.cfg.RetryInterval
	}

	payload, ok := BuildPayload(c.token, frame, time.Now())
	if !ok {
		return c.cfg.SendInterval
	}

	status, response, err := c.requestJSON(ctx, http.MethodPost, c.cfg.TelemetryURL, payload)
	if err != nil {
		c.log.Warn().Err(err).Msg("telemetry upload failed")
		return c.cfg.SendInterval
	}
	if status/100 != 2 {
		c.log.Warn().Int("status", status).Msg("telemetry upload rejected")
		return c.cfg.SendInterval
	}

	if commands, ok := response.(map[string]any); ok {
		if applied := c.applyCommands(commands); applied > 0 {
			c.log.Info().Int("applied", applied).Msg("remote commands applied")
		}
	}

	return c.cfg.SendInterval
}

// requestJSON performs one request and decodes a JSON body when there is
// one. An empty or non-JSON body decodes to nil without error; callers
// care about the status first.
func (c *Client) requestJSON(ctx context.Context, method, rawURL string, body any) (int, any, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("uplink: marshal body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("X-Bridge-Token", c.token)
	}
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}

	var decoded any
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			decoded = nil
		}
	}
	return resp.StatusCode, decoded, nil
}

// paired reports whether a 2xx pairing response means connected. The
// service signals "not yet" with connected=false; anything else counts.
func paired(payload any) bool {
	if obj, ok := payload.(map[string]any); ok {
		if connected, ok := obj["connected"].(bool); ok && !connected {
			return false
		}
	}
	return true
}

// usernameKeys in the order the service has used them.
var usernameKeys = []string{"username", "userName", "name", "displayName", "email"}

// extractUsername digs the account name out of the pairing payload,
// checking the top level and a nested "user" object.
func extractUsername(payload any) string {
	obj, ok := payload.(map[string]any)
	if !ok {
		return ""
	}

	if name := usernameFrom(obj); name != "" {
		return name
	}
	if user, ok := obj["user"].(map[string]any); ok {
		return usernameFrom(user)
	}
	return ""
}

func usernameFrom(obj map[string]any) string {
	for _, key := range usernameKeys {
		if value, ok := obj[key].(string); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// pairingURL is the page a user opens to claim a fresh token.
func pairingURL(baseURL, token string) string {
	return baseURL + "/bridge/connect?token=" + url.QueryEscape(token)
}
