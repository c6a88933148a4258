package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PushEvent is the payload delivered to the external notification gateway,
// which fans it out to the shop's registered devices.
type PushEvent struct {
	Kind   string `json:"kind"`
	ShopID string `json:"shop_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// PushGatewayClient is an HTTP client for the notification gateway. Keeping
// device tokens and fan-out in a separate service isolates its failures from
// the core backend; the worker wraps calls in the circuit breaker.
type PushGatewayClient struct {
	gatewayURL string
	httpClient *http.Client
}

func NewPushGatewayClient(gatewayURL string) *PushGatewayClient {
	return &PushGatewayClient{
		gatewayURL: gatewayURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one event to the gateway. Any non-2xx status is an error so the
// circuit breaker counts it.
func (c *PushGatewayClient) Send(ctx context.Context, event PushEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("pushgw: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/events", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("pushgw: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pushgw: gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pushgw: gateway returned %d", resp.StatusCode)
	}
	return nil
}
