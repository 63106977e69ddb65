// Package drawbeacon implements a draw source backed by an external
// randomness beacon. Draws are requested synchronously inside the
// settlement that consumes them; the beacon commits to a value only when
// the request completes, so callers cannot observe a draw and abort.
package drawbeacon

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spinforge/arcade-backend/pkg/rng"
)

// Client represents a randomness beacon client. With Mock enabled it
// draws from the local CSPRNG instead of calling out, which is the
// default for development deployments.
type Client struct {
	BaseURL string
	APIKey  string
	Mock    bool
	client  *http.Client
	local   rng.Source
}

// Compile-time check that the beacon satisfies the draw source contract
var _ rng.Source = (*Client)(nil)

// NewClient creates a new beacon client
func NewClient(baseURL, apiKey string, mock bool) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Mock:    mock,
		client:  &http.Client{Timeout: 10 * time.Second},
		local:   rng.NewCryptoSource(),
	}
}

// Intn returns a uniform integer in [0, max) from the beacon
func (c *Client) Intn(max int64) (int64, error) {
	if max <= 0 {
		return 0, fmt.Errorf("%w: %d", rng.ErrInvalidRange, max)
	}
	if c.Mock {
		return c.local.Intn(max)
	}

	var response struct {
		Value int64 `json:"value"`
	}
	if err := c.get(fmt.Sprintf("%s/v1/draw?range=%d", c.BaseURL, max), &response); err != nil {
		return 0, err
	}
	if response.Value < 0 || response.Value >= max {
		return 0, fmt.Errorf("beacon returned %d outside [0, %d)", response.Value, max)
	}
	return response.Value, nil
}

// Bytes returns n random bytes from the beacon
func (c *Client) Bytes(n int) ([]byte, error) {
	if c.Mock {
		return c.local.Bytes(n)
	}

	var response struct {
		Bytes string `json:"bytes"`
	}
	if err := c.get(fmt.Sprintf("%s/v1/bytes?n=%d", c.BaseURL, n), &response); err != nil {
		return nil, err
	}
	b, err := hex.DecodeString(response.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode beacon bytes: %w", err)
	}
	if len(b) != n {
		return nil, fmt.Errorf("beacon returned %d bytes, wanted %d", len(b), n)
	}
	return b, nil
}

// Uint64 returns a full-width random integer from the beacon
func (c *Client) Uint64() (uint64, error) {
	if c.Mock {
		return c.local.Uint64()
	}

	var response struct {
		Value uint64 `json:"value"`
	}
	if err := c.get(c.BaseURL+"/v1/draw64", &response); err != nil {
		return 0, err
	}
	return response.Value, nil
}

func (c *Client) get(url string, out interface{}) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach beacon: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read beacon response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("beacon request failed with status %d: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse beacon response: %w", err)
	}
	return nil
}
