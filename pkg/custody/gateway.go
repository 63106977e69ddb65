package custody

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Gateway moves collectible assets between platform custody and player
// wallets. The core only ever handles opaque asset references; identity
// and chain logic live behind this interface.
type Gateway interface {
	// Withdraw moves an asset out of an owner's custody to the platform.
	Withdraw(owner, assetRef string) error
	// Deposit places an asset under an owner's custody.
	Deposit(owner, assetRef string) error
	// Transfer moves an asset reference directly between owners.
	Transfer(assetRef, from, to string) error
}

// HTTPGateway talks to the custody service over HTTP
type HTTPGateway struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

// MockGateway records transfers in memory, for development and tests
type MockGateway struct {
	Transfers []string
}

// NewHTTPGateway creates a new custody gateway client
func NewHTTPGateway(baseURL, apiKey string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewMockGateway creates a gateway that succeeds without side effects
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// Withdraw moves an asset out of an owner's custody to the platform
func (g *HTTPGateway) Withdraw(owner, assetRef string) error {
	return g.post("/v1/withdraw", map[string]string{
		"owner":    owner,
		"assetRef": assetRef,
	})
}

// Deposit places an asset under an owner's custody
func (g *HTTPGateway) Deposit(owner, assetRef string) error {
	return g.post("/v1/deposit", map[string]string{
		"owner":    owner,
		"assetRef": assetRef,
	})
}

// Transfer moves an asset reference directly between owners
func (g *HTTPGateway) Transfer(assetRef, from, to string) error {
	return g.post("/v1/transfer", map[string]string{
		"assetRef": assetRef,
		"from":     from,
		"to":       to,
	})
}

func (g *HTTPGateway) post(path string, payload map[string]string) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequest("POST", g.BaseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", g.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("custody request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Withdraw records the movement and succeeds
func (g *MockGateway) Withdraw(owner, assetRef string) error {
	g.Transfers = append(g.Transfers, fmt.Sprintf("withdraw %s from %s", assetRef, owner))
	return nil
}

// Deposit records the movement and succeeds
func (g *MockGateway) Deposit(owner, assetRef string) error {
	g.Transfers = append(g.Transfers, fmt.Sprintf("deposit %s to %s", assetRef, owner))
	return nil
}

// Transfer records the movement and succeeds
func (g *MockGateway) Transfer(assetRef, from, to string) error {
	g.Transfers = append(g.Transfers, fmt.Sprintf("transfer %s from %s to %s", assetRef, from, to))
	return nil
}
