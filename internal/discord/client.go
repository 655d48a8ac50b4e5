package discord

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aethelgard/game-backend/internal/domain"
)

// APIClient handles communication with the game API server
type APIClient struct {
	BaseURL string
	Client  *http.Client
	APIKey  string
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, apiKey string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
		APIKey: apiKey,
	}
}

// CollectResult is the API response for collect-item
type CollectResult struct {
	Message string               `json:"message"`
	Item    domain.InventoryItem `json:"item"`
}

// WalkOutcome is the API response for walk
type WalkOutcome struct {
	FirstWalk   bool                  `json:"firstWalk"`
	Message     string                `json:"message"`
	GrantedItem *domain.InventoryItem `json:"grantedItem,omitempty"`
}

// doRequest performs an HTTP request with retry logic
func (c *APIClient) doRequest(method, path string, body any) (*http.Response, error) {
	var reqBody []byte
	var err error

	if body != nil {
		reqBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
	}

	url := fmt.Sprintf("%s%s", c.BaseURL, path)

	maxRetries := 3
	retryDelay := 500 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter
			jitter := time.Duration(time.Now().UnixNano()%100) * time.Millisecond
			delay := retryDelay*time.Duration(1<<uint(attempt-1)) + jitter
			time.Sleep(delay)
			slog.Info("Retrying API request", "attempt", attempt, "path", path, "delay", delay)
		}

		req, err := http.NewRequest(method, url, bytes.NewBuffer(reqBody))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if c.APIKey != "" {
			req.Header.Set("X-API-Key", c.APIKey)
		}

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = err
			slog.Warn("API request failed", "error", err, "attempt", attempt)
			continue
		}

		// Success or non-retryable error
		if resp.StatusCode < 500 {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
		slog.Warn("Server error, will retry", "status", resp.StatusCode, "attempt", attempt)
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// decodeError extracts the API error message from a failed response
func decodeError(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("API error: %s", errResp.Error)
	}
	return fmt.Errorf("API returned status: %d", resp.StatusCode)
}

// CreatePlayer creates a new player for the Discord user
func (c *APIClient) CreatePlayer(discordID, characterName string) (*domain.PlayerSummary, error) {
	req := map[string]string{
		"discordUserId": discordID,
		"characterName": characterName,
	}

	resp, err := c.doRequest(http.MethodPost, "/api/player/create", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}

	var summary domain.PlayerSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode player: %w", err)
	}

	return &summary, nil
}

// GetPlayer fetches the player profile for the Discord user
func (c *APIClient) GetPlayer(discordID string) (*domain.PlayerSummary, error) {
	resp, err := c.doRequest(http.MethodGet, "/api/player/"+discordID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var summary domain.PlayerSummary
	if err := json.NewDecoder(resp.Body).Decode(&summary); err != nil {
		return nil, fmt.Errorf("failed to decode player: %w", err)
	}

	return &summary, nil
}

// CollectItem collects an item instance for the Discord user
func (c *APIClient) CollectItem(discordID, itemDefinitionID string, quantity int, location domain.Location) (*CollectResult, error) {
	req := map[string]any{
		"itemDefinitionId": itemDefinitionID,
		"quantity":         quantity,
		"location":         location,
	}

	resp, err := c.doRequest(http.MethodPost, "/api/player/"+discordID+"/collect-item", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var result CollectResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Walk performs the walk action for the Discord user
func (c *APIClient) Walk(discordID string) (*WalkOutcome, error) {
	resp, err := c.doRequest(http.MethodPost, "/api/player/"+discordID+"/walk", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var outcome WalkOutcome
	if err := json.NewDecoder(resp.Body).Decode(&outcome); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &outcome, nil
}
