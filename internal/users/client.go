// Package users talks to the user-service for cosmetic identity data.
// Profiles are display-only, so every failure degrades to a placeholder
// instead of failing the caller.
package users

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type Client struct {
	client  *http.Client
	baseURL string
	logger  *logger.Logger
}

func NewClient(client *http.Client, baseURL string) *Client {
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.NewLogger(),
	}
}

// GetProfile fetches a user's profile, returning a placeholder on any
// failure.
func (c *Client) GetProfile(ctx context.Context, userID int64) models.UserProfile {
	url := fmt.Sprintf("%s/api/v1/users/%d", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.PlaceholderProfile()
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("USERS", fmt.Sprintf("Could not fetch profile for user %d: %v", userID, err))
		return models.PlaceholderProfile()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("USERS", fmt.Sprintf("User service returned status %d for user %d", resp.StatusCode, userID))
		return models.PlaceholderProfile()
	}

	var profile models.UserProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return models.PlaceholderProfile()
	}
	if profile.FirstName == "" && profile.LastName == "" {
		return models.PlaceholderProfile()
	}
	return profile
}
