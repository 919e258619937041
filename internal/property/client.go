// Package property talks to the property-service. Pricing data is
// load-bearing: fetch failures propagate so no booking is ever priced from
// fabricated values.
package property

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

var (
	ErrNotFound    = errors.New("property not found")
	ErrUnavailable = errors.New("property service unavailable")
)

type Client struct {
	client  *http.Client
	baseURL string
	logger  *logger.Logger
}

// NewClient builds a property-service client. The injected http.Client
// carries the request timeout; collaborator calls must never block an
// operation indefinitely.
func NewClient(client *http.Client, baseURL string) *Client {
	return &Client{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.NewLogger(),
	}
}

// GetQuoteInfo fetches the pricing slice for a property.
func (c *Client) GetQuoteInfo(ctx context.Context, propertyID string) (*models.PropertyQuoteInfo, error) {
	url := fmt.Sprintf("%s/api/v1/properties/%s/booking-info", c.baseURL, propertyID)
	c.logger.Debug("PROPERTY", fmt.Sprintf("Fetching quote info: %s", url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create property request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("PROPERTY", fmt.Sprintf("Property service error: %v", err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Error("PROPERTY", fmt.Sprintf("Failed to close response body: %v", err))
		}
	}(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Warn("PROPERTY", fmt.Sprintf("Property not found: %s", propertyID))
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Error("PROPERTY", fmt.Sprintf("Property service returned status: %d", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var info models.PropertyQuoteInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode property response: %w", err)
	}
	if info.ID == "" {
		info.ID = propertyID
	}

	c.logger.Info("PROPERTY", fmt.Sprintf("Quote info fetched: id=%s owner=%d pricePerNight=%s",
		info.ID, info.OwnerID, info.PricePerNight))
	return &info, nil
}

// GetDetails fetches display metadata (title, address) for the admin view.
// Best-effort: any failure returns placeholders.
func (c *Client) GetDetails(ctx context.Context, propertyID string) (title, address string) {
	title, address = "Unknown Property", "Unknown"

	url := fmt.Sprintf("%s/api/v1/properties/%s", c.baseURL, propertyID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("PROPERTY", fmt.Sprintf("Could not fetch details for %s: %v", propertyID, err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return
	}

	var details struct {
		Title   string `json:"title"`
		Address struct {
			Address string `json:"address"`
			City    string `json:"city"`
		} `json:"address"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return
	}

	if details.Title != "" {
		title = details.Title
	}
	if details.Address.Address != "" || details.Address.City != "" {
		address = details.Address.Address + ", " + details.Address.City
	}
	return
}
