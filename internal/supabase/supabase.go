package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"food-storefront/internal/catalog"
	"food-storefront/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// menuRow is one row of the menu_items table; the item itself lives in the data column.
type menuRow struct {
	Data json.RawMessage `json:"data"`
}

// Client is an interface for the menu backend.
type Client interface {
	FetchMenuItems(ctx context.Context) (catalog.Menu, error)
}

// restClient talks to the Supabase PostgREST endpoint.
type restClient struct {
	httpClient *http.Client
	config     *config.Config
	logger     *zap.Logger
}

// NewClient creates a new Supabase REST client.
func NewClient(cfg *config.Config, logger *zap.Logger) Client {
	return &restClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		config:     cfg,
		logger:     logger,
	}
}

// FetchMenuItems fetches every menu item in table order.
func (c *restClient) FetchMenuItems(ctx context.Context) (catalog.Menu, error) {
	url := fmt.Sprintf("%s/rest/v1/menu_items?select=data&order=id.asc", c.config.SupabaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	bearer, err := c.bearerToken()
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}
	req.Header.Set("apikey", c.config.SupabaseAnonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("rest api error: status %d, body: %s", resp.StatusCode, body)
	}

	var rows []menuRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	docs := make([]json.RawMessage, len(rows))
	for i, row := range rows {
		docs[i] = row.Data
	}
	return catalog.DecodeMenu(docs, func(i int, err error) {
		c.logger.Warn("skipping undecodable menu row", zap.Int("row", i), zap.Error(err))
	}), nil
}

// bearerToken returns the anon key, or a short-lived anon-role JWT when a
// project JWT secret is configured.
func (c *restClient) bearerToken() (string, error) {
	if c.config.SupabaseJWTSecret == "" {
		return c.config.SupabaseAnonKey, nil
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":  "supabase",
		"role": "anon",
		"iat":  now.Unix(),
		"exp":  now.Add(5 * time.Minute).Unix(),
	})
	token.Header["typ"] = "JWT"

	return token.SignedString([]byte(c.config.SupabaseJWTSecret))
}
