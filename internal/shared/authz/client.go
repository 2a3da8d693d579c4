package authz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// Authorizer answers "can actor perform action on resource". Consulted before
// every state-mutating store operation.
type Authorizer interface {
	Can(ctx context.Context, actor, action, resource string) (bool, error)
}

// Client asks the external authorization oracle over HTTP and caches verdicts
// briefly in redis. Oracle errors deny by default.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	rdb        *redis.Client
	cacheTTL   time.Duration
}

func NewClient(baseURL, apiKey string, rdb *redis.Client) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		rdb:      rdb,
		cacheTTL: 30 * time.Second,
	}
}

// Can resolves a permission check.
func (c *Client) Can(ctx context.Context, actor, action, resource string) (bool, error) {
	cacheKey := fmt.Sprintf("store:authz:%s:%s:%s", actor, action, resource)
	if c.rdb != nil {
		if cached, err := c.rdb.Get(ctx, cacheKey).Result(); err == nil {
			return cached == "1", nil
		}
	}

	endpoint := fmt.Sprintf("%s/api/v1/can?actor=%s&action=%s&resource=%s",
		c.baseURL, url.QueryEscape(actor), url.QueryEscape(action), url.QueryEscape(resource))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("build authz request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("authz request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Allowed bool `json:"allowed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("decode authz response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("authz service returned %d", resp.StatusCode)
	}

	if c.rdb != nil {
		verdict := "0"
		if result.Allowed {
			verdict = "1"
		}
		c.rdb.Set(ctx, cacheKey, verdict, c.cacheTTL)
	}
	return result.Allowed, nil
}

// AllowAll is a permissive authorizer for tests and single-tenant deployments.
type AllowAll struct{}

func (AllowAll) Can(ctx context.Context, actor, action, resource string) (bool, error) {
	return true, nil
}
