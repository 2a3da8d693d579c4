package approval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Decision outcomes returned by the workflow service.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
	DecisionPending  = "pending"
)

// DocumentRef identifies the document an approval is requested for.
type DocumentRef struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Code string `json:"code"`
}

// Decision is the outcome of an approval request.
type Decision struct {
	Status string `json:"status"` // approved/rejected/pending
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

// Client talks to the external approval workflow service. The pipeline only
// requests approvals and reads back decisions; routing and notification are
// the workflow service's problem.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an approval workflow client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// RequestApproval opens an approval instance for a document and returns its id.
func (c *Client) RequestApproval(ctx context.Context, ref DocumentRef, approvers []string) (string, error) {
	reqBody := map[string]interface{}{
		"document":  ref,
		"approvers": approvers,
	}
	bodyBytes, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/approvals", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build approval request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request approval: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Code       int    `json:"code"`
		Message    string `json:"message"`
		ApprovalID string `json:"approval_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode approval response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("approval service returned %d: %s", resp.StatusCode, result.Message)
	}
	return result.ApprovalID, nil
}

// GetDecision fetches the current decision of an approval instance.
func (c *Client) GetDecision(ctx context.Context, approvalID string) (*Decision, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/v1/approvals/"+approvalID, nil)
	if err != nil {
		return nil, fmt.Errorf("build decision request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get decision: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Code     int      `json:"code"`
		Message  string   `json:"message"`
		Decision Decision `json:"decision"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode decision response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("approval service returned %d: %s", resp.StatusCode, result.Message)
	}
	return &result.Decision, nil
}
