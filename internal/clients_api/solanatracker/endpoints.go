package solanatracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
)

// GetToken returns the raw /tokens/{address} document (token, pools, events, risk, holders).
func (c *Client) GetToken(ctx context.Context, address string) ([]byte, error) {
	return c.Request(ctx, fmt.Sprintf("/tokens/%s", url.PathEscape(address)), c.maxRetries)
}

// GetTopHolders returns the raw /tokens/{address}/holders/top document.
func (c *Client) GetTopHolders(ctx context.Context, address string) ([]byte, error) {
	return c.Request(ctx, fmt.Sprintf("/tokens/%s/holders/top", url.PathEscape(address)), c.maxRetries)
}

// GetHolderChart returns the raw /holders/chart/{address} document.
func (c *Client) GetHolderChart(ctx context.Context, address string) ([]byte, error) {
	return c.Request(ctx, fmt.Sprintf("/holders/chart/%s", url.PathEscape(address)), c.maxRetries)
}

// Credits is the /credits answer. Balance is passed through untouched.
type Credits struct {
	Credits json.RawMessage `json:"credits"`
}

// GetCredits checks connectivity and key validity. It does not retry and has its
// own breaker, so failing data endpoints do not make it report an outage.
func (c *Client) GetCredits(ctx context.Context) (*Credits, error) {
	body, err := c.request(ctx, c.healthBreaker, "/credits", 0)
	if err != nil {
		return nil, err
	}
	credits := &Credits{Credits: json.RawMessage("null")}
	if r := gjson.GetBytes(body, "credits"); r.Exists() {
		credits.Credits = json.RawMessage(r.Raw)
	}
	return credits, nil
}
