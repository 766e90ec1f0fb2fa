// Package ledgerapi implements the depositcredit.Ledger port against the
// points ledger's REST API, for deployments where the crediting worker runs
// apart from the ledger service.
package ledgerapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gabapcia/depositwatch/internal/depositcredit"
	transporthttp "github.com/gabapcia/depositwatch/internal/pkg/transport/http"

	"github.com/hashicorp/go-retryablehttp"
)

// client calls the ledger REST API.
type client struct {
	baseURI string
	conn    *retryablehttp.Client
}

// Ensure client implements the depositcredit.Ledger interface at compile time.
var _ depositcredit.Ledger = (*client)(nil)

// NewClient creates a ledger API client rooted at baseURI
// (e.g. "http://localhost:8000").
func NewClient(baseURI string, opts ...transporthttp.Option) *client {
	return &client{
		baseURI: strings.TrimSuffix(baseURI, "/"),
		conn:    transporthttp.NewClient(opts...),
	}
}

// userResponse carries the subset of the ledger user payload the crediting
// workflow needs.
type userResponse struct {
	UserID int64 `json:"user_id"`
}

// GetUserIDByWallet implements the depositcredit.Ledger interface. A 404
// from the ledger maps to depositcredit.ErrWalletNotRegistered.
func (c *client) GetUserIDByWallet(ctx context.Context, wallet string) (int64, error) {
	uri := fmt.Sprintf("%s/users/by_wallet/%s", c.baseURI, wallet)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return 0, err
	}

	res, err := c.conn.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return 0, depositcredit.ErrWalletNotRegistered
	default:
		return 0, fmt.Errorf("ledger wallet lookup: unexpected status %d", res.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(res.Body).Decode(&user); err != nil {
		return 0, err
	}

	return user.UserID, nil
}

// AddPoints implements the depositcredit.Ledger interface.
func (c *client) AddPoints(ctx context.Context, userID, amount int64) error {
	uri := fmt.Sprintf("%s/users/%d/add_points?amount=%d", c.baseURI, userID, amount)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, uri, nil)
	if err != nil {
		return err
	}

	res, err := c.conn.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("ledger point credit: unexpected status %d", res.StatusCode)
	}

	return nil
}
