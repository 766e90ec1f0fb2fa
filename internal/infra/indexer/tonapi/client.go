// Package tonapi implements the depositwatch.TransactionIndexer port on top
// of a tonapi-compatible transaction index exposed over HTTP.
package tonapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gabapcia/depositwatch/internal/depositwatch"
	transporthttp "github.com/gabapcia/depositwatch/internal/pkg/transport/http"

	"github.com/hashicorp/go-retryablehttp"
)

// client queries the transaction history of an account from a tonapi endpoint.
type client struct {
	baseURI string
	conn    *retryablehttp.Client
}

// Ensure client implements the depositwatch.TransactionIndexer interface at compile time.
var _ depositwatch.TransactionIndexer = (*client)(nil)

// NewClient creates a tonapi indexer client rooted at baseURI
// (e.g. "https://testnet.tonapi.io/v1/blockchain/accounts").
func NewClient(baseURI string, opts ...transporthttp.Option) *client {
	return &client{
		baseURI: strings.TrimSuffix(baseURI, "/"),
		conn:    transporthttp.NewClient(opts...),
	}
}

// FetchTransactions implements the depositwatch.TransactionIndexer interface.
// It returns the account's transaction history in the order reported by the
// indexer, newest first. Transport, status and decoding failures are all
// wrapped in depositwatch.ErrFetchFailed so that callers can treat the cycle
// as recoverable.
func (c *client) FetchTransactions(ctx context.Context, accountID string) ([]depositwatch.Transaction, error) {
	uri := fmt.Sprintf("%s/%s/transactions", c.baseURI, accountID)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", depositwatch.ErrFetchFailed, err)
	}

	res, err := c.conn.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", depositwatch.ErrFetchFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", depositwatch.ErrFetchFailed, res.StatusCode)
	}

	var body transactionsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", depositwatch.ErrFetchFailed, err)
	}

	return body.toTransactions(), nil
}
