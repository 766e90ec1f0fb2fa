// Package depositfeed implements the depositcredit.DepositStream port by
// subscribing to the deposit watch service's websocket endpoint.
package depositfeed

import (
	"context"
	"fmt"
	"strings"

	"github.com/gabapcia/depositwatch/internal/depositcredit"
	"github.com/gabapcia/depositwatch/internal/pkg/logger"
	"github.com/gabapcia/depositwatch/internal/pkg/x/chflow"

	"github.com/gorilla/websocket"
)

// depositChannelBufferSize defines the buffer size of the channel returned by
// Subscribe, absorbing short consumer stalls without blocking the read loop.
const depositChannelBufferSize = 10

// client streams deposits from a "/ws/{account_id}" websocket endpoint.
type client struct {
	baseURI string
	dialer  *websocket.Dialer
}

// Ensure client implements the depositcredit.DepositStream interface at compile time.
var _ depositcredit.DepositStream = (*client)(nil)

// NewClient creates a deposit feed client rooted at baseURI
// (e.g. "ws://localhost:8000").
func NewClient(baseURI string) *client {
	return &client{
		baseURI: strings.TrimSuffix(baseURI, "/"),
		dialer:  websocket.DefaultDialer,
	}
}

// Subscribe implements the depositcredit.DepositStream interface. It dials
// the watch endpoint for the given account and forwards every deposit frame
// into the returned channel. The channel is closed when ctx is canceled or
// the connection drops.
func (c *client) Subscribe(ctx context.Context, accountID string) (<-chan depositcredit.Deposit, error) {
	uri := fmt.Sprintf("%s/ws/%s", c.baseURI, accountID)

	conn, res, err := c.dialer.DialContext(ctx, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("dial deposit feed: %w", err)
	}
	if res != nil && res.Body != nil {
		res.Body.Close()
	}

	// Unblocks the read loop when the context ends.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	deposits := make(chan depositcredit.Deposit, depositChannelBufferSize)
	go func() {
		defer close(deposits)
		defer conn.Close()

		for {
			var deposit depositcredit.Deposit
			if err := conn.ReadJSON(&deposit); err != nil {
				if ctx.Err() == nil {
					logger.Error(ctx, "deposit feed connection lost",
						"account.id", accountID,
						"error", err,
					)
				}
				return
			}

			if !chflow.Send(ctx, deposits, deposit) {
				return
			}
		}
	}()

	return deposits, nil
}
