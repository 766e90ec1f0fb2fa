package http

import (
	"context"

	"github.com/gabapcia/depositwatch/internal/depositwatch"
	"github.com/gabapcia/depositwatch/internal/pkg/logger"
	"github.com/gabapcia/depositwatch/internal/pkg/x/chflow"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// registerWatchRoutes wires the deposit watch websocket endpoint.
func registerWatchRoutes(app *fiber.App, watch depositwatch.Service) {
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/:account_id", websocket.New(watchHandler(watch)))
}

// watchHandler streams deposit events for the account in the path until the
// client disconnects or the watch ends. Each event goes out as one JSON text
// frame.
func watchHandler(watch depositwatch.Service) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		defer conn.Close()

		accountID := conn.Params("account_id")

		// The connection lifetime drives the watch lifetime: cancellation
		// tears down the polling goroutine behind the event channel.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		events, err := watch.Watch(ctx, accountID)
		if err != nil {
			logger.Error(ctx, "failed to start deposit watch",
				"account.id", accountID,
				"error", err,
			)
			_ = conn.WriteJSON(fiber.Map{"detail": err.Error()})
			return
		}

		logger.Info(ctx, "deposit watch connection opened", "account.id", accountID)

		// Read pump: we expect no inbound frames, but reading is the only way
		// to notice the peer going away.
		go func() {
			defer cancel()

			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		defer logger.Info(ctx, "deposit watch connection closed", "account.id", accountID)

		for {
			event, ok := chflow.Receive(ctx, events)
			if !ok {
				return
			}

			if err := conn.WriteJSON(event); err != nil {
				logger.Error(ctx, "failed to deliver deposit event",
					"account.id", accountID,
					"error", err,
				)
				return
			}
		}
	}
}
