package http

import (
	"strconv"

	"github.com/gabapcia/depositwatch/internal/pointsledger"

	"github.com/gofiber/fiber/v2"
)

// registerTransferRoutes wires the point transfer endpoints.
func registerTransferRoutes(app *fiber.App, ledger pointsledger.Service) {
	transfer := app.Group("/transfer")

	transfer.Put("/transfer_points_by_user_id", transferByUserIDHandler(ledger))
	transfer.Put("/transfer_points_by_wallet", transferByWalletHandler(ledger))
}

// int64Query parses a required integer query parameter.
func int64Query(c *fiber.Ctx, name string) (int64, error) {
	value, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" must be an integer")
	}

	return value, nil
}

func transferByUserIDHandler(ledger pointsledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromUserID, err := int64Query(c, "from_user_id")
		if err != nil {
			return err
		}
		toUserID, err := int64Query(c, "to_user_id")
		if err != nil {
			return err
		}
		amount, err := int64Query(c, "amount")
		if err != nil {
			return err
		}

		result, err := ledger.TransferPoints(c.UserContext(), fromUserID, toUserID, amount)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(result)
	}
}

func transferByWalletHandler(ledger pointsledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var (
			fromWallet = c.Query("from_wallet")
			toWallet   = c.Query("to_wallet")
		)
		if fromWallet == "" || toWallet == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from_wallet and to_wallet are required")
		}

		amount, err := int64Query(c, "amount")
		if err != nil {
			return err
		}

		result, err := ledger.TransferPointsByWallet(c.UserContext(), fromWallet, toWallet, amount)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(result)
	}
}
