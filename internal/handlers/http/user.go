package http

import (
	"strconv"

	"github.com/gabapcia/depositwatch/internal/pointsledger"

	"github.com/gofiber/fiber/v2"
)

// registerUserRoutes wires the user CRUD and balance endpoints.
func registerUserRoutes(app *fiber.App, ledger pointsledger.Service) {
	users := app.Group("/users")

	users.Post("/", createUserHandler(ledger))
	users.Get("/by_wallet/:wallet", getUserByWalletHandler(ledger))
	users.Get("/:user_id", getUserHandler(ledger))
	users.Put("/:user_id", updateUserHandler(ledger))
	users.Put("/:user_id/add_points", addPointsHandler(ledger))
	users.Put("/:user_id/subtract_points", subtractPointsHandler(ledger))
	users.Put("/:user_id/update_wallet", updateWalletHandler(ledger))
	users.Delete("/:user_id", deleteUserHandler(ledger))
}

// userIDParam parses the user_id path parameter.
func userIDParam(c *fiber.Ctx) (int64, error) {
	userID, err := strconv.ParseInt(c.Params("user_id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "user_id must be an integer")
	}

	return userID, nil
}

// amountQuery parses the amount query parameter.
func amountQuery(c *fiber.Ctx) (int64, error) {
	amount, err := strconv.ParseInt(c.Query("amount"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "amount must be an integer")
	}

	return amount, nil
}

func createUserHandler(ledger pointsledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user pointsledger.User
		if err := c.BodyParser(&user); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed user payload")
		}

		created, err := ledger.CreateUser(c.UserContext(), user)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(created)
	}
}

func getUserHandler(ledger pointsledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userIDParam(c)
		if err != nil {
			return err
		}

		user, err := ledger.GetUser(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(user)
	}
}

func getUserByWalletHandler(ledger pointsledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := ledger.GetUserByWallet(c.UserContext(), c.Params("wallet"))
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(user)
	}
}

func updateUserHandler(ledger pointsledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userIDParam(c)
		if err != nil {
			return err
		}

		var user pointsledger.User
		if err := c.BodyParser(&user); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "malformed user payload")
		}
		user.UserID = userID

		updated, err := ledger.UpdateUser(c.UserContext(), user)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(updated)
	}
}

func addPointsHandler(ledger pointsledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userIDParam(c)
		if err != nil {
			return err
		}
		amount, err := amountQuery(c)
		if err != nil {
			return err
		}

		user, err := ledger.AddPoints(c.UserContext(), userID, amount)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(user)
	}
}

func subtractPointsHandler(ledger pointsledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userIDParam(c)
		if err != nil {
			return err
		}
		amount, err := amountQuery(c)
		if err != nil {
			return err
		}

		user, err := ledger.SubtractPoints(c.UserContext(), userID, amount)
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(user)
	}
}

func updateWalletHandler(ledger pointsledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userIDParam(c)
		if err != nil {
			return err
		}

		user, err := ledger.UpdateWallet(c.UserContext(), userID, c.Query("new_wallet"))
		if err != nil {
			return respondError(c, err)
		}

		return c.JSON(user)
	}
}

func deleteUserHandler(ledger pointsledger.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := userIDParam(c)
		if err != nil {
			return err
		}

		if err := ledger.DeleteUser(c.UserContext(), userID); err != nil {
			return respondError(c, err)
		}

		return c.JSON(fiber.Map{"message": "User deleted successfully"})
	}
}
