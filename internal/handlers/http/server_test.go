package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gabapcia/depositwatch/internal/depositwatch"
	"github.com/gabapcia/depositwatch/internal/pkg/logger"
	"github.com/gabapcia/depositwatch/internal/pointsledger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests to prevent nil pointer dereference
	_ = logger.Init(logger.WithLevel("error"))
}

type watchServiceMock struct {
	mock.Mock
}

var _ depositwatch.Service = (*watchServiceMock)(nil)

func (m *watchServiceMock) Watch(ctx context.Context, accountID string) (<-chan depositwatch.DepositEvent, error) {
	args := m.Called(ctx, accountID)

	var ch <-chan depositwatch.DepositEvent
	if v := args.Get(0); v != nil {
		ch = v.(chan depositwatch.DepositEvent)
	}
	return ch, args.Error(1)
}

type ledgerServiceMock struct {
	mock.Mock
}

var _ pointsledger.Service = (*ledgerServiceMock)(nil)

func (m *ledgerServiceMock) CreateUser(ctx context.Context, user pointsledger.User) (pointsledger.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(pointsledger.User), args.Error(1)
}

func (m *ledgerServiceMock) GetUser(ctx context.Context, userID int64) (pointsledger.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(pointsledger.User), args.Error(1)
}

func (m *ledgerServiceMock) GetUserByWallet(ctx context.Context, wallet string) (pointsledger.User, error) {
	args := m.Called(ctx, wallet)
	return args.Get(0).(pointsledger.User), args.Error(1)
}

func (m *ledgerServiceMock) UpdateUser(ctx context.Context, user pointsledger.User) (pointsledger.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(pointsledger.User), args.Error(1)
}

func (m *ledgerServiceMock) UpdateWallet(ctx context.Context, userID int64, wallet string) (pointsledger.User, error) {
	args := m.Called(ctx, userID, wallet)
	return args.Get(0).(pointsledger.User), args.Error(1)
}

func (m *ledgerServiceMock) AddPoints(ctx context.Context, userID, amount int64) (pointsledger.User, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(pointsledger.User), args.Error(1)
}

func (m *ledgerServiceMock) SubtractPoints(ctx context.Context, userID, amount int64) (pointsledger.User, error) {
	args := m.Called(ctx, userID, amount)
	return args.Get(0).(pointsledger.User), args.Error(1)
}

func (m *ledgerServiceMock) DeleteUser(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *ledgerServiceMock) TransferPoints(ctx context.Context, fromUserID, toUserID, amount int64) (pointsledger.TransferResult, error) {
	args := m.Called(ctx, fromUserID, toUserID, amount)
	return args.Get(0).(pointsledger.TransferResult), args.Error(1)
}

func (m *ledgerServiceMock) TransferPointsByWallet(ctx context.Context, fromWallet, toWallet string, amount int64) (pointsledger.TransferResult, error) {
	args := m.Called(ctx, fromWallet, toWallet, amount)
	return args.Get(0).(pointsledger.TransferResult), args.Error(1)
}

// testApp builds the router against mocked services.
func testApp(ledger pointsledger.Service) *fiberApp {
	return &fiberApp{app: newApp(new(watchServiceMock), ledger)}
}

// fiberApp adds request helpers on top of the Fiber application.
type fiberApp struct {
	app *fiber.App
}

// do runs a request through the in-memory router and decodes the JSON
// response body into out when it is non-nil.
func (f *fiberApp) do(t *testing.T, method, target string, body io.Reader, out any) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := f.app.Test(req, -1)
	require.NoError(t, err)

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	res.Body.Close()

	return res
}

func TestUserRoutes(t *testing.T) {
	alice := pointsledger.User{UserID: 1, Username: "alice", Wallet: "w1", Points: 10}

	t.Run("create user", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("CreateUser", mock.Anything, alice).Return(alice, nil)

		var got pointsledger.User
		res := testApp(ledger).do(t, http.MethodPost, "/users/",
			strings.NewReader(`{"user_id": 1, "username": "alice", "wallet": "w1", "points": 10}`), &got)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, alice, got)
	})

	t.Run("create user with malformed body", func(t *testing.T) {
		res := testApp(new(ledgerServiceMock)).do(t, http.MethodPost, "/users/",
			strings.NewReader(`{"user_id": `), nil)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("get user", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("GetUser", mock.Anything, int64(1)).Return(alice, nil)

		var got pointsledger.User
		res := testApp(ledger).do(t, http.MethodGet, "/users/1", nil, &got)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, alice, got)
	})

	t.Run("get unknown user", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("GetUser", mock.Anything, int64(99)).
			Return(pointsledger.User{}, pointsledger.ErrUserNotFound)

		res := testApp(ledger).do(t, http.MethodGet, "/users/99", nil, nil)

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("get user with non-numeric id", func(t *testing.T) {
		res := testApp(new(ledgerServiceMock)).do(t, http.MethodGet, "/users/abc", nil, nil)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("get user by wallet", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("GetUserByWallet", mock.Anything, "w1").Return(alice, nil)

		var got pointsledger.User
		res := testApp(ledger).do(t, http.MethodGet, "/users/by_wallet/w1", nil, &got)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, alice, got)
	})

	t.Run("update user takes the id from the path", func(t *testing.T) {
		updated := pointsledger.User{UserID: 1, Username: "alice2", Wallet: "w1", Points: 10}

		ledger := new(ledgerServiceMock)
		ledger.On("UpdateUser", mock.Anything, updated).Return(updated, nil)

		var got pointsledger.User
		res := testApp(ledger).do(t, http.MethodPut, "/users/1",
			strings.NewReader(`{"user_id": 42, "username": "alice2", "wallet": "w1", "points": 10}`), &got)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, updated, got)
	})

	t.Run("add points", func(t *testing.T) {
		credited := pointsledger.User{UserID: 1, Username: "alice", Wallet: "w1", Points: 60}

		ledger := new(ledgerServiceMock)
		ledger.On("AddPoints", mock.Anything, int64(1), int64(50)).Return(credited, nil)

		var got pointsledger.User
		res := testApp(ledger).do(t, http.MethodPut, "/users/1/add_points?amount=50", nil, &got)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, int64(60), got.Points)
	})

	t.Run("add points without amount", func(t *testing.T) {
		res := testApp(new(ledgerServiceMock)).do(t, http.MethodPut, "/users/1/add_points", nil, nil)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("subtract points", func(t *testing.T) {
		debited := pointsledger.User{UserID: 1, Username: "alice", Wallet: "w1", Points: 0}

		ledger := new(ledgerServiceMock)
		ledger.On("SubtractPoints", mock.Anything, int64(1), int64(50)).Return(debited, nil)

		var got pointsledger.User
		res := testApp(ledger).do(t, http.MethodPut, "/users/1/subtract_points?amount=50", nil, &got)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, int64(0), got.Points)
	})

	t.Run("update wallet already bound", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("UpdateWallet", mock.Anything, int64(1), "w-taken").
			Return(pointsledger.User{}, pointsledger.ErrWalletAlreadyBound)

		res := testApp(ledger).do(t, http.MethodPut, "/users/1/update_wallet?new_wallet=w-taken", nil, nil)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("delete user", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("DeleteUser", mock.Anything, int64(1)).Return(nil)

		var got map[string]string
		res := testApp(ledger).do(t, http.MethodDelete, "/users/1", nil, &got)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "User deleted successfully", got["message"])
	})

	t.Run("delete unknown user", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("DeleteUser", mock.Anything, int64(99)).Return(pointsledger.ErrUserNotFound)

		res := testApp(ledger).do(t, http.MethodDelete, "/users/99", nil, nil)

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})
}

func TestTransferRoutes(t *testing.T) {
	result := pointsledger.TransferResult{
		FromUser: pointsledger.User{UserID: 1, Username: "alice", Wallet: "w1", Points: 0},
		ToUser:   pointsledger.User{UserID: 2, Username: "bob", Wallet: "w2", Points: 150},
	}

	t.Run("transfer by user id", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("TransferPoints", mock.Anything, int64(1), int64(2), int64(150)).Return(result, nil)

		var got pointsledger.TransferResult
		res := testApp(ledger).do(t, http.MethodPut,
			"/transfer/transfer_points_by_user_id?from_user_id=1&to_user_id=2&amount=150", nil, &got)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, result, got)
	})

	t.Run("self transfer", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("TransferPoints", mock.Anything, int64(1), int64(1), int64(10)).
			Return(pointsledger.TransferResult{}, pointsledger.ErrSelfTransfer)

		res := testApp(ledger).do(t, http.MethodPut,
			"/transfer/transfer_points_by_user_id?from_user_id=1&to_user_id=1&amount=10", nil, nil)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("TransferPoints", mock.Anything, int64(1), int64(2), int64(150)).
			Return(pointsledger.TransferResult{}, pointsledger.ErrInsufficientPoints)

		res := testApp(ledger).do(t, http.MethodPut,
			"/transfer/transfer_points_by_user_id?from_user_id=1&to_user_id=2&amount=150", nil, nil)

		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("transfer by wallet", func(t *testing.T) {
		ledger := new(ledgerServiceMock)
		ledger.On("TransferPointsByWallet", mock.Anything, "w1", "w2", int64(150)).Return(result, nil)

		var got pointsledger.TransferResult
		res := testApp(ledger).do(t, http.MethodPut,
			"/transfer/transfer_points_by_wallet?from_wallet=w1&to_wallet=w2&amount=150", nil, &got)

		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, result, got)
	})

	t.Run("transfer by wallet without wallets", func(t *testing.T) {
		res := testApp(new(ledgerServiceMock)).do(t, http.MethodPut,
			"/transfer/transfer_points_by_wallet?amount=150", nil, nil)

		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})
}

func TestWatchRoute(t *testing.T) {
	t.Run("plain request without upgrade is rejected", func(t *testing.T) {
		res := testApp(new(ledgerServiceMock)).do(t, http.MethodGet, "/ws/acct", nil, nil)

		assert.Equal(t, http.StatusUpgradeRequired, res.StatusCode)
	})
}
