package wallet_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chris/timelock-payments/pkg/api"
	handler "github.com/chris/timelock-payments/pkg/handlers/wallet"
	"github.com/chris/timelock-payments/pkg/ledger"
	"github.com/chris/timelock-payments/pkg/ledger/mocks"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func newHandler(wallet *mocks.Wallet) *handler.WalletHandler {
	gateway := ledger.NewGateway(wallet, "0xC0FFEE", ledger.NewConnectionState(), testLogger)
	return handler.NewWalletHandler(gateway)
}

func TestConnect(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		wallet := new(mocks.Wallet)
		wallet.On("Connect", mock.Anything).Return("0xOWNER", nil)

		h := newHandler(wallet)
		rec := httptest.NewRecorder()
		h.Connect(rec, httptest.NewRequest("POST", "/v1/wallet/connect", nil))

		assert.Equal(t, http.StatusOK, rec.Code)

		var status api.WalletStatus
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
		assert.True(t, status.Connected)
		assert.Equal(t, "0xOWNER", status.Address)
	})

	t.Run("Failure Carries Remediation", func(t *testing.T) {
		wallet := new(mocks.Wallet)
		wallet.On("Connect", mock.Anything).Return("", errors.New("extension locked"))

		h := newHandler(wallet)
		rec := httptest.NewRecorder()
		h.Connect(rec, httptest.NewRequest("POST", "/v1/wallet/connect", nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "wallet extension")
	})
}

func TestDisconnect(t *testing.T) {
	wallet := new(mocks.Wallet)
	wallet.On("Connect", mock.Anything).Return("0xOWNER", nil)

	h := newHandler(wallet)
	rec := httptest.NewRecorder()
	h.Connect(rec, httptest.NewRequest("POST", "/v1/wallet/connect", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Disconnect(rec, httptest.NewRequest("POST", "/v1/wallet/disconnect", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest("GET", "/v1/wallet", nil))

	var status api.WalletStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Connected)
	assert.Empty(t, status.Address)
}
