package bridge_test

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris/timelock-payments/pkg/ledger/bridge"
)

func TestConnect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/connect", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"address": "0xOWNER"})
	}))
	defer server.Close()

	client := bridge.New(server.URL)
	address, err := client.Connect(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "0xOWNER", address)
}

func TestAllowance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/allowance", r.URL.Path)
		assert.Equal(t, "0xTOKEN", r.URL.Query().Get("token"))
		assert.Equal(t, "0xOWNER", r.URL.Query().Get("owner"))
		assert.Equal(t, "0xSPENDER", r.URL.Query().Get("spender"))
		json.NewEncoder(w).Encode(map[string]string{"allowance": "500000000000000000000"})
	}))
	defer server.Close()

	client := bridge.New(server.URL)
	allowance, err := client.Allowance(context.Background(), "0xTOKEN", "0xOWNER", "0xSPENDER")

	assert.NoError(t, err)
	expected, _ := new(big.Int).SetString("500000000000000000000", 10)
	assert.Equal(t, expected, allowance)
}

func TestCreateLock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/locks", r.URL.Path)

		var body struct {
			Token       string   `json:"token"`
			TotalAmount string   `json:"total_amount"`
			Recipients  []string `json:"recipients"`
			Amounts     []string `json:"amounts"`
			ReleaseTime int64    `json:"release_time"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "500", body.TotalAmount)
		assert.Equal(t, []string{"0xABC"}, body.Recipients)
		assert.Equal(t, []string{"500"}, body.Amounts)
		assert.Equal(t, int64(5000), body.ReleaseTime)

		json.NewEncoder(w).Encode(map[string]string{"tx_hash": "0xlock"})
	}))
	defer server.Close()

	client := bridge.New(server.URL)
	amount := big.NewInt(500)
	txHash, err := client.CreateLock(context.Background(), "0xTOKEN", amount,
		[]string{"0xABC"}, []*big.Int{amount}, 5000)

	assert.NoError(t, err)
	assert.Equal(t, "0xlock", txHash)
}

func TestGetAllLocks(t *testing.T) {
	t.Run("Parses Amount Strings", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"ids":               []string{"1"},
				"tokens":            []string{"0xTOKEN"},
				"amounts":           []string{"100"},
				"release_times":     []int64{5000},
				"released":          []bool{false},
				"recipients":        [][]string{{"0xABC"}},
				"recipient_amounts": [][]string{{"100"}},
			})
		}))
		defer server.Close()

		client := bridge.New(server.URL)
		batch, err := client.GetAllLocks(context.Background())

		require.NoError(t, err)
		require.Len(t, batch.Amounts, 1)
		assert.Equal(t, big.NewInt(100), batch.Amounts[0])
		assert.Equal(t, big.NewInt(100), batch.RecipientAmounts[0][0])
	})

	t.Run("Invalid Amount String", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"amounts": []string{"garbage"}})
		}))
		defer server.Close()

		client := bridge.New(server.URL)
		_, err := client.GetAllLocks(context.Background())

		assert.ErrorContains(t, err, "invalid lock amount")
	})
}

func TestBridgeErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "user rejected the transaction"})
	}))
	defer server.Close()

	client := bridge.New(server.URL)
	_, err := client.PerformUpkeep(context.Background())

	assert.ErrorContains(t, err, "user rejected the transaction")
}

func TestChainTime(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/time", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]int64{"time": 1736503200})
	}))
	defer server.Close()

	client := bridge.New(server.URL)
	chainTime, err := client.ChainTime(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(1736503200), chainTime)
}
