// Package bridge implements the ledger.Wallet port as an HTTP client against
// a companion wallet-bridge daemon. The daemon owns key material and presents
// every mutating request to the user for confirmation, so requests block until
// the user responds or the context is cancelled.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"

	"github.com/chris/timelock-payments/pkg/ledger"
)

// Client talks to the wallet-bridge daemon over HTTP JSON.
type Client struct {
	baseURL string
	http    *http.Client
}

// Make sure we conform to the interface
var _ ledger.Wallet = (*Client)(nil)

// New creates a bridge client. The HTTP client carries no timeout of its own:
// mutating calls are user-paced, and callers bound the wait through contexts.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

type txResponse struct {
	TxHash string `json:"tx_hash"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Connect requests wallet access from the bridge.
func (c *Client) Connect(ctx context.Context) (string, error) {
	var out struct {
		Address string `json:"address"`
	}
	if err := c.post(ctx, "/v1/connect", nil, &out); err != nil {
		return "", err
	}
	return out.Address, nil
}

// Allowance reads the current allowance granted by owner to spender.
func (c *Client) Allowance(ctx context.Context, token, owner, spender string) (*big.Int, error) {
	q := url.Values{"token": {token}, "owner": {owner}, "spender": {spender}}
	var out struct {
		Allowance string `json:"allowance"`
	}
	if err := c.get(ctx, "/v1/allowance?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	allowance, ok := new(big.Int).SetString(out.Allowance, 10)
	if !ok {
		return nil, fmt.Errorf("bridge returned invalid allowance %q", out.Allowance)
	}
	return allowance, nil
}

// Approve submits an approval transaction and blocks until the user confirms.
func (c *Client) Approve(ctx context.Context, token, spender string, amount *big.Int) (string, error) {
	body := map[string]string{
		"token":   token,
		"spender": spender,
		"amount":  amount.String(),
	}
	var out txResponse
	if err := c.post(ctx, "/v1/approve", body, &out); err != nil {
		return "", err
	}
	return out.TxHash, nil
}

// CreateLock submits a lock-creation transaction and blocks until broadcast.
func (c *Client) CreateLock(ctx context.Context, token string, totalAmount *big.Int, recipients []string, amounts []*big.Int, releaseTime int64) (string, error) {
	wireAmounts := make([]string, len(amounts))
	for i, a := range amounts {
		wireAmounts[i] = a.String()
	}
	body := map[string]any{
		"token":        token,
		"total_amount": totalAmount.String(),
		"recipients":   recipients,
		"amounts":      wireAmounts,
		"release_time": releaseTime,
	}
	var out txResponse
	if err := c.post(ctx, "/v1/locks", body, &out); err != nil {
		return "", err
	}
	return out.TxHash, nil
}

// GetAllLocks fetches the raw lock listing from the contract.
func (c *Client) GetAllLocks(ctx context.Context) (*ledger.LockBatch, error) {
	var out struct {
		Ids              []string   `json:"ids"`
		Tokens           []string   `json:"tokens"`
		Amounts          []string   `json:"amounts"`
		ReleaseTimes     []int64    `json:"release_times"`
		Released         []bool     `json:"released"`
		Recipients       [][]string `json:"recipients"`
		RecipientAmounts [][]string `json:"recipient_amounts"`
	}
	if err := c.get(ctx, "/v1/locks", &out); err != nil {
		return nil, err
	}

	batch := &ledger.LockBatch{
		Ids:          out.Ids,
		Tokens:       out.Tokens,
		ReleaseTimes: out.ReleaseTimes,
		Released:     out.Released,
		Recipients:   out.Recipients,
	}
	batch.Amounts = make([]*big.Int, len(out.Amounts))
	for i, a := range out.Amounts {
		v, ok := new(big.Int).SetString(a, 10)
		if !ok {
			return nil, fmt.Errorf("bridge returned invalid lock amount %q", a)
		}
		batch.Amounts[i] = v
	}
	batch.RecipientAmounts = make([][]*big.Int, len(out.RecipientAmounts))
	for i, group := range out.RecipientAmounts {
		batch.RecipientAmounts[i] = make([]*big.Int, len(group))
		for j, a := range group {
			v, ok := new(big.Int).SetString(a, 10)
			if !ok {
				return nil, fmt.Errorf("bridge returned invalid recipient amount %q", a)
			}
			batch.RecipientAmounts[i][j] = v
		}
	}
	return batch, nil
}

// PerformUpkeep triggers the contract's execution of due locks.
func (c *Client) PerformUpkeep(ctx context.Context) (string, error) {
	var out txResponse
	if err := c.post(ctx, "/v1/upkeep", nil, &out); err != nil {
		return "", err
	}
	return out.TxHash, nil
}

// ChainTime returns the chain's current time as epoch seconds.
func (c *Client) ChainTime(ctx context.Context) (int64, error) {
	var out struct {
		Time int64 `json:"time"`
	}
	if err := c.get(ctx, "/v1/time", &out); err != nil {
		return 0, err
	}
	return out.Time, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build bridge request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("failed to encode bridge request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to build bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bridge unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var bridgeErr errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&bridgeErr); err == nil && bridgeErr.Error != "" {
			return fmt.Errorf("bridge: %s", bridgeErr.Error)
		}
		return fmt.Errorf("bridge returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode bridge response: %w", err)
	}
	return nil
}
