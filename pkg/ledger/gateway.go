package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"

	"github.com/chris/timelock-payments/pkg/models"
)

// maxApproval is the effectively-unlimited allowance granted on first
// approval so the user is not prompted again for every lock.
var maxApproval = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// Gateway drives the timelock contract through a Wallet. It serializes
// wallet-confirmation requests: a second request while one is outstanding is
// rejected immediately with ErrBusy.
type Gateway struct {
	wallet  Wallet
	spender string // timelock contract address
	state   *ConnectionState
	logger  *slog.Logger

	mu   sync.Mutex
	busy bool
}

// NewGateway creates a Gateway for the given wallet and contract address.
func NewGateway(wallet Wallet, contractAddress string, state *ConnectionState, logger *slog.Logger) *Gateway {
	return &Gateway{
		wallet:  wallet,
		spender: contractAddress,
		state:   state,
		logger:  logger,
	}
}

// State exposes the shared connection state for subscribers.
func (g *Gateway) State() *ConnectionState {
	return g.state
}

func (g *Gateway) acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.busy {
		return ErrBusy
	}
	g.busy = true
	return nil
}

func (g *Gateway) release() {
	g.mu.Lock()
	g.busy = false
	g.mu.Unlock()
}

// Connect requests wallet access and records the connected address. It fails
// with ErrBusy if another wallet request is in flight.
func (g *Gateway) Connect(ctx context.Context) (string, error) {
	if err := g.acquire(); err != nil {
		return "", err
	}
	defer g.release()

	address, err := g.wallet.Connect(ctx)
	if err != nil {
		g.state.set(Connection{})
		return "", fmt.Errorf("%w: %v", ErrConnection, err)
	}

	g.state.set(Connection{Address: address, Connected: true})
	g.logger.Info("wallet connected", "address", address)
	return address, nil
}

// Disconnect clears the shared connection state.
func (g *Gateway) Disconnect() {
	g.state.set(Connection{})
	g.logger.Info("wallet disconnected")
}

// EnsureAllowance checks the current allowance for the timelock contract and,
// if insufficient, submits an approval for an effectively-unlimited amount.
// Suspends until the wallet responds.
func (g *Gateway) EnsureAllowance(ctx context.Context, token string, required *big.Int) error {
	conn := g.state.Current()
	if !conn.Connected {
		return ErrNotConnected
	}

	if err := g.acquire(); err != nil {
		return err
	}
	defer g.release()

	allowance, err := g.wallet.Allowance(ctx, token, conn.Address, g.spender)
	if err != nil {
		return fmt.Errorf("failed to read allowance: %w", err)
	}
	if allowance.Cmp(required) >= 0 {
		return nil
	}

	g.logger.Info("allowance insufficient, requesting approval",
		"token", token, "allowance", allowance.String(), "required", required.String())

	txHash, err := g.wallet.Approve(ctx, token, g.spender, maxApproval)
	if err != nil {
		return fmt.Errorf("approval rejected: %w", err)
	}
	g.logger.Info("approval broadcast", "token", token, "tx", txHash)
	return nil
}

// CreateLock validates the release time against chain time and submits the
// lock-creation transaction. A recipients/amounts length mismatch is a caller
// bug and panics. The returned hash is available once the transaction is
// broadcast; confirmation receipts are not awaited here.
func (g *Gateway) CreateLock(ctx context.Context, token string, totalAmount *big.Int, recipients []string, amounts []*big.Int, releaseTime int64) (string, error) {
	if len(recipients) != len(amounts) {
		panic(fmt.Sprintf("ledger: recipients (%d) and amounts (%d) must have equal length", len(recipients), len(amounts)))
	}
	if !g.state.Current().Connected {
		return "", ErrNotConnected
	}

	if err := g.acquire(); err != nil {
		return "", err
	}
	defer g.release()

	// Re-check the future guard against chain time: significant time may have
	// passed while awaiting user confirmation upstream.
	chainTime, err := g.wallet.ChainTime(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read chain time: %w", err)
	}
	if releaseTime <= chainTime {
		return "", fmt.Errorf("%w: release %d, chain time %d", ErrPastReleaseTime, releaseTime, chainTime)
	}

	txHash, err := g.wallet.CreateLock(ctx, token, totalAmount, recipients, amounts, releaseTime)
	if err != nil {
		return "", fmt.Errorf("lock creation failed: %w", err)
	}

	g.logger.Info("lock created", "token", token, "amount", totalAmount.String(),
		"release_time", releaseTime, "tx", txHash)
	return txHash, nil
}

// LoadAllLocks fetches and validates the contract's lock listing. Malformed
// responses yield an empty slice and a reportable error rather than a panic
// or a partial result.
func (g *Gateway) LoadAllLocks(ctx context.Context) ([]models.Lock, error) {
	batch, err := g.wallet.GetAllLocks(ctx)
	if err != nil {
		return []models.Lock{}, fmt.Errorf("failed to load locks: %w", err)
	}

	locks, err := parseLockBatch(batch)
	if err != nil {
		g.logger.Error("discarding malformed lock listing", "error", err)
		return []models.Lock{}, err
	}
	return locks, nil
}

// PerformUpkeep triggers the contract's execution of any due locks and then
// returns a refreshed lock listing. The upkeep transaction itself is
// fire-and-forget.
func (g *Gateway) PerformUpkeep(ctx context.Context) ([]models.Lock, error) {
	if err := g.acquire(); err != nil {
		return nil, err
	}

	txHash, err := g.wallet.PerformUpkeep(ctx)
	g.release()
	if err != nil {
		return nil, fmt.Errorf("upkeep failed: %w", err)
	}
	g.logger.Info("upkeep triggered", "tx", txHash)

	return g.LoadAllLocks(ctx)
}

func parseLockBatch(batch *LockBatch) ([]models.Lock, error) {
	if batch == nil {
		return nil, ErrMalformedLocks
	}
	n := len(batch.Ids)
	if len(batch.Tokens) != n || len(batch.Amounts) != n || len(batch.ReleaseTimes) != n ||
		len(batch.Released) != n || len(batch.Recipients) != n || len(batch.RecipientAmounts) != n {
		return nil, fmt.Errorf("%w: inconsistent array lengths", ErrMalformedLocks)
	}

	locks := make([]models.Lock, 0, n)
	for i := 0; i < n; i++ {
		if batch.Amounts[i] == nil {
			return nil, fmt.Errorf("%w: missing amount for lock %s", ErrMalformedLocks, batch.Ids[i])
		}
		if len(batch.Recipients[i]) != len(batch.RecipientAmounts[i]) {
			return nil, fmt.Errorf("%w: recipient mismatch for lock %s", ErrMalformedLocks, batch.Ids[i])
		}
		locks = append(locks, models.Lock{
			Id:          batch.Ids[i],
			Token:       batch.Tokens[i],
			TotalAmount: batch.Amounts[i],
			ReleaseTime: batch.ReleaseTimes[i],
			Released:    batch.Released[i],
			Recipients:  batch.Recipients[i],
			Amounts:     batch.RecipientAmounts[i],
		})
	}
	return locks, nil
}
