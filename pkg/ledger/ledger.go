// Package ledger is the boundary for interacting with the external timelock
// contract through a user-controlled wallet. The server never holds key
// material: every mutating call is delegated to a wallet implementation that
// blocks until the user confirms or rejects it.
package ledger

import (
	"context"
	"errors"
	"math/big"
)

// Wallet is the chain-agnostic port for the user's wallet and the timelock
// contract behind it. Mutating calls (Connect, Approve, CreateLock,
// PerformUpkeep) suspend until the wallet responds; cancel the context to
// bound the wait.
type Wallet interface {
	// Connect requests wallet access and returns the connected address.
	Connect(ctx context.Context) (string, error)

	// Allowance returns the current spending allowance granted by owner to spender.
	Allowance(ctx context.Context, token, owner, spender string) (*big.Int, error)

	// Approve submits an approval transaction and returns its hash once broadcast.
	Approve(ctx context.Context, token, spender string, amount *big.Int) (string, error)

	// CreateLock submits a lock-creation transaction and returns its hash once broadcast.
	// Confirmation receipts are not awaited beyond the broadcast.
	CreateLock(ctx context.Context, token string, totalAmount *big.Int, recipients []string, amounts []*big.Int, releaseTime int64) (string, error)

	// GetAllLocks returns the raw parallel-array lock listing from the contract.
	GetAllLocks(ctx context.Context) (*LockBatch, error)

	// PerformUpkeep triggers the contract's own execution of due locks.
	PerformUpkeep(ctx context.Context) (string, error)

	// ChainTime returns the chain's current time as epoch seconds.
	ChainTime(ctx context.Context) (int64, error)
}

// LockBatch is the contract's wire shape for the lock listing: one entry per
// index across every slice. The gateway validates and converts it into
// per-lock structs before anything else sees it.
type LockBatch struct {
	Ids              []string     `json:"ids"`
	Tokens           []string     `json:"tokens"`
	Amounts          []*big.Int   `json:"amounts"`
	ReleaseTimes     []int64      `json:"release_times"`
	Released         []bool       `json:"released"`
	Recipients       [][]string   `json:"recipients"`
	RecipientAmounts [][]*big.Int `json:"recipient_amounts"`
}

// ErrBusy is returned when a wallet request is already awaiting user
// confirmation. Concurrent requests are rejected, never queued, to avoid
// conflicting wallet popups.
var ErrBusy = errors.New("a wallet request is already in progress")

// ErrNotConnected is returned when an operation requires a connected wallet.
var ErrNotConnected = errors.New("wallet not connected")

// ErrConnection is returned when the wallet extension is absent, locked, or
// the connection request was rejected. Recoverable by retry.
var ErrConnection = errors.New("wallet connection failed")

// ErrPastReleaseTime is returned when a lock's release time is not strictly in
// the future relative to chain time at submission.
var ErrPastReleaseTime = errors.New("release time must be in the future")

// ErrMalformedLocks is returned when the contract's lock listing does not
// parse into a consistent set of locks.
var ErrMalformedLocks = errors.New("malformed lock listing from ledger")
