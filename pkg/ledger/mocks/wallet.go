// Package mocks provides testify mocks for the ledger ports.
package mocks

import (
	"context"
	"math/big"

	"github.com/stretchr/testify/mock"

	"github.com/chris/timelock-payments/pkg/ledger"
)

// Wallet is a mock implementation of ledger.Wallet.
type Wallet struct {
	mock.Mock
}

var _ ledger.Wallet = (*Wallet)(nil)

func (m *Wallet) Connect(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *Wallet) Allowance(ctx context.Context, token, owner, spender string) (*big.Int, error) {
	args := m.Called(ctx, token, owner, spender)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *Wallet) Approve(ctx context.Context, token, spender string, amount *big.Int) (string, error) {
	args := m.Called(ctx, token, spender, amount)
	return args.String(0), args.Error(1)
}

func (m *Wallet) CreateLock(ctx context.Context, token string, totalAmount *big.Int, recipients []string, amounts []*big.Int, releaseTime int64) (string, error) {
	args := m.Called(ctx, token, totalAmount, recipients, amounts, releaseTime)
	return args.String(0), args.Error(1)
}

func (m *Wallet) GetAllLocks(ctx context.Context) (*ledger.LockBatch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.LockBatch), args.Error(1)
}

func (m *Wallet) PerformUpkeep(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *Wallet) ChainTime(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// LockCreator is a mock implementation of the gateway slice the reconciler
// and batch scheduler drive.
type LockCreator struct {
	mock.Mock
}

func (m *LockCreator) EnsureAllowance(ctx context.Context, token string, required *big.Int) error {
	args := m.Called(ctx, token, required)
	return args.Error(0)
}

func (m *LockCreator) CreateLock(ctx context.Context, token string, totalAmount *big.Int, recipients []string, amounts []*big.Int, releaseTime int64) (string, error) {
	args := m.Called(ctx, token, totalAmount, recipients, amounts, releaseTime)
	return args.String(0), args.Error(1)
}
