// Package tokens maps payment currencies to ledger token addresses and scales
// human-entered decimal amounts into the fixed-point integer representation
// the ledger expects.
package tokens

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Decimals is the fixed-point scale assumed for every supported token.
const Decimals = 18

// ErrUnknownCurrency is returned when a currency has no token mapping.
// Unknown currencies are a hard error: silently substituting a default token
// would lock the wrong asset.
var ErrUnknownCurrency = errors.New("no token address for currency")

const (
	usdcAddress = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
	wethAddress = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	daiAddress  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	usdtAddress = "0xdAC17F958D2ee523a2206206994597C13D831ec7"
	knrtAddress = "0x4b4E14A3773eE558B6597070797fd51EB48606e5"
	eurcAddress = "0x1aBaEA1f7C830bD89Acc67eC4af516284b1bC33c"
)

// addressByCurrency is static configuration, not a protocol. Fiat currencies
// settle in their stablecoin equivalents.
var addressByCurrency = map[string]string{
	"USD":  usdcAddress,
	"USDC": usdcAddress,
	"ETH":  wethAddress,
	"DAI":  daiAddress,
	"USDT": usdtAddress,
	"KNRT": knrtAddress,
	"EUR":  eurcAddress,
}

// AddressFor returns the ledger token address for a payment currency.
func AddressFor(currency string) (string, error) {
	addr, ok := addressByCurrency[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, currency)
	}
	return addr, nil
}

// Scale converts a human decimal amount into the ledger's fixed-point integer
// form. Precision beyond the token's decimal count is truncated.
func Scale(amount decimal.Decimal) *big.Int {
	return amount.Shift(Decimals).Truncate(0).BigInt()
}

// Unscale converts a fixed-point ledger amount back to a decimal for display.
func Unscale(v *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(v, -Decimals)
}
