package models

import (
	"github.com/shopspring/decimal"
)

// Currency tickers.
const (
	TickerHNT      = "HNT"
	TickerDC       = "DC"
	TickerSecurity = "STO"
)

// CurrencyType describes how a base-unit integer maps to a display amount.
type CurrencyType struct {
	Ticker      string
	Coefficient decimal.Decimal
}

var (
	// Default is HNT, counted on the wire in bones (1e-8 HNT).
	Default = CurrencyType{Ticker: TickerHNT, Coefficient: decimal.New(1, -8)}

	// DataCredit is counted in whole data credits.
	DataCredit = CurrencyType{Ticker: TickerDC, Coefficient: decimal.NewFromInt(1)}

	// Security tokens share HNT's 1e-8 base unit.
	Security = CurrencyType{Ticker: TickerSecurity, Coefficient: decimal.New(1, -8)}
)

// Balance is an integer amount in a currency's base unit.
type Balance struct {
	Integer int64
	Type    CurrencyType
}

// NewBalance wraps a base-unit amount.
func NewBalance(integer int64, currency CurrencyType) Balance {
	return Balance{Integer: integer, Type: currency}
}

// Float returns the amount scaled by the currency coefficient.
func (b Balance) Float() decimal.Decimal {
	return decimal.NewFromInt(b.Integer).Mul(b.Type.Coefficient)
}

// String renders the amount with its ticker, e.g. "0.0001 HNT".
func (b Balance) String() string {
	return b.Float().String() + " " + b.Type.Ticker
}
