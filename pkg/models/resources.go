package models

// Block is a ledger block. Heights start at 1, so a zero Height means the
// block is referenced by Hash only.
type Block struct {
	Height           int64  `json:"height"`
	Hash             string `json:"hash"`
	PrevHash         string `json:"prev_hash,omitempty"`
	Time             int64  `json:"time,omitempty"`
	TransactionCount int    `json:"transaction_count,omitempty"`
}

// HasHeight reports whether the block carries a usable height.
func (b Block) HasHeight() bool {
	return b.Height > 0
}

// HasHash reports whether the block carries a hash.
func (b Block) HasHash() bool {
	return b.Hash != ""
}

// Account is a wallet on the ledger.
type Account struct {
	Address    string `json:"address"`
	Balance    int64  `json:"balance,omitempty"`
	DCBalance  int64  `json:"dc_balance,omitempty"`
	SecBalance int64  `json:"sec_balance,omitempty"`
	Nonce      int64  `json:"nonce,omitempty"`
}

// HNT returns the account balance in HNT.
func (a Account) HNT() Balance {
	return NewBalance(a.Balance, Default)
}

// DataCredits returns the account data credit balance.
func (a Account) DataCredits() Balance {
	return NewBalance(a.DCBalance, DataCredit)
}

// Hotspot is a network gateway.
type Hotspot struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
	Owner   string `json:"owner,omitempty"`
}

// Validator is a consensus validator.
type Validator struct {
	Address string `json:"address"`
	Owner   string `json:"owner,omitempty"`
	Stake   int64  `json:"stake,omitempty"`
	Status  string `json:"status,omitempty"`
}
