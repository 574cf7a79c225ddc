package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Transaction type tags as they appear in the "type" field on the wire.
const (
	TxnPaymentV1                = "payment_v1"
	TxnPaymentV2                = "payment_v2"
	TxnRewardsV1                = "rewards_v1"
	TxnRewardsV2                = "rewards_v2"
	TxnAddGatewayV1             = "add_gateway_v1"
	TxnAssertLocationV1         = "assert_location_v1"
	TxnAssertLocationV2         = "assert_location_v2"
	TxnTransferHotspotV1        = "transfer_hotspot_v1"
	TxnStakeValidatorV1         = "stake_validator_v1"
	TxnUnstakeValidatorV1       = "unstake_validator_v1"
	TxnTransferValidatorStakeV1 = "transfer_validator_stake_v1"
	TxnTokenBurnV1              = "token_burn_v1"
)

// ErrMissingType is returned by FromJSON when a record has no "type" field.
var ErrMissingType = errors.New("transaction record has no type")

// Transaction is any ledger transaction kind.
type Transaction interface {
	TxnType() string
	TxnHash() string
	TxnHeight() int64
	TxnTime() int64
}

// TxnCommon holds the fields every transaction record carries.
type TxnCommon struct {
	Type   string `json:"type"`
	Hash   string `json:"hash"`
	Height int64  `json:"height"`
	Time   int64  `json:"time"`
}

func (c TxnCommon) TxnType() string  { return c.Type }
func (c TxnCommon) TxnHash() string  { return c.Hash }
func (c TxnCommon) TxnHeight() int64 { return c.Height }
func (c TxnCommon) TxnTime() int64   { return c.Time }

// PaymentV1 moves HNT from one payer to one payee.
type PaymentV1 struct {
	TxnCommon
	Payer     string `json:"payer"`
	Payee     string `json:"payee"`
	Amount    int64  `json:"amount"`
	Fee       int64  `json:"fee"`
	Nonce     int64  `json:"nonce"`
	Signature string `json:"signature"`
}

// AmountBalance returns the payment amount in HNT.
func (p *PaymentV1) AmountBalance() Balance {
	return NewBalance(p.Amount, Default)
}

// Payment is one leg of a PaymentV2.
type Payment struct {
	Payee  string `json:"payee"`
	Amount int64  `json:"amount"`
	Memo   string `json:"memo,omitempty"`
}

// PaymentV2 moves HNT from one payer to several payees.
type PaymentV2 struct {
	TxnCommon
	Payer     string    `json:"payer"`
	Payments  []Payment `json:"payments"`
	Fee       int64     `json:"fee"`
	Nonce     int64     `json:"nonce"`
	Signature string    `json:"signature"`
}

// TotalAmount sums every payment leg.
func (p *PaymentV2) TotalAmount() Balance {
	var total int64
	for _, payment := range p.Payments {
		total += payment.Amount
	}
	return NewBalance(total, Default)
}

// Reward is one entry of a rewards transaction.
type Reward struct {
	Type    string `json:"type"`
	Gateway string `json:"gateway,omitempty"`
	Account string `json:"account"`
	Amount  int64  `json:"amount"`
}

// RewardsV1 distributes epoch rewards.
type RewardsV1 struct {
	TxnCommon
	StartEpoch int64    `json:"start_epoch"`
	EndEpoch   int64    `json:"end_epoch"`
	Rewards    []Reward `json:"rewards"`
}

// RewardsV2 has the same shape as RewardsV1.
type RewardsV2 struct {
	RewardsV1
}

// AddGatewayV1 registers a hotspot.
type AddGatewayV1 struct {
	TxnCommon
	Gateway    string `json:"gateway"`
	Owner      string `json:"owner"`
	Payer      string `json:"payer"`
	Fee        int64  `json:"fee"`
	StakingFee int64  `json:"staking_fee"`
}

// AssertLocationV1 sets a hotspot's location.
type AssertLocationV1 struct {
	TxnCommon
	Gateway    string `json:"gateway"`
	Owner      string `json:"owner"`
	Payer      string `json:"payer"`
	Location   string `json:"location"`
	Nonce      int64  `json:"nonce"`
	Fee        int64  `json:"fee"`
	StakingFee int64  `json:"staking_fee"`
}

// AssertLocationV2 adds antenna gain and elevation.
type AssertLocationV2 struct {
	AssertLocationV1
	Gain      int64 `json:"gain"`
	Elevation int64 `json:"elevation"`
}

// TransferHotspotV1 changes a hotspot's owner.
type TransferHotspotV1 struct {
	TxnCommon
	Gateway        string `json:"gateway"`
	Seller         string `json:"seller"`
	Buyer          string `json:"buyer"`
	AmountToSeller int64  `json:"amount_to_seller"`
	Fee            int64  `json:"fee"`
}

// StakeValidatorV1 stakes a validator.
type StakeValidatorV1 struct {
	TxnCommon
	Address string `json:"address"`
	Owner   string `json:"owner"`
	Stake   int64  `json:"stake"`
	Fee     int64  `json:"fee"`
}

// UnstakeValidatorV1 starts a validator's stake release.
type UnstakeValidatorV1 struct {
	TxnCommon
	Address            string `json:"address"`
	Owner              string `json:"owner"`
	StakeAmount        int64  `json:"stake_amount"`
	StakeReleaseHeight int64  `json:"stake_release_height"`
	Fee                int64  `json:"fee"`
}

// TransferValidatorStakeV1 moves stake between validators or owners.
type TransferValidatorStakeV1 struct {
	TxnCommon
	OldAddress    string `json:"old_address"`
	NewAddress    string `json:"new_address"`
	OldOwner      string `json:"old_owner"`
	NewOwner      string `json:"new_owner"`
	PaymentAmount int64  `json:"payment_amount"`
	StakeAmount   int64  `json:"stake_amount"`
	Fee           int64  `json:"fee"`
}

// TokenBurnV1 burns HNT into data credits.
type TokenBurnV1 struct {
	TxnCommon
	Payer  string `json:"payer"`
	Payee  string `json:"payee"`
	Amount int64  `json:"amount"`
	Memo   string `json:"memo,omitempty"`
	Nonce  int64  `json:"nonce"`
	Fee    int64  `json:"fee"`
}

// UnknownTransaction is any kind without a dedicated type. Raw keeps the
// full record.
type UnknownTransaction struct {
	TxnCommon
	Raw json.RawMessage `json:"-"`
}

// FromJSON decodes one transaction record, selecting the concrete kind by its
// "type" field.
func FromJSON(raw json.RawMessage) (Transaction, error) {
	var common TxnCommon
	if err := json.Unmarshal(raw, &common); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if common.Type == "" {
		return nil, ErrMissingType
	}

	var txn Transaction
	switch common.Type {
	case TxnPaymentV1:
		txn = &PaymentV1{}
	case TxnPaymentV2:
		txn = &PaymentV2{}
	case TxnRewardsV1:
		txn = &RewardsV1{}
	case TxnRewardsV2:
		txn = &RewardsV2{}
	case TxnAddGatewayV1:
		txn = &AddGatewayV1{}
	case TxnAssertLocationV1:
		txn = &AssertLocationV1{}
	case TxnAssertLocationV2:
		txn = &AssertLocationV2{}
	case TxnTransferHotspotV1:
		txn = &TransferHotspotV1{}
	case TxnStakeValidatorV1:
		txn = &StakeValidatorV1{}
	case TxnUnstakeValidatorV1:
		txn = &UnstakeValidatorV1{}
	case TxnTransferValidatorStakeV1:
		txn = &TransferValidatorStakeV1{}
	case TxnTokenBurnV1:
		txn = &TokenBurnV1{}
	default:
		return &UnknownTransaction{TxnCommon: common, Raw: append(json.RawMessage(nil), raw...)}, nil
	}

	if err := json.Unmarshal(raw, txn); err != nil {
		return nil, fmt.Errorf("decode %s: %w", common.Type, err)
	}
	return txn, nil
}
