package models

// Counts is the per-kind activity count for a validator. The JSON tags are
// the snake_case keys the API returns.
type Counts struct {
	VarsV1                   int64 `json:"vars_v1"`
	ValidatorHeartbeatV1     int64 `json:"validator_heartbeat_v1"`
	UnstakeValidatorV1       int64 `json:"unstake_validator_v1"`
	TransferValidatorStakeV1 int64 `json:"transfer_validator_stake_v1"`
	TransferHotspotV1        int64 `json:"transfer_hotspot_v1"`
	TokenBurnV1              int64 `json:"token_burn_v1"`
	TokenBurnExchangeRateV1  int64 `json:"token_burn_exchange_rate_v1"`
	StateChannelOpenV1       int64 `json:"state_channel_open_v1"`
	StateChannelCloseV1      int64 `json:"state_channel_close_v1"`
	StakeValidatorV1         int64 `json:"stake_validator_v1"`
	SecurityExchangeV1       int64 `json:"security_exchange_v1"`
	SecurityCoinbaseV1       int64 `json:"security_coinbase_v1"`
	RoutingV1                int64 `json:"routing_v1"`
	RewardsV2                int64 `json:"rewards_v2"`
	RewardsV1                int64 `json:"rewards_v1"`
	RedeemHTLCV1             int64 `json:"redeem_htlc_v1"`
	PriceOracleV1            int64 `json:"price_oracle_v1"`
	PocRequestV1             int64 `json:"poc_request_v1"`
	PocReceiptsV1            int64 `json:"poc_receipts_v1"`
	PaymentV2                int64 `json:"payment_v2"`
	PaymentV1                int64 `json:"payment_v1"`
	OUIV1                    int64 `json:"oui_v1"`
	GenGatewayV1             int64 `json:"gen_gateway_v1"`
	DCCoinbaseV1             int64 `json:"dc_coinbase_v1"`
	CreateHTLCV1             int64 `json:"create_htlc_v1"`
	ConsensusGroupV1         int64 `json:"consensus_group_v1"`
	ConsensusGroupFailureV1  int64 `json:"consensus_group_failure_v1"`
	CoinbaseV1               int64 `json:"coinbase_v1"`
	AssertLocationV2         int64 `json:"assert_location_v2"`
	AssertLocationV1         int64 `json:"assert_location_v1"`
	AddGatewayV1             int64 `json:"add_gateway_v1"`
}
