package models

import (
	"cosmossdk.io/math"
)

// Auction is an ascending-bid sale of a single custodied token. TopBidder
// is nil until the first accepted bid; BidAmount never decreases while the
// auction is open.
type Auction struct {
	TokenContract string    `json:"token_contract"`
	TokenId       string    `json:"token_id"`
	Creator       string    `json:"creator"`
	MinBid        math.Int  `json:"min_bid"`
	TopBidder     *string   `json:"top_bidder,omitempty"`
	BidAmount     math.Int  `json:"bid_amount"`
	ExpiresAt     int64     `json:"expires_at"`
	Denom         AssetInfo `json:"denom"`
	Closed        bool      `json:"closed"`
}

// HasBidder reports whether any bid has been accepted.
func (a Auction) HasBidder() bool {
	return a.TopBidder != nil
}

// SellOrder is a fixed-price listing of a single custodied token.
// Cancelled doubles as the terminal flag for both fill and cancel.
type SellOrder struct {
	TokenContract  string `json:"token_contract"`
	TokenId        string `json:"token_id"`
	Creator        string `json:"creator"`
	RequestedAsset Asset  `json:"requested_asset"`
	Cancelled      bool   `json:"cancelled"`
}

// ExchangeConfig holds the exchange owner and the settlement fee rate.
type ExchangeConfig struct {
	Owner   string         `json:"owner"`
	FeeRate math.LegacyDec `json:"fee_rate"`
}
