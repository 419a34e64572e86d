package exchange

import (
	"github.com/stardust-protocol/nft-settlement/ledger"
	"github.com/stardust-protocol/nft-settlement/models"
)

var (
	keyConfig = []byte("exchange/config")

	prefixAuctions    = []byte("auctions/")
	prefixAuctionBids = []byte("auction_bids/")
	prefixSellOrders  = []byte("sell_orders/")
	prefixFees        = []byte("fees/")
)

func auctionKey(id uint64) []byte {
	return ledger.Uint64Key(prefixAuctions, id)
}

// auctionBidKey is the composite (auction, bidder) escrow key.
func auctionBidKey(id uint64, bidder string) []byte {
	key := ledger.Uint64Key(prefixAuctionBids, id)
	key = append(key, '/')
	return append(key, bidder...)
}

func sellOrderKey(id uint64) []byte {
	return ledger.Uint64Key(prefixSellOrders, id)
}

func feeKey(denom models.AssetInfo) []byte {
	return append(append([]byte{}, prefixFees...), denom.String()...)
}
