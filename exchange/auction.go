package exchange

import (
	"errors"

	"cosmossdk.io/math"
	log "github.com/sirupsen/logrus"

	"github.com/stardust-protocol/nft-settlement/common"
	"github.com/stardust-protocol/nft-settlement/ledger"
	"github.com/stardust-protocol/nft-settlement/models"
)

// CreateAuction opens an ascending-bid auction over a token the engine has
// just taken into custody. ctx.Sender is the token contract delivering the
// token; creator rode along in the receive payload.
func (e *Engine) CreateAuction(
	ctx models.ExecContext,
	creator string,
	tokenId string,
	minBid math.Int,
	expiresAt int64,
	denom models.AssetInfo,
) (uint64, error) {
	auction := models.Auction{
		TokenContract: ctx.Sender,
		TokenId:       tokenId,
		Creator:       creator,
		MinBid:        minBid,
		TopBidder:     nil,
		BidAmount:     math.ZeroInt(),
		ExpiresAt:     expiresAt,
		Denom:         denom,
		Closed:        false,
	}

	var id uint64
	err := e.ledger.Update(func(s ledger.Store) error {
		var err error
		if id, err = ledger.NextID(s); err != nil {
			return err
		}
		return ledger.SetJSON(s, auctionKey(id), auction)
	})
	if err != nil {
		return 0, err
	}

	log.WithField("operation", "create_auction").
		WithField("auction_id", id).
		WithField("token_id", tokenId).
		Debug("Created auction")
	return id, nil
}

// IncreaseBid adds payment to the sender's escrowed bid for the auction.
// Bids accumulate: a bidder raises their own bid by topping it up, never by
// withdrawing and re-submitting. The new total must clear the minimum bid
// and strictly beat the current top bid; a tie does not unseat the
// incumbent.
func (e *Engine) IncreaseBid(ctx models.ExecContext, auctionId uint64, payment models.Asset) ([]models.Effect, error) {
	logger := log.WithField("operation", "increase_bid").
		WithField("auction_id", auctionId).
		WithField("bidder", ctx.Sender)

	var effects []models.Effect
	err := e.ledger.Update(func(s ledger.Store) error {
		var auction models.Auction
		if err := ledger.GetJSON(s, auctionKey(auctionId), &auction); err != nil {
			return err
		}
		if err := payment.AssertSent(ctx.Funds); err != nil {
			return err
		}
		if auction.Closed || ctx.Time.Unix() >= auction.ExpiresAt {
			return common.ErrAlreadyClosed.Wrapf("auction %d is closed or expired", auctionId)
		}
		if !auction.Denom.Equal(payment.Info) {
			return common.ErrWrongDenomination.Wrapf(
				"auction %d is denominated in %s", auctionId, auction.Denom)
		}

		bid, err := loadBid(s, auctionId, ctx.Sender, payment.Info)
		if err != nil {
			return err
		}
		bid.Amount = bid.Amount.Add(payment.Amount)
		if bid.Amount.LT(auction.MinBid) {
			return common.ErrBelowMinimum.Wrapf(
				"total bid %s is below minimum %s", bid.Amount, auction.MinBid)
		}
		if bid.Amount.LTE(auction.BidAmount) {
			return common.ErrNotHighEnough.Wrapf(
				"total bid %s does not beat current top bid %s", bid.Amount, auction.BidAmount)
		}

		bidder := ctx.Sender
		auction.TopBidder = &bidder
		auction.BidAmount = bid.Amount

		if err := ledger.SetJSON(s, auctionBidKey(auctionId, ctx.Sender), bid); err != nil {
			return err
		}
		if err := ledger.SetJSON(s, auctionKey(auctionId), auction); err != nil {
			return err
		}

		if payment.RequiresPull() {
			effects = append(effects, models.PullFundsEffect{
				Owner: ctx.Sender,
				Asset: payment,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Accepted bid")
	return effects, nil
}

// WithdrawBid returns the sender's escrowed bid. The leading bidder cannot
// withdraw: their funds stay custodied until settlement. The stored bid is
// zeroed rather than deleted so a later re-bid starts from a clean zero.
func (e *Engine) WithdrawBid(ctx models.ExecContext, auctionId uint64) ([]models.Effect, error) {
	logger := log.WithField("operation", "withdraw_bid").
		WithField("auction_id", auctionId).
		WithField("bidder", ctx.Sender)

	var effects []models.Effect
	err := e.ledger.Update(func(s ledger.Store) error {
		var auction models.Auction
		if err := ledger.GetJSON(s, auctionKey(auctionId), &auction); err != nil {
			return err
		}
		if auction.HasBidder() && *auction.TopBidder == ctx.Sender {
			return common.ErrUnauthorized.Wrap("cannot withdraw the leading bid")
		}

		var bid models.Asset
		if err := ledger.GetJSON(s, auctionBidKey(auctionId, ctx.Sender), &bid); err != nil {
			return err
		}

		zeroed := models.Asset{Info: bid.Info, Amount: math.ZeroInt()}
		if err := ledger.SetJSON(s, auctionBidKey(auctionId, ctx.Sender), zeroed); err != nil {
			return err
		}

		effects = append(effects, models.TransferEffect{
			Recipient: ctx.Sender,
			Asset:     bid,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Withdrew bid")
	return effects, nil
}

// CloseAuction settles an auction. Before expiration only the creator may
// close; afterwards anyone may. With requireNoBidder the call fails if any
// bid landed, so a creator can retract an un-bid auction without racing a
// bid in the same window. With a top bidder the bid is split into the fee
// accrual and the creator payout, and the token goes to the bidder;
// otherwise the token returns to the creator.
func (e *Engine) CloseAuction(ctx models.ExecContext, auctionId uint64, requireNoBidder bool) ([]models.Effect, error) {
	logger := log.WithField("operation", "close_auction").WithField("auction_id", auctionId)

	var effects []models.Effect
	err := e.ledger.Update(func(s ledger.Store) error {
		var auction models.Auction
		if err := ledger.GetJSON(s, auctionKey(auctionId), &auction); err != nil {
			return err
		}
		if auction.Closed {
			return common.ErrAlreadyClosed.Wrapf("auction %d is already closed", auctionId)
		}
		if requireNoBidder && auction.HasBidder() {
			return common.ErrBidderPresent.Wrapf("auction %d has a bidder", auctionId)
		}
		if ctx.Time.Unix() < auction.ExpiresAt && ctx.Sender != auction.Creator {
			return common.ErrUnauthorized.Wrap("only the creator can close before expiration")
		}

		if auction.HasBidder() {
			var cfg models.ExchangeConfig
			if err := ledger.GetJSON(s, keyConfig, &cfg); err != nil {
				return err
			}

			fee := cfg.FeeRate.MulInt(auction.BidAmount).TruncateInt()
			if err := accrueFee(s, auction.Denom, fee); err != nil {
				return err
			}

			effects = append(effects,
				models.TransferEffect{
					Recipient: auction.Creator,
					Asset: models.Asset{
						Info:   auction.Denom,
						Amount: auction.BidAmount.Sub(fee),
					},
				},
				models.TransferTokenEffect{
					Contract:  auction.TokenContract,
					TokenId:   auction.TokenId,
					Recipient: *auction.TopBidder,
				},
			)
		} else {
			effects = append(effects, models.TransferTokenEffect{
				Contract:  auction.TokenContract,
				TokenId:   auction.TokenId,
				Recipient: auction.Creator,
			})
		}

		auction.Closed = true
		return ledger.SetJSON(s, auctionKey(auctionId), auction)
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Closed auction")
	return effects, nil
}

func (e *Engine) AuctionById(id uint64) (models.Auction, error) {
	var auction models.Auction
	err := e.ledger.View(func(s ledger.Store) error {
		return ledger.GetJSON(s, auctionKey(id), &auction)
	})
	return auction, err
}

// Bid returns the sender's current escrow for an auction, zero if none.
func (e *Engine) Bid(auctionId uint64, bidder string) (models.Asset, error) {
	var bid models.Asset
	err := e.ledger.View(func(s ledger.Store) error {
		var err error
		bid, err = loadBid(s, auctionId, bidder, models.AssetInfo{})
		return err
	})
	return bid, err
}

// loadBid reads a bidder's escrow, defaulting to zero of fallback when no
// bid exists yet.
func loadBid(s ledger.Store, auctionId uint64, bidder string, fallback models.AssetInfo) (models.Asset, error) {
	var bid models.Asset
	err := ledger.GetJSON(s, auctionBidKey(auctionId, bidder), &bid)
	if errors.Is(err, common.ErrNotFound) {
		return models.Asset{Info: fallback, Amount: math.ZeroInt()}, nil
	}
	if err != nil {
		return bid, err
	}
	return bid, nil
}
