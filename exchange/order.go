package exchange

import (
	log "github.com/sirupsen/logrus"

	"github.com/stardust-protocol/nft-settlement/common"
	"github.com/stardust-protocol/nft-settlement/ledger"
	"github.com/stardust-protocol/nft-settlement/models"
)

// CreateSellOrder lists a custodied token at a fixed price. Mirrors auction
// creation: ctx.Sender is the delivering token contract.
func (e *Engine) CreateSellOrder(
	ctx models.ExecContext,
	creator string,
	tokenId string,
	requestedAsset models.Asset,
) (uint64, error) {
	order := models.SellOrder{
		TokenContract:  ctx.Sender,
		TokenId:        tokenId,
		Creator:        creator,
		RequestedAsset: requestedAsset,
		Cancelled:      false,
	}

	var id uint64
	err := e.ledger.Update(func(s ledger.Store) error {
		var err error
		if id, err = ledger.NextID(s); err != nil {
			return err
		}
		return ledger.SetJSON(s, sellOrderKey(id), order)
	})
	if err != nil {
		return 0, err
	}

	log.WithField("operation", "create_sell_order").
		WithField("order_id", id).
		WithField("token_id", tokenId).
		Debug("Created sell order")
	return id, nil
}

// FillSellOrder settles an open order: the payment must match the requested
// asset exactly, the creator receives the payment minus the fee, and the
// token goes to the filler. The order is terminal afterwards.
func (e *Engine) FillSellOrder(ctx models.ExecContext, orderId uint64, payment models.Asset) ([]models.Effect, error) {
	logger := log.WithField("operation", "fill_sell_order").
		WithField("order_id", orderId).
		WithField("filler", ctx.Sender)

	var effects []models.Effect
	err := e.ledger.Update(func(s ledger.Store) error {
		var cfg models.ExchangeConfig
		if err := ledger.GetJSON(s, keyConfig, &cfg); err != nil {
			return err
		}
		var order models.SellOrder
		if err := ledger.GetJSON(s, sellOrderKey(orderId), &order); err != nil {
			return err
		}
		if order.Cancelled {
			return common.ErrUnavailable.Wrapf("order %d has been cancelled or filled", orderId)
		}
		if !payment.Equal(order.RequestedAsset) {
			return common.ErrInsufficientPayment.Wrapf(
				"order %d requests %s of %s", orderId, order.RequestedAsset.Amount, order.RequestedAsset.Info)
		}
		if err := payment.AssertSent(ctx.Funds); err != nil {
			return err
		}

		order.Cancelled = true
		if err := ledger.SetJSON(s, sellOrderKey(orderId), order); err != nil {
			return err
		}

		if payment.RequiresPull() {
			effects = append(effects, models.PullFundsEffect{
				Owner: ctx.Sender,
				Asset: payment,
			})
		}

		fee := cfg.FeeRate.MulInt(order.RequestedAsset.Amount).TruncateInt()
		if err := accrueFee(s, order.RequestedAsset.Info, fee); err != nil {
			return err
		}

		effects = append(effects,
			models.TransferEffect{
				Recipient: order.Creator,
				Asset: models.Asset{
					Info:   order.RequestedAsset.Info,
					Amount: order.RequestedAsset.Amount.Sub(fee),
				},
			},
			models.TransferTokenEffect{
				Contract:  order.TokenContract,
				TokenId:   order.TokenId,
				Recipient: ctx.Sender,
			},
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Filled sell order")
	return effects, nil
}

// CancelSellOrder returns the custodied token to the creator. Creator-only,
// and only while the order is still open.
func (e *Engine) CancelSellOrder(ctx models.ExecContext, orderId uint64) ([]models.Effect, error) {
	logger := log.WithField("operation", "cancel_sell_order").WithField("order_id", orderId)

	var effects []models.Effect
	err := e.ledger.Update(func(s ledger.Store) error {
		var order models.SellOrder
		if err := ledger.GetJSON(s, sellOrderKey(orderId), &order); err != nil {
			return err
		}
		if ctx.Sender != order.Creator {
			return common.ErrUnauthorized.Wrap("only the creator can cancel")
		}
		if order.Cancelled {
			return common.ErrUnavailable.Wrapf("order %d has been cancelled or filled", orderId)
		}

		order.Cancelled = true
		if err := ledger.SetJSON(s, sellOrderKey(orderId), order); err != nil {
			return err
		}

		effects = append(effects, models.TransferTokenEffect{
			Contract:  order.TokenContract,
			TokenId:   order.TokenId,
			Recipient: order.Creator,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Cancelled sell order")
	return effects, nil
}

func (e *Engine) SellOrderById(id uint64) (models.SellOrder, error) {
	var order models.SellOrder
	err := e.ledger.View(func(s ledger.Store) error {
		return ledger.GetJSON(s, sellOrderKey(id), &order)
	})
	return order, err
}
