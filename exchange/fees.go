package exchange

import (
	"errors"

	"cosmossdk.io/math"
	log "github.com/sirupsen/logrus"

	"github.com/stardust-protocol/nft-settlement/common"
	"github.com/stardust-protocol/nft-settlement/ledger"
	"github.com/stardust-protocol/nft-settlement/models"
)

// Fee treasury: accumulated, unwithdrawn protocol fees keyed by
// denomination. Settlement events accrue into it; the owner drains one
// denomination at a time.

// accrueFee adds amount to the treasury balance for denom, creating the
// entry when absent.
func accrueFee(s ledger.Store, denom models.AssetInfo, amount math.Int) error {
	balance, err := loadFeeBalance(s, denom)
	if err != nil {
		return err
	}
	return ledger.SetJSON(s, feeKey(denom), balance.Add(amount))
}

// WithdrawFees sends the full accrued balance for denom to recipient and
// zeroes it. Owner-only. Other denominations are untouched.
func (e *Engine) WithdrawFees(ctx models.ExecContext, denom models.AssetInfo, recipient string) ([]models.Effect, error) {
	logger := log.WithField("operation", "withdraw_fees").WithField("denom", denom.String())

	var effects []models.Effect
	err := e.ledger.Update(func(s ledger.Store) error {
		var cfg models.ExchangeConfig
		if err := ledger.GetJSON(s, keyConfig, &cfg); err != nil {
			return err
		}
		if ctx.Sender != cfg.Owner {
			return common.ErrUnauthorized.Wrap("only the owner can withdraw fees")
		}

		balance, err := loadFeeBalance(s, denom)
		if err != nil {
			return err
		}
		if err := ledger.SetJSON(s, feeKey(denom), math.ZeroInt()); err != nil {
			return err
		}

		effects = append(effects, models.TransferEffect{
			Recipient: recipient,
			Asset:     models.Asset{Info: denom, Amount: balance},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Withdrew fees")
	return effects, nil
}

// FeeBalance returns the accrued, unwithdrawn balance for denom.
func (e *Engine) FeeBalance(denom models.AssetInfo) (math.Int, error) {
	balance := math.ZeroInt()
	err := e.ledger.View(func(s ledger.Store) error {
		var err error
		balance, err = loadFeeBalance(s, denom)
		return err
	})
	return balance, err
}

func loadFeeBalance(s ledger.Store, denom models.AssetInfo) (math.Int, error) {
	var balance math.Int
	err := ledger.GetJSON(s, feeKey(denom), &balance)
	if errors.Is(err, common.ErrNotFound) {
		return math.ZeroInt(), nil
	}
	if err != nil {
		return math.ZeroInt(), err
	}
	return balance, nil
}
