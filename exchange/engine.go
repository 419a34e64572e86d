package exchange

import (
	"cosmossdk.io/math"

	"github.com/stardust-protocol/nft-settlement/common"
	"github.com/stardust-protocol/nft-settlement/ledger"
	"github.com/stardust-protocol/nft-settlement/models"
)

// Engine runs auctions and fixed-price sell orders over custodied tokens,
// and keeps the fee treasury they settle into. Creation is triggered by
// token receipt: the calling token contract is recorded as the custodied
// asset's origin.
type Engine struct {
	ledger ledger.Ledger
}

func NewEngine(l ledger.Ledger) *Engine {
	return &Engine{ledger: l}
}

func (e *Engine) Instantiated() (bool, error) {
	var ok bool
	err := e.ledger.View(func(s ledger.Store) error {
		var err error
		ok, err = s.Has(keyConfig)
		return err
	})
	return ok, err
}

func (e *Engine) Instantiate(cfg models.ExchangeConfig) error {
	if err := validateFeeRate(cfg.FeeRate); err != nil {
		return err
	}
	return e.ledger.Update(func(s ledger.Store) error {
		ok, err := s.Has(keyConfig)
		if err != nil {
			return err
		}
		if ok {
			return common.ErrInvalidInput.Wrap("already instantiated")
		}
		return ledger.SetJSON(s, keyConfig, cfg)
	})
}

// UpdateConfig rotates the owner and the fee rate. Owner-only.
func (e *Engine) UpdateConfig(ctx models.ExecContext, owner string, feeRate math.LegacyDec) error {
	if err := validateFeeRate(feeRate); err != nil {
		return err
	}
	return e.ledger.Update(func(s ledger.Store) error {
		var cfg models.ExchangeConfig
		if err := ledger.GetJSON(s, keyConfig, &cfg); err != nil {
			return err
		}
		if ctx.Sender != cfg.Owner {
			return common.ErrUnauthorized.Wrap("only the owner can update config")
		}
		cfg.Owner = owner
		cfg.FeeRate = feeRate
		return ledger.SetJSON(s, keyConfig, cfg)
	})
}

func (e *Engine) Config() (models.ExchangeConfig, error) {
	var cfg models.ExchangeConfig
	err := e.ledger.View(func(s ledger.Store) error {
		return ledger.GetJSON(s, keyConfig, &cfg)
	})
	return cfg, err
}

func validateFeeRate(feeRate math.LegacyDec) error {
	if feeRate.IsNil() || feeRate.IsNegative() || feeRate.GTE(math.LegacyOneDec()) {
		return common.ErrInvalidInput.Wrap("fee rate must be in [0, 1)")
	}
	return nil
}
