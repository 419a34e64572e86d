package distribution

import (
	"errors"

	"cosmossdk.io/math"
	log "github.com/sirupsen/logrus"

	"github.com/stardust-protocol/nft-settlement/common"
	"github.com/stardust-protocol/nft-settlement/ledger"
	"github.com/stardust-protocol/nft-settlement/models"
)

// Engine is the reservation ledger: paid reservations that settle exactly
// once, either into a minted token or a refund. Every operation runs inside
// one ledger update and either applies fully or not at all.
type Engine struct {
	ledger ledger.Ledger
}

func NewEngine(l ledger.Ledger) *Engine {
	return &Engine{ledger: l}
}

// Instantiated reports whether the engine's config is already present on
// the ledger.
func (e *Engine) Instantiated() (bool, error) {
	var ok bool
	err := e.ledger.View(func(s ledger.Store) error {
		var err error
		ok, err = s.Has(keyConfig)
		return err
	})
	return ok, err
}

// Instantiate writes the initial config and zeroed counters. The cost must
// be a native asset: reservation payments arrive attached to the call.
func (e *Engine) Instantiate(cfg models.DistributionConfig) error {
	if !cfg.Cost.Info.IsNative() {
		return common.ErrInvalidInput.Wrap("cost must be a native asset")
	}
	if cfg.MintContract != nil {
		return common.ErrInvalidInput.Wrap("mint contract is set post-instantiate")
	}

	return e.ledger.Update(func(s ledger.Store) error {
		ok, err := s.Has(keyConfig)
		if err != nil {
			return err
		}
		if ok {
			return common.ErrInvalidInput.Wrap("already instantiated")
		}
		if err := ledger.SetJSON(s, keyConfig, cfg); err != nil {
			return err
		}
		status := models.DistributionStatus{MintLimit: cfg.MintLimit}
		return ledger.SetJSON(s, keyStatus, status)
	})
}

// SetMintContract binds the external mint contract. Owner-only, and only
// once: the binding is immutable afterwards.
func (e *Engine) SetMintContract(ctx models.ExecContext, contract string) error {
	return e.ledger.Update(func(s ledger.Store) error {
		var cfg models.DistributionConfig
		if err := ledger.GetJSON(s, keyConfig, &cfg); err != nil {
			return err
		}
		if cfg.MintContract != nil || ctx.Sender != cfg.Owner {
			return common.ErrUnauthorized.Wrap("mint contract already set or sender is not owner")
		}
		cfg.MintContract = &contract
		return ledger.SetJSON(s, keyConfig, cfg)
	})
}

// Reserve creates a paid reservation for the sender. The payment must match
// the configured cost exactly and the sender must be under the per-address
// limit of currently valid reservations. No effects: the payment is already
// in custody by the time the call executes.
func (e *Engine) Reserve(ctx models.ExecContext) (uint64, []models.Effect, error) {
	logger := log.WithField("operation", "reserve").WithField("sender", ctx.Sender)

	var id uint64
	err := e.ledger.Update(func(s ledger.Store) error {
		var cfg models.DistributionConfig
		if err := ledger.GetJSON(s, keyConfig, &cfg); err != nil {
			return err
		}
		if err := cfg.Cost.AssertSent(ctx.Funds); err != nil {
			return err
		}

		byAddress, err := loadAddressIndex(s, ctx.Sender)
		if err != nil {
			return err
		}
		validCount, err := countValid(s, byAddress)
		if err != nil {
			return err
		}
		if validCount >= cfg.LimitPerAddress {
			return common.ErrLimitExceeded.Wrapf(
				"address %s holds %d valid reservations, limit is %d",
				ctx.Sender, validCount, cfg.LimitPerAddress)
		}

		var status models.DistributionStatus
		if err := ledger.GetJSON(s, keyStatus, &status); err != nil {
			return err
		}
		if status.ValidReservationCount, err = checkedAdd(status.ValidReservationCount, 1); err != nil {
			return err
		}
		if status.TotalReservationCount, err = checkedAdd(status.TotalReservationCount, 1); err != nil {
			return err
		}
		if err := ledger.SetJSON(s, keyStatus, status); err != nil {
			return err
		}

		if id, err = ledger.NextID(s); err != nil {
			return err
		}
		reservation := models.Reservation{
			Owner:        ctx.Sender,
			Valid:        true,
			RefundableAt: ctx.Time.Unix() + int64(cfg.ResponseSeconds),
		}
		if err := ledger.SetJSON(s, reservationKey(id), reservation); err != nil {
			return err
		}
		if err := ledger.SetJSON(s, validReservationKey(id), true); err != nil {
			return err
		}

		byAddress = append(byAddress, id)
		return ledger.SetJSON(s, reservationsByAddressKey(ctx.Sender), byAddress)
	})
	if err != nil {
		return 0, nil, err
	}

	logger.WithField("reservation_id", id).Debug("Created reservation")
	return id, nil, nil
}

// Mint converts a valid reservation into an external mint addressed to the
// reservation owner. Owner-only, bounded by the mint limit, and requires
// the mint contract to be bound.
func (e *Engine) Mint(ctx models.ExecContext, reservationId uint64, params models.MintParams) ([]models.Effect, error) {
	logger := log.WithField("operation", "mint").WithField("reservation_id", reservationId)

	var effects []models.Effect
	err := e.ledger.Update(func(s ledger.Store) error {
		var cfg models.DistributionConfig
		if err := ledger.GetJSON(s, keyConfig, &cfg); err != nil {
			return err
		}
		if ctx.Sender != cfg.Owner {
			return common.ErrUnauthorized.Wrap("only the owner can mint")
		}

		var status models.DistributionStatus
		if err := ledger.GetJSON(s, keyStatus, &status); err != nil {
			return err
		}
		if status.SaleCount >= cfg.MintLimit {
			return common.ErrLimitExceeded.Wrapf("mint limit %d reached", cfg.MintLimit)
		}
		if cfg.MintContract == nil {
			return common.ErrNotConfigured.Wrap("mint contract is not set")
		}

		reservation, err := invalidateReservation(s, reservationId)
		if err != nil {
			return err
		}

		// status was reloaded and decremented inside invalidateReservation
		if err := ledger.GetJSON(s, keyStatus, &status); err != nil {
			return err
		}
		if status.SaleCount, err = checkedAdd(status.SaleCount, 1); err != nil {
			return err
		}
		if err := ledger.SetJSON(s, keyStatus, status); err != nil {
			return err
		}

		effects = append(effects, models.MintTokenEffect{
			Contract:    *cfg.MintContract,
			TokenId:     params.TokenId,
			Owner:       reservation.Owner,
			Name:        params.Name,
			Description: params.Description,
			Image:       params.Image,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Converted reservation to mint")
	return effects, nil
}

// Refund returns the cost to the reservation owner once the response window
// has elapsed. Only the reservation owner may refund, and only while the
// reservation is still valid.
func (e *Engine) Refund(ctx models.ExecContext, reservationId uint64) ([]models.Effect, error) {
	logger := log.WithField("operation", "refund").WithField("reservation_id", reservationId)

	var effects []models.Effect
	err := e.ledger.Update(func(s ledger.Store) error {
		var cfg models.DistributionConfig
		if err := ledger.GetJSON(s, keyConfig, &cfg); err != nil {
			return err
		}
		var reservation models.Reservation
		if err := ledger.GetJSON(s, reservationKey(reservationId), &reservation); err != nil {
			return err
		}
		if reservation.Owner != ctx.Sender {
			return common.ErrUnauthorized.Wrap("reservation is not owned by sender")
		}
		if !reservation.Valid {
			return common.ErrAlreadySettled.Wrapf("reservation %d is settled", reservationId)
		}
		if ctx.Time.Unix() < reservation.RefundableAt {
			return common.ErrTooEarly.Wrapf(
				"reservation %d is refundable at %d", reservationId, reservation.RefundableAt)
		}

		if _, err := invalidateReservation(s, reservationId); err != nil {
			return err
		}

		effects = append(effects, models.TransferEffect{
			Recipient: reservation.Owner,
			Asset:     cfg.Cost,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Refunded reservation")
	return effects, nil
}

// WithdrawSales pays the owner for settled sales that have not been
// withdrawn yet. The retained balance always covers every valid
// reservation's potential refund, since only sold (invalidated) units are
// withdrawable.
func (e *Engine) WithdrawSales(ctx models.ExecContext) ([]models.Effect, error) {
	logger := log.WithField("operation", "withdraw_sales")

	var effects []models.Effect
	err := e.ledger.Update(func(s ledger.Store) error {
		var cfg models.DistributionConfig
		if err := ledger.GetJSON(s, keyConfig, &cfg); err != nil {
			return err
		}
		if ctx.Sender != cfg.Owner {
			return common.ErrUnauthorized.Wrap("only the owner can withdraw sales")
		}

		var status models.DistributionStatus
		if err := ledger.GetJSON(s, keyStatus, &status); err != nil {
			return err
		}
		pending, err := checkedSub(status.SaleCount, status.WithdrawCount)
		if err != nil {
			return err
		}
		status.WithdrawCount = status.SaleCount
		if err := ledger.SetJSON(s, keyStatus, status); err != nil {
			return err
		}

		effects = append(effects, models.TransferEffect{
			Recipient: cfg.Owner,
			Asset: models.Asset{
				Info:   cfg.Cost.Info,
				Amount: cfg.Cost.Amount.Mul(math.NewIntFromUint64(pending)),
			},
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Withdrew sale proceeds")
	return effects, nil
}

// invalidateReservation flips a reservation to invalid exactly once,
// removing it from the valid index and decrementing the valid counter.
func invalidateReservation(s ledger.Store, id uint64) (models.Reservation, error) {
	var reservation models.Reservation
	if err := ledger.GetJSON(s, reservationKey(id), &reservation); err != nil {
		return reservation, err
	}
	if !reservation.Valid {
		return reservation, common.ErrAlreadySettled.Wrapf("reservation %d is settled", id)
	}
	reservation.Valid = false
	if err := ledger.SetJSON(s, reservationKey(id), reservation); err != nil {
		return reservation, err
	}
	if err := s.Delete(validReservationKey(id)); err != nil {
		return reservation, err
	}

	var status models.DistributionStatus
	if err := ledger.GetJSON(s, keyStatus, &status); err != nil {
		return reservation, err
	}
	var err error
	if status.ValidReservationCount, err = checkedSub(status.ValidReservationCount, 1); err != nil {
		return reservation, err
	}
	if err := ledger.SetJSON(s, keyStatus, status); err != nil {
		return reservation, err
	}
	return reservation, nil
}

func loadAddressIndex(s ledger.Store, address string) ([]uint64, error) {
	var ids []uint64
	err := ledger.GetJSON(s, reservationsByAddressKey(address), &ids)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func countValid(s ledger.Store, ids []uint64) (uint64, error) {
	var count uint64
	for _, id := range ids {
		ok, err := s.Has(validReservationKey(id))
		if err != nil {
			return 0, err
		}
		if ok {
			count++
		}
	}
	return count, nil
}

func checkedAdd(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, common.ErrOverflow.Wrapf("%d + %d overflows", a, b)
	}
	return sum, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, common.ErrOverflow.Wrapf("%d - %d underflows", a, b)
	}
	return a - b, nil
}
