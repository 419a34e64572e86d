package distribution

import (
	"github.com/stardust-protocol/nft-settlement/common"
	"github.com/stardust-protocol/nft-settlement/ledger"
	"github.com/stardust-protocol/nft-settlement/models"
)

// Read-only queries. None of these mutate the ledger.

func (e *Engine) Config() (models.DistributionConfig, error) {
	var cfg models.DistributionConfig
	err := e.ledger.View(func(s ledger.Store) error {
		return ledger.GetJSON(s, keyConfig, &cfg)
	})
	return cfg, err
}

func (e *Engine) Status() (models.DistributionStatus, error) {
	var status models.DistributionStatus
	err := e.ledger.View(func(s ledger.Store) error {
		return ledger.GetJSON(s, keyStatus, &status)
	})
	return status, err
}

func (e *Engine) ReservationById(id uint64) (models.Reservation, error) {
	var reservation models.Reservation
	err := e.ledger.View(func(s ledger.Store) error {
		return ledger.GetJSON(s, reservationKey(id), &reservation)
	})
	return reservation, err
}

// ReservationsByAddress returns every reservation the address ever made,
// settled ones included. An unknown address yields an empty list.
func (e *Engine) ReservationsByAddress(address string) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	err := e.ledger.View(func(s ledger.Store) error {
		ids, err := loadAddressIndex(s, address)
		if err != nil {
			return err
		}
		for _, id := range ids {
			var reservation models.Reservation
			if err := ledger.GetJSON(s, reservationKey(id), &reservation); err != nil {
				return err
			}
			reservations = append(reservations, reservation)
		}
		return nil
	})
	return reservations, err
}

// ValidReservations lists ids of currently valid reservations in ascending
// order, starting at startAt (inclusive). The page size is capped at
// common.MaxPageSize.
func (e *Engine) ValidReservations(startAt uint64, limit uint64) ([]uint64, error) {
	if limit > common.MaxPageSize {
		limit = common.MaxPageSize
	}

	ids := []uint64{}
	err := e.ledger.View(func(s ledger.Store) error {
		var inner error
		iterErr := s.Iterate(prefixValidReservations, validReservationKey(startAt),
			func(key, _ []byte) bool {
				if uint64(len(ids)) >= limit {
					return false
				}
				id, err := ledger.Uint64FromKey(prefixValidReservations, key)
				if err != nil {
					inner = err
					return false
				}
				ids = append(ids, id)
				return true
			})
		if iterErr != nil {
			return iterErr
		}
		return inner
	})
	return ids, err
}
