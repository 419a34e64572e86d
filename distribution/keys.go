package distribution

import (
	"github.com/stardust-protocol/nft-settlement/ledger"
)

var (
	keyConfig = []byte("distribution/config")
	keyStatus = []byte("distribution/status")

	prefixReservations          = []byte("reservations/")
	prefixValidReservations     = []byte("valid_reservations/")
	prefixReservationsByAddress = []byte("reservations_by_address/")
)

func reservationKey(id uint64) []byte {
	return ledger.Uint64Key(prefixReservations, id)
}

func validReservationKey(id uint64) []byte {
	return ledger.Uint64Key(prefixValidReservations, id)
}

func reservationsByAddressKey(address string) []byte {
	return append(append([]byte{}, prefixReservationsByAddress...), address...)
}
