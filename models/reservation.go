package models

// Reservation is a paid claim that settles exactly once: either the owner
// converts it to a minted token or refunds it after the response window.
type Reservation struct {
	Owner        string `json:"owner"`
	Valid        bool   `json:"valid"`
	RefundableAt int64  `json:"refundable_at"`
}

// DistributionStatus tracks the running counters of the reservation ledger.
// Invariants: WithdrawCount <= SaleCount <= the configured mint limit, and
// ValidReservationCount <= TotalReservationCount.
type DistributionStatus struct {
	WithdrawCount         uint64 `json:"withdraw_count"`
	SaleCount             uint64 `json:"sale_count"`
	ValidReservationCount uint64 `json:"valid_reservation_count"`
	TotalReservationCount uint64 `json:"total_reservation_count"`
	MintLimit             uint64 `json:"mint_limit"`
}

// MintParams is the token metadata supplied when converting a reservation.
type MintParams struct {
	TokenId     string  `json:"token_id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// DistributionConfig is the reservation ledger's instantiate-time config.
// MintContract starts unset and is settable exactly once.
type DistributionConfig struct {
	Owner           string  `json:"owner"`
	Cost            Asset   `json:"cost"`
	MintContract    *string `json:"mint_contract,omitempty"`
	LimitPerAddress uint64  `json:"limit_per_address"`
	MintLimit       uint64  `json:"mint_limit"`
	ResponseSeconds uint64  `json:"response_seconds"`
}
