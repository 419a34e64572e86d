package common

const (
	// MaxPageSize caps paginated ledger listings.
	MaxPageSize = 32
)
