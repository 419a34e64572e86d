package models

import (
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ExecContext carries the caller-facing facts of one operation: who sent
// it, what native funds arrived with it and the host's view of now. The
// host authenticates the sender; engines only authorize.
type ExecContext struct {
	Sender string
	Funds  sdk.Coins
	Time   time.Time
}
