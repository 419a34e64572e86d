package models

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/stardust-protocol/nft-settlement/common"
)

// AssetKind distinguishes value that arrives attached to a call from value
// held by a token contract, which the engine must pull into custody with an
// explicit transfer-from effect.
type AssetKind string

const (
	AssetKindNative AssetKind = "native"
	AssetKindToken  AssetKind = "token"
)

// AssetInfo identifies a payment denomination: a native coin denom or a
// token contract address.
type AssetInfo struct {
	Kind  AssetKind `json:"kind" yaml:"kind"`
	Denom string    `json:"denom" yaml:"denom"`
}

func NativeAsset(denom string, amount math.Int) Asset {
	return Asset{Info: AssetInfo{Kind: AssetKindNative, Denom: denom}, Amount: amount}
}

func TokenAsset(contract string, amount math.Int) Asset {
	return Asset{Info: AssetInfo{Kind: AssetKindToken, Denom: contract}, Amount: amount}
}

func (i AssetInfo) IsNative() bool {
	return i.Kind == AssetKindNative
}

func (i AssetInfo) Equal(other AssetInfo) bool {
	return i.Kind == other.Kind && i.Denom == other.Denom
}

// String is the fee treasury key for this denomination.
func (i AssetInfo) String() string {
	return fmt.Sprintf("%s:%s", i.Kind, i.Denom)
}

// Asset is an amount of some denomination.
type Asset struct {
	Info   AssetInfo `json:"info" yaml:"info"`
	Amount math.Int  `json:"amount" yaml:"amount"`
}

func (a Asset) Equal(other Asset) bool {
	return a.Info.Equal(other.Info) && a.Amount.Equal(other.Amount)
}

// RequiresPull reports whether settling this asset needs an explicit
// transfer-from effect instead of funds attached to the call.
func (a Asset) RequiresPull() bool {
	return !a.Info.IsNative()
}

// AssertSent verifies that a call carrying funds actually attached this
// asset. Token assets are settled by a pull effect, so no attached funds
// are expected for them.
func (a Asset) AssertSent(funds sdk.Coins) error {
	if !a.Info.IsNative() {
		return nil
	}
	sent := funds.AmountOf(a.Info.Denom)
	if !sent.Equal(a.Amount) {
		return common.ErrInsufficientPayment.Wrapf(
			"expected %s%s, got %s%s", a.Amount, a.Info.Denom, sent, a.Info.Denom)
	}
	return nil
}
