package distribution

import (
	"errors"
	"testing"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stardust-protocol/nft-settlement/common"
	"github.com/stardust-protocol/nft-settlement/ledger"
	"github.com/stardust-protocol/nft-settlement/models"
)

var testTime = time.Unix(1_700_000_000, 0)

func testConfig() models.DistributionConfig {
	return models.DistributionConfig{
		Owner:           "owner",
		Cost:            models.NativeAsset("uluna", math.NewInt(100)),
		LimitPerAddress: 1,
		MintLimit:       3,
		ResponseSeconds: 3600,
	}
}

func newTestEngine(t *testing.T, cfg models.DistributionConfig) *Engine {
	t.Helper()
	e := NewEngine(ledger.NewMemory())
	require.NoError(t, e.Instantiate(cfg))
	return e
}

func execCtx(sender string, amount int64, at time.Time) models.ExecContext {
	funds := sdk.NewCoins()
	if amount > 0 {
		funds = sdk.NewCoins(sdk.NewCoin("uluna", math.NewInt(amount)))
	}
	return models.ExecContext{Sender: sender, Funds: funds, Time: at}
}

func bindMintContract(t *testing.T, e *Engine) {
	t.Helper()
	require.NoError(t, e.SetMintContract(execCtx("owner", 0, testTime), "mint_contract"))
}

func TestInstantiate(t *testing.T) {
	t.Run("rejects token cost", func(t *testing.T) {
		cfg := testConfig()
		cfg.Cost = models.TokenAsset("cw20_contract", math.NewInt(100))
		err := NewEngine(ledger.NewMemory()).Instantiate(cfg)
		assert.True(t, errors.Is(err, common.ErrInvalidInput))
	})

	t.Run("rejects preset mint contract", func(t *testing.T) {
		cfg := testConfig()
		contract := "mint_contract"
		cfg.MintContract = &contract
		err := NewEngine(ledger.NewMemory()).Instantiate(cfg)
		assert.True(t, errors.Is(err, common.ErrInvalidInput))
	})

	t.Run("rejects double instantiate", func(t *testing.T) {
		e := newTestEngine(t, testConfig())
		err := e.Instantiate(testConfig())
		assert.True(t, errors.Is(err, common.ErrInvalidInput))
	})

	t.Run("seeds zeroed counters", func(t *testing.T) {
		e := newTestEngine(t, testConfig())
		status, err := e.Status()
		require.NoError(t, err)
		assert.Equal(t, models.DistributionStatus{MintLimit: 3}, status)
	})
}

func TestSetMintContract(t *testing.T) {
	e := newTestEngine(t, testConfig())

	err := e.SetMintContract(execCtx("stranger", 0, testTime), "mint_contract")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	require.NoError(t, e.SetMintContract(execCtx("owner", 0, testTime), "mint_contract"))

	// the binding is write-once, even for the owner
	err = e.SetMintContract(execCtx("owner", 0, testTime), "another_contract")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))

	cfg, err := e.Config()
	require.NoError(t, err)
	require.NotNil(t, cfg.MintContract)
	assert.Equal(t, "mint_contract", *cfg.MintContract)
}

func TestReserve(t *testing.T) {
	e := newTestEngine(t, testConfig())

	t.Run("rejects short payment", func(t *testing.T) {
		_, _, err := e.Reserve(execCtx("alice", 99, testTime))
		assert.True(t, errors.Is(err, common.ErrInsufficientPayment))
	})

	t.Run("rejects overpayment", func(t *testing.T) {
		_, _, err := e.Reserve(execCtx("alice", 101, testTime))
		assert.True(t, errors.Is(err, common.ErrInsufficientPayment))
	})

	t.Run("creates reservation on exact payment", func(t *testing.T) {
		id, effects, err := e.Reserve(execCtx("alice", 100, testTime))
		require.NoError(t, err)
		assert.Equal(t, uint64(0), id)
		assert.Empty(t, effects)

		reservation, err := e.ReservationById(id)
		require.NoError(t, err)
		assert.Equal(t, models.Reservation{
			Owner:        "alice",
			Valid:        true,
			RefundableAt: testTime.Unix() + 3600,
		}, reservation)
	})

	t.Run("enforces per address limit", func(t *testing.T) {
		_, _, err := e.Reserve(execCtx("alice", 100, testTime))
		assert.True(t, errors.Is(err, common.ErrLimitExceeded))
	})

	t.Run("other addresses unaffected", func(t *testing.T) {
		id, _, err := e.Reserve(execCtx("bob", 100, testTime))
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id)
	})

	t.Run("tracks counters", func(t *testing.T) {
		status, err := e.Status()
		require.NoError(t, err)
		assert.Equal(t, uint64(2), status.ValidReservationCount)
		assert.Equal(t, uint64(2), status.TotalReservationCount)
	})
}

func TestReserveLimitCountsValidOnly(t *testing.T) {
	e := newTestEngine(t, testConfig())

	id, _, err := e.Reserve(execCtx("alice", 100, testTime))
	require.NoError(t, err)

	_, _, err = e.Reserve(execCtx("alice", 100, testTime))
	require.True(t, errors.Is(err, common.ErrLimitExceeded))

	// a refunded reservation frees the slot
	afterWindow := testTime.Add(time.Hour)
	_, err = e.Refund(execCtx("alice", 0, afterWindow), id)
	require.NoError(t, err)

	_, _, err = e.Reserve(execCtx("alice", 100, afterWindow))
	assert.NoError(t, err)
}

func TestMint(t *testing.T) {
	e := newTestEngine(t, testConfig())
	id, _, err := e.Reserve(execCtx("alice", 100, testTime))
	require.NoError(t, err)

	params := models.MintParams{TokenId: "galaxy-1", Name: "Galaxy #1"}

	t.Run("owner only", func(t *testing.T) {
		_, err := e.Mint(execCtx("alice", 0, testTime), id, params)
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
	})

	t.Run("requires bound mint contract", func(t *testing.T) {
		_, err := e.Mint(execCtx("owner", 0, testTime), id, params)
		assert.True(t, errors.Is(err, common.ErrNotConfigured))
	})

	t.Run("emits mint addressed to reservation owner", func(t *testing.T) {
		bindMintContract(t, e)
		effects, err := e.Mint(execCtx("owner", 0, testTime), id, params)
		require.NoError(t, err)
		require.Len(t, effects, 1)
		mint, ok := effects[0].(models.MintTokenEffect)
		require.True(t, ok)
		assert.Equal(t, "mint_contract", mint.Contract)
		assert.Equal(t, "galaxy-1", mint.TokenId)
		assert.Equal(t, "alice", mint.Owner)
		assert.Equal(t, "Galaxy #1", mint.Name)

		status, err := e.Status()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), status.SaleCount)
		assert.Equal(t, uint64(0), status.ValidReservationCount)
	})

	t.Run("settles exactly once", func(t *testing.T) {
		_, err := e.Mint(execCtx("owner", 0, testTime), id, params)
		assert.True(t, errors.Is(err, common.ErrAlreadySettled))

		_, err = e.Refund(execCtx("alice", 0, testTime.Add(time.Hour)), id)
		assert.True(t, errors.Is(err, common.ErrAlreadySettled))
	})

	t.Run("unknown reservation", func(t *testing.T) {
		_, err := e.Mint(execCtx("owner", 0, testTime), 42, params)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}

func TestMintLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MintLimit = 1
	cfg.LimitPerAddress = 4
	e := newTestEngine(t, cfg)
	bindMintContract(t, e)

	first, _, err := e.Reserve(execCtx("alice", 100, testTime))
	require.NoError(t, err)
	second, _, err := e.Reserve(execCtx("alice", 100, testTime))
	require.NoError(t, err)

	_, err = e.Mint(execCtx("owner", 0, testTime), first, models.MintParams{TokenId: "t1"})
	require.NoError(t, err)

	_, err = e.Mint(execCtx("owner", 0, testTime), second, models.MintParams{TokenId: "t2"})
	assert.True(t, errors.Is(err, common.ErrLimitExceeded))

	// the reservation stays valid and refundable
	reservation, err := e.ReservationById(second)
	require.NoError(t, err)
	assert.True(t, reservation.Valid)
}

func TestRefund(t *testing.T) {
	e := newTestEngine(t, testConfig())
	id, _, err := e.Reserve(execCtx("alice", 100, testTime))
	require.NoError(t, err)

	t.Run("reservation owner only", func(t *testing.T) {
		_, err := e.Refund(execCtx("bob", 0, testTime.Add(time.Hour)), id)
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
	})

	t.Run("too early inside response window", func(t *testing.T) {
		_, err := e.Refund(execCtx("alice", 0, testTime.Add(time.Minute)), id)
		assert.True(t, errors.Is(err, common.ErrTooEarly))
	})

	t.Run("refundable at the boundary", func(t *testing.T) {
		effects, err := e.Refund(execCtx("alice", 0, testTime.Add(time.Hour)), id)
		require.NoError(t, err)
		require.Len(t, effects, 1)
		transfer, ok := effects[0].(models.TransferEffect)
		require.True(t, ok)
		assert.Equal(t, "alice", transfer.Recipient)
		assert.True(t, transfer.Asset.Equal(models.NativeAsset("uluna", math.NewInt(100))))
	})

	t.Run("settles exactly once", func(t *testing.T) {
		_, err := e.Refund(execCtx("alice", 0, testTime.Add(2*time.Hour)), id)
		assert.True(t, errors.Is(err, common.ErrAlreadySettled))
	})
}

func TestWithdrawSales(t *testing.T) {
	cfg := testConfig()
	cfg.LimitPerAddress = 4
	e := newTestEngine(t, cfg)
	bindMintContract(t, e)

	t.Run("owner only", func(t *testing.T) {
		_, err := e.WithdrawSales(execCtx("alice", 0, testTime))
		assert.True(t, errors.Is(err, common.ErrUnauthorized))
	})

	t.Run("nothing pending pays zero", func(t *testing.T) {
		effects, err := e.WithdrawSales(execCtx("owner", 0, testTime))
		require.NoError(t, err)
		require.Len(t, effects, 1)
		assert.True(t, effects[0].(models.TransferEffect).Asset.Amount.IsZero())
	})

	t.Run("pays cost per settled sale", func(t *testing.T) {
		for _, tokenId := range []string{"t1", "t2"} {
			id, _, err := e.Reserve(execCtx("alice", 100, testTime))
			require.NoError(t, err)
			_, err = e.Mint(execCtx("owner", 0, testTime), id, models.MintParams{TokenId: tokenId})
			require.NoError(t, err)
		}

		effects, err := e.WithdrawSales(execCtx("owner", 0, testTime))
		require.NoError(t, err)
		require.Len(t, effects, 1)
		transfer := effects[0].(models.TransferEffect)
		assert.Equal(t, "owner", transfer.Recipient)
		assert.Equal(t, "200", transfer.Asset.Amount.String())

		status, err := e.Status()
		require.NoError(t, err)
		assert.Equal(t, status.SaleCount, status.WithdrawCount)
	})

	t.Run("withdrawing twice pays nothing extra", func(t *testing.T) {
		effects, err := e.WithdrawSales(execCtx("owner", 0, testTime))
		require.NoError(t, err)
		require.Len(t, effects, 1)
		assert.True(t, effects[0].(models.TransferEffect).Asset.Amount.IsZero())
	})
}

func TestFailedCallLeavesNoTrace(t *testing.T) {
	e := newTestEngine(t, testConfig())

	before, err := e.Status()
	require.NoError(t, err)

	_, _, err = e.Reserve(execCtx("alice", 50, testTime))
	require.True(t, errors.Is(err, common.ErrInsufficientPayment))

	after, err := e.Status()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	reservations, err := e.ReservationsByAddress("alice")
	require.NoError(t, err)
	assert.Empty(t, reservations)
}
