package pumpfun

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/dex"
	"github.com/hxuan190/trade-engine/internal/domain"
)

// Launch-state curve reserves.
const (
	initialVirtualTokenReserves = 1_073_000_000_000_000
	initialVirtualSolReserves   = 30_000_000_000
	initialRealTokenReserves    = 793_100_000_000_000
)

func TestBuyAmountStaysOnCurve(t *testing.T) {
	got := GetBuyTokenAmountFromSolAmount(
		initialVirtualTokenReserves,
		initialVirtualSolReserves,
		initialRealTokenReserves,
		solana.PublicKey{},
		20_000_000, // 0.02 SOL
	)
	assert.Greater(t, got, uint64(0))
	assert.LessOrEqual(t, got, uint64(initialRealTokenReserves))
	assert.Less(t, got, uint64(1_000_000_000_000_000))
}

func TestBuyAmountMonotonicInInput(t *testing.T) {
	small := GetBuyTokenAmountFromSolAmount(
		initialVirtualTokenReserves, initialVirtualSolReserves, initialRealTokenReserves,
		solana.PublicKey{}, 10_000_000)
	large := GetBuyTokenAmountFromSolAmount(
		initialVirtualTokenReserves, initialVirtualSolReserves, initialRealTokenReserves,
		solana.PublicKey{}, 100_000_000)
	assert.GreaterOrEqual(t, large, small)
}

func TestBuyAmountCreatorFeeReducesOutput(t *testing.T) {
	withoutCreator := GetBuyTokenAmountFromSolAmount(
		initialVirtualTokenReserves, initialVirtualSolReserves, initialRealTokenReserves,
		solana.PublicKey{}, 100_000_000)
	withCreator := GetBuyTokenAmountFromSolAmount(
		initialVirtualTokenReserves, initialVirtualSolReserves, initialRealTokenReserves,
		solana.NewWallet().PublicKey(), 100_000_000)
	assert.Less(t, withCreator, withoutCreator)
}

func TestBuyAmountEdgeCases(t *testing.T) {
	assert.Zero(t, GetBuyTokenAmountFromSolAmount(0, 1, 1, solana.PublicKey{}, 100))
	assert.Zero(t, GetBuyTokenAmountFromSolAmount(1, 1, 1, solana.PublicKey{}, 0))

	// Huge input is capped at the real reserves.
	capped := GetBuyTokenAmountFromSolAmount(
		initialVirtualTokenReserves, initialVirtualSolReserves, 1_000,
		solana.PublicKey{}, 100*common.LamportsPerSOL)
	assert.Equal(t, uint64(1_000), capped)
}

func TestSellAmountAfterFees(t *testing.T) {
	got := GetSellSolAmountFromTokenAmount(
		initialVirtualTokenReserves, initialVirtualSolReserves,
		solana.PublicKey{}, 1_000_000_000_000)
	assert.Greater(t, got, uint64(0))

	// Selling the tokens a buy produced returns strictly less than was paid.
	bought := GetBuyTokenAmountFromSolAmount(
		initialVirtualTokenReserves, initialVirtualSolReserves, initialRealTokenReserves,
		solana.PublicKey{}, 50_000_000)
	back := GetSellSolAmountFromTokenAmount(
		initialVirtualTokenReserves, initialVirtualSolReserves,
		solana.PublicKey{}, bought)
	assert.Less(t, back, uint64(50_000_000))

	assert.Zero(t, GetSellSolAmountFromTokenAmount(0, 1, solana.PublicKey{}, 100))
	assert.Zero(t, GetSellSolAmountFromTokenAmount(1, 1, solana.PublicKey{}, 0))
}

func TestSlippageBounds(t *testing.T) {
	assert.Equal(t, uint64(101_000), WithSlippageBuy(100_000, 100))
	assert.Equal(t, uint64(99_000), WithSlippageSell(100_000, 100))
	assert.Equal(t, uint64(100_000), WithSlippageBuy(100_000, 0))
}

func buildParams(t *testing.T, cashback bool) dex.BuildParams {
	t.Helper()
	creator := solana.NewWallet().PublicKey()
	creatorVault, err := CreatorVaultPDA(creator)
	require.NoError(t, err)

	return dex.BuildParams{
		Payer:       solana.NewWallet().PublicKey(),
		Mint:        solana.NewWallet().PublicKey(),
		InputAmount: 100_000_000,
		SlippageBps: 100,
		Extension: &domain.PumpFunParams{
			VirtualTokenReserves: initialVirtualTokenReserves,
			VirtualSolReserves:   initialVirtualSolReserves,
			RealTokenReserves:    initialRealTokenReserves,
			Creator:              creator,
			CreatorVault:         creatorVault,
			CashbackCoin:         cashback,
		},
	}
}

func TestBuildBuyInstruction(t *testing.T) {
	b := NewBuilder()
	params := buildParams(t, false)

	ixs, err := b.BuildBuy(params)
	require.NoError(t, err)
	require.Len(t, ixs, 1)

	ix := ixs[0]
	assert.Equal(t, common.PumpFunProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 24)
	assert.Equal(t, buyDiscriminator[:], data[:8])

	wantTokens := GetBuyTokenAmountFromSolAmount(
		initialVirtualTokenReserves, initialVirtualSolReserves, initialRealTokenReserves,
		params.Extension.(*domain.PumpFunParams).Creator, params.InputAmount)
	assert.Equal(t, wantTokens, binary.LittleEndian.Uint64(data[8:16]))
	assert.Equal(t, WithSlippageBuy(params.InputAmount, 100), binary.LittleEndian.Uint64(data[16:24]))

	accounts := ix.Accounts()
	require.Len(t, accounts, 17)
	assert.Equal(t, GlobalAccount, accounts[0].PublicKey)

	expectedCurve, err := BondingCurvePDA(params.Mint)
	require.NoError(t, err)
	assert.Equal(t, expectedCurve, accounts[3].PublicKey)
	assert.True(t, accounts[3].IsWritable)

	assert.Equal(t, params.Payer, accounts[6].PublicKey)
	assert.True(t, accounts[6].IsSigner)
}

func TestBuildBuyFixedOutputSkipsCurve(t *testing.T) {
	b := NewBuilder()
	params := buildParams(t, false)
	params.FixedOutputAmount = 42_000_000

	ixs, err := b.BuildBuy(params)
	require.NoError(t, err)

	data, err := ixs[0].Data()
	require.NoError(t, err)
	assert.Equal(t, uint64(42_000_000), binary.LittleEndian.Uint64(data[8:16]))
}

func TestBuildSellInstruction(t *testing.T) {
	b := NewBuilder()
	params := buildParams(t, false)

	ixs, err := b.BuildSell(params)
	require.NoError(t, err)
	require.Len(t, ixs, 1)

	data, err := ixs[0].Data()
	require.NoError(t, err)
	assert.Equal(t, sellDiscriminator[:], data[:8])
	assert.Equal(t, params.InputAmount, binary.LittleEndian.Uint64(data[8:16]))

	// No cashback: fixed account list.
	assert.Len(t, ixs[0].Accounts(), 15)

	// Cashback coins get the user volume accumulator appended.
	params = buildParams(t, true)
	ixs, err = b.BuildSell(params)
	require.NoError(t, err)
	assert.Len(t, ixs[0].Accounts(), 16)
}

func TestBuildRejectsBadParams(t *testing.T) {
	b := NewBuilder()

	params := buildParams(t, false)
	params.InputAmount = 0
	_, err := b.BuildBuy(params)
	var vErr *common.ValidationError
	require.ErrorAs(t, err, &vErr)

	params = buildParams(t, false)
	params.Extension = &domain.RaydiumParams{}
	_, err = b.BuildSell(params)
	require.ErrorAs(t, err, &vErr)
}

func TestRegistryDispatch(t *testing.T) {
	r := dex.NewRegistry(NewBuilder())

	params := buildParams(t, false)
	ixs, err := r.Build(domain.SideBuy, params)
	require.NoError(t, err)
	assert.Len(t, ixs, 1)

	params.Extension = &domain.MeteoraParams{}
	_, err = r.Build(domain.SideBuy, params)
	assert.Error(t, err)
}
