package http

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/trade-engine/internal/domain"
)

func validTradeRequest() TradeHandlerRequest {
	return TradeHandlerRequest{
		Side:        "buy",
		Dex:         "pumpfun",
		Mint:        solana.NewWallet().PublicKey().String(),
		InputAmount: 50_000_000,
		SlippageBps: 100,
		PumpFun: &PumpFunRequestParams{
			Creator:              solana.NewWallet().PublicKey().String(),
			VirtualTokenReserves: 1_073_000_000_000_000,
			VirtualSolReserves:   30_000_000_000,
			RealTokenReserves:    793_100_000_000_000,
		},
	}
}

func TestTradeRequestToDomain(t *testing.T) {
	req := validTradeRequest()
	nonceAccount := solana.NewWallet().PublicKey()
	req.NonceAccount = nonceAccount.String()
	req.WaitForConfirmation = true

	got, err := req.toDomain()
	require.NoError(t, err)

	assert.Equal(t, domain.SideBuy, got.Side)
	assert.Equal(t, domain.DexPumpFun, got.Dex)
	assert.Equal(t, uint64(50_000_000), got.InputAmount)
	assert.True(t, got.WaitForConfirmation)
	require.NotNil(t, got.NonceAccount)
	assert.Equal(t, nonceAccount, *got.NonceAccount)

	ext, ok := got.Extension.(*domain.PumpFunParams)
	require.True(t, ok)
	assert.Equal(t, uint64(30_000_000_000), ext.VirtualSolReserves)
	assert.False(t, ext.Creator.IsZero())
}

func TestTradeRequestRejectsBadInput(t *testing.T) {
	req := validTradeRequest()
	req.Side = "hold"
	_, err := req.toDomain()
	assert.Error(t, err)

	req = validTradeRequest()
	req.Dex = "uniswap"
	_, err = req.toDomain()
	assert.Error(t, err)

	req = validTradeRequest()
	req.Mint = "not-base58!"
	_, err = req.toDomain()
	assert.Error(t, err)

	req = validTradeRequest()
	req.PumpFun = nil
	_, err = req.toDomain()
	assert.Error(t, err)

	req = validTradeRequest()
	req.PumpFun.BondingCurve = "garbage"
	_, err = req.toDomain()
	assert.Error(t, err)

	req = validTradeRequest()
	req.NonceAccount = "garbage"
	_, err = req.toDomain()
	assert.Error(t, err)
}

func TestPrecheckParamsMapped(t *testing.T) {
	req := validTradeRequest()
	req.Precheck = &PrecheckRequestParams{
		ContextSlot:          123,
		MaxSlotDiff:          25,
		MinLiquidityLamports: 1_000_000,
		MaxLiquidityLamports: 5_000_000_000,
	}

	got, err := req.toDomain()
	require.NoError(t, err)
	require.NotNil(t, got.Precheck)
	assert.Equal(t, uint64(123), got.Precheck.ContextSlot)
	assert.Equal(t, uint8(25), got.Precheck.MaxSlotDiff)
}
