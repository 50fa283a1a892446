package domain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// DexKind is the closed set of supported DEX protocols.
type DexKind uint8

const (
	DexPumpFun DexKind = iota
	DexRaydium
	DexMeteora
	DexBonk
)

func (d DexKind) String() string {
	switch d {
	case DexPumpFun:
		return "pumpfun"
	case DexRaydium:
		return "raydium"
	case DexMeteora:
		return "meteora"
	case DexBonk:
		return "bonk"
	default:
		return "unknown"
	}
}

// ParseDexKind maps the wire name onto the enum.
func ParseDexKind(s string) (DexKind, error) {
	switch s {
	case "pumpfun":
		return DexPumpFun, nil
	case "raydium":
		return DexRaydium, nil
	case "meteora":
		return DexMeteora, nil
	case "bonk":
		return DexBonk, nil
	default:
		return 0, fmt.Errorf("unknown dex %q", s)
	}
}

// TradeSide distinguishes buy and sell requests.
type TradeSide uint8

const (
	SideBuy TradeSide = iota
	SideSell
)

func (s TradeSide) String() string {
	if s == SideBuy {
		return "buy"
	}
	return "sell"
}

func ParseTradeSide(s string) (TradeSide, error) {
	switch s {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	default:
		return 0, fmt.Errorf("unknown trade side %q", s)
	}
}

// ExtensionParams carries protocol-specific trade parameters as a tagged
// variant. Each DEX owns its own field set; the variant's kind must equal
// the request's DexKind or validation fails before any network I/O.
type ExtensionParams interface {
	DexKind() DexKind
}

// PumpFunParams are bonding-curve trade parameters for pump.fun tokens.
type PumpFunParams struct {
	BondingCurve           solana.PublicKey
	AssociatedBondingCurve solana.PublicKey
	CreatorVault           solana.PublicKey
	VirtualTokenReserves   uint64
	VirtualSolReserves     uint64
	RealTokenReserves      uint64
	RealSolReserves        uint64
	Creator                solana.PublicKey
	TokenProgram           solana.PublicKey
	CashbackCoin           bool
}

func (*PumpFunParams) DexKind() DexKind { return DexPumpFun }

// RaydiumParams are AMM pool parameters for Raydium trades.
type RaydiumParams struct {
	AmmPool     solana.PublicKey
	CoinVault   solana.PublicKey
	PCVault     solana.PublicKey
	OpenOrders  solana.PublicKey
	TargetOrder solana.PublicKey
}

func (*RaydiumParams) DexKind() DexKind { return DexRaydium }

// MeteoraParams are dynamic-pool parameters for Meteora trades.
type MeteoraParams struct {
	Pool        solana.PublicKey
	AVault      solana.PublicKey
	BVault      solana.PublicKey
	AVaultLP    solana.PublicKey
	BVaultLP    solana.PublicKey
	AdminFeeATA solana.PublicKey
}

func (*MeteoraParams) DexKind() DexKind { return DexMeteora }

// BonkParams are launchpad pool parameters for Bonk trades.
type BonkParams struct {
	PoolState    solana.PublicKey
	BaseVault    solana.PublicKey
	QuoteVault   solana.PublicKey
	GlobalConfig solana.PublicKey
	PlatformConf solana.PublicKey
	CashbackCoin bool
}

func (*BonkParams) DexKind() DexKind { return DexBonk }

// TradeRequest is the immutable per-call trade value consumed by the
// executor. Nil NonceAccount means a recent blockhash is used instead of a
// durable nonce.
type TradeRequest struct {
	Side        TradeSide
	Dex         DexKind
	Mint        solana.PublicKey
	InputAmount uint64
	SlippageBps uint64

	// FixedOutputAmount, when non-zero, bypasses the curve estimate and
	// trades for exactly this output amount.
	FixedOutputAmount uint64

	CreateInputATA  bool
	CreateOutputATA bool
	CloseInputATA   bool
	CloseOutputATA  bool

	NonceAccount *solana.PublicKey

	// Precheck, when set, prepends the on-chain liquidity guard so the
	// whole transaction aborts if pool state moved past the bounds.
	Precheck *PrecheckParams

	Simulate            bool
	WaitForConfirmation bool
	CollectTimings      bool

	// GasTier selects the fee tier; empty means the global tier.
	GasTier string

	Extension ExtensionParams
}

// PrecheckParams configure the on-chain guard prepended to a trade.
// Zero difference bounds disable the respective directional check.
type PrecheckParams struct {
	ContextSlot                    uint64
	MaxSlotDiff                    uint8
	MinLiquidityLamports           uint64
	MaxLiquidityLamports           uint64
	BaseLiquidityLamports          uint64
	MinLiquidityDifferenceLamports uint64
	MaxLiquidityDifferenceLamports uint64
}
