package pumpfun

import (
	"github.com/gagliardetto/solana-go"
	"github.com/holiman/uint256"
)

// Fee schedule in basis points. The creator fee only applies to curves with
// a known creator.
const (
	feeBasisPoints        = 95
	creatorFeeBasisPoints = 5
	bpsDenominator        = 10_000
)

func totalFeeBps(creator solana.PublicKey) uint64 {
	if creator.IsZero() {
		return feeBasisPoints
	}
	return feeBasisPoints + creatorFeeBasisPoints
}

// computeFee rounds up so the program's fee math is never undershot.
func computeFee(amount, bps *uint256.Int) *uint256.Int {
	fee := new(uint256.Int).Mul(amount, bps)
	fee.Add(fee, uint256.NewInt(bpsDenominator-1))
	return fee.Div(fee, uint256.NewInt(bpsDenominator))
}

// GetBuyTokenAmountFromSolAmount estimates the token output of a buy on the
// constant-product virtual curve, net of protocol and creator fees, capped
// at the real token reserves.
func GetBuyTokenAmountFromSolAmount(
	virtualTokenReserves, virtualSolReserves, realTokenReserves uint64,
	creator solana.PublicKey,
	amount uint64,
) uint64 {
	if amount == 0 || virtualTokenReserves == 0 {
		return 0
	}

	bps := uint256.NewInt(totalFeeBps(creator))
	amt := uint256.NewInt(amount)

	// Strip the fee off the input first: input = amount * 10000 / (bps + 10000).
	input := new(uint256.Int).Mul(amt, uint256.NewInt(bpsDenominator))
	input.Div(input, new(uint256.Int).Add(bps, uint256.NewInt(bpsDenominator)))

	denominator := new(uint256.Int).Add(uint256.NewInt(virtualSolReserves), input)
	tokens := new(uint256.Int).Mul(input, uint256.NewInt(virtualTokenReserves))
	tokens.Div(tokens, denominator)

	real := uint256.NewInt(realTokenReserves)
	if tokens.Gt(real) {
		tokens = real
	}
	return tokens.Uint64()
}

// GetSellSolAmountFromTokenAmount estimates the lamports received for a sell
// after fees.
func GetSellSolAmountFromTokenAmount(
	virtualTokenReserves, virtualSolReserves uint64,
	creator solana.PublicKey,
	amount uint64,
) uint64 {
	if amount == 0 || virtualTokenReserves == 0 {
		return 0
	}

	amt := uint256.NewInt(amount)
	numerator := new(uint256.Int).Mul(amt, uint256.NewInt(virtualSolReserves))
	denominator := new(uint256.Int).Add(uint256.NewInt(virtualTokenReserves), amt)
	solCost := numerator.Div(numerator, denominator)

	fee := computeFee(solCost, uint256.NewInt(totalFeeBps(creator)))
	if fee.Gt(solCost) {
		return 0
	}
	return new(uint256.Int).Sub(solCost, fee).Uint64()
}

// WithSlippageBuy raises a max-cost bound by the slippage tolerance.
func WithSlippageBuy(amount, slippageBps uint64) uint64 {
	return amount + amount*slippageBps/bpsDenominator
}

// WithSlippageSell lowers a min-output bound by the slippage tolerance.
func WithSlippageSell(amount, slippageBps uint64) uint64 {
	return amount - amount*slippageBps/bpsDenominator
}
