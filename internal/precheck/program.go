package precheck

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/trade-engine/internal/common"
)

// Custom program error codes returned by the deployed guard.
const (
	CodeLiquidityTooLow              uint32 = 7000
	CodeLiquidityTooHigh             uint32 = 7001
	CodeContextSlotDifferenceReached uint32 = 7002
	CodeInvalidCurveAccount          uint32 = 7003
	CodeLiquidityDifferenceTooLow    uint32 = 7004
	CodeLiquidityDifferenceTooHigh   uint32 = 7005
)

// ProgramError is a PrecheckV1 rejection, surfaced after the network
// executes the transaction. The client cannot prevent this class except by
// choosing conservative bounds.
type ProgramError struct {
	Code uint32
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("precheck: %s (%d)", ErrorName(e.Code), e.Code)
}

var (
	ErrLiquidityTooLow              = &ProgramError{Code: CodeLiquidityTooLow}
	ErrLiquidityTooHigh             = &ProgramError{Code: CodeLiquidityTooHigh}
	ErrContextSlotDifferenceReached = &ProgramError{Code: CodeContextSlotDifferenceReached}
	ErrInvalidCurveAccount          = &ProgramError{Code: CodeInvalidCurveAccount}
	ErrLiquidityDifferenceTooLow    = &ProgramError{Code: CodeLiquidityDifferenceTooLow}
	ErrLiquidityDifferenceTooHigh   = &ProgramError{Code: CodeLiquidityDifferenceTooHigh}
)

// ErrorName maps a custom error code to its name, or "" when unknown.
func ErrorName(code uint32) string {
	switch code {
	case CodeLiquidityTooLow:
		return "LiquidityTooLow"
	case CodeLiquidityTooHigh:
		return "LiquidityTooHigh"
	case CodeContextSlotDifferenceReached:
		return "ContextSlotDifferenceReached"
	case CodeInvalidCurveAccount:
		return "InvalidCurveAccount"
	case CodeLiquidityDifferenceTooLow:
		return "LiquidityDifferenceTooLow"
	case CodeLiquidityDifferenceTooHigh:
		return "LiquidityDifferenceTooHigh"
	default:
		return ""
	}
}

// PumpFun bonding-curve account layout:
// [anchor_discriminator:8][virtual_token:8][virtual_sol:8][real_token:8][real_sol:8]...
const (
	realSolReservesOffset = 8 + 8 + 8 + 8
	realSolReservesEnd    = realSolReservesOffset + 8
)

// CurveAccount is the guard's view of the bonding-curve account: its owner
// and raw data, as the program sees them.
type CurveAccount struct {
	Owner solana.PublicKey
	Data  []byte
}

// Evaluate runs the PrecheckV1 state machine: {Start} -> {Pass | Reject}.
// Steps execute in order and the first failure halts. It mutates no state;
// success means the guarded transaction may proceed.
func Evaluate(p Payload, currentSlot uint64, curve CurveAccount) error {
	if !curve.Owner.Equals(common.PumpFunProgramID) {
		return ErrInvalidCurveAccount
	}

	// Absolute distance: context_slot may legitimately be ahead of or
	// behind the just-read clock.
	var slotDiff uint64
	if currentSlot >= p.ContextSlot {
		slotDiff = currentSlot - p.ContextSlot
	} else {
		slotDiff = p.ContextSlot - currentSlot
	}
	if slotDiff > uint64(p.MaxSlotDiff) {
		return ErrContextSlotDifferenceReached
	}

	if len(curve.Data) < realSolReservesEnd {
		return ErrInvalidCurveAccount
	}
	reserves := binary.LittleEndian.Uint64(curve.Data[realSolReservesOffset:realSolReservesEnd])

	if reserves < p.MinLiquidityLamports {
		return ErrLiquidityTooLow
	}
	if reserves > p.MaxLiquidityLamports {
		return ErrLiquidityTooHigh
	}

	// Signed difference, no absolute value: draining below base must never
	// trip the upper bound. Zero disables each directional check; the
	// difference bounds are independent of the absolute bounds above.
	diff := int64(reserves) - int64(p.BaseLiquidityLamports)
	if p.MinLiquidityDifferenceLamports != 0 && diff < int64(p.MinLiquidityDifferenceLamports) {
		return ErrLiquidityDifferenceTooLow
	}
	if p.MaxLiquidityDifferenceLamports != 0 && diff > int64(p.MaxLiquidityDifferenceLamports) {
		return ErrLiquidityDifferenceTooHigh
	}

	return nil
}

// ProcessInstruction is the full program entrypoint shape: parse, validate,
// evaluate. Used by simulation-style tests to exercise the exact on-chain
// order of checks.
func ProcessInstruction(data []byte, currentSlot uint64, curve CurveAccount) error {
	payload, err := ParsePayload(data)
	if err != nil {
		return err
	}
	return Evaluate(payload, currentSlot, curve)
}
