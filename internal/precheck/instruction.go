package precheck

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/domain"
)

var ErrNoBondingCurve = errors.New("precheck: bonding curve account is required")

// BuildInstruction builds the guard instruction prepended to a swap. Both
// accounts are read-only; the guard asserts and never writes.
func BuildInstruction(bondingCurve solana.PublicKey, params domain.PrecheckParams) (solana.Instruction, error) {
	payload := PayloadFromParams(params)
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	if bondingCurve.IsZero() {
		return nil, ErrNoBondingCurve
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(solana.SysVarClockPubkey),
		solana.Meta(bondingCurve),
	}
	return solana.NewInstruction(common.PrecheckProgramID, accounts, payload.Bytes()), nil
}
