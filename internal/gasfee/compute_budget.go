package gasfee

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/trade-engine/internal/common"
)

// ComputeBudget program instruction indices.
const (
	opSetComputeUnitLimit byte = 2
	opSetComputeUnitPrice byte = 3
)

// NewSetComputeUnitLimitInstruction caps the transaction's compute units.
func NewSetComputeUnitLimitInstruction(units uint32) solana.Instruction {
	data := make([]byte, 5)
	data[0] = opSetComputeUnitLimit
	binary.LittleEndian.PutUint32(data[1:], units)
	return solana.NewInstruction(common.ComputeBudgetID, solana.AccountMetaSlice{}, data)
}

// NewSetComputeUnitPriceInstruction sets the priority fee in microlamports
// per compute unit.
func NewSetComputeUnitPriceInstruction(microLamports uint64) solana.Instruction {
	data := make([]byte, 9)
	data[0] = opSetComputeUnitPrice
	binary.LittleEndian.PutUint64(data[1:], microLamports)
	return solana.NewInstruction(common.ComputeBudgetID, solana.AccountMetaSlice{}, data)
}
