package middleware

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/trade-engine/internal/common"
)

// MemoMiddleware appends a memo instruction so trades can be tagged on-chain.
type MemoMiddleware struct {
	Memo string
}

func (m *MemoMiddleware) Name() string { return "memo" }

func (m *MemoMiddleware) Process(instructions []solana.Instruction) ([]solana.Instruction, error) {
	if m.Memo == "" {
		return instructions, nil
	}
	ix := solana.NewInstruction(common.MemoProgramID, solana.AccountMetaSlice{}, []byte(m.Memo))
	return append(instructions, ix), nil
}

// InstructionLimitMiddleware rejects transactions whose instruction count
// would push them past the packet size in practice.
type InstructionLimitMiddleware struct {
	Max int
}

func (m *InstructionLimitMiddleware) Name() string { return "instruction_limit" }

func (m *InstructionLimitMiddleware) Process(instructions []solana.Instruction) ([]solana.Instruction, error) {
	if m.Max > 0 && len(instructions) > m.Max {
		return nil, fmt.Errorf("instruction count %d exceeds limit %d", len(instructions), m.Max)
	}
	return instructions, nil
}
