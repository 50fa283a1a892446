package middleware

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/trade-engine/internal/common"
)

func noopInstruction(tag byte) solana.Instruction {
	return solana.NewInstruction(common.MemoProgramID, solana.AccountMetaSlice{}, []byte{tag})
}

type appendMiddleware struct {
	tag byte
}

func (a *appendMiddleware) Name() string { return "append" }

func (a *appendMiddleware) Process(ixs []solana.Instruction) ([]solana.Instruction, error) {
	return append(ixs, noopInstruction(a.tag)), nil
}

type dropLastMiddleware struct{}

func (d *dropLastMiddleware) Name() string { return "drop_last" }

func (d *dropLastMiddleware) Process(ixs []solana.Instruction) ([]solana.Instruction, error) {
	if len(ixs) == 0 {
		return ixs, nil
	}
	return ixs[:len(ixs)-1], nil
}

type failingMiddleware struct{}

func (f *failingMiddleware) Name() string { return "boom" }

func (f *failingMiddleware) Process([]solana.Instruction) ([]solana.Instruction, error) {
	return nil, errors.New("refused")
}

func TestApplyRunsInRegistrationOrder(t *testing.T) {
	base := []solana.Instruction{noopInstruction(0)}

	// append then drop: the appended instruction is removed again.
	m := NewManager(&appendMiddleware{tag: 7}, &dropLastMiddleware{})
	out, err := m.Apply(base)
	require.NoError(t, err)
	require.Len(t, out, 1)
	data, _ := out[0].Data()
	assert.Equal(t, []byte{0}, data)

	// drop then append: the original is removed, the appended one survives.
	m = NewManager(&dropLastMiddleware{}, &appendMiddleware{tag: 7})
	out, err = m.Apply(base)
	require.NoError(t, err)
	require.Len(t, out, 1)
	data, _ = out[0].Data()
	assert.Equal(t, []byte{7}, data)
}

func TestApplyFailureNamesMiddleware(t *testing.T) {
	m := NewManager(&appendMiddleware{tag: 1}, &failingMiddleware{})
	_, err := m.Apply(nil)
	require.Error(t, err)

	var mwErr *common.MiddlewareError
	require.ErrorAs(t, err, &mwErr)
	assert.Equal(t, "boom", mwErr.Middleware)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	base := []solana.Instruction{noopInstruction(0), noopInstruction(1)}
	m := NewManager(&dropLastMiddleware{}, &failingMiddleware{})
	_, err := m.Apply(base)
	require.Error(t, err)
	assert.Len(t, base, 2)
}

func TestMemoMiddlewareAppends(t *testing.T) {
	m := NewManager(&MemoMiddleware{Memo: "fast lane"})
	out, err := m.Apply([]solana.Instruction{noopInstruction(0)})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, common.MemoProgramID, out[1].ProgramID())
	data, _ := out[1].Data()
	assert.Equal(t, []byte("fast lane"), data)
}

func TestInstructionLimitMiddleware(t *testing.T) {
	m := NewManager(&InstructionLimitMiddleware{Max: 2})
	_, err := m.Apply([]solana.Instruction{noopInstruction(0), noopInstruction(1), noopInstruction(2)})
	require.Error(t, err)

	out, err := m.Apply([]solana.Instruction{noopInstruction(0)})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
