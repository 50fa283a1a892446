// Package middleware provides the ordered instruction-transform pipeline
// applied to every trade before signing.
package middleware

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/trade-engine/internal/common"
)

// Middleware rewrites an instruction list or fails. Implementations are
// registered once and reused across many independent trades, so any internal
// state must be designed for reuse.
type Middleware interface {
	Name() string
	Process(instructions []solana.Instruction) ([]solana.Instruction, error)
}

// Manager applies middlewares strictly in registration order. A failing
// transform aborts the whole pipeline; no partial application is visible
// downstream.
type Manager struct {
	middlewares []Middleware
}

func NewManager(middlewares ...Middleware) *Manager {
	return &Manager{middlewares: middlewares}
}

// Register appends a middleware. Registration happens at setup time, before
// the manager is shared across trades.
func (m *Manager) Register(mw Middleware) {
	m.middlewares = append(m.middlewares, mw)
}

// Apply runs the pipeline over a copy of the input so a mid-pipeline failure
// leaves the caller's list untouched.
func (m *Manager) Apply(instructions []solana.Instruction) ([]solana.Instruction, error) {
	current := make([]solana.Instruction, len(instructions))
	copy(current, instructions)

	for _, mw := range m.middlewares {
		next, err := mw.Process(current)
		if err != nil {
			return nil, &common.MiddlewareError{Middleware: mw.Name(), Err: err}
		}
		current = next
	}
	return current, nil
}
