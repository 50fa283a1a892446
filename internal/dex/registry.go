// Package dex defines the per-protocol instruction builder contract and the
// registry the executor resolves builders from.
package dex

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/trade-engine/internal/domain"
)

// BuildParams is everything a protocol builder needs to encode the swap
// instructions. The user's token account is resolved by the executor so
// builders stay free of ATA policy.
type BuildParams struct {
	Payer            solana.PublicKey
	Mint             solana.PublicKey
	UserTokenAccount solana.PublicKey
	InputAmount      uint64
	SlippageBps      uint64

	// FixedOutputAmount, when non-zero, replaces the curve estimate.
	FixedOutputAmount uint64

	Extension domain.ExtensionParams
}

// InstructionBuilder encodes one protocol's swap instructions. Builders are
// stateless and safe for concurrent use.
type InstructionBuilder interface {
	Kind() domain.DexKind
	BuildBuy(params BuildParams) ([]solana.Instruction, error)
	BuildSell(params BuildParams) ([]solana.Instruction, error)
}

// Registry maps each DEX kind to its builder. Populated once at startup;
// read-only afterwards.
type Registry struct {
	builders map[domain.DexKind]InstructionBuilder
}

func NewRegistry(builders ...InstructionBuilder) *Registry {
	r := &Registry{builders: make(map[domain.DexKind]InstructionBuilder, len(builders))}
	for _, b := range builders {
		r.builders[b.Kind()] = b
	}
	return r
}

func (r *Registry) Register(b InstructionBuilder) {
	r.builders[b.Kind()] = b
}

func (r *Registry) Builder(kind domain.DexKind) (InstructionBuilder, error) {
	b, ok := r.builders[kind]
	if !ok {
		return nil, fmt.Errorf("no instruction builder registered for dex %s", kind)
	}
	return b, nil
}

// Build dispatches on the trade side.
func (r *Registry) Build(side domain.TradeSide, params BuildParams) ([]solana.Instruction, error) {
	if params.Extension == nil {
		return nil, fmt.Errorf("missing extension params")
	}
	b, err := r.Builder(params.Extension.DexKind())
	if err != nil {
		return nil, err
	}
	switch side {
	case domain.SideBuy:
		return b.BuildBuy(params)
	case domain.SideSell:
		return b.BuildSell(params)
	default:
		return nil, fmt.Errorf("unknown trade side %d", side)
	}
}
