// Package gasfee holds named compute-budget fee tiers shared across trades.
package gasfee

import (
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/domain"
)

// GlobalTier is the default tier consulted when no per-mint override exists.
const GlobalTier = "global"

// Default compute-unit limits per protocol, used when a tier sets none.
var defaultCULimits = map[domain.DexKind]uint32{
	domain.DexPumpFun: 120_000,
	domain.DexRaydium: 200_000,
	domain.DexMeteora: 220_000,
	domain.DexBonk:    160_000,
}

const fallbackCULimit = 200_000

// FeeTier is one named fee configuration. Values are immutable once stored;
// updates replace the whole tier so concurrent readers never observe a torn
// update.
type FeeTier struct {
	CULimit             uint32
	CUPrice             uint64 // microlamports per CU
	PriorityFeeLamports uint64 // extra lamports folded into the CU price
	TipLamports         uint64 // relay tip, spent by the executor
}

// Strategy is the shared, mutable-at-runtime fee-tier table. Created once
// per infrastructure, read by every trade, mutated by the owner between
// trades.
type Strategy struct {
	mu    sync.RWMutex
	tiers map[string]*FeeTier

	maxCULimit     uint32
	maxCUPrice     uint64
	maxTipLamports uint64
}

// NewStrategy creates an empty strategy with clamp ceilings. Zero ceilings
// disable clamping.
func NewStrategy(maxCULimit uint32, maxCUPrice, maxTipLamports uint64) *Strategy {
	return &Strategy{
		tiers:          make(map[string]*FeeTier),
		maxCULimit:     maxCULimit,
		maxCUPrice:     maxCUPrice,
		maxTipLamports: maxTipLamports,
	}
}

func (s *Strategy) clamp(tier FeeTier) *FeeTier {
	if s.maxCULimit != 0 && tier.CULimit > s.maxCULimit {
		tier.CULimit = s.maxCULimit
	}
	if s.maxCUPrice != 0 && tier.CUPrice > s.maxCUPrice {
		tier.CUPrice = s.maxCUPrice
	}
	if s.maxTipLamports != 0 && tier.TipLamports > s.maxTipLamports {
		tier.TipLamports = s.maxTipLamports
	}
	return &tier
}

// SetGlobalFeeStrategy atomically replaces the default tier.
func (s *Strategy) SetGlobalFeeStrategy(cuLimit uint32, cuPrice, priorityFeeLamports, tipLamports uint64) {
	s.SetTier(GlobalTier, FeeTier{
		CULimit:             cuLimit,
		CUPrice:             cuPrice,
		PriorityFeeLamports: priorityFeeLamports,
		TipLamports:         tipLamports,
	})
}

// SetTier atomically installs or replaces a named tier. Callers use mint
// addresses as tier names for per-mint overrides.
func (s *Strategy) SetTier(name string, tier FeeTier) {
	clamped := s.clamp(tier)
	s.mu.Lock()
	s.tiers[name] = clamped
	s.mu.Unlock()
}

// RemoveTier deletes a named tier. Removing the global tier does not affect
// overrides already set for other names.
func (s *Strategy) RemoveTier(name string) {
	s.mu.Lock()
	delete(s.tiers, name)
	s.mu.Unlock()
}

// Tier returns the named tier, falling back to the global tier when the
// name has no override. Fails with ErrUnknownTier when neither exists.
func (s *Strategy) Tier(name string) (FeeTier, error) {
	s.mu.RLock()
	tier, ok := s.tiers[name]
	if !ok && name != GlobalTier {
		tier, ok = s.tiers[GlobalTier]
	}
	s.mu.RUnlock()

	if !ok {
		return FeeTier{}, common.ErrUnknownTier
	}
	return *tier, nil
}

// Compute resolves the named tier and builds its compute-budget
// instructions. Pure in-memory lookup plus instruction construction.
func (s *Strategy) Compute(tierName string, dex domain.DexKind) ([]solana.Instruction, FeeTier, error) {
	if tierName == "" {
		tierName = GlobalTier
	}
	tier, err := s.Tier(tierName)
	if err != nil {
		return nil, FeeTier{}, err
	}

	cuLimit := tier.CULimit
	if cuLimit == 0 {
		if def, ok := defaultCULimits[dex]; ok {
			cuLimit = def
		} else {
			cuLimit = fallbackCULimit
		}
	}

	// Fold the extra flat priority fee into the per-CU price.
	cuPrice := tier.CUPrice
	if tier.PriorityFeeLamports > 0 {
		cuPrice += tier.PriorityFeeLamports * 1_000_000 / uint64(cuLimit)
	}

	ixs := []solana.Instruction{
		NewSetComputeUnitLimitInstruction(cuLimit),
		NewSetComputeUnitPriceInstruction(cuPrice),
	}
	return ixs, tier, nil
}
