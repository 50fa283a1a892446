// Package trading owns the execution pipeline: assemble, sign once, race the
// relay set, and report the outcome.
package trading

import (
	"context"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/trade-engine/internal/config"
)

const BLOCKHASH_CACHE_SERVICE = "cache-blockhash-svc"

// blockhashStaleness bounds how old a cached hash may be before the next
// request re-fetches. Well inside the ~60s validity window.
const blockhashStaleness = 2 * time.Second

type CachedBlockhash struct {
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
	Slot                 uint64
	UpdatedAt            time.Time
}

// BlockhashCacheService serves recent blockhashes for trades that run without
// a durable nonce. Serves stale on RPC failure rather than blocking the trade.
type BlockhashCacheService struct {
	container.BaseDIInstance

	mu        sync.RWMutex
	current   *CachedBlockhash
	rpcClient *rpc.Client
}

func NewBlockhashCacheService() *BlockhashCacheService {
	return &BlockhashCacheService{}
}

func (svc *BlockhashCacheService) ID() string {
	return BLOCKHASH_CACHE_SERVICE
}

func (svc *BlockhashCacheService) Configure(c container.IContainer) error {
	rpcConfig := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)
	svc.rpcClient = rpc.New(rpcConfig.RPCUrl)
	return nil
}

func (svc *BlockhashCacheService) Start() error {
	if err := svc.refresh(context.Background()); err != nil {
		log.Warn().Err(err).Msg("[BlockhashCacheService] failed to fetch initial blockhash, will retry on first request")
	}
	return nil
}

func (svc *BlockhashCacheService) Stop() error { return nil }

func (svc *BlockhashCacheService) refresh(ctx context.Context) error {
	res, err := svc.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return err
	}

	svc.mu.Lock()
	svc.current = &CachedBlockhash{
		Blockhash:            res.Value.Blockhash,
		LastValidBlockHeight: res.Value.LastValidBlockHeight,
		Slot:                 res.Context.Slot,
		UpdatedAt:            time.Now(),
	}
	svc.mu.Unlock()

	log.Debug().
		Str("blockhash", res.Value.Blockhash.String()).
		Uint64("slot", res.Context.Slot).
		Msg("[BlockhashCacheService] refreshed blockhash")

	return nil
}

// GetBlockhash returns a fresh-enough blockhash, re-fetching when the cached
// one passed the staleness bound. A stale hash beats no hash when RPC is down.
func (svc *BlockhashCacheService) GetBlockhash(ctx context.Context) (solana.Hash, uint64, error) {
	svc.mu.RLock()
	cached := svc.current
	svc.mu.RUnlock()

	if cached != nil && time.Since(cached.UpdatedAt) < blockhashStaleness {
		return cached.Blockhash, cached.LastValidBlockHeight, nil
	}

	if err := svc.refresh(ctx); err != nil {
		if cached != nil {
			return cached.Blockhash, cached.LastValidBlockHeight, nil
		}
		return solana.Hash{}, 0, err
	}

	svc.mu.RLock()
	cached = svc.current
	svc.mu.RUnlock()
	return cached.Blockhash, cached.LastValidBlockHeight, nil
}
