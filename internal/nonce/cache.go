// Package nonce caches durable nonce accounts so trades can sign against a
// known nonce value without a blockhash fetch on the hot path.
package nonce

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/config"
)

const NONCE_CACHE_SERVICE = "cache-nonce-svc"

// System nonce account layout: version u32, state u32, authority 32 bytes,
// durable nonce 32 bytes, lamports per signature u64.
const (
	nonceAccountLen = 80

	nonceStateInitialized = 1

	authorityOffset = 8
	blockhashOffset = 40
	feeOffset       = 72
)

var (
	ErrNotNonceAccount   = errors.New("account is not an initialized nonce account")
	ErrAuthorityMismatch = errors.New("nonce authority does not match the trading wallet")
	ErrNonceDataTooShort = errors.New("nonce account data too short")
)

// CachedNonce is one durable nonce account's last observed state. The
// Blockhash field holds the durable nonce value used in place of a recent
// blockhash.
type CachedNonce struct {
	Account     solana.PublicKey
	Authority   solana.PublicKey
	Blockhash   solana.Hash
	FeePerSig   uint64
	Slot        uint64
	RefreshedAt time.Time
}

type CacheService struct {
	container.BaseDIInstance

	mu        sync.Mutex
	entries   map[solana.PublicKey]*CachedNonce
	inUse     map[solana.PublicKey]bool
	rpcClient *rpc.Client
}

func NewCacheService() *CacheService {
	return &CacheService{
		entries: make(map[solana.PublicKey]*CachedNonce),
		inUse:   make(map[solana.PublicKey]bool),
	}
}

func (svc *CacheService) ID() string {
	return NONCE_CACHE_SERVICE
}

func (svc *CacheService) Configure(c container.IContainer) error {
	rpcConfig := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)
	svc.rpcClient = rpc.New(rpcConfig.RPCUrl)
	if svc.entries == nil {
		svc.entries = make(map[solana.PublicKey]*CachedNonce)
		svc.inUse = make(map[solana.PublicKey]bool)
	}
	return nil
}

func (svc *CacheService) Start() error { return nil }
func (svc *CacheService) Stop() error  { return nil }

// Refresh fetches the nonce account from the chain and replaces the cached
// entry. Callers refresh explicitly; the cache never refreshes on its own.
func (svc *CacheService) Refresh(ctx context.Context, account solana.PublicKey) (*CachedNonce, error) {
	res, err := svc.rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return nil, err
	}
	if res.Value == nil {
		return nil, ErrNotNonceAccount
	}
	if !res.Value.Owner.Equals(common.SystemProgramID) {
		return nil, ErrNotNonceAccount
	}

	authority, blockhash, fee, err := decodeNonceAccount(res.Value.Data.GetBinary())
	if err != nil {
		return nil, err
	}

	entry := &CachedNonce{
		Account:     account,
		Authority:   authority,
		Blockhash:   blockhash,
		FeePerSig:   fee,
		Slot:        res.Context.Slot,
		RefreshedAt: time.Now(),
	}

	svc.mu.Lock()
	svc.entries[account] = entry
	svc.mu.Unlock()

	log.Debug().
		Str("account", account.String()).
		Str("nonce", blockhash.String()).
		Uint64("slot", entry.Slot).
		Msg("[NonceCacheService] refreshed nonce account")

	return entry, nil
}

// Warm installs an entry obtained elsewhere, e.g. preloaded account state.
func (svc *CacheService) Warm(entry *CachedNonce) {
	svc.mu.Lock()
	svc.entries[entry.Account] = entry
	svc.mu.Unlock()
}

// Get returns the cached entry without touching the network.
func (svc *CacheService) Get(account solana.PublicKey) (*CachedNonce, error) {
	svc.mu.Lock()
	entry, ok := svc.entries[account]
	svc.mu.Unlock()
	if !ok {
		return nil, common.ErrNonceNotCached
	}
	return entry, nil
}

// Acquire takes exclusive use of a nonce account for one build-and-sign
// window. Two concurrent trades must never sign against the same nonce
// value, so the second caller fails instead of waiting.
func (svc *CacheService) Acquire(account solana.PublicKey) (*CachedNonce, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	entry, ok := svc.entries[account]
	if !ok {
		return nil, common.ErrNonceNotCached
	}
	if svc.inUse[account] {
		return nil, common.ErrNonceInUse
	}
	svc.inUse[account] = true
	return entry, nil
}

// Release ends the exclusive window. Safe to call for an account that was
// never acquired.
func (svc *CacheService) Release(account solana.PublicKey) {
	svc.mu.Lock()
	delete(svc.inUse, account)
	svc.mu.Unlock()
}

// AdvanceInstruction builds the advance-nonce instruction. It must be the
// first instruction of any transaction that uses the durable nonce as its
// recent blockhash.
func AdvanceInstruction(account, authority solana.PublicKey) solana.Instruction {
	return system.NewAdvanceNonceAccountInstruction(
		account,
		solana.SysVarRecentBlockHashesPubkey,
		authority,
	).Build()
}

func decodeNonceAccount(data []byte) (authority solana.PublicKey, blockhash solana.Hash, fee uint64, err error) {
	if len(data) < nonceAccountLen {
		return authority, blockhash, 0, ErrNonceDataTooShort
	}
	state := binary.LittleEndian.Uint32(data[4:8])
	if state != nonceStateInitialized {
		return authority, blockhash, 0, ErrNotNonceAccount
	}
	copy(authority[:], data[authorityOffset:authorityOffset+32])
	copy(blockhash[:], data[blockhashOffset:blockhashOffset+32])
	fee = binary.LittleEndian.Uint64(data[feeOffset : feeOffset+8])
	return authority, blockhash, fee, nil
}
