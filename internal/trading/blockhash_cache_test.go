package trading

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBlockhashServesFreshCache(t *testing.T) {
	var hash solana.Hash
	hash[0] = 9

	svc := &BlockhashCacheService{
		current: &CachedBlockhash{
			Blockhash:            hash,
			LastValidBlockHeight: 100,
			UpdatedAt:            time.Now(),
		},
	}

	got, height, err := svc.GetBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, hash, got)
	assert.Equal(t, uint64(100), height)
}

func TestGetBlockhashFallsBackToStaleOnRPCFailure(t *testing.T) {
	var hash solana.Hash
	hash[0] = 9

	svc := &BlockhashCacheService{
		rpcClient: rpc.New("http://127.0.0.1:1"),
		current: &CachedBlockhash{
			Blockhash: hash,
			UpdatedAt: time.Now().Add(-time.Minute),
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	got, _, err := svc.GetBlockhash(ctx)
	require.NoError(t, err)
	assert.Equal(t, hash, got)
}

func TestGetBlockhashErrorsWithoutAnyCache(t *testing.T) {
	svc := &BlockhashCacheService{
		rpcClient: rpc.New("http://127.0.0.1:1"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := svc.GetBlockhash(ctx)
	assert.Error(t, err)
}
