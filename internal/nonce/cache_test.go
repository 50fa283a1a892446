package nonce

import (
	"encoding/binary"
	"sync"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/trade-engine/internal/common"
)

func nonceAccountData(authority solana.PublicKey, blockhash solana.Hash, fee uint64) []byte {
	data := make([]byte, nonceAccountLen)
	binary.LittleEndian.PutUint32(data[0:4], 1)
	binary.LittleEndian.PutUint32(data[4:8], nonceStateInitialized)
	copy(data[authorityOffset:], authority[:])
	copy(data[blockhashOffset:], blockhash[:])
	binary.LittleEndian.PutUint64(data[feeOffset:], fee)
	return data
}

func TestDecodeNonceAccount(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	var blockhash solana.Hash
	blockhash[0] = 0xAB

	gotAuth, gotHash, gotFee, err := decodeNonceAccount(nonceAccountData(authority, blockhash, 5000))
	require.NoError(t, err)
	assert.Equal(t, authority, gotAuth)
	assert.Equal(t, blockhash, gotHash)
	assert.Equal(t, uint64(5000), gotFee)
}

func TestDecodeNonceAccountRejectsBadState(t *testing.T) {
	data := nonceAccountData(solana.PublicKey{}, solana.Hash{}, 0)
	binary.LittleEndian.PutUint32(data[4:8], 0) // uninitialized
	_, _, _, err := decodeNonceAccount(data)
	assert.ErrorIs(t, err, ErrNotNonceAccount)

	_, _, _, err = decodeNonceAccount(data[:16])
	assert.ErrorIs(t, err, ErrNonceDataTooShort)
}

func TestGetRequiresRefresh(t *testing.T) {
	svc := NewCacheService()
	_, err := svc.Get(solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, common.ErrNonceNotCached)
}

func TestAcquireIsExclusive(t *testing.T) {
	svc := NewCacheService()
	account := solana.NewWallet().PublicKey()
	svc.entries[account] = &CachedNonce{Account: account}

	entry, err := svc.Acquire(account)
	require.NoError(t, err)
	require.NotNil(t, entry)

	_, err = svc.Acquire(account)
	assert.ErrorIs(t, err, common.ErrNonceInUse)

	svc.Release(account)
	_, err = svc.Acquire(account)
	assert.NoError(t, err)
}

func TestAcquireUnknownAccount(t *testing.T) {
	svc := NewCacheService()
	_, err := svc.Acquire(solana.NewWallet().PublicKey())
	assert.ErrorIs(t, err, common.ErrNonceNotCached)
}

func TestConcurrentAcquireSingleWinner(t *testing.T) {
	svc := NewCacheService()
	account := solana.NewWallet().PublicKey()
	svc.entries[account] = &CachedNonce{Account: account}

	const attempts = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Acquire(account); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestAdvanceInstructionShape(t *testing.T) {
	account := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()

	ix := AdvanceInstruction(account, authority)
	assert.Equal(t, solana.SystemProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, account, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, solana.SysVarRecentBlockHashesPubkey, accounts[1].PublicKey)
	assert.Equal(t, authority, accounts[2].PublicKey)
	assert.True(t, accounts[2].IsSigner)
}
