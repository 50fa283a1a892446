package confirm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hxuan190/trade-engine/internal/common"
)

type scriptedFetcher struct {
	statuses []*rpc.SignatureStatusesResult
	errs     []error
	calls    int
}

func (f *scriptedFetcher) GetSignatureStatuses(ctx context.Context, _ bool, _ ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	i := f.calls
	if i >= len(f.statuses) {
		i = len(f.statuses) - 1
	}
	f.calls++
	if f.errs != nil && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return &rpc.GetSignatureStatusesResult{
		Value: []*rpc.SignatureStatusesResult{f.statuses[i]},
	}, nil
}

func TestWaitResolvesAtTargetCommitment(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []*rpc.SignatureStatusesResult{
			nil, // not yet visible
			{ConfirmationStatus: rpc.ConfirmationStatusProcessed},
			{ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
		},
	}
	tracker := NewTracker(fetcher, time.Millisecond, time.Second)

	err := tracker.Wait(context.Background(), solana.Signature{}, rpc.ConfirmationStatusConfirmed)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, fetcher.calls, 3)
}

func TestWaitAcceptsHigherCommitment(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []*rpc.SignatureStatusesResult{
			{ConfirmationStatus: rpc.ConfirmationStatusFinalized},
		},
	}
	tracker := NewTracker(fetcher, time.Millisecond, time.Second)
	assert.NoError(t, tracker.Wait(context.Background(), solana.Signature{}, rpc.ConfirmationStatusConfirmed))
}

func TestWaitTimesOut(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []*rpc.SignatureStatusesResult{nil},
	}
	tracker := NewTracker(fetcher, time.Millisecond, 20*time.Millisecond)

	err := tracker.Wait(context.Background(), solana.Signature{}, rpc.ConfirmationStatusConfirmed)
	assert.ErrorIs(t, err, common.ErrConfirmationTimeout)
}

func TestWaitSurfacesOnChainError(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []*rpc.SignatureStatusesResult{
			{Err: map[string]any{"InstructionError": []any{0, "Custom"}}},
		},
	}
	tracker := NewTracker(fetcher, time.Millisecond, time.Second)

	err := tracker.Wait(context.Background(), solana.Signature{}, rpc.ConfirmationStatusConfirmed)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrConfirmationTimeout)
}

func TestWaitRetriesTransientRPCErrors(t *testing.T) {
	fetcher := &scriptedFetcher{
		statuses: []*rpc.SignatureStatusesResult{
			nil,
			{ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
		},
		errs: []error{errors.New("rpc unavailable"), nil},
	}
	tracker := NewTracker(fetcher, time.Millisecond, time.Second)
	assert.NoError(t, tracker.Wait(context.Background(), solana.Signature{}, rpc.ConfirmationStatusConfirmed))
}
