// Package confirm polls signature status until a target commitment level is
// reached or the wait budget runs out.
package confirm

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/metrics"
)

// StatusFetcher is the slice of the RPC client the tracker needs.
type StatusFetcher interface {
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, transactionSignatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

// Tracker waits for transaction finality. A timeout is reported as
// ErrConfirmationTimeout, distinct from a failed submission: the transaction
// may still land after the caller stopped waiting.
type Tracker struct {
	fetcher  StatusFetcher
	interval time.Duration
	timeout  time.Duration
}

func NewTracker(fetcher StatusFetcher, interval, timeout time.Duration) *Tracker {
	return &Tracker{fetcher: fetcher, interval: interval, timeout: timeout}
}

func commitmentRank(status rpc.ConfirmationStatusType) int {
	switch status {
	case rpc.ConfirmationStatusProcessed:
		return 1
	case rpc.ConfirmationStatusConfirmed:
		return 2
	case rpc.ConfirmationStatusFinalized:
		return 3
	default:
		return 0
	}
}

// Wait blocks until the signature reaches the target commitment. On-chain
// execution errors surface immediately; transient RPC errors are retried
// until the deadline.
func (t *Tracker) Wait(ctx context.Context, sig solana.Signature, target rpc.ConfirmationStatusType) error {
	started := time.Now()
	deadline := started.Add(t.timeout)
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	want := commitmentRank(target)
	for {
		if time.Now().After(deadline) {
			metrics.ConfirmationTimeouts.Inc()
			return common.ErrConfirmationTimeout
		}

		res, err := t.fetcher.GetSignatureStatuses(ctx, false, sig)
		if err == nil && res != nil && len(res.Value) > 0 && res.Value[0] != nil {
			status := res.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction %s failed on chain: %v", sig, status.Err)
			}
			if commitmentRank(status.ConfirmationStatus) >= want {
				metrics.ConfirmationDuration.Observe(time.Since(started).Seconds())
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
