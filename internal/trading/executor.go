package trading

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/trade-engine/internal/adapters/persistence"
	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/config"
	"github.com/hxuan190/trade-engine/internal/confirm"
	"github.com/hxuan190/trade-engine/internal/dex"
	"github.com/hxuan190/trade-engine/internal/dex/pumpfun"
	"github.com/hxuan190/trade-engine/internal/domain"
	"github.com/hxuan190/trade-engine/internal/gasfee"
	"github.com/hxuan190/trade-engine/internal/metrics"
	"github.com/hxuan190/trade-engine/internal/middleware"
	"github.com/hxuan190/trade-engine/internal/nonce"
	"github.com/hxuan190/trade-engine/internal/precheck"
	"github.com/hxuan190/trade-engine/internal/swqos"
)

const EXECUTOR_SERVICE = "trade-executor-svc"

var (
	ErrNoRelays         = errors.New("no relays configured")
	ErrSimulationFailed = errors.New("transaction simulation failed")
)

// Relay is one submission target in the race. Every relay receives the same
// signed bytes; a nil Submit return means the relay accepted the transaction.
type Relay interface {
	Name() string
	TipAccount() (solana.PublicKey, bool)
	Submit(ctx context.Context, encodedTx string) *common.SubmitError
}

// transactionSimulator is the slice of the RPC client the dry-run path needs.
type transactionSimulator interface {
	SimulateTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts *rpc.SimulateTransactionOpts) (*rpc.SimulateTransactionResponse, error)
}

// ExecutorService assembles a trade into one signed transaction and races it
// across the relay set. The transaction is signed exactly once; the first
// relay to accept it wins, the rest run to completion.
type ExecutorService struct {
	container.BaseDIInstance

	wallet solana.PrivateKey
	relays []Relay

	rpcClient      *rpc.Client
	simulator      transactionSimulator
	nonceCache     *nonce.CacheService
	blockhashCache *BlockhashCacheService
	journal        *persistence.JournalService
	fees           *gasfee.Strategy
	pipeline       *middleware.Manager
	registry       *dex.Registry
	tracker        *confirm.Tracker
	logger         *common.ServiceLogger
}

func NewExecutorService() *ExecutorService {
	return &ExecutorService{}
}

func (svc *ExecutorService) ID() string {
	return EXECUTOR_SERVICE
}

func (svc *ExecutorService) Configure(c container.IContainer) error {
	tradeCfg := c.GetConfig(config.TRADE_CONFIG_KEY).(*config.TradeConfig)
	rpcCfg := c.GetConfig(config.RPC_CONFIG_KEY).(*config.RPCConfig)
	swqosCfg := c.GetConfig(config.SWQOS_CONFIG_KEY).(*config.SwqosConfig)

	wallet, err := solana.PrivateKeyFromBase58(tradeCfg.WalletPrivateKey)
	if err != nil {
		return fmt.Errorf("invalid trade wallet key: %w", err)
	}
	svc.wallet = wallet
	svc.rpcClient = rpc.New(rpcCfg.RPCUrl)
	svc.simulator = svc.rpcClient

	svc.relays = make([]Relay, 0, len(swqosCfg.Relays))
	for _, spec := range swqosCfg.Relays {
		client, err := swqos.NewClient(spec, rpcCfg.RPCUrl)
		if err != nil {
			return fmt.Errorf("relay %s|%s: %w", spec.Kind, spec.Region, err)
		}
		svc.relays = append(svc.relays, client)
	}

	svc.fees = gasfee.NewStrategy(
		uint32(tradeCfg.MaxCULimit),
		uint64(tradeCfg.MaxCUPrice),
		uint64(tradeCfg.MaxTipLamports),
	)
	svc.fees.SetGlobalFeeStrategy(0, 0, 0, uint64(tradeCfg.DefaultTipLamports))

	svc.pipeline = middleware.NewManager(
		&middleware.MemoMiddleware{Memo: tradeCfg.Memo},
		&middleware.InstructionLimitMiddleware{Max: tradeCfg.MaxInstructions},
	)
	svc.registry = dex.NewRegistry(pumpfun.NewBuilder())

	svc.nonceCache = c.Instance(nonce.NONCE_CACHE_SERVICE).(*nonce.CacheService)
	svc.blockhashCache = c.Instance(BLOCKHASH_CACHE_SERVICE).(*BlockhashCacheService)
	svc.journal = c.Instance(persistence.JOURNAL_SERVICE).(*persistence.JournalService)

	svc.tracker = confirm.NewTracker(
		svc.rpcClient,
		time.Duration(tradeCfg.ConfirmPollMillis)*time.Millisecond,
		time.Duration(tradeCfg.ConfirmTimeoutSeconds)*time.Second,
	)

	svc.logger = common.NewServiceLogger(svc)
	svc.logger.Info().
		Int("relays", len(svc.relays)).
		Str("wallet", wallet.PublicKey().String()).
		Msg("configured")
	return nil
}

func (svc *ExecutorService) Start() error { return nil }
func (svc *ExecutorService) Stop() error  { return nil }

// Fees exposes the tier table for runtime updates.
func (svc *ExecutorService) Fees() *gasfee.Strategy { return svc.fees }

// Execute runs one trade end to end. A returned outcome with a non-nil error
// means the transaction was submitted but confirmation did not complete.
func (svc *ExecutorService) Execute(ctx context.Context, req *domain.TradeRequest) (*domain.ExecutionOutcome, error) {
	started := time.Now()
	outcome, err := svc.execute(ctx, started, req)

	metrics.TradeRequests.WithLabelValues(req.Dex.String(), req.Side.String(), tradeStatus(err)).Inc()
	metrics.TradeDuration.WithLabelValues(req.Dex.String(), req.Side.String()).Observe(time.Since(started).Seconds())

	return outcome, err
}

// tradeStatus labels the trade counter. A confirmation timeout is its own
// status: the transaction was submitted and may still land.
func tradeStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrConfirmationTimeout):
		return "unconfirmed"
	default:
		return "error"
	}
}

func (svc *ExecutorService) execute(ctx context.Context, started time.Time, req *domain.TradeRequest) (*domain.ExecutionOutcome, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	feeIxs, tier, err := svc.fees.Compute(req.GasTier, req.Dex)
	if err != nil {
		return nil, err
	}

	// The nonce is held for the whole build-and-sign window so no concurrent
	// trade can sign against the same nonce value.
	var nonceEntry *nonce.CachedNonce
	if req.NonceAccount != nil {
		entry, err := svc.nonceCache.Acquire(*req.NonceAccount)
		if err != nil {
			if errors.Is(err, common.ErrNonceInUse) {
				metrics.NonceAcquireConflicts.Inc()
			}
			return nil, err
		}
		defer svc.nonceCache.Release(*req.NonceAccount)

		if !entry.Authority.Equals(svc.wallet.PublicKey()) {
			return nil, nonce.ErrAuthorityMismatch
		}
		nonceEntry = entry
	}

	core, err := svc.assembleCore(req, tier)
	if err != nil {
		return nil, err
	}

	processed, err := svc.pipeline.Apply(core)
	if err != nil {
		return nil, err
	}

	// Advance-nonce must stay the first instruction, so it and the
	// compute-budget instructions are prepended after the pipeline ran.
	wallet := svc.wallet.PublicKey()
	ixs := make([]solana.Instruction, 0, len(processed)+3)
	if nonceEntry != nil {
		ixs = append(ixs, nonce.AdvanceInstruction(nonceEntry.Account, wallet))
	}
	ixs = append(ixs, feeIxs...)
	ixs = append(ixs, processed...)

	var blockhash solana.Hash
	if nonceEntry != nil {
		blockhash = nonceEntry.Blockhash
	} else {
		bh, _, err := svc.blockhashCache.GetBlockhash(ctx)
		if err != nil {
			return nil, err
		}
		blockhash = bh
	}

	tx, err := solana.NewTransaction(ixs, blockhash, solana.TransactionPayer(wallet))
	if err != nil {
		return nil, err
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(wallet) {
			return &svc.wallet
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	sig := tx.Signatures[0]
	txBytes, err := tx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	encoded := base64.StdEncoding.EncodeToString(txBytes)

	buildDone := time.Now()
	metrics.BuildDuration.Observe(buildDone.Sub(started).Seconds())

	outcome := &domain.ExecutionOutcome{Signature: sig}

	if req.Simulate {
		simResult := svc.simulate(ctx, tx)
		outcome.Simulated = true
		outcome.Simulation = simResult
		if !simResult.Success {
			metrics.SimulationFailures.Inc()
			return outcome, fmt.Errorf("%w: %s", ErrSimulationFailed, simResult.Error)
		}
		// Dry run: the signed transaction never reaches a relay.
		return outcome, nil
	}

	winner, failures, err := svc.race(ctx, encoded)
	if err != nil {
		return nil, err
	}
	outcome.WinningRelay = winner
	outcome.Failures = failures
	submitDone := time.Now()

	log.Info().
		Str("signature", sig.String()).
		Str("relay", winner).
		Int("losers_failed", len(failures)).
		Str("dex", req.Dex.String()).
		Str("side", req.Side.String()).
		Msg("[ExecutorService] transaction submitted")

	var confirmErr error
	confirmDone := submitDone
	if req.WaitForConfirmation {
		confirmErr = svc.tracker.Wait(ctx, sig, rpc.ConfirmationStatusConfirmed)
		outcome.Confirmed = confirmErr == nil
		confirmDone = time.Now()
	}

	if req.CollectTimings {
		outcome.Timings = &domain.StageTimings{
			Build:   buildDone.Sub(started),
			Submit:  submitDone.Sub(buildDone),
			Confirm: confirmDone.Sub(submitDone),
			Total:   time.Since(started),
		}
	}

	svc.journal.Record(outcome)
	return outcome, confirmErr
}

func validateRequest(req *domain.TradeRequest) error {
	if req.Extension == nil {
		return common.NewValidationError("extension", "required")
	}
	if req.Extension.DexKind() != req.Dex {
		return common.NewValidationError("extension",
			fmt.Sprintf("got %s params for a %s trade", req.Extension.DexKind(), req.Dex))
	}
	if req.InputAmount == 0 {
		return common.NewValidationError("input_amount", "must be non-zero")
	}
	return nil
}

// assembleCore builds the instruction list the middleware pipeline sees:
// optional guard, optional ATA create, the swap, optional ATA close, optional
// relay tip.
func (svc *ExecutorService) assembleCore(req *domain.TradeRequest, tier gasfee.FeeTier) ([]solana.Instruction, error) {
	wallet := svc.wallet.PublicKey()
	core := make([]solana.Instruction, 0, 8)

	if req.Precheck != nil {
		guard, err := guardAccount(req)
		if err != nil {
			return nil, err
		}
		ix, err := precheck.BuildInstruction(guard, *req.Precheck)
		if err != nil {
			return nil, err
		}
		core = append(core, ix)
	}

	if wantsCreateATA(req) {
		core = append(core, associatedtokenaccount.NewCreateInstruction(wallet, wallet, req.Mint).Build())
	}

	dexIxs, err := svc.registry.Build(req.Side, dex.BuildParams{
		Payer:             wallet,
		Mint:              req.Mint,
		InputAmount:       req.InputAmount,
		SlippageBps:       req.SlippageBps,
		FixedOutputAmount: req.FixedOutputAmount,
		Extension:         req.Extension,
	})
	if err != nil {
		return nil, err
	}
	core = append(core, dexIxs...)

	if wantsCloseATA(req) {
		userATA, _, err := solana.FindAssociatedTokenAddress(wallet, req.Mint)
		if err != nil {
			return nil, err
		}
		core = append(core, token.NewCloseAccountInstruction(userATA, wallet, wallet, nil).Build())
	}

	if tipIx := svc.tipInstruction(tier.TipLamports); tipIx != nil {
		core = append(core, tipIx)
	}

	return core, nil
}

// guardAccount picks the pool account the precheck guard reads.
func guardAccount(req *domain.TradeRequest) (solana.PublicKey, error) {
	switch ext := req.Extension.(type) {
	case *domain.PumpFunParams:
		if !ext.BondingCurve.IsZero() {
			return ext.BondingCurve, nil
		}
		return pumpfun.BondingCurvePDA(req.Mint)
	case *domain.RaydiumParams:
		return ext.AmmPool, nil
	case *domain.MeteoraParams:
		return ext.Pool, nil
	case *domain.BonkParams:
		return ext.PoolState, nil
	default:
		return solana.PublicKey{}, common.NewValidationError("extension", "no guard account for this dex")
	}
}

// The SOL leg of a swap is native and has no ATA, so only the token leg's
// flags matter for each side.
func wantsCreateATA(req *domain.TradeRequest) bool {
	if req.Side == domain.SideBuy {
		return req.CreateOutputATA
	}
	return req.CreateInputATA
}

func wantsCloseATA(req *domain.TradeRequest) bool {
	if req.Side == domain.SideBuy {
		return req.CloseOutputATA
	}
	return req.CloseInputATA
}

// tipInstruction transfers the tip to one randomly chosen tip-accepting
// relay. Every relay carries the same transaction bytes, so only one vendor
// can be tipped per trade.
func (svc *ExecutorService) tipInstruction(lamports uint64) solana.Instruction {
	if lamports == 0 {
		return nil
	}
	candidates := make([]solana.PublicKey, 0, len(svc.relays))
	for _, relay := range svc.relays {
		if account, ok := relay.TipAccount(); ok {
			candidates = append(candidates, account)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	to := candidates[rand.IntN(len(candidates))]
	return system.NewTransferInstruction(lamports, svc.wallet.PublicKey(), to).Build()
}

type submitResult struct {
	index int
	name  string
	err   *common.SubmitError
}

// race submits the encoded transaction to every relay concurrently. The first
// acceptance wins; losers run to completion into the buffered channel. When
// every relay fails the failures are reported in submission order.
func (svc *ExecutorService) race(ctx context.Context, encodedTx string) (string, []domain.RelayFailure, error) {
	if len(svc.relays) == 0 {
		return "", nil, ErrNoRelays
	}

	results := make(chan submitResult, len(svc.relays))
	for i, relay := range svc.relays {
		go func(i int, relay Relay) {
			started := time.Now()
			serr := relay.Submit(ctx, encodedTx)
			metrics.RelaySubmitDuration.WithLabelValues(relay.Name()).Observe(time.Since(started).Seconds())

			status := "accepted"
			if serr != nil {
				status = serr.Kind.String()
			}
			metrics.RelaySubmits.WithLabelValues(relay.Name(), status).Inc()

			results <- submitResult{index: i, name: relay.Name(), err: serr}
		}(i, relay)
	}

	failed := make([]*common.SubmitError, len(svc.relays))
	for range svc.relays {
		res := <-results
		if res.err == nil {
			metrics.RelayWins.WithLabelValues(res.name).Inc()
			return res.name, relayFailures(failed), nil
		}
		failed[res.index] = res.err
		log.Warn().
			Str("relay", res.name).
			Str("kind", res.err.Kind.String()).
			Err(res.err).
			Msg("[ExecutorService] relay submission failed")
	}

	ordered := make([]*common.SubmitError, 0, len(failed))
	ordered = append(ordered, failed...)
	return "", nil, &common.AggregateError{Failures: ordered}
}

func relayFailures(failed []*common.SubmitError) []domain.RelayFailure {
	out := make([]domain.RelayFailure, 0, len(failed))
	for _, serr := range failed {
		if serr == nil {
			continue
		}
		out = append(out, domain.RelayFailure{
			Relay:  serr.Relay,
			Kind:   serr.Kind.String(),
			Reason: serr.Error(),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (svc *ExecutorService) simulate(ctx context.Context, tx *solana.Transaction) *domain.SimulationResult {
	metrics.SimulationRequests.Inc()

	res, err := svc.simulator.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		SigVerify:  false,
		Commitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return &domain.SimulationResult{Success: false, Error: fmt.Sprintf("simulation unavailable: %v", err)}
	}

	result := &domain.SimulationResult{Logs: res.Value.Logs}
	if res.Value.UnitsConsumed != nil {
		result.ComputeUnitsConsumed = *res.Value.UnitsConsumed
	}
	if res.Value.Err != nil {
		result.Error = fmt.Sprintf("%v", res.Value.Err)
		return result
	}
	result.Success = true
	return result
}
