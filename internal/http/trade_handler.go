package http

import (
	"errors"
	gohttp "net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"

	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/domain"
	"github.com/hxuan190/trade-engine/internal/http/httputil"
	"github.com/hxuan190/trade-engine/internal/nonce"
	"github.com/hxuan190/trade-engine/internal/trading"
)

// TradeHandler executes trades. One POST runs the whole pipeline: build,
// sign once, race the relay set, optionally wait for confirmation.
type TradeHandler struct {
	executorSvc *trading.ExecutorService
}

func NewTradeHandler(executorSvc *trading.ExecutorService) *TradeHandler {
	return &TradeHandler{executorSvc: executorSvc}
}

func (h *TradeHandler) Root() string {
	return "/trades"
}

func (h *TradeHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.executeTrade)
}

// TradeHandlerRequest carries one trade. Exactly one protocol params object
// must be set and it must match the dex field.
type TradeHandlerRequest struct {
	Side string `json:"side" binding:"required" example:"buy"`
	Dex  string `json:"dex" binding:"required" example:"pumpfun"`
	Mint string `json:"mint" binding:"required" example:"2RUTyfN8iq7tG82PXSMUKMMtLkYqjgsaHuHCSWH4pump"`

	// InputAmount is lamports for buys and token base units for sells.
	InputAmount uint64 `json:"inputAmount" binding:"required" example:"50000000"`

	SlippageBps       uint64 `json:"slippageBps" example:"100"`
	FixedOutputAmount uint64 `json:"fixedOutputAmount"`

	CreateInputATA  bool `json:"createInputAta"`
	CreateOutputATA bool `json:"createOutputAta"`
	CloseInputATA   bool `json:"closeInputAta"`
	CloseOutputATA  bool `json:"closeOutputAta"`

	// NonceAccount switches the trade to a cached durable nonce.
	NonceAccount string `json:"nonceAccount"`

	Simulate            bool   `json:"simulate"`
	WaitForConfirmation bool   `json:"waitForConfirmation"`
	CollectTimings      bool   `json:"collectTimings"`
	GasTier             string `json:"gasTier"`

	Precheck *PrecheckRequestParams `json:"precheck"`
	PumpFun  *PumpFunRequestParams  `json:"pumpfun"`
}

type PrecheckRequestParams struct {
	ContextSlot                    uint64 `json:"contextSlot"`
	MaxSlotDiff                    uint8  `json:"maxSlotDiff"`
	MinLiquidityLamports           uint64 `json:"minLiquidityLamports"`
	MaxLiquidityLamports           uint64 `json:"maxLiquidityLamports"`
	BaseLiquidityLamports          uint64 `json:"baseLiquidityLamports"`
	MinLiquidityDifferenceLamports uint64 `json:"minLiquidityDifferenceLamports"`
	MaxLiquidityDifferenceLamports uint64 `json:"maxLiquidityDifferenceLamports"`
}

type PumpFunRequestParams struct {
	BondingCurve           string `json:"bondingCurve"`
	AssociatedBondingCurve string `json:"associatedBondingCurve"`
	CreatorVault           string `json:"creatorVault"`
	Creator                string `json:"creator"`
	TokenProgram           string `json:"tokenProgram"`
	VirtualTokenReserves   uint64 `json:"virtualTokenReserves"`
	VirtualSolReserves     uint64 `json:"virtualSolReserves"`
	RealTokenReserves      uint64 `json:"realTokenReserves"`
	RealSolReserves        uint64 `json:"realSolReserves"`
	CashbackCoin           bool   `json:"cashbackCoin"`
}

func (h *TradeHandler) executeTrade(c *gin.Context) {
	var req TradeHandlerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tradeReq, err := req.toDomain()
	if err != nil {
		httputil.BadRequest(c, err.Error())
		return
	}

	outcome, err := h.executorSvc.Execute(c.Request.Context(), tradeReq)
	if err != nil {
		var vErr *common.ValidationError
		var agg *common.AggregateError
		switch {
		case errors.Is(err, common.ErrConfirmationTimeout):
			// Submitted but not yet confirmed; the transaction may still land.
			httputil.Success(c, outcome)
		case errors.As(err, &vErr):
			httputil.BadRequest(c, err.Error())
		case errors.Is(err, common.ErrNonceInUse):
			httputil.Conflict(c, err.Error())
		case errors.Is(err, common.ErrNonceNotCached), errors.Is(err, nonce.ErrAuthorityMismatch):
			httputil.BadRequest(c, err.Error())
		case errors.Is(err, trading.ErrSimulationFailed):
			httputil.Error(c, gohttp.StatusUnprocessableEntity, err.Error())
		case errors.As(err, &agg):
			httputil.BadGateway(c, err.Error())
		default:
			httputil.InternalError(c, err.Error())
		}
		return
	}

	httputil.Success(c, outcome)
}

func (req *TradeHandlerRequest) toDomain() (*domain.TradeRequest, error) {
	side, err := domain.ParseTradeSide(req.Side)
	if err != nil {
		return nil, err
	}
	dexKind, err := domain.ParseDexKind(req.Dex)
	if err != nil {
		return nil, err
	}
	mint, err := solana.PublicKeyFromBase58(req.Mint)
	if err != nil {
		return nil, errors.New("invalid mint address")
	}

	tradeReq := &domain.TradeRequest{
		Side:                side,
		Dex:                 dexKind,
		Mint:                mint,
		InputAmount:         req.InputAmount,
		SlippageBps:         req.SlippageBps,
		FixedOutputAmount:   req.FixedOutputAmount,
		CreateInputATA:      req.CreateInputATA,
		CreateOutputATA:     req.CreateOutputATA,
		CloseInputATA:       req.CloseInputATA,
		CloseOutputATA:      req.CloseOutputATA,
		Simulate:            req.Simulate,
		WaitForConfirmation: req.WaitForConfirmation,
		CollectTimings:      req.CollectTimings,
		GasTier:             req.GasTier,
	}

	if req.NonceAccount != "" {
		account, err := solana.PublicKeyFromBase58(req.NonceAccount)
		if err != nil {
			return nil, errors.New("invalid nonce account address")
		}
		tradeReq.NonceAccount = &account
	}

	if req.Precheck != nil {
		tradeReq.Precheck = &domain.PrecheckParams{
			ContextSlot:                    req.Precheck.ContextSlot,
			MaxSlotDiff:                    req.Precheck.MaxSlotDiff,
			MinLiquidityLamports:           req.Precheck.MinLiquidityLamports,
			MaxLiquidityLamports:           req.Precheck.MaxLiquidityLamports,
			BaseLiquidityLamports:          req.Precheck.BaseLiquidityLamports,
			MinLiquidityDifferenceLamports: req.Precheck.MinLiquidityDifferenceLamports,
			MaxLiquidityDifferenceLamports: req.Precheck.MaxLiquidityDifferenceLamports,
		}
	}

	ext, err := req.extension(dexKind)
	if err != nil {
		return nil, err
	}
	tradeReq.Extension = ext

	return tradeReq, nil
}

func (req *TradeHandlerRequest) extension(dexKind domain.DexKind) (domain.ExtensionParams, error) {
	switch dexKind {
	case domain.DexPumpFun:
		if req.PumpFun == nil {
			return nil, errors.New("pumpfun params required")
		}
		return req.PumpFun.toDomain()
	default:
		return nil, errors.New("unsupported dex " + dexKind.String())
	}
}

func (p *PumpFunRequestParams) toDomain() (*domain.PumpFunParams, error) {
	ext := &domain.PumpFunParams{
		VirtualTokenReserves: p.VirtualTokenReserves,
		VirtualSolReserves:   p.VirtualSolReserves,
		RealTokenReserves:    p.RealTokenReserves,
		RealSolReserves:      p.RealSolReserves,
		CashbackCoin:         p.CashbackCoin,
	}

	fields := []struct {
		name  string
		value string
		dst   *solana.PublicKey
	}{
		{"bondingCurve", p.BondingCurve, &ext.BondingCurve},
		{"associatedBondingCurve", p.AssociatedBondingCurve, &ext.AssociatedBondingCurve},
		{"creatorVault", p.CreatorVault, &ext.CreatorVault},
		{"creator", p.Creator, &ext.Creator},
		{"tokenProgram", p.TokenProgram, &ext.TokenProgram},
	}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		key, err := solana.PublicKeyFromBase58(f.value)
		if err != nil {
			return nil, errors.New("invalid pumpfun." + f.name + " address")
		}
		*f.dst = key
	}

	return ext, nil
}
