package pumpfun

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/dex"
	"github.com/hxuan190/trade-engine/internal/domain"
)

// Builder encodes pump.fun buy and sell instructions. Stateless.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) Kind() domain.DexKind { return domain.DexPumpFun }

type resolved struct {
	ext              *domain.PumpFunParams
	bondingCurve     solana.PublicKey
	bondingCurveV2   solana.PublicKey
	associatedCurve  solana.PublicKey
	userTokenAccount solana.PublicKey
	tokenProgram     solana.PublicKey
	creatorVault     solana.PublicKey
}

// resolve fills in every account the params left at the zero value.
func (b *Builder) resolve(params dex.BuildParams) (*resolved, error) {
	ext, ok := params.Extension.(*domain.PumpFunParams)
	if !ok {
		return nil, common.NewValidationError("extension", "pumpfun params required")
	}
	if params.InputAmount == 0 {
		return nil, common.NewValidationError("input_amount", "must be non-zero")
	}

	tokenProgram := ext.TokenProgram
	if tokenProgram.IsZero() {
		tokenProgram = common.TokenProgramID
	}

	bondingCurve := ext.BondingCurve
	if bondingCurve.IsZero() {
		pda, err := BondingCurvePDA(params.Mint)
		if err != nil {
			return nil, err
		}
		bondingCurve = pda
	}

	bondingCurveV2, err := BondingCurveV2PDA(params.Mint)
	if err != nil {
		return nil, err
	}

	associatedCurve := ext.AssociatedBondingCurve
	if associatedCurve.IsZero() {
		ata, err := associatedTokenAddress(bondingCurve, params.Mint, tokenProgram)
		if err != nil {
			return nil, err
		}
		associatedCurve = ata
	}

	userTokenAccount := params.UserTokenAccount
	if userTokenAccount.IsZero() {
		ata, err := associatedTokenAddress(params.Payer, params.Mint, tokenProgram)
		if err != nil {
			return nil, err
		}
		userTokenAccount = ata
	}

	creatorVault := ext.CreatorVault
	if creatorVault.IsZero() {
		pda, err := CreatorVaultPDA(ext.Creator)
		if err != nil {
			return nil, err
		}
		creatorVault = pda
	}

	return &resolved{
		ext:              ext,
		bondingCurve:     bondingCurve,
		bondingCurveV2:   bondingCurveV2,
		associatedCurve:  associatedCurve,
		userTokenAccount: userTokenAccount,
		tokenProgram:     tokenProgram,
		creatorVault:     creatorVault,
	}, nil
}

func swapData(disc [8]byte, amount, bound uint64) []byte {
	data := make([]byte, 24)
	copy(data[:8], disc[:])
	binary.LittleEndian.PutUint64(data[8:16], amount)
	binary.LittleEndian.PutUint64(data[16:24], bound)
	return data
}

// BuildBuy encodes buy(token_amount, max_sol_cost).
func (b *Builder) BuildBuy(params dex.BuildParams) ([]solana.Instruction, error) {
	r, err := b.resolve(params)
	if err != nil {
		return nil, err
	}

	tokenAmount := params.FixedOutputAmount
	if tokenAmount == 0 {
		tokenAmount = GetBuyTokenAmountFromSolAmount(
			r.ext.VirtualTokenReserves,
			r.ext.VirtualSolReserves,
			r.ext.RealTokenReserves,
			r.ext.Creator,
			params.InputAmount,
		)
	}
	maxSolCost := WithSlippageBuy(params.InputAmount, params.SlippageBps)

	userVolume, err := UserVolumeAccumulatorPDA(params.Payer)
	if err != nil {
		return nil, err
	}
	globalVolume, err := GlobalVolumeAccumulatorPDA()
	if err != nil {
		return nil, err
	}
	feeConfig, err := FeeConfigPDA()
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(GlobalAccount),
		solana.Meta(FeeRecipient).WRITE(),
		solana.Meta(params.Mint),
		solana.Meta(r.bondingCurve).WRITE(),
		solana.Meta(r.associatedCurve).WRITE(),
		solana.Meta(r.userTokenAccount).WRITE(),
		solana.Meta(params.Payer).WRITE().SIGNER(),
		solana.Meta(common.SystemProgramID),
		solana.Meta(r.tokenProgram),
		solana.Meta(r.creatorVault).WRITE(),
		solana.Meta(EventAuthority),
		solana.Meta(common.PumpFunProgramID),
		solana.Meta(globalVolume).WRITE(),
		solana.Meta(userVolume).WRITE(),
		solana.Meta(feeConfig),
		solana.Meta(FeeProgram),
		solana.Meta(r.bondingCurveV2),
	}

	ix := solana.NewInstruction(common.PumpFunProgramID, accounts, swapData(buyDiscriminator, tokenAmount, maxSolCost))
	return []solana.Instruction{ix}, nil
}

// BuildSell encodes sell(token_amount, min_sol_output).
func (b *Builder) BuildSell(params dex.BuildParams) ([]solana.Instruction, error) {
	r, err := b.resolve(params)
	if err != nil {
		return nil, err
	}

	minSolOutput := params.FixedOutputAmount
	if minSolOutput == 0 {
		solAmount := GetSellSolAmountFromTokenAmount(
			r.ext.VirtualTokenReserves,
			r.ext.VirtualSolReserves,
			r.ext.Creator,
			params.InputAmount,
		)
		minSolOutput = WithSlippageSell(solAmount, params.SlippageBps)
	}

	feeConfig, err := FeeConfigPDA()
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.Meta(GlobalAccount),
		solana.Meta(FeeRecipient).WRITE(),
		solana.Meta(params.Mint),
		solana.Meta(r.bondingCurve).WRITE(),
		solana.Meta(r.associatedCurve).WRITE(),
		solana.Meta(r.userTokenAccount).WRITE(),
		solana.Meta(params.Payer).WRITE().SIGNER(),
		solana.Meta(common.SystemProgramID),
		solana.Meta(r.creatorVault).WRITE(),
		solana.Meta(r.tokenProgram),
		solana.Meta(EventAuthority),
		solana.Meta(common.PumpFunProgramID),
		solana.Meta(feeConfig),
		solana.Meta(FeeProgram),
	}

	// Cashback coins route sell volume through the user accumulator.
	if r.ext.CashbackCoin {
		userVolume, err := UserVolumeAccumulatorPDA(params.Payer)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, solana.Meta(userVolume).WRITE())
	}
	accounts = append(accounts, solana.Meta(r.bondingCurveV2))

	ix := solana.NewInstruction(common.PumpFunProgramID, accounts, swapData(sellDiscriminator, params.InputAmount, minSolOutput))
	return []solana.Instruction{ix}, nil
}
