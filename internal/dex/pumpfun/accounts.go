// Package pumpfun encodes pump.fun bonding-curve swap instructions and the
// curve math behind them.
package pumpfun

import (
	"github.com/gagliardetto/solana-go"

	"github.com/hxuan190/trade-engine/internal/common"
)

var (
	GlobalAccount  = solana.MustPublicKeyFromBase58("4wTV1YmiEkRvAtNtsSGPtUrqRYQMe5SKy2uB4Jjaxnjf")
	FeeRecipient   = solana.MustPublicKeyFromBase58("CebN5WGQ4jvEPvsVU4EoHEpgzq1VV7AbicfhtW4xC9iM")
	EventAuthority = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")
	FeeProgram     = solana.MustPublicKeyFromBase58("pfeeUxB6jkeY1Hxd7CsFCAjcbHA9rWtchMGdZ6VojVZ")
)

// Anchor method discriminators.
var (
	buyDiscriminator  = [8]byte{102, 6, 61, 18, 1, 218, 235, 234}
	sellDiscriminator = [8]byte{51, 230, 133, 164, 1, 127, 131, 173}
)

func BondingCurvePDA(mint solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("bonding-curve"), mint.Bytes()},
		common.PumpFunProgramID,
	)
	return pda, err
}

func BondingCurveV2PDA(mint solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("bonding-curve-v2"), mint.Bytes()},
		common.PumpFunProgramID,
	)
	return pda, err
}

func CreatorVaultPDA(creator solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("creator-vault"), creator.Bytes()},
		common.PumpFunProgramID,
	)
	return pda, err
}

func GlobalVolumeAccumulatorPDA() (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("global_volume_accumulator")},
		common.PumpFunProgramID,
	)
	return pda, err
}

func UserVolumeAccumulatorPDA(user solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("user_volume_accumulator"), user.Bytes()},
		common.PumpFunProgramID,
	)
	return pda, err
}

func FeeConfigPDA() (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("fee_config"), common.PumpFunProgramID.Bytes()},
		FeeProgram,
	)
	return pda, err
}

// associatedTokenAddress derives the ATA for any token program, unlike the
// solana-go helper which assumes the classic token program.
func associatedTokenAddress(owner, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{owner.Bytes(), tokenProgram.Bytes(), mint.Bytes()},
		common.ATAProgramID,
	)
	return pda, err
}
