// Package common contains common constants and variables used across services
package common

import "github.com/gagliardetto/solana-go"

var (
	TokenProgramID    = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	Token2022ID       = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")
	MemoProgramID     = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
	ATAProgramID      = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
	ComputeBudgetID   = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")
	SystemProgramID   = solana.SystemProgramID
	WSOLMint          = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	PumpFunProgramID  = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	PrecheckProgramID = solana.MustPublicKeyFromBase58("HooKi9j7A9CN3Yr8D2MqwTj4XfKetWstqm1padU8imiE")
)

const LamportsPerSOL = 1_000_000_000
