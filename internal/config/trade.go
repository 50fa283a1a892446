package config

import (
	"errors"
	"os"

	"github.com/andrew-solarstorm/go-packages/common"
)

type TradeConfig struct {
	// WalletPrivateKey is the base58-encoded signing key for all trades.
	WalletPrivateKey string

	// Clamp ceilings for runtime fee-tier updates. Zero disables a ceiling.
	MaxCULimit     int
	MaxCUPrice     int
	MaxTipLamports int

	// Default relay tip in lamports when the fee tier sets none.
	DefaultTipLamports int

	ConfirmTimeoutSeconds int
	ConfirmPollMillis     int

	// Memo appended to every trade by the memo middleware. Empty disables it.
	Memo string

	MaxInstructions int
}

func (c *TradeConfig) Key() string {
	return TRADE_CONFIG_KEY
}

func (c *TradeConfig) Load() error {
	c.WalletPrivateKey = os.Getenv("TRADE_WALLET_KEY")
	c.MaxCULimit = common.GetEnvOrDefaultInt("TRADE_MAX_CU_LIMIT", 1_400_000)
	c.MaxCUPrice = common.GetEnvOrDefaultInt("TRADE_MAX_CU_PRICE", 0)
	c.MaxTipLamports = common.GetEnvOrDefaultInt("TRADE_MAX_TIP_LAMPORTS", 0)
	c.DefaultTipLamports = common.GetEnvOrDefaultInt("TRADE_DEFAULT_TIP_LAMPORTS", 0)
	c.ConfirmTimeoutSeconds = common.GetEnvOrDefaultInt("TRADE_CONFIRM_TIMEOUT_SECONDS", 30)
	c.ConfirmPollMillis = common.GetEnvOrDefaultInt("TRADE_CONFIRM_POLL_MILLIS", 400)
	c.Memo = common.GetEnvOrDefault("TRADE_MEMO", "")
	c.MaxInstructions = common.GetEnvOrDefaultInt("TRADE_MAX_INSTRUCTIONS", 0)
	return c.Validate()
}

func (c *TradeConfig) Validate() error {
	if c.WalletPrivateKey == "" {
		return errors.New("trade config requires TRADE_WALLET_KEY")
	}
	if c.ConfirmTimeoutSeconds <= 0 || c.ConfirmPollMillis <= 0 {
		return errors.New("confirmation timing must be positive")
	}
	return nil
}
