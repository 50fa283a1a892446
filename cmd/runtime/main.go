package main

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/trade-engine/internal/adapters/persistence"
	"github.com/hxuan190/trade-engine/internal/common"
	"github.com/hxuan190/trade-engine/internal/config"
	"github.com/hxuan190/trade-engine/internal/http"
	"github.com/hxuan190/trade-engine/internal/nonce"
	"github.com/hxuan190/trade-engine/internal/trading"
)

func main() {
	// Initialize HFT runtime optimizations (GOGC, GOMAXPROCS, GOMEMLIMIT)
	common.InitRuntimeForHFT()

	// load env
	err := godotenv.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load env")
		return
	}

	// di container config
	conf := container.NewConf(
		&config.GeneralConfig{},
		&config.RPCConfig{},
		&config.SwqosConfig{},
		&config.TradeConfig{},
		&config.PersistenceConfig{},
	)

	// di container
	dic, err := container.New(
		// config
		conf,

		// services
		persistence.NewJournalService(),
		nonce.NewCacheService(),
		trading.NewBlockhashCacheService(),
		trading.NewExecutorService(),

		http.NewHTTPService(),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create di container")
		return
	}

	if err := dic.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run di container")
		return
	}

	log.Info().Msg("Shutting down services...")
	if err := dic.Stop(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("Shutdown complete")
}
