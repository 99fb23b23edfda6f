package main

import (
	"context"
	"net/http"
	"time"

	apptable "minimorph-blackjack/internal/app/table"
	"minimorph-blackjack/internal/config"
	"minimorph-blackjack/internal/ledger"
	"minimorph-blackjack/internal/logging"
	"minimorph-blackjack/internal/store"
	httptransport "minimorph-blackjack/internal/transport/http"
	"minimorph-blackjack/internal/wager"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	var st *store.Store
	if cfg.Server.PostgresDSN != "" {
		st, err = store.New(cfg.Server.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("store init failed")
		}
		if err := st.Ping(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("db ping failed")
		}
		if err := st.Bootstrap(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("db bootstrap failed")
		}
	} else {
		log.Warn().Msg("no postgres dsn; profiles, history and leaderboard disabled")
	}

	var saga *wager.Saga
	if cfg.Ledger.RPCURL != "" {
		saga = wager.New(
			ledger.NewRPCClient(cfg.Ledger.RPCURL, cfg.Ledger.StepTimeout),
			wager.Config{
				HouseAddress:  cfg.Ledger.HouseAddress,
				TokenID:       cfg.Ledger.TokenID,
				DustThreshold: cfg.Ledger.DustThreshold,
				StepTimeout:   cfg.Ledger.StepTimeout,
			},
		)
		log.Info().Str("rpc_url", cfg.Ledger.RPCURL).Msg("staked play enabled")
	} else {
		log.Warn().Msg("no ledger rpc url; rounds run without stakes")
	}

	tableSvc := apptable.NewService(saga, st, cfg.Server.MaxBet)
	r := httptransport.NewRouter(tableSvc, st)
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
