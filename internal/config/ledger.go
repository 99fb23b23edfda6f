package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type LedgerConfig struct {
	// RPCURL is the command endpoint of the player's node. Empty disables
	// staked play; rounds then run for fun only.
	RPCURL string `env:"LEDGER_RPC_URL"`

	TokenID      string `env:"LEDGER_TOKEN_ID" envDefault:"0x00"`
	HouseAddress string `env:"HOUSE_ADDRESS"`

	// DustThreshold is the smallest change output worth creating.
	DustThreshold float64 `env:"LEDGER_DUST_THRESHOLD" envDefault:"0.000001"`

	// StepTimeout bounds every individual ledger call so a stuck node
	// cannot hang a round forever.
	StepTimeout time.Duration `env:"LEDGER_STEP_TIMEOUT" envDefault:"10s"`
}

func LoadLedger() (LedgerConfig, error) {
	var cfg LedgerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
