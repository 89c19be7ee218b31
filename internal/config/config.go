package config

import (
	"time"

	"github.com/joho/godotenv"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

// SymbolConfig - one catalogue row as written in the game config.
type SymbolConfig struct {
	Name      string
	BaseValue string
	Weight    float64
}

type CascadeConfig interface {
	GridSize() int
	MinClusterSize() int
	MaxRounds() int
	MaxWinXBet() int64
	LossBiased() bool
	HazardWeightBoost() float64
	Symbols() []SymbolConfig
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
}

type LogConfig interface {
	Level() string
}
