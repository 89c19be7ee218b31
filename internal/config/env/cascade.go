package env

import (
	"clusterpay_backend/internal/config"
	"clusterpay_backend/internal/game/symbol"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	cascadeConfigPathEnvName = "CASCADE_CONFIG_PATH"
	DefaultCascadeConfigPath = "config.yaml"

	defaultGridSize          = 6
	defaultMinClusterSize    = 5
	defaultMaxRounds         = 300
	defaultMaxWinXBet        = 10000
	defaultHazardWeightBoost = 2.0

	minGridSize = 3
	maxGridSize = 32
)

type cascadeFile struct {
	Cascade cascadeYAML `yaml:"cascade"`
}

type cascadeYAML struct {
	GridSize          *int         `yaml:"grid_size"`
	MinClusterSize    *int         `yaml:"min_cluster_size"`
	MaxRounds         *int         `yaml:"max_rounds"`
	MaxWinXBet        *int64       `yaml:"max_win_x_bet"`
	LossBiased        bool         `yaml:"loss_biased"`
	HazardWeightBoost *float64     `yaml:"hazard_weight_boost"`
	Symbols           []symbolYAML `yaml:"symbols"`
}

type symbolYAML struct {
	Name      string  `yaml:"name"`
	BaseValue string  `yaml:"base_value"`
	Weight    float64 `yaml:"weight"`
}

type cascadeConfig struct {
	gridSize          int
	minClusterSize    int
	maxRounds         int
	maxWinXBet        int64
	lossBiased        bool
	hazardWeightBoost float64
	symbols           []config.SymbolConfig
}

// CascadeConfigPath - path from CASCADE_CONFIG_PATH or config.yaml
func CascadeConfigPath() string {
	if p := os.Getenv(cascadeConfigPathEnvName); len(p) != 0 {
		return p
	}
	return DefaultCascadeConfigPath
}

// NewCascadeConfigFromYAML reads the cascade section of a YAML file. A missing file yields the defaults.
func NewCascadeConfigFromYAML(path string) (config.CascadeConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return parseCascadeConfig(nil)
		}
		return nil, fmt.Errorf("read cascade config: %w", err)
	}
	return parseCascadeConfig(b)
}

func parseCascadeConfig(b []byte) (config.CascadeConfig, error) {
	var file cascadeFile
	if err := yaml.Unmarshal(b, &file); err != nil {
		return nil, fmt.Errorf("parse cascade config: %w", err)
	}
	raw := file.Cascade

	cfg := &cascadeConfig{
		gridSize:          intOr(raw.GridSize, defaultGridSize),
		minClusterSize:    intOr(raw.MinClusterSize, defaultMinClusterSize),
		maxRounds:         intOr(raw.MaxRounds, defaultMaxRounds),
		maxWinXBet:        defaultMaxWinXBet,
		lossBiased:        raw.LossBiased,
		hazardWeightBoost: defaultHazardWeightBoost,
	}
	if raw.MaxWinXBet != nil {
		cfg.maxWinXBet = *raw.MaxWinXBet
	}
	if raw.HazardWeightBoost != nil {
		cfg.hazardWeightBoost = *raw.HazardWeightBoost
	}

	if cfg.gridSize < minGridSize || cfg.gridSize > maxGridSize {
		return nil, fmt.Errorf("grid_size must be in [%d, %d], got %d", minGridSize, maxGridSize, cfg.gridSize)
	}
	if cfg.minClusterSize < 2 {
		return nil, fmt.Errorf("min_cluster_size must be at least 2, got %d", cfg.minClusterSize)
	}
	if cfg.maxRounds <= 0 {
		return nil, fmt.Errorf("max_rounds must be positive, got %d", cfg.maxRounds)
	}
	if cfg.maxWinXBet < 0 {
		return nil, fmt.Errorf("max_win_x_bet must not be negative, got %d", cfg.maxWinXBet)
	}
	if !(cfg.hazardWeightBoost > 0) || math.IsInf(cfg.hazardWeightBoost, 1) {
		return nil, fmt.Errorf("hazard_weight_boost must be positive and finite, got %v", cfg.hazardWeightBoost)
	}

	for i, s := range raw.Symbols {
		if _, err := symbol.ParseKind(s.Name); err != nil {
			return nil, fmt.Errorf("symbols[%d]: %w", i, err)
		}
		if _, err := decimal.NewFromString(s.BaseValue); err != nil {
			return nil, fmt.Errorf("symbols[%d] %s: invalid base_value %q: %w", i, s.Name, s.BaseValue, err)
		}
		if !(s.Weight > 0) || math.IsInf(s.Weight, 1) {
			return nil, fmt.Errorf("symbols[%d] %s: weight must be positive and finite", i, s.Name)
		}
		cfg.symbols = append(cfg.symbols, config.SymbolConfig{
			Name:      s.Name,
			BaseValue: s.BaseValue,
			Weight:    s.Weight,
		})
	}

	return cfg, nil
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func (c *cascadeConfig) GridSize() int              { return c.gridSize }
func (c *cascadeConfig) MinClusterSize() int        { return c.minClusterSize }
func (c *cascadeConfig) MaxRounds() int             { return c.maxRounds }
func (c *cascadeConfig) MaxWinXBet() int64          { return c.maxWinXBet }
func (c *cascadeConfig) LossBiased() bool           { return c.lossBiased }
func (c *cascadeConfig) HazardWeightBoost() float64 { return c.hazardWeightBoost }

func (c *cascadeConfig) Symbols() []config.SymbolConfig {
	out := make([]config.SymbolConfig, len(c.symbols))
	copy(out, c.symbols)
	return out
}
