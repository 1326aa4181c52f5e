// Package config loads planner tunables via viper, overlaying the
// parameter package's compiled-in defaults with an optional TOML file
// and GRIDFLOW_* environment variables, the way niceyeti-tabular's
// server loads its viper config.
package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"

	"github.com/bkhnk48/gridflow/parameter"
)

// Tunables mirrors the constants in package parameter as overridable
// runtime values. Defaults match parameter's compiled-in values exactly
// when no file or environment override is present.
type Tunables struct {
	PIBTRuntimePer100Agents float64
	PIBTHistoryWindow       int
	DeadlineToleranceMs     float64

	NeighborhoodSize   int
	BanditLearningRate float64
	BanditScoutRate    float64
	BanditMinWeight    float64

	FlowAlpha float64
	FlowBeta  float64

	Seed int64
}

// Load reads tunables from an optional TOML file at path (skipped if
// empty or missing) layered under GRIDFLOW_* environment variables and
// parameter's compiled-in defaults.
func Load(path string) (Tunables, error) {
	v := viper.New()
	v.SetEnvPrefix("GRIDFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("pibt.runtime_per_100_agents", parameter.PIBTRuntimePer100Agents)
	v.SetDefault("pibt.history_window", parameter.PIBTHistoryWindow)
	v.SetDefault("pibt.deadline_tolerance_ms", parameter.DeadlineToleranceMs)
	v.SetDefault("lns.neighborhood_size", parameter.NeighborhoodSize)
	v.SetDefault("lns.bandit_learning_rate", parameter.BanditLearningRate)
	v.SetDefault("lns.bandit_scout_rate", parameter.BanditScoutRate)
	v.SetDefault("lns.bandit_min_weight", parameter.BanditMinWeight)
	v.SetDefault("flow.alpha", parameter.FlowAlpha)
	v.SetDefault("flow.beta", parameter.FlowBeta)
	v.SetDefault("seed", parameter.DefaultSeed)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && !errors.Is(err, fs.ErrNotExist) {
				return Tunables{}, err
			}
		}
	}

	return Tunables{
		PIBTRuntimePer100Agents: v.GetFloat64("pibt.runtime_per_100_agents"),
		PIBTHistoryWindow:       v.GetInt("pibt.history_window"),
		DeadlineToleranceMs:     v.GetFloat64("pibt.deadline_tolerance_ms"),
		NeighborhoodSize:        v.GetInt("lns.neighborhood_size"),
		BanditLearningRate:      v.GetFloat64("lns.bandit_learning_rate"),
		BanditScoutRate:         v.GetFloat64("lns.bandit_scout_rate"),
		BanditMinWeight:         v.GetFloat64("lns.bandit_min_weight"),
		FlowAlpha:               v.GetFloat64("flow.alpha"),
		FlowBeta:                v.GetFloat64("flow.beta"),
		Seed:                    v.GetInt64("seed"),
	}, nil
}
