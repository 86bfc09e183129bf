// Package config loads the synthesizer's ambient settings: which cost
// model to run, which builder features to enable, and how verbosely to
// trace the inner search. Defaults are literal Go values so the
// synthesizer runs sensibly with no config file at all; a synth.yaml next
// to the working directory overrides them.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CostModel names one of the two reference cost models (§4.2).
type CostModel string

const (
	CostConstant CostModel = "constant"
	CostRuntime  CostModel = "runtime"
)

// Config holds the synthesizer's startup knobs. synthctl reads CostModel,
// the Build* flags and LogLevel; MaxBagDepth is loaded but not passed on to
// the builder.
type Config struct {
	CostModel    CostModel `yaml:"cost_model"`
	BuildSums    bool      `yaml:"build_sums"`
	BuildMaps    bool      `yaml:"build_maps"`
	BuildFilters bool      `yaml:"build_filters"`
	BuildTuples  bool      `yaml:"build_tuples"`
	MaxBagDepth  int       `yaml:"max_bag_depth"`
	LogLevel     string    `yaml:"log_level"`
}

// Default returns the configuration the synthesizer runs with when no
// synth.yaml is present: every builder feature on, the runtime cost model,
// and info-level logging.
func Default() Config {
	return Config{
		CostModel:    CostRuntime,
		BuildSums:    true,
		BuildMaps:    true,
		BuildFilters: true,
		BuildTuples:  true,
		MaxBagDepth:  2,
		LogLevel:     "info",
	}
}

// Load reads a YAML config file at path, starting from Default() and
// overriding whatever the file sets. A missing file is not an error — the
// caller gets the defaults back.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrapf(err, "config: reading %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: parsing %s", path)
	}
	return cfg, nil
}
