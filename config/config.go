package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the policy constants an Engine is constructed with: the
// root election's default selection method and fill thresholds, and
// whether every Person must enter with the same given weight.
type Config struct {
	RequiredEqualWeight      bool   `toml:"RequiredEqualWeight"`
	RequiredEqualWeightValue string `toml:"RequiredEqualWeightValue"`

	RootSelectionMethod     string `toml:"RootSelectionMethod"` // "resource" or "resource_score"
	RootScaleQuadratically  bool   `toml:"RootScaleQuadratically"`

	NominationFillConstant string `toml:"NominationFillConstant"`
	ElectionFillConstant   string `toml:"ElectionFillConstant"`

	Environment string `toml:"Environment"`
}

// Load reads the configuration from path, creating a default file there if
// none exists yet.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createDefault writes and returns the stock configuration: no required
// equal weight, linear ResourceScore on the root election, an election fill
// constant of 100 (the builder's own default), and a nomination fill
// constant of 10, which gives the root election a nomination stage that the
// builder's default (no nomination fill) does not have.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		RequiredEqualWeight:    false,
		RootSelectionMethod:    "resource_score",
		RootScaleQuadratically: false,
		NominationFillConstant: "10",
		ElectionFillConstant:   "100",
		Environment:            "development",
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
