package params

import (
	"io/ioutil"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// LoadChainConfigFile reads a YAML preset file (the format used by the
// consensus-spec-tests config fixtures) and overrides the currently active
// BeaconConfig with it, leaving unset fields at their mainnet defaults.
// This is the one piece of YAML/CLI config loading spec.md §1 keeps as a
// thin core responsibility rather than excluding outright: the core must
// be able to select a preset, even though flag parsing itself is external.
func LoadChainConfigFile(path string) error {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "could not read chain config file")
	}
	cfg := MainnetConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return errors.Wrap(err, "could not unmarshal chain config yaml")
	}
	OverrideBeaconConfig(cfg)
	return nil
}
