package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andrew-solarstorm/go-packages/common"
)

// RelaySpec is one relay declaration parsed from the environment. Fields map
// directly onto the swqos service factory; validation of kinds, regions and
// credentials happens there.
type RelaySpec struct {
	Kind       string
	Region     string
	Credential string
	Endpoint   string // optional full override, wins over kind+region
}

// SwqosConfig declares the relay set raced on every trade.
//
// SWQOS_RELAYS is a comma-separated list of kind|region|credential triples,
// e.g. "jito|frankfurt|<uuid>,helius||,default||". Per-relay endpoint
// overrides come from SWQOS_ENDPOINT_<INDEX>.
type SwqosConfig struct {
	Relays []RelaySpec
}

func (c *SwqosConfig) Key() string {
	return SWQOS_CONFIG_KEY
}

func (c *SwqosConfig) Load() error {
	raw := common.GetEnvOrDefault("SWQOS_RELAYS", "default||")
	entries := strings.Split(raw, ",")
	c.Relays = make([]RelaySpec, 0, len(entries))
	for i, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "|", 3)
		spec := RelaySpec{Kind: strings.ToLower(strings.TrimSpace(parts[0]))}
		if len(parts) > 1 {
			spec.Region = strings.ToLower(strings.TrimSpace(parts[1]))
		}
		if len(parts) > 2 {
			spec.Credential = strings.TrimSpace(parts[2])
		}
		spec.Endpoint = common.GetEnvOrDefault(fmt.Sprintf("SWQOS_ENDPOINT_%d", i), "")
		c.Relays = append(c.Relays, spec)
	}
	return c.Validate()
}

func (c *SwqosConfig) Validate() error {
	if len(c.Relays) == 0 {
		return errors.New("swqos config declares no relays")
	}
	return nil
}
