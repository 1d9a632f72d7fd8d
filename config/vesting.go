package config

import (
	"fmt"
	"math/big"
)

// VestingConfig defines the identities and seed balance of the vesting
// service.
type VestingConfig struct {
	// Administrators may create and revoke schedules. The first entry
	// receives the initial supply.
	Administrators []string `json:"administrators"`
	// PoolAccount names the holder of the pooled token balance.
	PoolAccount string `json:"pool_account"`
	// InitialSupply is minted to the first administrator at startup,
	// decimal encoded.
	InitialSupply string `json:"initial_supply"`
	// AuditAddr is the listen address of the read-only audit API.
	AuditAddr string `json:"audit_addr"`
}

// SetDefaults applies sane defaults.
func (c *VestingConfig) SetDefaults() {
	if c.PoolAccount == "" {
		c.PoolAccount = "vesting-pool"
	}
	if c.AuditAddr == "" {
		c.AuditAddr = ":8080"
	}
}

// Validate checks mandatory fields.
func (c VestingConfig) Validate() error {
	if len(c.Administrators) == 0 {
		return fmt.Errorf("at least one administrator is required")
	}
	if c.InitialSupply != "" {
		if _, ok := new(big.Int).SetString(c.InitialSupply, 10); !ok {
			return fmt.Errorf("initial_supply is not a decimal integer: %q", c.InitialSupply)
		}
	}
	return nil
}

// Supply returns the parsed initial supply, zero if unset.
func (c VestingConfig) Supply() *big.Int {
	if c.InitialSupply == "" {
		return big.NewInt(0)
	}
	v, _ := new(big.Int).SetString(c.InitialSupply, 10)
	return v
}
