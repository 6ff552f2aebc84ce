package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the complete platform configuration
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Ledger  LedgerConfig  `json:"ledger" yaml:"ledger"`
}

// AccountConfig contains account registration parameters
type AccountConfig struct {
	Currency        string `json:"currency" yaml:"currency"`
	StartingBalance string `json:"starting_balance" yaml:"starting_balance"`
}

// StartingBalanceDecimal parses the configured starting balance.
func (a AccountConfig) StartingBalanceDecimal() (decimal.Decimal, error) {
	return decimal.NewFromString(a.StartingBalance)
}

// LedgerConfig contains storage parameters
type LedgerConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite" or "memory"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	balance, err := c.Account.StartingBalanceDecimal()
	if err != nil {
		return fmt.Errorf("account.starting_balance must be a decimal number: %w", err)
	}
	if balance.IsNegative() {
		return fmt.Errorf("account.starting_balance must not be negative")
	}
	if c.Ledger.Type != "sqlite" && c.Ledger.Type != "memory" {
		return fmt.Errorf("ledger.type must be 'sqlite' or 'memory'")
	}
	if c.Ledger.Type == "sqlite" && c.Ledger.DBPath == "" {
		return fmt.Errorf("ledger.db_path required for sqlite type")
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency:        "INR",
			StartingBalance: "1000000",
		},
		Ledger: LedgerConfig{
			Type:   "sqlite",
			DBPath: "./tradesim.sqlite",
		},
	}
}
