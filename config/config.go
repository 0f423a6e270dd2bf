// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/addressvm/codec"
	"github.com/ava-labs/addressvm/ledger"
	"github.com/ava-labs/addressvm/pebble"
	"github.com/ava-labs/addressvm/trace"
)

const (
	DefaultDataDir = ".address-cli"

	// DefaultProgramID is the address the address program is deployed at.
	DefaultProgramID = "AddressProgram111111111111111111111111111111"
)

var (
	ErrInvalidExemptionThreshold = errors.New("exemption threshold must be positive")
	ErrInvalidProgramID          = errors.New("invalid program id")
)

type Config struct {
	LogLevel string `json:"logLevel"`

	// DataDir is relative to the home directory unless absolute.
	DataDir string `json:"dataDir"`

	ProgramID codec.Address `json:"programID"`

	LamportsPerByteYear uint64  `json:"lamportsPerByteYear"`
	ExemptionThreshold  float64 `json:"exemptionThreshold"`

	Trace  trace.Config  `json:"trace"`
	Pebble pebble.Config `json:"pebble"`
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:            logging.Info.String(),
		DataDir:             DefaultDataDir,
		ProgramID:           codec.MustStringToAddress(DefaultProgramID),
		LamportsPerByteYear: ledger.DefaultLamportsPerByteYear,
		ExemptionThreshold:  ledger.DefaultExemptionThreshold,
		Trace: trace.Config{
			Enabled:         false,
			TraceSampleRate: 1,
			AppName:         "address-cli",
			Agent:           "address-cli",
		},
		Pebble: pebble.NewDefaultConfig(),
	}
}

// Load reads the JSON config at [path] over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	c := NewDefaultConfig()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, c.Verify()
}

func (c *Config) Verify() error {
	if _, err := logging.ToLevel(c.LogLevel); err != nil {
		return err
	}
	if c.ExemptionThreshold <= 0 {
		return ErrInvalidExemptionThreshold
	}
	if c.ProgramID == codec.EmptyAddress || c.ProgramID == ledger.SystemProgramID {
		return fmt.Errorf("%w: %s", ErrInvalidProgramID, c.ProgramID)
	}
	return nil
}

func (c *Config) GetLogLevel() logging.Level {
	l, err := logging.ToLevel(c.LogLevel)
	if err != nil {
		return logging.Info
	}
	return l
}
func (c *Config) GetProgramID() codec.Address    { return c.ProgramID }
func (c *Config) GetTraceConfig() *trace.Config  { return &c.Trace }
func (c *Config) GetPebbleConfig() pebble.Config { return c.Pebble }
func (c *Config) GetRent() ledger.RentCalculator {
	return &ledger.Rent{
		LamportsPerByteYear: c.LamportsPerByteYear,
		ExemptionThreshold:  c.ExemptionThreshold,
	}
}
