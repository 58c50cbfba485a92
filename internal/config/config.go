// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads CLI configuration from a YAML file.
//
// Values not present in the file keep their defaults, which point at the
// Optimism kimap deployment. Flags given on the command line are applied by
// the caller after loading.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	kimap "github.com/blinklabs-io/gokimap"
	"github.com/blinklabs-io/gokimap/label"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

const DefaultTimeout = 30 * time.Second

type Config struct {
	// RpcUrl is the JSON-RPC endpoint of a node for the deployment's chain
	RpcUrl string `yaml:"rpcUrl"`
	// Deployment names a predefined kimap deployment
	Deployment string `yaml:"deployment"`
	// ChainId and Address override the deployment's values when set
	ChainId uint64 `yaml:"chainId"`
	Address string `yaml:"address"`
	// Timeout bounds each chain call and resolver lookup
	Timeout time.Duration `yaml:"timeout"`
	// Names seeds the static parent resolver used for log decoding
	Names []string `yaml:"names"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Deployment: kimap.DeploymentOptimism.Name,
		Timeout:    DefaultTimeout,
	}
}

// Load reads the config file at path over the defaults. An empty path returns the defaults
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if _, err := c.KimapDeployment(); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("negative timeout: %s", c.Timeout)
	}
	for _, name := range c.Names {
		if !label.ValidPath(name) {
			return fmt.Errorf("invalid resolver name: %q", name)
		}
	}
	return nil
}

// KimapDeployment returns the configured deployment with any overrides applied
func (c *Config) KimapDeployment() (kimap.Deployment, error) {
	deployment := kimap.DeploymentByName(c.Deployment)
	if deployment == kimap.DeploymentInvalid {
		if c.ChainId == 0 || c.Address == "" {
			return kimap.DeploymentInvalid, fmt.Errorf("unknown deployment: %q", c.Deployment)
		}
		deployment = kimap.Deployment{Name: c.Deployment}
	}
	if c.ChainId != 0 {
		deployment.ChainId = c.ChainId
	}
	if c.Address != "" {
		if !common.IsHexAddress(c.Address) {
			return kimap.DeploymentInvalid, fmt.Errorf("invalid contract address: %q", c.Address)
		}
		deployment.Address = common.HexToAddress(c.Address)
	}
	return deployment, nil
}
