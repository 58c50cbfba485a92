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

// Package provider implements the chain-call transport used by the kimap
// client on top of a go-ethereum JSON-RPC connection.
//
// A Provider is bound to a single chain: when a chain ID is configured, the
// remote node's chain ID is checked on connect. Each call is bounded by the
// configured timeout. Failed calls are returned as-is; there are no retries.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// ErrChainIdMismatch indicates the remote node serves a different chain than the one configured
var ErrChainIdMismatch = errors.New("chain ID mismatch")

var _ ethereum.ContractCaller = (*Provider)(nil)

// Provider issues read calls to a chain node
type Provider struct {
	client  *ethclient.Client
	chainId uint64
	timeout time.Duration
	logger  *slog.Logger
}

// ProviderOptionFunc is a type that represents functions that modify the Provider config
type ProviderOptionFunc func(*Provider)

// WithChainId specifies the expected chain ID. Zero disables the check
func WithChainId(chainId uint64) ProviderOptionFunc {
	return func(p *Provider) {
		p.chainId = chainId
	}
}

// WithTimeout specifies the per-call timeout. Zero means no timeout beyond the caller's context
func WithTimeout(timeout time.Duration) ProviderOptionFunc {
	return func(p *Provider) {
		p.timeout = timeout
	}
}

// WithLogger specifies the logger to use
func WithLogger(logger *slog.Logger) ProviderOptionFunc {
	return func(p *Provider) {
		p.logger = logger
	}
}

// Dial connects to the given RPC endpoint
func Dial(ctx context.Context, rpcUrl string, opts ...ProviderOptionFunc) (*Provider, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcUrl)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcUrl, err)
	}
	p, err := New(ctx, rpcClient, opts...)
	if err != nil {
		rpcClient.Close()
		return nil, err
	}
	return p, nil
}

// New returns a Provider using an existing RPC client
func New(ctx context.Context, rpcClient *rpc.Client, opts ...ProviderOptionFunc) (*Provider, error) {
	p := &Provider{
		client: ethclient.NewClient(rpcClient),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if p.chainId != 0 {
		if err := p.checkChainId(ctx); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Provider) checkChainId(ctx context.Context) error {
	ctx, cancel := p.callContext(ctx)
	defer cancel()
	remoteChainId, err := p.client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("query chain ID: %w", err)
	}
	if !remoteChainId.IsUint64() || remoteChainId.Uint64() != p.chainId {
		return fmt.Errorf(
			"%w: expected %d, remote reports %s",
			ErrChainIdMismatch,
			p.chainId,
			remoteChainId.String(),
		)
	}
	p.logger.Debug(
		"connected to chain node",
		"component", "provider",
		"chain_id", p.chainId,
	)
	return nil
}

// ChainId returns the configured chain ID
func (p *Provider) ChainId() uint64 {
	return p.chainId
}

// Close closes the underlying RPC connection
func (p *Provider) Close() error {
	p.client.Close()
	return nil
}

// CallContract executes a read-only contract call
func (p *Provider) CallContract(
	ctx context.Context,
	msg ethereum.CallMsg,
	blockNumber *big.Int,
) ([]byte, error) {
	p.logger.Debug(
		"calling eth_call",
		"component", "provider",
		"chain_id", p.chainId,
	)
	ctx, cancel := p.callContext(ctx)
	defer cancel()
	return p.client.CallContract(ctx, msg, blockNumber)
}

// FilterLogs returns the logs matching the given filter
func (p *Provider) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	p.logger.Debug(
		"calling eth_getLogs",
		"component", "provider",
		"chain_id", p.chainId,
	)
	ctx, cancel := p.callContext(ctx)
	defer cancel()
	return p.client.FilterLogs(ctx, q)
}

// BlockNumber returns the most recent block number
func (p *Provider) BlockNumber(ctx context.Context) (uint64, error) {
	ctx, cancel := p.callContext(ctx)
	defer cancel()
	return p.client.BlockNumber(ctx)
}

func (p *Provider) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.timeout > 0 {
		return context.WithTimeout(ctx, p.timeout)
	}
	return context.WithCancel(ctx)
}
