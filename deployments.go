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

package kimap

import (
	"github.com/blinklabs-io/gokimap/namehash"
	"github.com/ethereum/go-ethereum/common"
)

const (
	// KimapAddress is the kimap deployment address on Optimism
	KimapAddress = "0x7290Aa297818d0b9660B2871Bb87f85a3f9B4559"
	// KimapChainId is the Optimism chain ID
	KimapChainId uint64 = 10
	// KimapFirstBlock is the first block of the kimap deployment on Optimism
	KimapFirstBlock uint64 = 114_923_786
	// KimapRootHash is the namehash of the kimap root
	KimapRootHash = "0x0000000000000000000000000000000000000000000000000000000000000000"
)

// Deployment definitions
var (
	DeploymentOptimism = Deployment{
		Name:       "optimism",
		ChainId:    KimapChainId,
		Address:    common.HexToAddress(KimapAddress),
		FirstBlock: KimapFirstBlock,
	}

	DeploymentInvalid = Deployment{
		Name: "invalid",
	} // DeploymentInvalid is used as a return value for lookup functions when a deployment isn't found
)

// List of known deployments for use in lookup functions
var deployments = []Deployment{
	DeploymentOptimism,
}

// DeploymentByName returns a predefined deployment by name
func DeploymentByName(name string) Deployment {
	for _, deployment := range deployments {
		if deployment.Name == name {
			return deployment
		}
	}
	return DeploymentInvalid
}

// DeploymentByChainId returns a predefined deployment by chain ID
func DeploymentByChainId(chainId uint64) Deployment {
	for _, deployment := range deployments {
		if deployment.ChainId == chainId {
			return deployment
		}
	}
	return DeploymentInvalid
}

// Deployment represents a kimap contract deployment on a particular chain
type Deployment struct {
	Name       string
	ChainId    uint64
	Address    common.Address
	FirstBlock uint64 // starting point for any external log indexer
}

func (d Deployment) String() string {
	return d.Name
}

// RootHash returns the namehash of the namespace root
func (d Deployment) RootHash() common.Hash {
	return namehash.Root
}
