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

// Package bench provides benchmark fixtures for name hashing and log decoding.
package bench

import (
	"fmt"
	"strings"

	kimap "github.com/blinklabs-io/gokimap"
	"github.com/blinklabs-io/gokimap/internal/test"
	"github.com/ethereum/go-ethereum/core/types"
)

// LogFixture contains a pre-built Note log and a resolver that knows its parent
type LogFixture struct {
	Name       string
	ParentPath string
	Log        types.Log
	Resolver   kimap.Resolver
}

// PathDepths lists the parent path depths covered by the fixtures
func PathDepths() []int {
	return []int{1, 4, 16}
}

// NoteSizes lists the note data sizes covered by the fixtures
func NoteSizes() []int {
	return []int{0, 256, 16384}
}

// PathOfDepth returns a dotted path with depth labels
func PathOfDepth(depth int) string {
	if depth < 1 {
		return ""
	}
	labels := make([]string, 0, depth)
	for i := depth - 1; i > 0; i-- {
		labels = append(labels, fmt.Sprintf("label-%d", i))
	}
	labels = append(labels, "os")
	return strings.Join(labels, ".")
}

// NewNoteFixture builds a Note log under a parent path of the given depth with dataSize bytes of note data
func NewNoteFixture(depth int, dataSize int) (*LogFixture, error) {
	if depth < 1 {
		return nil, fmt.Errorf("invalid depth: %d", depth)
	}
	if dataSize < 0 {
		return nil, fmt.Errorf("invalid data size: %d", dataSize)
	}
	parentPath := PathOfDepth(depth)
	data := make([]byte, dataSize)
	for i := range data {
		data[i] = byte(i)
	}
	return &LogFixture{
		Name:       fmt.Sprintf("depth_%d_data_%d", depth, dataSize),
		ParentPath: parentPath,
		Log:        test.NewNoteLog(parentPath, "~bench-note", data, 1),
		Resolver:   kimap.NewMapResolver(parentPath),
	}, nil
}

// MustNewNoteFixture is like NewNoteFixture but panics on error
func MustNewNoteFixture(depth int, dataSize int) *LogFixture {
	fixture, err := NewNoteFixture(depth, dataSize)
	if err != nil {
		panic(fmt.Sprintf("failed to build fixture: %v", err))
	}
	return fixture
}
