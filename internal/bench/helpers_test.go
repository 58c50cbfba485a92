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

package bench

import (
	"context"
	"testing"

	kimap "github.com/blinklabs-io/gokimap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathOfDepth(t *testing.T) {
	tests := []struct {
		depth    int
		expected string
	}{
		{0, ""},
		{1, "os"},
		{3, "label-2.label-1.os"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, PathOfDepth(tc.depth))
	}
}

func TestNewNoteFixture(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	for _, depth := range PathDepths() {
		for _, size := range NoteSizes() {
			fixture := MustNewNoteFixture(depth, size)
			decoder := kimap.NewLogDecoder(fixture.Resolver)
			note, err := decoder.DecodeNoteLog(ctx, fixture.Log)
			require.NoError(t, err, fixture.Name)
			assert.Equal(t, fixture.ParentPath, note.ParentPath)
			assert.Equal(t, "~bench-note", note.Note)
			assert.Len(t, note.Data, size)
		}
	}
}

func TestNewNoteFixtureInvalid(t *testing.T) {
	_, err := NewNoteFixture(0, 0)
	assert.Error(t, err)
	_, err = NewNoteFixture(1, -1)
	assert.Error(t, err)
}
