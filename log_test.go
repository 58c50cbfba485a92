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

package kimap_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	kimap "github.com/blinklabs-io/gokimap"
	"github.com/blinklabs-io/gokimap/contract"
	"github.com/blinklabs-io/gokimap/internal/test"
	test_chain "github.com/blinklabs-io/gokimap/internal/test/chain"
	"github.com/blinklabs-io/gokimap/namehash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDecodeNoteLog(t *testing.T) {
	noteData := []byte{0xde, 0xad, 0xbe, 0xef}
	log := test.NewNoteLog("x.os", "~test", noteData, 120_000_000)
	resolver := test_chain.NewMockResolver("x.os")
	decoder := kimap.NewLogDecoder(resolver)
	note, err := decoder.DecodeNoteLog(context.Background(), log)
	require.NoError(t, err)
	assert.Equal(t, "~test", note.Note)
	assert.Equal(t, "x.os", note.ParentPath)
	assert.Equal(t, noteData, []byte(note.Data))
	assert.Equal(t, "~test.x.os", note.FullName())
	// The resolver is keyed by the parent hash topic and the log's block
	calls := resolver.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, namehash.Hash("x.os"), calls[0].Hash)
	require.NotNil(t, calls[0].AtBlock)
	assert.Equal(t, uint64(120_000_000), *calls[0].AtBlock)
	assert.False(t, calls[0].HasDeadline)
}

func TestDecodeNoteLogEmptyData(t *testing.T) {
	log := test.NewNoteLog("x.os", "~empty", nil, 1)
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver("x.os"))
	note, err := decoder.DecodeNoteLog(context.Background(), log)
	require.NoError(t, err)
	assert.Empty(t, note.Data)
}

func TestDecodeNoteLogUnresolvedParent(t *testing.T) {
	log := test.NewNoteLog("x.os", "~test", []byte{0x01}, 1)
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver())
	_, err := decoder.DecodeNoteLog(context.Background(), log)
	require.Error(t, err)
	assert.Equal(t, kimap.UnresolvedParentError{Name: "~test"}, err)
	assert.True(t, errors.Is(err, kimap.ErrUnresolvedParent))
}

func TestDecodeNoteLogInvalidName(t *testing.T) {
	testDefs := []struct {
		note     string
		expected string
	}{
		{note: "test", expected: "test"},
		{note: "~", expected: "~"},
		{note: "~Test", expected: "~Test"},
		{note: "~te\xffst", expected: "~te\uFFFDst"},
	}
	for _, testDef := range testDefs {
		log := test.NewNoteLog("x.os", testDef.note, nil, 1)
		resolver := test_chain.NewMockResolver("x.os")
		decoder := kimap.NewLogDecoder(resolver)
		_, err := decoder.DecodeNoteLog(context.Background(), log)
		assert.Equal(t, kimap.InvalidNameError{Name: testDef.expected}, err)
		assert.True(t, errors.Is(err, kimap.ErrInvalidName))
		// Invalid names never reach the resolver
		assert.Empty(t, resolver.Calls())
	}
}

func TestDecodeNoteLogUnexpectedTopic(t *testing.T) {
	log := test.NewNoteLog("x.os", "~test", nil, 1)
	otherTopic := namehash.Keccak256([]byte("Transfer(address,address,uint256)"))
	log.Topics[0] = otherTopic
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver("x.os"))
	_, err := decoder.DecodeNoteLog(context.Background(), log)
	assert.Equal(t, kimap.UnexpectedTopicError{Topic: otherTopic}, err)
	assert.True(t, errors.Is(err, kimap.ErrUnexpectedTopic))
	_, err = decoder.DecodeMintLog(context.Background(), log)
	assert.Equal(t, kimap.UnexpectedTopicError{Topic: otherTopic}, err)
	_, err = decoder.ResolveFullName(context.Background(), log)
	assert.Equal(t, kimap.UnexpectedTopicError{Topic: otherTopic}, err)
}

func TestDecodeNoteLogMalformedPayload(t *testing.T) {
	log := test.NewNoteLog("x.os", "~test", nil, 1)
	log.Data = log.Data[:40]
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver("x.os"))
	_, err := decoder.DecodeNoteLog(context.Background(), log)
	require.Error(t, err)
	assert.True(t, errors.Is(err, kimap.ErrDecode))
	var decodeErr kimap.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	assert.NotEmpty(t, decodeErr.Message)
}

func TestDecodeLogMissingTopics(t *testing.T) {
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver("x.os"))
	// No topics at all
	log := test.NewNoteLog("x.os", "~test", nil, 1)
	log.Topics = nil
	_, err := decoder.DecodeNoteLog(context.Background(), log)
	assert.Equal(t, kimap.UnexpectedTopicError{}, err)
	_, err = decoder.ResolveFullName(context.Background(), log)
	assert.Equal(t, kimap.UnexpectedTopicError{}, err)
	_, ok := decoder.ResolveParent(context.Background(), log)
	assert.False(t, ok)
	// Discriminator only, no parent hash
	log.Topics = []common.Hash{contract.NoteTopic}
	_, err = decoder.DecodeNoteLog(context.Background(), log)
	assert.True(t, errors.Is(err, kimap.ErrDecode))
}

// DecodeMintLog matches logs against the Note discriminator. These cases pin
// that behavior until it is confirmed against the contract source.
func TestDecodeMintLogDiscriminator(t *testing.T) {
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver("os"))
	// A log carrying the Mint discriminator is rejected
	mintLog := test.NewMintLog("os", "hello", 1)
	_, err := decoder.DecodeMintLog(context.Background(), mintLog)
	assert.Equal(t, kimap.UnexpectedTopicError{Topic: contract.MintTopic}, err)
	// A Mint payload under the Note discriminator is accepted
	mintLog.Topics[0] = contract.NoteTopic
	mint, err := decoder.DecodeMintLog(context.Background(), mintLog)
	require.NoError(t, err)
	assert.Equal(t, "hello", mint.Name)
	assert.Equal(t, "os", mint.ParentPath)
	assert.Equal(t, "hello.os", mint.FullName())
}

func TestDecodeMintLogInvalidName(t *testing.T) {
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver("os"))
	log := test.NewMintLog("os", "Hello", 1)
	log.Topics[0] = contract.NoteTopic
	_, err := decoder.DecodeMintLog(context.Background(), log)
	assert.Equal(t, kimap.InvalidNameError{Name: "Hello"}, err)
}

func TestDecodeMintLogUnresolvedParent(t *testing.T) {
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver())
	log := test.NewMintLog("os", "hello", 1)
	log.Topics[0] = contract.NoteTopic
	_, err := decoder.DecodeMintLog(context.Background(), log)
	assert.Equal(t, kimap.UnresolvedParentError{Name: "hello"}, err)
}

func TestResolveParent(t *testing.T) {
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver("hello.os"))
	parent, ok := decoder.ResolveParent(
		context.Background(),
		test.NewMintLog("hello.os", "sub", 1),
	)
	require.True(t, ok)
	assert.Equal(t, "hello.os", parent)
	_, ok = decoder.ResolveParent(
		context.Background(),
		test.NewMintLog("other.os", "sub", 1),
	)
	assert.False(t, ok)
}

func TestResolveFullName(t *testing.T) {
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver("os", "x.os"))
	testDefs := []struct {
		log      types.Log
		expected string
	}{
		{log: test.NewMintLog("os", "hello", 1), expected: "hello.os"},
		{log: test.NewNoteLog("x.os", "~test", []byte{0x01}, 1), expected: "~test.x.os"},
	}
	for _, testDef := range testDefs {
		fullName, err := decoder.ResolveFullName(context.Background(), testDef.log)
		require.NoError(t, err)
		assert.Equal(t, testDef.expected, fullName)
	}
}

func TestResolveFullNameFailures(t *testing.T) {
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver("os"))
	// Mint names are validated with the non-note grammar
	_, err := decoder.ResolveFullName(context.Background(), test.NewMintLog("os", "~hello", 1))
	assert.Equal(t, kimap.InvalidNameError{Name: "~hello"}, err)
	// Note labels are validated with the note grammar
	_, err = decoder.ResolveFullName(context.Background(), test.NewNoteLog("os", "hello", nil, 1))
	assert.Equal(t, kimap.InvalidNameError{Name: "hello"}, err)
	// Unknown parent
	_, err = decoder.ResolveFullName(context.Background(), test.NewMintLog("x.os", "hello", 1))
	assert.Equal(t, kimap.UnresolvedParentError{Name: "hello"}, err)
	// Malformed payloads are reported, not panicked on
	log := test.NewNoteLog("os", "~hello", nil, 1)
	log.Data = []byte{0x01}
	_, err = decoder.ResolveFullName(context.Background(), log)
	assert.True(t, errors.Is(err, kimap.ErrDecode))
	log = test.NewMintLog("os", "hello", 1)
	log.Data = nil
	_, err = decoder.ResolveFullName(context.Background(), log)
	assert.True(t, errors.Is(err, kimap.ErrDecode))
}

func TestResolveFullNameRejectsBeforeResolve(t *testing.T) {
	resolver := test_chain.NewMockResolver("os")
	decoder := kimap.NewLogDecoder(resolver)
	badPayload := test.NewNoteLog("os", "~hello", nil, 1)
	badPayload.Data = []byte{0x01}
	badTopic := test.NewNoteLog("os", "~hello", nil, 1)
	badTopic.Topics[0] = common.Hash{0x01}
	testDefs := []types.Log{
		test.NewMintLog("os", "~hello", 1),
		test.NewNoteLog("os", "hello", nil, 1),
		badPayload,
		badTopic,
	}
	for _, testDef := range testDefs {
		if _, err := decoder.ResolveFullName(context.Background(), testDef); err == nil {
			t.Fatalf("expected error for log with topics %v", testDef.Topics)
		}
	}
	assert.Empty(t, resolver.Calls())
}

func TestResolveTimeout(t *testing.T) {
	resolver := test_chain.NewMockResolver("x.os")
	resolver.GetNameFunc = func(ctx context.Context, _ common.Hash, _ *uint64) (string, bool) {
		<-ctx.Done()
		return "", false
	}
	decoder := kimap.NewLogDecoder(
		resolver,
		kimap.WithResolveTimeout(20*time.Millisecond),
	)
	start := time.Now()
	_, err := decoder.DecodeNoteLog(context.Background(), test.NewNoteLog("x.os", "~test", nil, 1))
	assert.True(t, errors.Is(err, kimap.ErrUnresolvedParent))
	assert.Less(t, time.Since(start), 2*time.Second)
	calls := resolver.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].HasDeadline)
}

func TestNilResolver(t *testing.T) {
	decoder := kimap.NewLogDecoder(nil)
	_, err := decoder.DecodeNoteLog(context.Background(), test.NewNoteLog("x.os", "~test", nil, 1))
	assert.True(t, errors.Is(err, kimap.ErrUnresolvedParent))
}

func TestMapResolver(t *testing.T) {
	resolver := kimap.NewMapResolver("os", "hello.os")
	decoder := kimap.NewLogDecoder(resolver)
	// Top-level entries resolve against the root
	fullName, err := decoder.ResolveFullName(context.Background(), test.NewMintLog("", "os", 1))
	require.NoError(t, err)
	assert.Equal(t, "os", fullName)
	fullName, err = decoder.ResolveFullName(context.Background(), test.NewMintLog("hello.os", "sub", 1))
	require.NoError(t, err)
	assert.Equal(t, "sub.hello.os", fullName)
}

func TestDecodeConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)
	decoder := kimap.NewLogDecoder(
		test_chain.NewMockResolver("x.os"),
		kimap.WithResolveTimeout(time.Second),
	)
	log := test.NewNoteLog("x.os", "~test", []byte{0x01}, 1)
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			note, err := decoder.DecodeNoteLog(context.Background(), log)
			if err != nil {
				errs <- err
				return
			}
			if note.FullName() != "~test.x.os" {
				errs <- errors.New("unexpected note: " + note.FullName())
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestDecodeFuzzNoPanic(t *testing.T) {
	if testing.Short() {
		t.Skip("TestDecodeFuzzNoPanic skipped in short mode.")
	}
	decoder := kimap.NewLogDecoder(test_chain.NewMockResolver("x.os"))
	f := fuzz.New().NilChance(0.2).NumElements(0, 6)
	for i := 0; i < 500; i++ {
		var topics []common.Hash
		var data []byte
		var blockNumber uint64
		f.Fuzz(&topics)
		f.Fuzz(&data)
		f.Fuzz(&blockNumber)
		// Exercise both known discriminators with garbage payloads
		if len(topics) > 0 {
			switch i % 3 {
			case 0:
				topics[0] = contract.MintTopic
			case 1:
				topics[0] = contract.NoteTopic
			}
		}
		log := types.Log{Topics: topics, Data: data, BlockNumber: blockNumber}
		// These must never panic on arbitrary chain data
		_, _ = decoder.DecodeMintLog(context.Background(), log)
		_, _ = decoder.DecodeNoteLog(context.Background(), log)
		_, _ = decoder.ResolveFullName(context.Background(), log)
		_, _ = decoder.ResolveParent(context.Background(), log)
	}
}
