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
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/blinklabs-io/gokimap/cbor"
	"github.com/blinklabs-io/gokimap/contract"
	"github.com/blinklabs-io/gokimap/label"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// Mint is a Mint log from the kimap with its parent path resolved
type Mint struct {
	cbor.StructAsArray
	Name       string `json:"name"`
	ParentPath string `json:"parentPath"`
}

// FullName returns the dotted path of the minted entry
func (m Mint) FullName() string {
	return label.Join(m.Name, m.ParentPath)
}

// Note is a Note log from the kimap with its parent path resolved
type Note struct {
	cbor.StructAsArray
	Note       string        `json:"note"`
	ParentPath string        `json:"parentPath"`
	Data       hexutil.Bytes `json:"data"`
}

// FullName returns the dotted path of the note entry
func (n Note) FullName() string {
	return label.Join(n.Note, n.ParentPath)
}

// LogDecoder converts raw kimap logs into resolved Mint and Note records. It
// holds no mutable state and is safe for concurrent use as long as its
// Resolver is.
type LogDecoder struct {
	resolver       Resolver
	resolveTimeout time.Duration
	logger         *slog.Logger
}

// LogDecoderOptionFunc is a type that represents functions that modify the LogDecoder config
type LogDecoderOptionFunc func(*LogDecoder)

// NewLogDecoder returns a LogDecoder that resolves parent paths with the given Resolver
func NewLogDecoder(resolver Resolver, opts ...LogDecoderOptionFunc) *LogDecoder {
	d := &LogDecoder{
		resolver: resolver,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.resolver == nil {
		d.resolver = ResolverFunc(
			func(context.Context, common.Hash, *uint64) (string, bool) {
				return "", false
			},
		)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// WithResolveTimeout bounds each Resolver call. A zero value means no timeout
// beyond the caller's context
func WithResolveTimeout(timeout time.Duration) LogDecoderOptionFunc {
	return func(d *LogDecoder) {
		d.resolveTimeout = timeout
	}
}

// WithDecoderLogger specifies the logger to use
func WithDecoderLogger(logger *slog.Logger) LogDecoderOptionFunc {
	return func(d *LogDecoder) {
		d.logger = logger
	}
}

// DecodeMintLog decodes a Mint log into a resolved Mint record. The name is
// checked with label.Valid before the parent is resolved.
func (d *LogDecoder) DecodeMintLog(ctx context.Context, log types.Log) (*Mint, error) {
	d.logger.Debug(
		"decoding mint log",
		"component", "kimap",
		"block", log.BlockNumber,
		"tx", log.TxHash.Hex(),
	)
	// TODO: confirm against the contract source whether Mint logs should be
	// matched against MintTopic. The Note discriminator check is kept as-is.
	if err := checkTopic(log, contract.NoteTopic); err != nil {
		return nil, err
	}
	decoded, err := contract.UnpackMint(log.Data)
	if err != nil {
		return nil, DecodeError{Message: err.Error()}
	}
	name := lossyString(decoded.Name)
	if !label.Valid(name, false) {
		return nil, InvalidNameError{Name: name}
	}
	parentPath, err := d.resolveParent(ctx, log, name)
	if err != nil {
		return nil, err
	}
	return &Mint{
		Name:       name,
		ParentPath: parentPath,
	}, nil
}

// DecodeNoteLog decodes a Note log into a resolved Note record. The note label
// is checked with label.Valid before the parent is resolved.
func (d *LogDecoder) DecodeNoteLog(ctx context.Context, log types.Log) (*Note, error) {
	d.logger.Debug(
		"decoding note log",
		"component", "kimap",
		"block", log.BlockNumber,
		"tx", log.TxHash.Hex(),
	)
	if err := checkTopic(log, contract.NoteTopic); err != nil {
		return nil, err
	}
	decoded, err := contract.UnpackNote(log.Data)
	if err != nil {
		return nil, DecodeError{Message: err.Error()}
	}
	note := lossyString(decoded.Note)
	if !label.Valid(note, true) {
		return nil, InvalidNameError{Name: note}
	}
	parentPath, err := d.resolveParent(ctx, log, note)
	if err != nil {
		return nil, err
	}
	return &Note{
		Note:       note,
		ParentPath: parentPath,
		Data:       decoded.Data,
	}, nil
}

// ResolveParent returns the path of the parent of the entry or note created by
// the given kimap log, as known at the log's block
func (d *LogDecoder) ResolveParent(ctx context.Context, log types.Log) (string, bool) {
	if len(log.Topics) <= contract.TopicIndexParent {
		return "", false
	}
	return d.getName(ctx, log.Topics[contract.TopicIndexParent], log.BlockNumber)
}

// ResolveFullName returns the full dotted path of the entry or note created by
// the given kimap log. The log kind is chosen by its first topic.
// Logs with an unknown topic, an undecodable payload or an invalid label are
// rejected before the Resolver is called.
func (d *LogDecoder) ResolveFullName(ctx context.Context, log types.Log) (string, error) {
	if len(log.Topics) == 0 {
		return "", UnexpectedTopicError{}
	}
	var name string
	var isNote bool
	switch topic := log.Topics[contract.TopicIndexSignature]; topic {
	case contract.MintTopic:
		decoded, err := contract.UnpackMint(log.Data)
		if err != nil {
			return "", DecodeError{Message: err.Error()}
		}
		name = lossyString(decoded.Name)
	case contract.NoteTopic:
		decoded, err := contract.UnpackNote(log.Data)
		if err != nil {
			return "", DecodeError{Message: err.Error()}
		}
		name = lossyString(decoded.Note)
		isNote = true
	default:
		return "", UnexpectedTopicError{Topic: topic}
	}
	if !label.Valid(name, isNote) {
		return "", InvalidNameError{Name: name}
	}
	parentPath, err := d.resolveParent(ctx, log, name)
	if err != nil {
		return "", err
	}
	return label.Join(name, parentPath), nil
}

func (d *LogDecoder) resolveParent(
	ctx context.Context,
	log types.Log,
	name string,
) (string, error) {
	if len(log.Topics) <= contract.TopicIndexParent {
		return "", DecodeError{Message: "log is missing parent hash topic"}
	}
	parentPath, ok := d.getName(ctx, log.Topics[contract.TopicIndexParent], log.BlockNumber)
	if !ok {
		d.logger.Debug(
			"parent not resolved",
			"component", "kimap",
			"name", name,
			"parent", log.Topics[contract.TopicIndexParent].Hex(),
			"block", log.BlockNumber,
		)
		return "", UnresolvedParentError{Name: name}
	}
	return parentPath, nil
}

func (d *LogDecoder) getName(
	ctx context.Context,
	hash common.Hash,
	atBlock uint64,
) (string, bool) {
	if d.resolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.resolveTimeout)
		defer cancel()
	}
	return d.resolver.GetName(ctx, hash, &atBlock)
}

func checkTopic(log types.Log, expected common.Hash) error {
	if len(log.Topics) == 0 {
		return UnexpectedTopicError{}
	}
	if topic := log.Topics[contract.TopicIndexSignature]; topic != expected {
		return UnexpectedTopicError{Topic: topic}
	}
	return nil
}

// lossyString converts chain bytes to a string, replacing invalid UTF-8
func lossyString(data []byte) string {
	return strings.ToValidUTF8(string(data), "\uFFFD")
}
