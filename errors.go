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
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidParams indicates malformed input to a lookup, detected before any call is made
var ErrInvalidParams = errors.New("invalid params")

// ErrRpcMalformedResponse indicates the transport returned data that could not be decoded
var ErrRpcMalformedResponse = errors.New("malformed RPC response")

// Sentinel errors for log decoding failures so callers can use errors.Is
var (
	ErrUnexpectedTopic  = errors.New("unexpected log topic")
	ErrInvalidName      = errors.New("invalid name")
	ErrDecode           = errors.New("log decode failed")
	ErrUnresolvedParent = errors.New("unresolved parent")
)

// UnexpectedTopicError indicates a log's event discriminator is not the expected one
type UnexpectedTopicError struct {
	Topic common.Hash
}

func (e UnexpectedTopicError) Error() string {
	return fmt.Sprintf("unexpected log topic: %s", e.Topic.Hex())
}

func (UnexpectedTopicError) Is(target error) bool {
	return target == ErrUnexpectedTopic
}

// InvalidNameError indicates the label carried by a log fails the name grammar
type InvalidNameError struct {
	Name string
}

func (e InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name: %q", e.Name)
}

func (InvalidNameError) Is(target error) bool {
	return target == ErrInvalidName
}

// DecodeError indicates the log payload does not match the expected event shape
type DecodeError struct {
	Message string
}

func (e DecodeError) Error() string {
	return "log decode failed: " + e.Message
}

func (DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// UnresolvedParentError indicates the resolver has no path for the parent
// namehash at the log's block. Callers should generally retry once their
// index has caught up.
type UnresolvedParentError struct {
	Name string
}

func (e UnresolvedParentError) Error() string {
	return fmt.Sprintf("unresolved parent for %q", e.Name)
}

func (UnresolvedParentError) Is(target error) bool {
	return target == ErrUnresolvedParent
}
