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

// Package response builds messages that carry kimap results across a
// host-process IPC boundary.
//
// A Response is an immutable value: every With* method returns a modified
// copy and leaves the receiver untouched. Build validates the response and
// produces the wire Message; it fails with ErrMissingIpc when no IPC payload
// was set.
package response

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/blinklabs-io/gokimap/cbor"
)

// ErrMissingIpc indicates a response was built without its mandatory IPC payload
var ErrMissingIpc = errors.New("missing IPC")

// Blob holds bytes and an optional MIME type
type Blob struct {
	cbor.StructAsArray
	Mime  *string
	Bytes []byte
}

// Capability is a capability granted along with a message
type Capability struct {
	cbor.StructAsArray
	Issuer string
	Params string
}

// Message is the wire form of a built Response
type Message struct {
	cbor.StructAsArray
	cbor.DecodeStoreCbor
	Inherit      bool
	Ipc          []byte
	Metadata     *string
	Blob         *Blob
	Capabilities []Capability
}

func (m *Message) UnmarshalCBOR(cborData []byte) error {
	return m.UnmarshalCborGeneric(cborData, m)
}

// Encode returns the CBOR encoding of the message
func (m *Message) Encode() ([]byte, error) {
	return cbor.Encode(m)
}

// DecodeMessage decodes a CBOR message. The original bytes remain available from Cbor()
func DecodeMessage(cborData []byte) (*Message, error) {
	var m Message
	if _, err := cbor.Decode(cborData, &m); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &m, nil
}

// DecodeIpc decodes the message's IPC payload into dest
func (m *Message) DecodeIpc(dest any) error {
	if _, err := cbor.Decode(m.Ipc, dest); err != nil {
		return fmt.Errorf("decode IPC: %w", err)
	}
	return nil
}

// Sender delivers built messages
type Sender interface {
	SendResponse(msg *Message) error
}

// SenderFunc allows an ordinary function to be used as a Sender
type SenderFunc func(msg *Message) error

func (f SenderFunc) SendResponse(msg *Message) error {
	return f(msg)
}

// NewWriterSender returns a Sender that writes each message as CBOR to w
func NewWriterSender(w io.Writer) Sender {
	return SenderFunc(func(msg *Message) error {
		data, err := msg.Encode()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	})
}

// Response is an immutable response under construction
type Response struct {
	inherit      bool
	ipc          []byte
	metadata     *string
	blob         *Blob
	capabilities []Capability
}

// NewResponse starts a new response. It cannot be built until an IPC payload is set
func NewResponse() Response {
	return Response{}
}

// WithInherit sets whether the response inherits the blob of the request most
// recently received. An explicitly set blob takes precedence.
func (r Response) WithInherit(inherit bool) Response {
	r.inherit = inherit
	return r
}

// WithIpc sets the IPC payload
func (r Response) WithIpc(ipc []byte) Response {
	r.ipc = slices.Clone(ipc)
	if r.ipc == nil {
		r.ipc = []byte{}
	}
	return r
}

// WithIpcValue sets the IPC payload to the CBOR encoding of v
func (r Response) WithIpcValue(v any) (Response, error) {
	data, err := cbor.Encode(v)
	if err != nil {
		return r, fmt.Errorf("encode IPC: %w", err)
	}
	r.ipc = data
	return r, nil
}

// WithMetadata sets the metadata string
func (r Response) WithMetadata(metadata string) Response {
	r.metadata = &metadata
	return r
}

// WithBlob sets the blob
func (r Response) WithBlob(blob Blob) Response {
	r.blob = copyBlob(&blob)
	return r
}

// WithBlobMime sets the blob MIME type, creating an empty blob if none is set
func (r Response) WithBlobMime(mime string) Response {
	blob := copyBlob(r.blob)
	if blob == nil {
		blob = &Blob{Bytes: []byte{}}
	}
	blob.Mime = &mime
	r.blob = blob
	return r
}

// WithBlobBytes sets the blob bytes, keeping any MIME type already set
func (r Response) WithBlobBytes(data []byte) Response {
	blob := copyBlob(r.blob)
	if blob == nil {
		blob = &Blob{}
	}
	blob.Bytes = slices.Clone(data)
	r.blob = blob
	return r
}

// WithCapabilities sets the capabilities granted with the response
func (r Response) WithCapabilities(capabilities []Capability) Response {
	r.capabilities = slices.Clone(capabilities)
	return r
}

// Build validates the response and returns its wire message
func (r Response) Build() (*Message, error) {
	if r.ipc == nil {
		return nil, ErrMissingIpc
	}
	return &Message{
		Inherit:      r.inherit,
		Ipc:          slices.Clone(r.ipc),
		Metadata:     r.metadata,
		Blob:         copyBlob(r.blob),
		Capabilities: slices.Clone(r.capabilities),
	}, nil
}

// Send builds the response and hands it to the sender
func (r Response) Send(sender Sender) error {
	msg, err := r.Build()
	if err != nil {
		return err
	}
	return sender.SendResponse(msg)
}

func copyBlob(blob *Blob) *Blob {
	if blob == nil {
		return nil
	}
	ret := &Blob{
		Bytes: slices.Clone(blob.Bytes),
	}
	if blob.Mime != nil {
		mime := *blob.Mime
		ret.Mime = &mime
	}
	return ret
}
