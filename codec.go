package main

import (
	"encoding/json"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes outgoing envelopes for one client. The browser shell
// speaks JSON text frames; a client that negotiates msgpack at upgrade
// time gets the same envelopes as binary frames instead.
type Codec interface {
	Name() string
	Binary() bool
	Encode(env Envelope) ([]byte, error)
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }
func (jsonCodec) Binary() bool { return false }
func (jsonCodec) Encode(env Envelope) ([]byte, error) {
	return json.Marshal(env)
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }
func (msgpackCodec) Binary() bool { return true }
func (msgpackCodec) Encode(env Envelope) ([]byte, error) {
	return msgpack.Marshal(env)
}

// CodecByName picks the codec for a negotiated name. Unknown names fall
// back to JSON.
func CodecByName(name string) Codec {
	if name == "msgpack" {
		return msgpackCodec{}
	}
	return jsonCodec{}
}
