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

// Package common holds the asset identifier shared across the offer
// core's public types.
package common

import (
	"bytes"
	"sort"

	"github.com/blinklabs-io/gouroboros/cbor"

	"github.com/blinklabs-io/offerbroker/internal/hashcore"
)

// AssetKey identifies what is being offered or requested: either the
// chain's native asset, or a tokenized (CAT-style) asset named by its
// tail hash. It is comparable and usable as a map key, unlike a nilable
// *Hash, so Offer can key its requested/offered payment tables on it
// directly.
type AssetKey struct {
	native bool
	tail   hashcore.Hash
}

// Native is the AssetKey for the chain's native asset.
var Native = AssetKey{native: true}

// Tokenized is the AssetKey for the tokenized asset identified by tail.
func Tokenized(tail hashcore.Hash) AssetKey {
	return AssetKey{tail: tail}
}

// IsNative reports whether k identifies the native asset.
func (k AssetKey) IsNative() bool {
	return k.native
}

// Tail returns the tail hash identifying a tokenized asset. It is the
// zero hash for the native asset.
func (k AssetKey) Tail() hashcore.Hash {
	return k.tail
}

// String renders k as "native" or the tail hash's hex encoding.
func (k AssetKey) String() string {
	if k.native {
		return "native"
	}
	return k.tail.String()
}

// SortKeys orders keys deterministically: native first, then tokenized
// assets by ascending tail. Anything that iterates a map keyed on
// AssetKey and must produce the same order on every call (wire
// encoding, announcement lists) should sort through this rather than
// relying on Go's randomized map iteration.
func SortKeys(keys []AssetKey) []AssetKey {
	out := make([]AssetKey, len(keys))
	copy(out, keys)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsNative() != b.IsNative() {
			return a.IsNative()
		}
		at, bt := a.Tail(), b.Tail()
		return bytes.Compare(at[:], bt[:]) < 0
	})
	return out
}

// assetKeyWire is AssetKey's canonical wire form: a 2-element
// [is_native, tail] array, following the same cbor.StructAsArray idiom
// used for every other fixed-shape value in this module.
type assetKeyWire struct {
	cbor.StructAsArray
	IsNative bool
	Tail     []byte
}

// MarshalCBOR encodes k canonically.
func (k AssetKey) MarshalCBOR() ([]byte, error) {
	wire := assetKeyWire{IsNative: k.native, Tail: k.tail.Bytes()}
	return cbor.Encode(&wire)
}

// UnmarshalCBOR decodes the form MarshalCBOR produces.
func (k *AssetKey) UnmarshalCBOR(data []byte) error {
	var wire assetKeyWire
	if _, err := cbor.Decode(data, &wire); err != nil {
		return err
	}
	if wire.IsNative {
		*k = Native
		return nil
	}
	tail, err := hashcore.FromBytes(wire.Tail)
	if err != nil {
		return err
	}
	*k = Tokenized(tail)
	return nil
}
