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

// Package hashcore provides the fixed-size hash type shared by every
// other piece of the offer core: asset identifiers, puzzle hashes, coin
// names, and notarization nonces are all a Hash.
package hashcore

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Hash is a 32-byte value used as an asset identifier, puzzle-hash, coin
// name, or nonce.
type Hash [32]byte

// Z32 is the all-zero sentinel hash. It marks the parent id of a dummy
// coin in the serialized offer format and is used as the nonce for the
// surplus payment on completion.
var Z32 = Hash{}

// IsZero reports whether h is the all-zero sentinel.
func (h Hash) IsZero() bool {
	return h == Z32
}

// String returns the lowercase hex encoding of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns h as a freshly allocated byte slice.
func (h Hash) Bytes() []byte {
	out := make([]byte, len(h))
	copy(out, h[:])
	return out
}

// FromHex parses a hex-encoded 32-byte hash.
func FromHex(s string) (Hash, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hash hex: %w", err)
	}
	return FromBytes(raw)
}

// FromBytes builds a Hash from an exactly-32-byte slice.
func FromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != len(h) {
		return Hash{}, fmt.Errorf(
			"invalid hash length: expected %d bytes, got %d",
			len(h),
			len(b),
		)
	}
	copy(h[:], b)
	return h, nil
}

// SumSHA256 hashes the concatenation of parts with SHA-256. This is the
// protocol's canonical hash: it backs both Coin.Name and Program.TreeHash,
// so that two parties computing either over the same bytes always agree.
func SumSHA256(parts ...[]byte) Hash {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}
