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

// Package program implements the opaque expression tree that backs
// puzzle reveals, solutions, and condition lists: a Program is either an
// atom (a byte string) or a pair of two Programs (first, rest), the same
// shape a puzzle/solution evaluator works over. Lists are right-nested
// pairs terminated by the empty atom, matching how a cons-based
// evaluator represents them.
package program

import (
	"encoding/binary"
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"

	"github.com/blinklabs-io/offerbroker/internal/hashcore"
)

type kind uint8

const (
	kindAtom kind = iota
	kindPair
)

// Program is an atom or a (first . rest) pair. The zero value is the
// empty atom, which doubles as NIL / the empty list.
type Program struct {
	kind  kind
	atom  []byte
	first *Program
	rest  *Program
}

// Atom constructs a leaf Program holding b.
func Atom(b []byte) Program {
	out := make([]byte, len(b))
	copy(out, b)
	return Program{kind: kindAtom, atom: out}
}

// Pair constructs the cons cell (first . rest).
func Pair(first, rest Program) Program {
	f, r := first, rest
	return Program{kind: kindPair, first: &f, rest: &r}
}

// Nil is the empty atom / empty list terminator.
func Nil() Program {
	return Atom(nil)
}

// IsAtom reports whether p is a leaf.
func (p Program) IsAtom() bool {
	return p.kind == kindAtom
}

// AtomBytes returns p's atom bytes if p is a leaf.
func (p Program) AtomBytes() ([]byte, bool) {
	if p.kind != kindAtom {
		return nil, false
	}
	return p.atom, true
}

// AsIter walks a proper list (nested pairs terminated by Nil) and
// returns its elements. ok is false for an atom-valued list terminator
// other than Nil (an improper list), which a caller should treat as a
// malformed program.
func (p Program) AsIter() ([]Program, bool) {
	var items []Program
	cur := p
	for {
		if cur.kind == kindAtom {
			if len(cur.atom) == 0 {
				return items, true
			}
			return nil, false
		}
		items = append(items, *cur.first)
		cur = *cur.rest
	}
}

// ToList builds the right-nested pair chain representing items, i.e.
// Program.to(items) in the evaluator's terms.
func ToList(items []Program) Program {
	result := Nil()
	for i := len(items) - 1; i >= 0; i-- {
		result = Pair(items[i], result)
	}
	return result
}

// TreeHash computes the canonical hash of the expression tree: an atom
// hashes to sha256(0x01 || atom), a pair hashes to
// sha256(0x02 || TreeHash(first) || TreeHash(rest)).
func (p Program) TreeHash() hashcore.Hash {
	if p.kind == kindAtom {
		return hashcore.SumSHA256([]byte{1}, p.atom)
	}
	fh := p.first.TreeHash()
	rh := p.rest.TreeHash()
	return hashcore.SumSHA256([]byte{2}, fh[:], rh[:])
}

// FromHash builds a 32-byte atom from a Hash.
func FromHash(h hashcore.Hash) Program {
	return Atom(h[:])
}

// ToHash reads p as a 32-byte hash atom.
func ToHash(p Program) (hashcore.Hash, bool) {
	b, ok := p.AtomBytes()
	if !ok {
		return hashcore.Hash{}, false
	}
	h, err := hashcore.FromBytes(b)
	if err != nil {
		return hashcore.Hash{}, false
	}
	return h, true
}

// FromUint64 encodes v as a minimal big-endian atom: leading zero bytes
// are stripped and zero itself encodes as the empty atom, matching how
// the evaluator represents integers canonically.
func FromUint64(v uint64) Program {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	i := 0
	for i < len(buf) && buf[i] == 0 {
		i++
	}
	return Atom(buf[i:])
}

// ToUint64 decodes a minimal big-endian integer atom.
func ToUint64(p Program) (uint64, bool) {
	b, ok := p.AtomBytes()
	if !ok || len(b) > 8 {
		return 0, false
	}
	var buf [8]byte
	copy(buf[8-len(b):], b)
	return binary.BigEndian.Uint64(buf[:]), true
}

// FromBytesList encodes a sequence of byte strings (e.g. memos) as a
// list of atoms.
func FromBytesList(items [][]byte) Program {
	parts := make([]Program, len(items))
	for i, b := range items {
		parts[i] = Atom(b)
	}
	return ToList(parts)
}

// ToBytesList decodes a list of atoms back into byte strings.
func ToBytesList(p Program) ([][]byte, bool) {
	items, ok := p.AsIter()
	if !ok {
		return nil, false
	}
	out := make([][]byte, len(items))
	for i, it := range items {
		b, ok := it.AtomBytes()
		if !ok {
			return nil, false
		}
		out[i] = b
	}
	return out, true
}

// MarshalCBOR encodes p canonically: an atom as a CBOR byte string, a
// pair as a 2-element CBOR array of its already-encoded children.
func (p Program) MarshalCBOR() ([]byte, error) {
	if p.kind == kindAtom {
		return cbor.Encode(p.atom)
	}
	firstRaw, err := p.first.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("failed to encode program first: %w", err)
	}
	restRaw, err := p.rest.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("failed to encode program rest: %w", err)
	}
	return cbor.Encode([]cbor.RawMessage{firstRaw, restRaw})
}

// UnmarshalCBOR decodes the canonical form MarshalCBOR produces.
func (p *Program) UnmarshalCBOR(data []byte) error {
	var atom []byte
	if _, err := cbor.Decode(data, &atom); err == nil {
		*p = Atom(atom)
		return nil
	}
	var parts []cbor.RawMessage
	if _, err := cbor.Decode(data, &parts); err != nil {
		return fmt.Errorf("malformed program: %w", err)
	}
	if len(parts) != 2 {
		return fmt.Errorf(
			"malformed program: expected 2-element pair, got %d",
			len(parts),
		)
	}
	var first, rest Program
	if err := first.UnmarshalCBOR(parts[0]); err != nil {
		return err
	}
	if err := rest.UnmarshalCBOR(parts[1]); err != nil {
		return err
	}
	*p = Pair(first, rest)
	return nil
}
