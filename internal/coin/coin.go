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

// Package coin defines the UTXO primitives an offer is built from: Coin
// and CoinSpend.
package coin

import (
	"encoding/binary"

	"github.com/blinklabs-io/gouroboros/cbor"

	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/program"
)

// Coin is an immutable (parent_id, puzzle_hash, amount) triple.
type Coin struct {
	ParentID   hashcore.Hash
	PuzzleHash hashcore.Hash
	Amount     uint64
}

// Name is the deterministic hash identifying this coin: sha256 of the
// parent id, puzzle hash, and big-endian amount, concatenated.
func (c Coin) Name() hashcore.Hash {
	var amt [8]byte
	binary.BigEndian.PutUint64(amt[:], c.Amount)
	return hashcore.SumSHA256(c.ParentID[:], c.PuzzleHash[:], amt[:])
}

// AsList renders c in the canonical [parent_id, puzzle_hash, amount]
// form used to derive a notarization nonce (see offerbuilder.NotarizePayments).
func (c Coin) AsList() program.Program {
	return program.ToList([]program.Program{
		program.FromHash(c.ParentID),
		program.FromHash(c.PuzzleHash),
		program.FromUint64(c.Amount),
	})
}

// coinWire is Coin's canonical wire form.
type coinWire struct {
	cbor.StructAsArray
	ParentID   []byte
	PuzzleHash []byte
	Amount     uint64
}

// MarshalCBOR encodes c canonically as [parent_id, puzzle_hash, amount].
func (c Coin) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(&coinWire{
		ParentID:   c.ParentID.Bytes(),
		PuzzleHash: c.PuzzleHash.Bytes(),
		Amount:     c.Amount,
	})
}

// UnmarshalCBOR decodes the form MarshalCBOR produces.
func (c *Coin) UnmarshalCBOR(data []byte) error {
	var wire coinWire
	if _, err := cbor.Decode(data, &wire); err != nil {
		return err
	}
	parentID, err := hashcore.FromBytes(wire.ParentID)
	if err != nil {
		return err
	}
	puzzleHash, err := hashcore.FromBytes(wire.PuzzleHash)
	if err != nil {
		return err
	}
	*c = Coin{ParentID: parentID, PuzzleHash: puzzleHash, Amount: wire.Amount}
	return nil
}

// CoinSpend pairs a Coin with the puzzle reveal and solution that spend
// it.
type CoinSpend struct {
	Coin         Coin
	PuzzleReveal program.Program
	Solution     program.Program
}

// coinSpendWire is CoinSpend's canonical wire form.
type coinSpendWire struct {
	cbor.StructAsArray
	Coin         Coin
	PuzzleReveal cbor.RawMessage
	Solution     cbor.RawMessage
}

// MarshalCBOR encodes cs canonically as [coin, puzzle_reveal, solution].
func (cs CoinSpend) MarshalCBOR() ([]byte, error) {
	puzzleRaw, err := cs.PuzzleReveal.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	solutionRaw, err := cs.Solution.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	return cbor.Encode(&coinSpendWire{
		Coin:         cs.Coin,
		PuzzleReveal: puzzleRaw,
		Solution:     solutionRaw,
	})
}

// UnmarshalCBOR decodes the form MarshalCBOR produces.
func (cs *CoinSpend) UnmarshalCBOR(data []byte) error {
	var wire coinSpendWire
	if _, err := cbor.Decode(data, &wire); err != nil {
		return err
	}
	var puzzleReveal, solution program.Program
	if err := puzzleReveal.UnmarshalCBOR(wire.PuzzleReveal); err != nil {
		return err
	}
	if err := solution.UnmarshalCBOR(wire.Solution); err != nil {
		return err
	}
	*cs = CoinSpend{Coin: wire.Coin, PuzzleReveal: puzzleReveal, Solution: solution}
	return nil
}
