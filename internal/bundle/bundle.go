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

// Package bundle holds SpendBundle, the signed collection of coin
// spends an offer's settlement ultimately produces, and the small
// evaluator seam SpendBundle.Additions needs to compute the coins a
// spend creates.
package bundle

import (
	"fmt"

	"github.com/blinklabs-io/gouroboros/cbor"

	"github.com/blinklabs-io/offerbroker/internal/coin"
	"github.com/blinklabs-io/offerbroker/internal/program"
	"github.com/blinklabs-io/offerbroker/internal/puzzle"
)

// ConditionRunner computes the conditions a puzzle reveal produces
// when run against a solution. The offer core never runs a general
// puzzle/solution evaluator itself (see the puzzle/solution evaluator
// entry in the project's design notes); this is the seam a caller
// plugs a real one into for puzzles this module doesn't know about.
type ConditionRunner interface {
	Run(puzzleReveal, solution program.Program) ([]program.Program, error)
}

// IdentityRunner is a reference ConditionRunner for puzzles that accept
// their solution as the literal condition list, the same
// accept-conditions-straight idiom test fixtures use in place of a real
// wallet puzzle.
type IdentityRunner struct{}

// Run implements ConditionRunner.
func (IdentityRunner) Run(_ program.Program, solution program.Program) ([]program.Program, error) {
	conds, ok := solution.AsIter()
	if !ok {
		return nil, fmt.Errorf("malformed solution: not a list")
	}
	return conds, nil
}

// SettlementAwareRunner recognizes the native and tokenized settlement
// puzzles this module defines and evaluates them directly, falling
// back to IdentityRunner for any other puzzle reveal.
type SettlementAwareRunner struct{}

// Run implements ConditionRunner. A tokenized settlement coin (one
// wrapping the native settlement puzzle specifically) always carries a
// lineage-wrapped solution (see puzzle.WrapSolution): this unwraps it
// to the inner settlement solution before running it, the same way a
// native settlement coin's solution is run directly. A coin wrapping
// some other inner puzzle is a tokenized coin this module doesn't
// recognize as a settlement coin, and falls back to IdentityRunner.
func (SettlementAwareRunner) Run(puzzleReveal, solution program.Program) ([]program.Program, error) {
	if _, inner, ok := puzzle.MatchWrapper(puzzleReveal); ok && inner.TreeHash() == puzzle.NativePuzzleHash() {
		_, _, innerSolution, ok := puzzle.MatchWrapSolution(solution)
		if !ok {
			return nil, fmt.Errorf("malformed tokenized settlement solution: not lineage-wrapped")
		}
		return puzzle.RunSettlement(innerSolution)
	}
	if puzzleReveal.TreeHash() == puzzle.NativePuzzleHash() {
		return puzzle.RunSettlement(solution)
	}
	return IdentityRunner{}.Run(puzzleReveal, solution)
}

// DefaultRunner is the ConditionRunner SpendBundle.Additions uses when
// none is supplied explicitly.
var DefaultRunner ConditionRunner = SettlementAwareRunner{}

// SpendBundle is a set of coin spends together with the aggregated
// signature authorizing all of them.
type SpendBundle struct {
	CoinSpends          []coin.CoinSpend
	AggregatedSignature G2Element
}

// Additions runs every coin spend's puzzle reveal against its solution
// using runner, or DefaultRunner if runner is nil, and collects the
// coins their CREATE_COIN conditions produce.
func (b SpendBundle) Additions(runner ConditionRunner) ([]coin.Coin, error) {
	if runner == nil {
		runner = DefaultRunner
	}
	var out []coin.Coin
	for _, cs := range b.CoinSpends {
		conds, err := runner.Run(cs.PuzzleReveal, cs.Solution)
		if err != nil {
			return nil, fmt.Errorf("running coin spend %s: %w", cs.Coin.Name(), err)
		}
		parentID := cs.Coin.Name()
		for _, cond := range conds {
			fields, ok := cond.AsIter()
			if !ok || len(fields) < 3 {
				continue
			}
			opcode, ok := program.ToUint64(fields[0])
			if !ok || opcode != puzzle.CreateCoinOpcode {
				continue
			}
			puzzleHash, ok := program.ToHash(fields[1])
			if !ok {
				continue
			}
			amount, ok := program.ToUint64(fields[2])
			if !ok {
				continue
			}
			out = append(out, coin.Coin{
				ParentID:   parentID,
				PuzzleHash: puzzleHash,
				Amount:     amount,
			})
		}
	}
	return out, nil
}

// Aggregate merges bundles into one: the union of their coin spends
// and the sum of their signatures. It performs no validation of its
// own; callers that must reject bundles sharing an input (as an Offer
// does) check that separately.
func Aggregate(bundles ...SpendBundle) SpendBundle {
	var out SpendBundle
	sigs := make([]G2Element, 0, len(bundles))
	for _, b := range bundles {
		out.CoinSpends = append(out.CoinSpends, b.CoinSpends...)
		sigs = append(sigs, b.AggregatedSignature)
	}
	out.AggregatedSignature = AggregateG2(sigs...)
	return out
}

type spendBundleWire struct {
	cbor.StructAsArray
	CoinSpends          []coin.CoinSpend
	AggregatedSignature []byte
}

// MarshalCBOR encodes b canonically as [coin_spends, aggregated_signature].
func (b SpendBundle) MarshalCBOR() ([]byte, error) {
	return cbor.Encode(&spendBundleWire{
		CoinSpends:          b.CoinSpends,
		AggregatedSignature: b.AggregatedSignature.Bytes(),
	})
}

// UnmarshalCBOR decodes the form MarshalCBOR produces.
func (b *SpendBundle) UnmarshalCBOR(data []byte) error {
	var wire spendBundleWire
	if _, err := cbor.Decode(data, &wire); err != nil {
		return err
	}
	sig, err := G2FromBytes(wire.AggregatedSignature)
	if err != nil {
		return err
	}
	*b = SpendBundle{CoinSpends: wire.CoinSpends, AggregatedSignature: sig}
	return nil
}

// Bytes encodes b to its canonical wire form.
func (b SpendBundle) Bytes() ([]byte, error) {
	return b.MarshalCBOR()
}

// FromBytes decodes a SpendBundle from its canonical wire form.
func FromBytes(data []byte) (SpendBundle, error) {
	var b SpendBundle
	if err := b.UnmarshalCBOR(data); err != nil {
		return SpendBundle{}, fmt.Errorf("malformed spend bundle: %w", err)
	}
	return b, nil
}
