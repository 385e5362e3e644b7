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

package offer

import (
	"fmt"

	"github.com/blinklabs-io/offerbroker/internal/bundle"
	"github.com/blinklabs-io/offerbroker/internal/coin"
	"github.com/blinklabs-io/offerbroker/internal/common"
	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/payment"
	"github.com/blinklabs-io/offerbroker/internal/program"
	"github.com/blinklabs-io/offerbroker/internal/puzzle"
)

// ToValidSpend completes o into a fully valid, broadcastable spend
// bundle (§4.5.4): for every requested asset, it fills in the
// settlement solution each offered coin carries — the first coin in
// asset's offered list declares the full payment list (the requested
// payments plus, if this asset has a surplus, a payout of that surplus
// to arbitragePuzzleHash); every later coin declares nothing, so the
// payment is never announced twice.
//
// ToValidSpend fails with ErrIncomplete unless o.IsValid(): an
// under-funded asset has no way to pay what it owes.
func (o Offer) ToValidSpend(arbitragePuzzleHash hashcore.Hash) (bundle.SpendBundle, error) {
	valid, err := o.IsValid()
	if err != nil {
		return bundle.SpendBundle{}, err
	}
	if !valid {
		return bundle.SpendBundle{}, ErrIncomplete
	}

	offeredCoins, err := o.GetOfferedCoins()
	if err != nil {
		return bundle.SpendBundle{}, err
	}
	arbitrage, err := o.Arbitrage()
	if err != nil {
		return bundle.SpendBundle{}, err
	}

	parentByName := make(map[hashcore.Hash]coin.CoinSpend, len(o.Bundle.CoinSpends))
	for _, cs := range o.Bundle.CoinSpends {
		parentByName[cs.Coin.Name()] = cs
	}

	keys := make([]common.AssetKey, 0, len(o.RequestedPayments))
	for k := range o.RequestedPayments {
		keys = append(keys, k)
	}
	keys = sortedAssetKeys(keys)

	var completionSpends []coin.CoinSpend
	for _, asset := range keys {
		coins := offeredCoins[asset]
		if len(coins) == 0 {
			continue
		}

		allPayments := append(
			[]payment.NotarizedPayment{},
			o.RequestedPayments[asset]...,
		)
		if surplus := arbitrage[asset]; surplus > 0 {
			// The surplus payout is emitted with the zero nonce, the
			// default a notarized payment takes when none is supplied:
			// it is not announced against any counterparty's nonce, it
			// just pays the surplus to arbitragePuzzleHash.
			allPayments = append(allPayments, payment.NotarizedPayment{
				Payment: payment.Payment{
					PuzzleHash: arbitragePuzzleHash,
					Amount:     uint64(surplus),
				},
				Nonce: hashcore.Z32,
			})
		}
		conds := make([]program.Program, len(allPayments))
		for i, p := range allPayments {
			conds[i] = p.AsCondition()
		}
		fullSolution := program.ToList(conds)
		emptySolution := program.ToList(nil)

		for i, c := range coins {
			parent, ok := parentByName[c.ParentID]
			if !ok {
				return bundle.SpendBundle{}, fmt.Errorf(
					"%w: no parent spend for offered coin %s",
					ErrMalformed,
					c.Name(),
				)
			}
			innerSolution := emptySolution
			if i == 0 {
				innerSolution = fullSolution
			}

			completionSpends = append(
				completionSpends,
				completionSpend(c, parent, innerSolution),
			)
		}
	}

	completionBundle := bundle.SpendBundle{
		CoinSpends:          completionSpends,
		AggregatedSignature: bundle.InfinityG2(),
	}
	return bundle.Aggregate(completionBundle, o.Bundle), nil
}

// completionSpend builds the CoinSpend that settles c, spending it
// with innerSolution. A tokenized coin's parent spend is unwrapped to
// recover the lineage the tokenization wrapper needs (§4.5.4 step 4);
// a native coin carries innerSolution directly.
func completionSpend(c coin.Coin, parent coin.CoinSpend, innerSolution program.Program) coin.CoinSpend {
	tail, innerPuzzle, ok := puzzle.MatchWrapper(parent.PuzzleReveal)
	if !ok {
		return coin.CoinSpend{
			Coin:         c,
			PuzzleReveal: puzzle.NativePuzzle(),
			Solution:     innerSolution,
		}
	}

	lineage := puzzle.LineageProof{
		ParentParentID:        parent.Coin.ParentID,
		ParentInnerPuzzleHash: innerPuzzle.TreeHash(),
		ParentAmount:          parent.Coin.Amount,
	}
	solution := puzzle.WrapSolution(puzzle.NativePuzzle(), innerSolution, lineage)
	return coin.CoinSpend{
		Coin:         c,
		PuzzleReveal: puzzle.ConstructWrapper(tail, puzzle.NativePuzzle()),
		Solution:     solution,
	}
}
