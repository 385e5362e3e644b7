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

// sortedAssetKeys returns keys in a fixed order — native first, then
// tokenized assets by ascending tail — so Bytes' dummy-spend ordering
// is a pure function of the requested-payments table and not of Go's
// randomized map iteration, which §3 invariant 6 requires for a
// byte-exact wire form. This is the same order offerbuilder.
// CalculateAnnouncements sorts by, via common.SortKeys.
func sortedAssetKeys(keys []common.AssetKey) []common.AssetKey {
	return common.SortKeys(keys)
}

// Bytes encodes o to its wire form (§4.5.1): a SpendBundle carrying one
// dummy spend per requested asset ahead of o.Bundle's own coin spends.
// Each dummy spend's coin has the sentinel Z32 parent id and zero
// amount; its solution is the asset's requested payments rendered as
// condition programs.
func (o Offer) Bytes() ([]byte, error) {
	keys := make([]common.AssetKey, 0, len(o.RequestedPayments))
	for k := range o.RequestedPayments {
		keys = append(keys, k)
	}
	keys = sortedAssetKeys(keys)

	dummySpends := make([]coin.CoinSpend, 0, len(keys))
	for _, asset := range keys {
		payments := o.RequestedPayments[asset]
		conds := make([]program.Program, len(payments))
		for i, p := range payments {
			conds[i] = p.AsCondition()
		}
		dummySpends = append(dummySpends, coin.CoinSpend{
			Coin: coin.Coin{
				ParentID:   hashcore.Z32,
				PuzzleHash: settlementPuzzleHash(asset),
				Amount:     0,
			},
			PuzzleReveal: settlementPuzzleReveal(asset),
			Solution:     program.ToList(conds),
		})
	}

	wire := bundle.SpendBundle{
		CoinSpends:          append(dummySpends, o.Bundle.CoinSpends...),
		AggregatedSignature: o.Bundle.AggregatedSignature,
	}
	return wire.Bytes()
}

// FromBytes decodes the form Bytes produces (§4.5.2). It partitions
// the decoded bundle's spends into dummy spends (parent id Z32) and
// leftover offered spends by that marker alone, reconstructs each
// dummy's payment list from its solution, and assembles an Offer from
// the leftover spends without re-deriving or re-checking the nonce.
func FromBytes(data []byte) (Offer, error) {
	wire, err := bundle.FromBytes(data)
	if err != nil {
		return Offer{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	requested := make(map[common.AssetKey][]payment.NotarizedPayment)
	leftover := make([]coin.CoinSpend, 0, len(wire.CoinSpends))
	for _, cs := range wire.CoinSpends {
		if cs.Coin.ParentID != hashcore.Z32 {
			leftover = append(leftover, cs)
			continue
		}
		var asset common.AssetKey
		if tail, _, ok := puzzle.MatchWrapper(cs.PuzzleReveal); ok {
			asset = common.Tokenized(tail)
		} else {
			asset = common.Native
		}
		conds, ok := cs.Solution.AsIter()
		if !ok {
			return Offer{}, fmt.Errorf("%w: dummy solution is not a condition list", ErrMalformed)
		}
		payments := make([]payment.NotarizedPayment, len(conds))
		for i, c := range conds {
			np, err := payment.FromCondition(c)
			if err != nil {
				return Offer{}, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			payments[i] = np
		}
		requested[asset] = payments
	}

	return New(requested, bundle.SpendBundle{
		CoinSpends:          leftover,
		AggregatedSignature: wire.AggregatedSignature,
	})
}
