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
	"math"

	"github.com/blinklabs-io/offerbroker/internal/coin"
	"github.com/blinklabs-io/offerbroker/internal/common"
	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/payment"
	"github.com/blinklabs-io/offerbroker/internal/puzzle"
)

// GetOfferedCoins enumerates o.Bundle's additions and sorts each into
// the asset it settles: an addition belongs to an asset only if it
// lands on that asset's settlement puzzle-hash, per §4.4.1. Change and
// intermediate coins are silently excluded. Each asset's coin list
// preserves the order the additions were produced in.
func (o Offer) GetOfferedCoins() (map[common.AssetKey][]coin.Coin, error) {
	additions, err := o.Bundle.Additions(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	byName := make(map[hashcore.Hash]coin.CoinSpend, len(o.Bundle.CoinSpends))
	for _, cs := range o.Bundle.CoinSpends {
		byName[cs.Coin.Name()] = cs
	}
	out := make(map[common.AssetKey][]coin.Coin)
	for _, add := range additions {
		parent, ok := byName[add.ParentID]
		if !ok {
			return nil, fmt.Errorf(
				"%w: addition %s has no matching coin spend",
				ErrMalformed,
				add.Name(),
			)
		}
		var asset common.AssetKey
		var expectedPH hashcore.Hash
		if tail, _, ok := puzzle.MatchWrapper(parent.PuzzleReveal); ok {
			asset = common.Tokenized(tail)
			expectedPH = puzzle.TokenizedPuzzleHash(tail)
		} else {
			asset = common.Native
			expectedPH = puzzle.NativePuzzleHash()
		}
		if add.PuzzleHash != expectedPH {
			continue
		}
		out[asset] = append(out[asset], add)
	}
	return out, nil
}

// sumAmounts adds up a sequence of coin amounts with overflow
// detection, per §4.4.2's "use a widening accumulator or checked
// arithmetic" requirement.
func sumAmounts(amounts []uint64) (uint64, error) {
	var sum uint64
	for _, amt := range amounts {
		next := sum + amt
		if next < sum {
			return 0, ErrOverflow
		}
		sum = next
	}
	return sum, nil
}

// GetOfferedAmounts sums GetOfferedCoins' amounts per asset.
func (o Offer) GetOfferedAmounts() (map[common.AssetKey]uint64, error) {
	coinsByAsset, err := o.GetOfferedCoins()
	if err != nil {
		return nil, err
	}
	out := make(map[common.AssetKey]uint64, len(coinsByAsset))
	for asset, coins := range coinsByAsset {
		amounts := make([]uint64, len(coins))
		for i, c := range coins {
			amounts[i] = c.Amount
		}
		sum, err := sumAmounts(amounts)
		if err != nil {
			return nil, fmt.Errorf("%w: offered amount for asset %s", err, asset)
		}
		out[asset] = sum
	}
	return out, nil
}

// GetRequestedPayments returns a fresh copy of o's requested-payments
// table: every Offer view allocates its own collections, per §5, so a
// caller mutating the result can never observe or affect the Offer.
func (o Offer) GetRequestedPayments() map[common.AssetKey][]payment.NotarizedPayment {
	out := make(map[common.AssetKey][]payment.NotarizedPayment, len(o.RequestedPayments))
	for asset, payments := range o.RequestedPayments {
		cp := make([]payment.NotarizedPayment, len(payments))
		copy(cp, payments)
		out[asset] = cp
	}
	return out
}

// GetRequestedAmounts sums each asset's requested payment amounts.
func (o Offer) GetRequestedAmounts() (map[common.AssetKey]uint64, error) {
	out := make(map[common.AssetKey]uint64, len(o.RequestedPayments))
	for asset, payments := range o.RequestedPayments {
		amounts := make([]uint64, len(payments))
		for i, p := range payments {
			amounts[i] = p.Amount
		}
		sum, err := sumAmounts(amounts)
		if err != nil {
			return nil, fmt.Errorf("%w: requested amount for asset %s", err, asset)
		}
		out[asset] = sum
	}
	return out, nil
}

// Arbitrage returns, for every asset appearing in either the offered
// or requested view, the signed surplus offered - requested.
func (o Offer) Arbitrage() (map[common.AssetKey]int64, error) {
	offered, err := o.GetOfferedAmounts()
	if err != nil {
		return nil, err
	}
	requested, err := o.GetRequestedAmounts()
	if err != nil {
		return nil, err
	}
	out := make(map[common.AssetKey]int64, len(offered)+len(requested))
	for asset, amt := range offered {
		signed, err := toSigned(amt)
		if err != nil {
			return nil, fmt.Errorf("%w: offered amount for asset %s", err, asset)
		}
		out[asset] += signed
	}
	for asset, amt := range requested {
		signed, err := toSigned(amt)
		if err != nil {
			return nil, fmt.Errorf("%w: requested amount for asset %s", err, asset)
		}
		out[asset] -= signed
	}
	return out, nil
}

func toSigned(amt uint64) (int64, error) {
	if amt > math.MaxInt64 {
		return 0, ErrOverflow
	}
	return int64(amt), nil
}

// IsValid reports whether every asset's arbitrage is non-negative, the
// condition to_valid_spend requires before it will complete an offer.
func (o Offer) IsValid() (bool, error) {
	arbitrage, err := o.Arbitrage()
	if err != nil {
		return false, err
	}
	for _, surplus := range arbitrage {
		if surplus < 0 {
			return false, nil
		}
	}
	return true, nil
}
