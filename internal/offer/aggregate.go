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
	"github.com/blinklabs-io/offerbroker/internal/common"
	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/payment"
)

// Aggregate combines offers into a single composite offer (§4.5.3):
// every source's requested payments are concatenated per asset and
// every source's bundle is merged, but no payment is re-notarized.
// Distinct sources may carry payments notarized against different
// coin sets — the per-offer nonce-consistency invariant (§3 invariant
// 3) is deliberately relaxed for the result, since a multi-source
// offer settles each source's announcements independently.
//
// Aggregate fails with ErrOverlappingInputs if any two offers share an
// input coin by name: an offer can only ever be spent once, so two
// offers claiming the same input could never both settle.
func Aggregate(offers []Offer) (Offer, error) {
	seen := make(map[hashcore.Hash]struct{})
	requested := make(map[common.AssetKey][]payment.NotarizedPayment)
	bundles := make([]bundle.SpendBundle, 0, len(offers))

	for _, src := range offers {
		for _, cs := range src.Bundle.CoinSpends {
			name := cs.Coin.Name()
			if _, dup := seen[name]; dup {
				return Offer{}, fmt.Errorf("%w: coin %s", ErrOverlappingInputs, name)
			}
		}
		for _, cs := range src.Bundle.CoinSpends {
			seen[cs.Coin.Name()] = struct{}{}
		}
		for asset, payments := range src.RequestedPayments {
			requested[asset] = append(requested[asset], payments...)
		}
		bundles = append(bundles, src.Bundle)
	}

	return New(requested, bundle.Aggregate(bundles...))
}
