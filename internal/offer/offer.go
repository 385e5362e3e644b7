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

// Package offer assembles the pieces every other package in this
// module provides — coins, payments, the settlement puzzle, and spend
// bundles — into the Offer value itself: a partially built transaction
// proposal that is either serialized for a counterparty to complete,
// or aggregated with other offers and completed locally.
package offer

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/offerbroker/internal/bundle"
	"github.com/blinklabs-io/offerbroker/internal/coin"
	"github.com/blinklabs-io/offerbroker/internal/common"
	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/offerbuilder"
	"github.com/blinklabs-io/offerbroker/internal/payment"
	"github.com/blinklabs-io/offerbroker/internal/program"
	"github.com/blinklabs-io/offerbroker/internal/puzzle"
)

// Sentinel errors raised by the offer core. Every error an Offer
// operation can return wraps one of these, so callers can distinguish
// kinds with errors.Is regardless of the added detail.
var (
	ErrEmptyOffer        = errors.New("offer: no offered coins")
	ErrDuplicatePayment  = errors.New("offer: duplicate requested payment")
	ErrOverlappingInputs = errors.New("offer: aggregated offers share an input coin")
	ErrIncomplete        = errors.New("offer: incomplete, some asset is under-funded")
	ErrMalformed         = errors.New("offer: malformed")
	ErrOverflow          = errors.New("offer: amount sum overflow")
)

// Offer is a partially constructed, self-contained transaction
// proposal: requested payments, keyed by the asset they pay in, and
// the spend bundle committing the coins offered in exchange. Once
// constructed via New or Build it is immutable; every method on it is
// a pure function of its fields.
type Offer struct {
	RequestedPayments map[common.AssetKey][]payment.NotarizedPayment
	Bundle            bundle.SpendBundle
}

// New constructs an Offer from already-notarized requested payments and
// a spend bundle, running the construction-time validation of §4.4.3:
// the bundle must produce at least one offered coin, and no asset's
// payment list may contain a duplicate NotarizedPayment.Name.
func New(
	requestedPayments map[common.AssetKey][]payment.NotarizedPayment,
	spendBundle bundle.SpendBundle,
) (Offer, error) {
	o := Offer{RequestedPayments: requestedPayments, Bundle: spendBundle}
	if err := o.validate(); err != nil {
		return Offer{}, err
	}
	return o, nil
}

// Build notarizes requested against the coins spent by offererBundle
// (its nonce, per §4.3, is derived from exactly those coins) and
// constructs the resulting Offer. Use New directly when the payments
// have already been notarized, e.g. by a caller that wired
// CalculateAnnouncements' output into offererBundle's solutions before
// calling Build.
func Build(
	requested map[common.AssetKey][]payment.Payment,
	offererBundle bundle.SpendBundle,
) (Offer, error) {
	coins := make([]coin.Coin, len(offererBundle.CoinSpends))
	for i, cs := range offererBundle.CoinSpends {
		coins[i] = cs.Coin
	}
	notarized := offerbuilder.NotarizePayments(requested, coins)
	return New(notarized, offererBundle)
}

func (o Offer) validate() error {
	offered, err := o.GetOfferedCoins()
	if err != nil {
		return err
	}
	if len(offered) == 0 {
		return ErrEmptyOffer
	}
	for asset, payments := range o.RequestedPayments {
		seen := make(map[hashcore.Hash]struct{}, len(payments))
		for _, p := range payments {
			name := p.Name()
			if _, dup := seen[name]; dup {
				return fmt.Errorf("%w: asset %s, payment %s", ErrDuplicatePayment, asset, name)
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}

// settlementPuzzleHash resolves the settlement puzzle hash a
// requested/offered asset's coins carry: the native settlement
// puzzle-hash for the native asset, the tokenization wrapper curried
// with the asset's tail otherwise.
func settlementPuzzleHash(k common.AssetKey) hashcore.Hash {
	if k.IsNative() {
		return puzzle.NativePuzzleHash()
	}
	return puzzle.TokenizedPuzzleHash(k.Tail())
}

// settlementPuzzleReveal resolves the puzzle reveal a dummy or
// completion spend for asset uses: the native settlement puzzle
// itself, or that puzzle wrapped for asset's tail.
func settlementPuzzleReveal(k common.AssetKey) program.Program {
	if k.IsNative() {
		return puzzle.NativePuzzle()
	}
	return puzzle.ConstructWrapper(k.Tail(), puzzle.NativePuzzle())
}

