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

// Package offerbuilder turns a requested payment table and the coins
// being offered into notarized payments and the puzzle announcements
// the settlement spends must assert. offer.Build runs only the
// notarization step; wiring the announcements into the offered coins'
// solutions is left to the caller.
package offerbuilder

import (
	"sort"

	"github.com/blinklabs-io/offerbroker/internal/coin"
	"github.com/blinklabs-io/offerbroker/internal/common"
	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/payment"
	"github.com/blinklabs-io/offerbroker/internal/program"
)

// NotarizePayments assigns every requested payment a shared nonce
// derived from the coins being offered, so a counterparty can prove a
// settlement coin's solution was announced by this specific offer and
// not replayed from a different one.
//
// The nonce is the tree hash of the offered coins' canonical list
// form, sorted by coin name so two parties building the same offer
// independently always agree on it.
func NotarizePayments(
	requested map[common.AssetKey][]payment.Payment,
	coins []coin.Coin,
) map[common.AssetKey][]payment.NotarizedPayment {
	sorted := make([]coin.Coin, len(coins))
	copy(sorted, coins)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i].Name(), sorted[j].Name()
		return string(a[:]) < string(b[:])
	})
	asLists := make([]program.Program, len(sorted))
	for i, c := range sorted {
		asLists[i] = c.AsList()
	}
	nonce := program.ToList(asLists).TreeHash()

	out := make(map[common.AssetKey][]payment.NotarizedPayment, len(requested))
	for asset, payments := range requested {
		notarized := make([]payment.NotarizedPayment, len(payments))
		for i, p := range payments {
			notarized[i] = payment.NotarizedPayment{Payment: p, Nonce: nonce}
		}
		out[asset] = notarized
	}
	return out
}

// Announcement is a puzzle announcement a settlement spend must
// produce: the puzzle hash making the announcement, and the message it
// announces.
type Announcement struct {
	PuzzleHash hashcore.Hash
	Message    hashcore.Hash
}

// ID is the announcement's identifier as asserted by a consuming
// condition: sha256(puzzle_hash || message).
func (a Announcement) ID() hashcore.Hash {
	return hashcore.SumSHA256(a.PuzzleHash[:], a.Message[:])
}

// SettlementPuzzleHash resolves the settlement puzzle hash a notarized
// payment for asset must be announced against.
type SettlementPuzzleHash func(asset common.AssetKey) hashcore.Hash

// CalculateAnnouncements returns the puzzle announcement every
// notarized payment requires its settlement coin to make, so the
// requesting side's spend can assert each one and refuse to complete
// unless every payment it is owed is actually being paid. Asset keys
// are visited in common.SortKeys order rather than Go's randomized map
// iteration, so two calls over the same notarized table always return
// announcements in the same order.
func CalculateAnnouncements(
	notarized map[common.AssetKey][]payment.NotarizedPayment,
	settlementPuzzleHash SettlementPuzzleHash,
) []Announcement {
	keys := make([]common.AssetKey, 0, len(notarized))
	for asset := range notarized {
		keys = append(keys, asset)
	}
	keys = common.SortKeys(keys)

	var out []Announcement
	for _, asset := range keys {
		ph := settlementPuzzleHash(asset)
		for _, p := range notarized[asset] {
			out = append(out, Announcement{PuzzleHash: ph, Message: p.Name()})
		}
	}
	return out
}
