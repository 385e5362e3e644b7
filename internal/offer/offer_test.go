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

package offer_test

import (
	"errors"
	"testing"

	"github.com/blinklabs-io/offerbroker/internal/bundle"
	"github.com/blinklabs-io/offerbroker/internal/coin"
	"github.com/blinklabs-io/offerbroker/internal/common"
	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/offer"
	"github.com/blinklabs-io/offerbroker/internal/payment"
	"github.com/blinklabs-io/offerbroker/internal/program"
	"github.com/blinklabs-io/offerbroker/internal/puzzle"
)

func hashSeeded(b byte) hashcore.Hash {
	var h hashcore.Hash
	h[0] = b
	return h
}

func createCoinCondition(ph hashcore.Hash, amount uint64) program.Program {
	return program.ToList([]program.Program{
		program.FromUint64(puzzle.CreateCoinOpcode),
		program.FromHash(ph),
		program.FromUint64(amount),
	})
}

// fundingSpend builds a CoinSpend whose puzzle reveal is an ordinary
// (non-settlement) wallet puzzle, spent to create exactly one
// settlement coin at destPH for amount. The IdentityRunner fallback in
// bundle.SettlementAwareRunner runs it straight as the offerer's own
// wallet would.
func fundingSpend(parentSeed byte, destPH hashcore.Hash, amount uint64) coin.CoinSpend {
	return coin.CoinSpend{
		Coin: coin.Coin{
			ParentID:   hashSeeded(parentSeed),
			PuzzleHash: hashSeeded(parentSeed + 100),
			Amount:     amount,
		},
		PuzzleReveal: program.Atom([]byte("wallet-puzzle")),
		Solution:     program.ToList([]program.Program{createCoinCondition(destPH, amount)}),
	}
}

// buildNativeOffer offers amount native coins and requests a single
// payment under asset.
func buildNativeOffer(t *testing.T, parentSeed byte, amount uint64, asset common.AssetKey, reqPH hashcore.Hash, reqAmount uint64) offer.Offer {
	t.Helper()
	spend := fundingSpend(parentSeed, puzzle.NativePuzzleHash(), amount)
	requested := map[common.AssetKey][]payment.Payment{
		asset: {{PuzzleHash: reqPH, Amount: reqAmount}},
	}
	o, err := offer.Build(requested, bundle.SpendBundle{CoinSpends: []coin.CoinSpend{spend}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return o
}

// buildTokenizedOffer offers amount of tail-tokenized coins and
// requests a single payment under asset. The funding spend wraps an
// ordinary wallet inner puzzle (not the native settlement puzzle), so
// its plain condition-list solution runs via IdentityRunner, the same
// as any other CAT coin this module doesn't itself recognize.
func buildTokenizedOffer(t *testing.T, parentSeed byte, tail hashcore.Hash, amount uint64, asset common.AssetKey, reqPH hashcore.Hash, reqAmount uint64) offer.Offer {
	t.Helper()
	destPH := puzzle.TokenizedPuzzleHash(tail)
	walletInner := program.Atom([]byte("wallet-cat-inner"))
	spend := coin.CoinSpend{
		Coin: coin.Coin{
			ParentID:   hashSeeded(parentSeed),
			PuzzleHash: puzzle.ConstructWrapper(tail, walletInner).TreeHash(),
			Amount:     amount,
		},
		PuzzleReveal: puzzle.ConstructWrapper(tail, walletInner),
		Solution:     program.ToList([]program.Program{createCoinCondition(destPH, amount)}),
	}
	requested := map[common.AssetKey][]payment.Payment{
		asset: {{PuzzleHash: reqPH, Amount: reqAmount}},
	}
	o, err := offer.Build(requested, bundle.SpendBundle{CoinSpends: []coin.CoinSpend{spend}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return o
}

func TestNativeForTokenSwap(t *testing.T) {
	tail := hashSeeded(0xAA)
	h1 := hashSeeded(0x01)

	o := buildNativeOffer(t, 1, 1000, common.Tokenized(tail), h1, 500)

	arbitrage, err := o.Arbitrage()
	if err != nil {
		t.Fatalf("Arbitrage failed: %v", err)
	}
	if arbitrage[common.Native] != 1000 {
		t.Errorf("expected native arbitrage 1000, got %d", arbitrage[common.Native])
	}
	if arbitrage[common.Tokenized(tail)] != -500 {
		t.Errorf("expected tokenized arbitrage -500, got %d", arbitrage[common.Tokenized(tail)])
	}
	valid, err := o.IsValid()
	if err != nil {
		t.Fatalf("IsValid failed: %v", err)
	}
	if valid {
		t.Error("expected an under-funded token leg to be invalid")
	}

	encoded, err := o.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	decoded, err := offer.FromBytes(encoded)
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	if len(decoded.Bundle.CoinSpends) != len(o.Bundle.CoinSpends) {
		t.Fatalf("expected %d leftover spends, got %d", len(o.Bundle.CoinSpends), len(decoded.Bundle.CoinSpends))
	}
	gotPayments := decoded.RequestedPayments[common.Tokenized(tail)]
	wantPayments := o.RequestedPayments[common.Tokenized(tail)]
	if len(gotPayments) != 1 || len(wantPayments) != 1 {
		t.Fatalf("expected 1 requested payment, got %d vs %d", len(gotPayments), len(wantPayments))
	}
	if gotPayments[0].Name() != wantPayments[0].Name() {
		t.Errorf("round trip changed requested payment identity")
	}
}

func TestBalancedAggregationAndCompletion(t *testing.T) {
	tail := hashSeeded(0xAA)
	h1 := hashSeeded(0x01)
	h2 := hashSeeded(0x02)
	h0 := hashSeeded(0x03)

	a := buildNativeOffer(t, 1, 1000, common.Tokenized(tail), h1, 500)
	b := buildTokenizedOffer(t, 2, tail, 500, common.Native, h2, 1000)

	agg, err := offer.Aggregate([]offer.Offer{a, b})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	valid, err := agg.IsValid()
	if err != nil {
		t.Fatalf("IsValid failed: %v", err)
	}
	if !valid {
		arb, _ := agg.Arbitrage()
		t.Fatalf("expected balanced aggregate to be valid, arbitrage=%+v", arb)
	}

	spent, err := agg.ToValidSpend(h0)
	if err != nil {
		t.Fatalf("ToValidSpend failed: %v", err)
	}
	additions, err := spent.Additions(nil)
	if err != nil {
		t.Fatalf("Additions failed: %v", err)
	}
	if len(additions) != 4 {
		t.Fatalf("expected 4 additions (2 settlement coins + 2 completion payouts), got %d", len(additions))
	}

	var sawH1, sawH2 bool
	for _, add := range additions {
		if add.PuzzleHash == h1 && add.Amount == 500 {
			sawH1 = true
		}
		if add.PuzzleHash == h2 && add.Amount == 1000 {
			sawH2 = true
		}
	}
	if !sawH1 {
		t.Error("expected an addition paying h1 500")
	}
	if !sawH2 {
		t.Error("expected an addition paying h2 1000")
	}
}

func TestAggregateRejectsOverlappingInputs(t *testing.T) {
	tail := hashSeeded(0xAA)
	h1 := hashSeeded(0x01)
	a := buildNativeOffer(t, 1, 1000, common.Tokenized(tail), h1, 500)

	_, err := offer.Aggregate([]offer.Offer{a, a})
	if !errors.Is(err, offer.ErrOverlappingInputs) {
		t.Fatalf("expected ErrOverlappingInputs, got %v", err)
	}
}

func TestNewRejectsDuplicatePayment(t *testing.T) {
	spend := fundingSpend(1, puzzle.NativePuzzleHash(), 1000)
	np := payment.NotarizedPayment{
		Payment: payment.Payment{PuzzleHash: hashSeeded(9), Amount: 100},
		Nonce:   hashcore.Z32,
	}
	requested := map[common.AssetKey][]payment.NotarizedPayment{
		common.Native: {np, np},
	}
	_, err := offer.New(requested, bundle.SpendBundle{CoinSpends: []coin.CoinSpend{spend}})
	if !errors.Is(err, offer.ErrDuplicatePayment) {
		t.Fatalf("expected ErrDuplicatePayment, got %v", err)
	}
}

func TestNewRejectsEmptyOffer(t *testing.T) {
	spend := coin.CoinSpend{
		Coin:         coin.Coin{ParentID: hashSeeded(1), Amount: 1000},
		PuzzleReveal: program.Atom([]byte("wallet-puzzle")),
		Solution:     program.Nil(),
	}
	_, err := offer.New(nil, bundle.SpendBundle{CoinSpends: []coin.CoinSpend{spend}})
	if !errors.Is(err, offer.ErrEmptyOffer) {
		t.Fatalf("expected ErrEmptyOffer, got %v", err)
	}
}

func TestToValidSpendPaysOutSurplus(t *testing.T) {
	requesterPH := hashSeeded(0x07)
	payoutPH := hashSeeded(0x09)
	spend := fundingSpend(1, puzzle.NativePuzzleHash(), 1000)
	requested := map[common.AssetKey][]payment.Payment{
		common.Native: {{PuzzleHash: requesterPH, Amount: 700}},
	}
	o, err := offer.Build(requested, bundle.SpendBundle{CoinSpends: []coin.CoinSpend{spend}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	completed, err := o.ToValidSpend(payoutPH)
	if err != nil {
		t.Fatalf("ToValidSpend failed: %v", err)
	}

	// The single offered coin's settlement spend is the first coin spend
	// contributed by the completion (the offer's own funding spend
	// comes after it, since ToValidSpend aggregates completion first).
	var settlementSpend *coin.CoinSpend
	for i := range completed.CoinSpends {
		if completed.CoinSpends[i].Coin.PuzzleHash == puzzle.NativePuzzleHash() {
			settlementSpend = &completed.CoinSpends[i]
			break
		}
	}
	if settlementSpend == nil {
		t.Fatal("expected a completion spend of the native settlement coin")
	}
	conds, ok := settlementSpend.Solution.AsIter()
	if !ok {
		t.Fatal("expected settlement solution to be a list")
	}
	if len(conds) != 2 {
		t.Fatalf("expected exactly 2 payment conditions (requested + surplus), got %d", len(conds))
	}

	var sawRequested, sawSurplus bool
	for _, c := range conds {
		np, err := payment.FromCondition(c)
		if err != nil {
			t.Fatalf("FromCondition failed: %v", err)
		}
		switch {
		case np.PuzzleHash == requesterPH && np.Amount == 700:
			sawRequested = true
		case np.PuzzleHash == payoutPH && np.Amount == 300 && np.Nonce == hashcore.Z32:
			sawSurplus = true
		}
	}
	if !sawRequested {
		t.Error("expected the requested 700 payment condition")
	}
	if !sawSurplus {
		t.Error("expected a 300 surplus payout condition with the zero nonce")
	}
}

func TestIncompleteOfferFailsToComplete(t *testing.T) {
	tail := hashSeeded(0xAA)
	h1 := hashSeeded(0x01)
	o := buildNativeOffer(t, 1, 1000, common.Tokenized(tail), h1, 500)
	_, err := o.ToValidSpend(hashSeeded(0x02))
	if !errors.Is(err, offer.ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}
