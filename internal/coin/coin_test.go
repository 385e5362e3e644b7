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

package coin_test

import (
	"testing"

	"github.com/blinklabs-io/offerbroker/internal/coin"
	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/program"
)

func testCoin() coin.Coin {
	var parent, puzzle hashcore.Hash
	parent[0], puzzle[0] = 1, 2
	return coin.Coin{ParentID: parent, PuzzleHash: puzzle, Amount: 1000}
}

func TestNameIsDeterministic(t *testing.T) {
	c := testCoin()
	if c.Name() != c.Name() {
		t.Error("expected Name to be deterministic")
	}
}

func TestNameSensitiveToAmount(t *testing.T) {
	a := testCoin()
	b := a
	b.Amount++
	if a.Name() == b.Name() {
		t.Error("expected different amounts to produce different names")
	}
}

func TestCoinCBORRoundTrip(t *testing.T) {
	c := testCoin()
	encoded, err := c.MarshalCBOR()
	if err != nil {
		t.Fatalf("MarshalCBOR failed: %v", err)
	}
	var decoded coin.Coin
	if err := decoded.UnmarshalCBOR(encoded); err != nil {
		t.Fatalf("UnmarshalCBOR failed: %v", err)
	}
	if decoded != c {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, c)
	}
}

func TestCoinSpendCBORRoundTrip(t *testing.T) {
	cs := coin.CoinSpend{
		Coin:         testCoin(),
		PuzzleReveal: program.Atom([]byte("puzzle")),
		Solution:     program.ToList([]program.Program{program.FromUint64(42)}),
	}
	encoded, err := cs.MarshalCBOR()
	if err != nil {
		t.Fatalf("MarshalCBOR failed: %v", err)
	}
	var decoded coin.CoinSpend
	if err := decoded.UnmarshalCBOR(encoded); err != nil {
		t.Fatalf("UnmarshalCBOR failed: %v", err)
	}
	if decoded.Coin != cs.Coin {
		t.Errorf("coin mismatch after round trip")
	}
	if decoded.PuzzleReveal.TreeHash() != cs.PuzzleReveal.TreeHash() {
		t.Errorf("puzzle reveal mismatch after round trip")
	}
	if decoded.Solution.TreeHash() != cs.Solution.TreeHash() {
		t.Errorf("solution mismatch after round trip")
	}
}
