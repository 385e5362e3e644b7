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

package payment_test

import (
	"testing"

	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/payment"
	"github.com/blinklabs-io/offerbroker/internal/program"
)

func TestFromConditionRoundTrip(t *testing.T) {
	var nonce, ph hashcore.Hash
	nonce[0], ph[0] = 1, 2
	np := payment.NotarizedPayment{
		Payment: payment.Payment{PuzzleHash: ph, Amount: 500, Memos: [][]byte{[]byte("memo")}},
		Nonce:   nonce,
	}
	cond := np.AsCondition()
	got, err := payment.FromCondition(cond)
	if err != nil {
		t.Fatalf("FromCondition failed: %v", err)
	}
	if got.Nonce != np.Nonce || got.PuzzleHash != np.PuzzleHash || got.Amount != np.Amount {
		t.Errorf("expected %+v, got %+v", np, got)
	}
	if len(got.Memos) != 1 || string(got.Memos[0]) != "memo" {
		t.Errorf("expected memos to round trip, got %v", got.Memos)
	}
}

func TestFromConditionRejectsTooFewFields(t *testing.T) {
	var nonce hashcore.Hash
	nonce[0] = 9
	bad := program.ToList([]program.Program{program.FromHash(nonce), program.FromUint64(1)})
	if _, err := payment.FromCondition(bad); err == nil {
		t.Error("expected FromCondition to reject a list with fewer than 3 fields")
	}
}

func TestNameDistinguishesDistinctPayments(t *testing.T) {
	var nonce, ph1, ph2 hashcore.Hash
	nonce[0], ph1[0], ph2[0] = 1, 2, 3
	a := payment.NotarizedPayment{Payment: payment.Payment{PuzzleHash: ph1, Amount: 100}, Nonce: nonce}
	b := payment.NotarizedPayment{Payment: payment.Payment{PuzzleHash: ph2, Amount: 100}, Nonce: nonce}
	if a.Name() == b.Name() {
		t.Error("expected payments with distinct puzzle hashes to have distinct names")
	}

	c := payment.NotarizedPayment{Payment: payment.Payment{PuzzleHash: ph1, Amount: 100}, Nonce: nonce}
	if a.Name() != c.Name() {
		t.Error("expected identical payments to have identical names")
	}
}

func TestNameDistinguishesNonce(t *testing.T) {
	var nonceA, nonceB, ph hashcore.Hash
	nonceA[0], nonceB[0], ph[0] = 1, 2, 3
	a := payment.NotarizedPayment{Payment: payment.Payment{PuzzleHash: ph, Amount: 100}, Nonce: nonceA}
	b := payment.NotarizedPayment{Payment: payment.Payment{PuzzleHash: ph, Amount: 100}, Nonce: nonceB}
	if a.Name() == b.Name() {
		t.Error("expected the same payment under distinct nonces to have distinct names")
	}
}
