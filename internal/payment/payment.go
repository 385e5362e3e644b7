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

// Package payment defines the payment and notarized-payment values an
// offer's settlement solutions are built from.
package payment

import (
	"fmt"

	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/program"
)

// Payment is a single requested or offered output: send amount to
// puzzle hash, carrying memos for the receiving wallet.
type Payment struct {
	PuzzleHash hashcore.Hash
	Amount     uint64
	Memos      [][]byte
}

// AsConditionArgs renders p as the [puzzle_hash, amount, memos] tail
// used inside a notarized payment condition.
func (p Payment) AsConditionArgs() program.Program {
	return program.ToList([]program.Program{
		program.FromHash(p.PuzzleHash),
		program.FromUint64(p.Amount),
		program.FromBytesList(p.Memos),
	})
}

// NotarizedPayment is a Payment tagged with the nonce that binds it to
// a particular offer, so that the settlement puzzle can assert the
// counterparty announced exactly this payment.
type NotarizedPayment struct {
	Payment
	Nonce hashcore.Hash
}

// AsCondition renders np as the [nonce, puzzle_hash, amount, memos]
// list a settlement solution carries.
func (np NotarizedPayment) AsCondition() program.Program {
	return program.Pair(program.FromHash(np.Nonce), np.AsConditionArgs())
}

// FromCondition parses a [nonce, puzzle_hash, amount, memos?] list back
// into a NotarizedPayment.
func FromCondition(p program.Program) (NotarizedPayment, error) {
	fields, ok := p.AsIter()
	if !ok || len(fields) < 3 {
		return NotarizedPayment{}, fmt.Errorf(
			"malformed notarized payment: expected at least 3 fields",
		)
	}
	nonce, ok := program.ToHash(fields[0])
	if !ok {
		return NotarizedPayment{}, fmt.Errorf("malformed notarized payment: bad nonce")
	}
	puzzleHash, ok := program.ToHash(fields[1])
	if !ok {
		return NotarizedPayment{}, fmt.Errorf("malformed notarized payment: bad puzzle hash")
	}
	amount, ok := program.ToUint64(fields[2])
	if !ok {
		return NotarizedPayment{}, fmt.Errorf("malformed notarized payment: bad amount")
	}
	var memos [][]byte
	if len(fields) > 3 {
		memos, ok = program.ToBytesList(fields[3])
		if !ok {
			return NotarizedPayment{}, fmt.Errorf("malformed notarized payment: bad memos")
		}
	}
	return NotarizedPayment{
		Payment: Payment{PuzzleHash: puzzleHash, Amount: amount, Memos: memos},
		Nonce:   nonce,
	}, nil
}

// Name is the tree hash of np's condition form, used as the settlement
// puzzle's per-payment announcement message.
func (np NotarizedPayment) Name() hashcore.Hash {
	return np.AsCondition().TreeHash()
}
