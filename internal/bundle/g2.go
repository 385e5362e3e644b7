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

package bundle

import (
	"fmt"
	"sync"

	"github.com/herumi/bls-eth-go-binary/bls"
)

var blsInitOnce sync.Once

func ensureBLSInit() {
	blsInitOnce.Do(func() {
		if err := bls.Init(bls.BLS12_381); err != nil {
			panic(fmt.Errorf("bls init: %w", err))
		}
		bls.SetETHmode(bls.EthModeDraft07)
	})
}

// G2Element is an aggregated BLS12-381 G2 signature, the type every
// coin spend's signature is combined into.
type G2Element struct {
	sig bls.Sign
}

// InfinityG2 is the identity element: aggregating it with any signature
// leaves that signature unchanged. It is the empty bundle's signature.
func InfinityG2() G2Element {
	ensureBLSInit()
	return G2Element{}
}

// G2FromBytes deserializes a compressed G2 signature.
func G2FromBytes(b []byte) (G2Element, error) {
	ensureBLSInit()
	var g G2Element
	if len(b) == 0 {
		return g, nil
	}
	if err := g.sig.Deserialize(b); err != nil {
		return G2Element{}, fmt.Errorf("invalid G2 element: %w", err)
	}
	return g, nil
}

// Bytes serializes g to its compressed form.
func (g G2Element) Bytes() []byte {
	return g.sig.Serialize()
}

// Add returns g aggregated with other, in place of scalar addition over
// the G2 group.
func (g G2Element) Add(other G2Element) G2Element {
	ensureBLSInit()
	sum := g.sig
	sum.Add(&other.sig)
	return G2Element{sig: sum}
}

// AggregateG2 combines a sequence of G2 elements into one, the same
// way a bundle aggregates every coin spend's individual signature.
func AggregateG2(elements ...G2Element) G2Element {
	ensureBLSInit()
	agg := G2Element{}
	for _, e := range elements {
		agg = agg.Add(e)
	}
	return agg
}
