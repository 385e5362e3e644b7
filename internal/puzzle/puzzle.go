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

// Package puzzle holds the two compiled puzzle reveals the offer core
// spends coins to and from: the native settlement puzzle and the
// tokenization wrapper that lets a CAT-style asset reuse it. Both are
// loaded once from embedded reveal blobs, mirroring how a wallet loads
// its compiled CLVM modules at process start rather than recompiling
// them from source on every run.
package puzzle

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/blinklabs-io/offerbroker/internal/hashcore"
	"github.com/blinklabs-io/offerbroker/internal/program"
)

//go:embed reveals/native.bin
var nativeReveal []byte

//go:embed reveals/wrapper.bin
var wrapperReveal []byte

// CreateCoinOpcode is the condition opcode identifying a CREATE_COIN
// output: (CREATE_COIN puzzle_hash amount memos?).
const CreateCoinOpcode = 51

var (
	puzzleMu      sync.RWMutex
	nativePuzzle  program.Program
	wrapperPuzzle program.Program
	nativeHash    hashcore.Hash
)

func init() {
	nativePuzzle = program.Atom(nativeReveal)
	wrapperPuzzle = program.Atom(wrapperReveal)
	nativeHash = nativePuzzle.TreeHash()
}

// LoadOverrides replaces the embedded default puzzle reveals with the
// contents of nativePath and/or wrapperPath, mirroring how a wallet can
// be pointed at a rebuilt compiled puzzle file instead of the one it
// shipped with. An empty path leaves that puzzle at its embedded
// default. It must be called before any offer is built or inspected
// concurrently; publication is guarded by puzzleMu so a caller doing so
// at startup, ahead of spawning workers, is safe.
func LoadOverrides(nativePath, wrapperPath string) error {
	var native, wrapper []byte
	if nativePath != "" {
		b, err := os.ReadFile(nativePath)
		if err != nil {
			return fmt.Errorf("loading native puzzle override: %w", err)
		}
		native = b
	}
	if wrapperPath != "" {
		b, err := os.ReadFile(wrapperPath)
		if err != nil {
			return fmt.Errorf("loading wrapper puzzle override: %w", err)
		}
		wrapper = b
	}

	puzzleMu.Lock()
	defer puzzleMu.Unlock()
	if native != nil {
		nativePuzzle = program.Atom(native)
		nativeHash = nativePuzzle.TreeHash()
	}
	if wrapper != nil {
		wrapperPuzzle = program.Atom(wrapper)
	}
	return nil
}

// NativePuzzle returns the settlement puzzle used directly for native
// (non-tokenized) assets.
func NativePuzzle() program.Program {
	puzzleMu.RLock()
	defer puzzleMu.RUnlock()
	return nativePuzzle
}

// NativePuzzleHash returns the tree hash of the native settlement
// puzzle. It is the same for every native-asset offer.
func NativePuzzleHash() hashcore.Hash {
	puzzleMu.RLock()
	defer puzzleMu.RUnlock()
	return nativeHash
}

// ConstructWrapper curries the tokenization wrapper module with tail
// (the asset's identifying tail hash) and inner (the settlement puzzle
// it wraps), returning a program equivalent to currying TOK_MOD with
// those arguments. The result is represented as the canonical 3-element
// list [TOK_MOD, tail, inner] rather than an actual CLVM curry, since
// this module never executes a puzzle reveal through a general
// evaluator: it only ever needs to derive this puzzle's tree hash and,
// given a puzzle reveal, recover (tail, inner) via MatchWrapper.
func ConstructWrapper(tail hashcore.Hash, inner program.Program) program.Program {
	puzzleMu.RLock()
	wrapper := wrapperPuzzle
	puzzleMu.RUnlock()
	return program.ToList([]program.Program{
		wrapper,
		program.FromHash(tail),
		inner,
	})
}

// MatchWrapper reports whether p is shaped like ConstructWrapper's
// output and, if so, returns the tail hash and inner puzzle it was
// built from.
func MatchWrapper(p program.Program) (tail hashcore.Hash, inner program.Program, ok bool) {
	items, ok := p.AsIter()
	if !ok || len(items) != 3 {
		return hashcore.Hash{}, program.Program{}, false
	}
	puzzleMu.RLock()
	wrapperAtom, _ := wrapperPuzzle.AtomBytes()
	puzzleMu.RUnlock()
	modAtom, isAtom := items[0].AtomBytes()
	if !isAtom || string(modAtom) != string(wrapperAtom) {
		return hashcore.Hash{}, program.Program{}, false
	}
	tail, ok = program.ToHash(items[1])
	if !ok {
		return hashcore.Hash{}, program.Program{}, false
	}
	return tail, items[2], true
}

// LineageProof establishes that a tokenized coin's parent was itself a
// validly wrapped coin: the parent's own parent id, the tree hash of
// the inner puzzle the parent ran, and the parent's amount.
type LineageProof struct {
	ParentParentID        hashcore.Hash
	ParentInnerPuzzleHash hashcore.Hash
	ParentAmount          uint64
}

// AsProgram renders lp in the canonical
// [parent_parent_id, parent_inner_puzzle_hash, parent_amount] list form
// a wrapped solution carries.
func (lp LineageProof) AsProgram() program.Program {
	return program.ToList([]program.Program{
		program.FromHash(lp.ParentParentID),
		program.FromHash(lp.ParentInnerPuzzleHash),
		program.FromUint64(lp.ParentAmount),
	})
}

func lineageFromProgram(p program.Program) (LineageProof, bool) {
	fields, ok := p.AsIter()
	if !ok || len(fields) != 3 {
		return LineageProof{}, false
	}
	parentParentID, ok := program.ToHash(fields[0])
	if !ok {
		return LineageProof{}, false
	}
	parentInnerPuzzleHash, ok := program.ToHash(fields[1])
	if !ok {
		return LineageProof{}, false
	}
	parentAmount, ok := program.ToUint64(fields[2])
	if !ok {
		return LineageProof{}, false
	}
	return LineageProof{
		ParentParentID:        parentParentID,
		ParentInnerPuzzleHash: parentInnerPuzzleHash,
		ParentAmount:          parentAmount,
	}, true
}

// WrapSolution builds the solution a wrapped (tokenized) coin's spend
// carries: the lineage proof establishing the parent was validly
// wrapped, the inner puzzle being run, and that puzzle's own solution.
// This is the module's stand-in for the collaborator's
// unsigned_spend_bundle_for_spendable_cats (§6): given the pieces a
// tokenized completion spend needs, it produces the single solution
// program the wrapper puzzle expects.
func WrapSolution(innerPuzzle, innerSolution program.Program, lineage LineageProof) program.Program {
	return program.ToList([]program.Program{
		lineage.AsProgram(),
		innerPuzzle,
		innerSolution,
	})
}

// MatchWrapSolution is WrapSolution's inverse: it reports whether
// solution is shaped like a wrapped coin's solution and, if so, returns
// the lineage proof, inner puzzle, and inner solution it carries.
func MatchWrapSolution(
	solution program.Program,
) (lineage LineageProof, innerPuzzle, innerSolution program.Program, ok bool) {
	items, ok := solution.AsIter()
	if !ok || len(items) != 3 {
		return LineageProof{}, program.Program{}, program.Program{}, false
	}
	lineage, ok = lineageFromProgram(items[0])
	if !ok {
		return LineageProof{}, program.Program{}, program.Program{}, false
	}
	return lineage, items[1], items[2], true
}

// TokenizedPuzzleHash returns the tree hash of the wrapper puzzle
// curried with tail over the native settlement puzzle — the puzzle
// hash a tokenized asset's settlement coins carry.
func TokenizedPuzzleHash(tail hashcore.Hash) hashcore.Hash {
	return ConstructWrapper(tail, NativePuzzle()).TreeHash()
}

// SettlementPuzzleHash returns the settlement puzzle hash for tail:
// the native hash when tail is the zero hash, the tokenized wrapper
// hash over tail otherwise. This mirrors how callers key a settlement
// address off a single optional tail.
func SettlementPuzzleHash(tail hashcore.Hash) hashcore.Hash {
	if tail.IsZero() {
		return NativePuzzleHash()
	}
	return TokenizedPuzzleHash(tail)
}

// RunSettlement evaluates the settlement puzzle against solution, a
// list of notarized-payment conditions, returning one CREATE_COIN
// condition per payment. It ignores each payment's nonce: the nonce is
// only meaningful to the counterparty verifying the announcement it
// produced, not to the coin created.
func RunSettlement(solution program.Program) ([]program.Program, error) {
	payments, ok := solution.AsIter()
	if !ok {
		return nil, fmt.Errorf("malformed settlement solution: not a list")
	}
	out := make([]program.Program, 0, len(payments))
	for _, pay := range payments {
		fields, ok := pay.AsIter()
		if !ok || len(fields) < 3 {
			return nil, fmt.Errorf("malformed notarized payment condition")
		}
		puzzleHash, amount := fields[1], fields[2]
		args := []program.Program{
			program.FromUint64(CreateCoinOpcode),
			puzzleHash,
			amount,
		}
		if len(fields) > 3 {
			args = append(args, fields[3])
		}
		out = append(out, program.ToList(args))
	}
	return out, nil
}
