// Copyright 2026 The CWTools Authors
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

// Package intern implements the process-global string interner described in
// spec §3: every identifier, name, and scope name used as a key is
// canonicalised to a small integer handle, with a case-insensitive variant
// used throughout the schema loader and navigator.
//
// Exactly one [Interner] exists per process (spec §3 invariant "Interner
// handles from different interners are not mixed"); callers obtain it via
// [Default].
package intern

import (
	"sync"

	"golang.org/x/text/cases"
)

// Sym is an interned string handle. The zero Sym is never produced by
// [Interner.Intern]; it is reserved to mean "no symbol".
type Sym uint32

// Interner canonicalises strings to [Sym] handles, concurrently (spec §5
// "Shared resources": "concurrent insert-or-lookup; handles are
// immutable").
type Interner struct {
	mu      sync.RWMutex
	byText  map[string]Sym
	byFold  map[string]Sym // case-folded text -> the first Sym seen for it
	strings []string       // index 0 unused; Sym(i) -> strings[i]
	folds   []Sym          // Sym(i) -> canonical case-insensitive Sym
	caser   cases.Caser
}

// New creates an empty Interner. Most callers should use [Default] instead;
// New exists for isolated tests that must not share interned state.
func New() *Interner {
	return &Interner{
		byText:  make(map[string]Sym),
		byFold:  make(map[string]Sym),
		strings: []string{""},
		folds:   []Sym{0},
		caser:   cases.Fold(),
	}
}

var (
	defaultOnce sync.Once
	defaultInst *Interner
)

// Default returns the single process-global Interner.
func Default() *Interner {
	defaultOnce.Do(func() { defaultInst = New() })
	return defaultInst
}

// Intern returns the Sym for s, creating one if s has not been seen before.
func (in *Interner) Intern(s string) Sym {
	in.mu.RLock()
	if sym, ok := in.byText[s]; ok {
		in.mu.RUnlock()
		return sym
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if sym, ok := in.byText[s]; ok {
		return sym
	}
	sym := Sym(len(in.strings))
	in.strings = append(in.strings, s)
	in.byText[s] = sym

	folded := in.caser.String(s)
	foldSym, ok := in.byFold[folded]
	if !ok {
		foldSym = sym
		in.byFold[folded] = sym
	}
	in.folds = append(in.folds, foldSym)
	return sym
}

// Lookup returns the Sym for s without interning it, reporting whether it
// had already been seen.
func (in *Interner) Lookup(s string) (Sym, bool) {
	in.mu.RLock()
	defer in.mu.RUnlock()
	sym, ok := in.byText[s]
	return sym, ok
}

// Resolve returns the original string for sym. Resolving the zero Sym or a
// Sym from a different Interner panics, matching the invariant that handles
// are never mixed across interners.
func (in *Interner) Resolve(sym Sym) string {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if sym == 0 || int(sym) >= len(in.strings) {
		panic("intern: Sym not produced by this Interner")
	}
	return in.strings[sym]
}

// Fold returns the canonical Sym for sym's case-insensitive equivalence
// class: [Interner.Fold] of two Syms compares equal iff the two original
// strings are equal up to ASCII/Unicode case folding (spec §8 "Round-trip
// of interner ... case-insensitive variant: equal up to ASCII case").
func (in *Interner) Fold(sym Sym) Sym {
	in.mu.RLock()
	defer in.mu.RUnlock()
	if sym == 0 || int(sym) >= len(in.folds) {
		panic("intern: Sym not produced by this Interner")
	}
	return in.folds[sym]
}

// EqualFold reports whether a and b denote the same string up to case.
func (in *Interner) EqualFold(a, b Sym) bool {
	return in.Fold(a) == in.Fold(b)
}

// Intern is a package-level convenience calling [Default].Intern.
func Intern(s string) Sym { return Default().Intern(s) }

// Resolve is a package-level convenience calling [Default].Resolve.
func Resolve(sym Sym) string { return Default().Resolve(sym) }
