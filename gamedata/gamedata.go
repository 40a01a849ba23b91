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

// Package gamedata declares the read-only game-data collaborator the
// resolver and navigator consult for facts this module does not itself
// load: namespace key sets and scripted-effect argument lists (spec §6
// "Game-data interface consumed by the resolver").
//
// Neither cuelang.org/go nor the rest of the pack has a matching
// "external directory of loaded data" collaborator to ground this on
// directly; it mirrors original_source/lsp/src/handlers/cache's general
// pattern of depending on a trait rather than a concrete file-walking
// loader, so resolver/navigator tests can supply a fake without touching
// a filesystem (spec §1 Non-goals: game-data loading itself is out of
// scope).
package gamedata

import "github.com/cwtools/cwtools-go/intern"

// Source is implemented by whatever loads and indexes the game-data
// directory this module's caller is validating against. The resolver and
// navigator only ever read through this interface.
type Source interface {
	// KeysOf returns the set of entity keys declared under namespacePath
	// (spec §4.3 "Type(key) resolves to a LiteralSet of the namespace
	// keys associated with the type's path"), or (nil, false) if the
	// namespace is unknown to this source.
	KeysOf(namespacePath string) (keys []intern.Sym, ok bool)

	// KeysSetOf is the value_set/value variant: the set of keys recorded
	// under a named value set/path (spec §4.3 "ValueSet(key)/Value(key)
	// resolves to LiteralSet(values)").
	KeysSetOf(namespacePath string) (keys []intern.Sym, ok bool)

	// ScriptedEffectArguments returns the declared argument names of the
	// scripted effect named name (spec §4.4 step 9 "Scripted-effect
	// parameter pattern"), or (nil, false) if name isn't a known scripted
	// effect.
	ScriptedEffectArguments(name intern.Sym) (args []intern.Sym, ok bool)
}

// Empty is a zero-value [Source] that knows nothing; useful as a default
// when no game-data directory has been configured (spec §6 "these
// functions may return None/empty when data isn't loaded").
type Empty struct{}

func (Empty) KeysOf(string) ([]intern.Sym, bool)                  { return nil, false }
func (Empty) KeysSetOf(string) ([]intern.Sym, bool)               { return nil, false }
func (Empty) ScriptedEffectArguments(intern.Sym) ([]intern.Sym, bool) { return nil, false }
