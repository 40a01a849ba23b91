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

package resolve

import (
	"sort"

	"github.com/cwtools/cwtools-go/schema"
	"github.com/mpvl/unique"
)

// Dedupe preserves first-occurrence order and removes later duplicates by
// fingerprint (spec §4.3 "dedupe(list) preserves first-occurrence order
// and removes later duplicates by fingerprint").
//
// Grounded on github.com/mpvl/unique's sort-then-compact idiom: members
// are sorted by fingerprint via unique.Sort (which also merges adjacent
// equal runs), then restored to first-occurrence order by the original
// index recorded alongside each entry.
func Dedupe(members []schema.Type) []schema.Type {
	entries := make(fingerprintEntries, len(members))
	for i, m := range members {
		entries[i] = fingerprintEntry{fp: m.Fingerprint(), t: m, firstIndex: i}
	}
	n := unique.Sort(entries)
	entries = entries[:n]
	sort.Slice(entries, func(i, j int) bool { return entries[i].firstIndex < entries[j].firstIndex })
	out := make([]schema.Type, len(entries))
	for i, e := range entries {
		out[i] = e.t
	}
	return out
}

// FlattenUnion inlines nested unions and hands the result to [Dedupe],
// producing Unknown on empty, the sole element on size 1, Union(rest)
// otherwise (spec §4.3 "flatten_union(list) ... the combined helper
// produces Unknown on empty, the sole element on size 1, Union(rest)
// otherwise").
func FlattenUnion(members []schema.Type) schema.Type {
	var flat []schema.Type
	for _, m := range members {
		if u, ok := m.(schema.UnionType); ok {
			flat = append(flat, u.Members...)
			continue
		}
		flat = append(flat, m)
	}
	deduped := Dedupe(flat)
	switch len(deduped) {
	case 0:
		return schema.UnknownType{}
	case 1:
		return deduped[0]
	default:
		return schema.UnionType{Members: deduped}
	}
}

type fingerprintEntry struct {
	fp         schema.Fingerprint
	t          schema.Type
	firstIndex int
}

type fingerprintEntries []fingerprintEntry

func (e fingerprintEntries) Len() int      { return len(e) }
func (e fingerprintEntries) Swap(i, j int) { e[i], e[j] = e[j], e[i] }
func (e fingerprintEntries) Less(i, j int) bool {
	return e[i].fp.String() < e[j].fp.String()
}

// Merge is called by unique.Sort for each adjacent equal-fingerprint pair;
// keeping the lower firstIndex preserves first-occurrence order once the
// result is re-sorted by it.
func (e fingerprintEntries) Merge(i, j int) {
	if e[j].firstIndex < e[i].firstIndex {
		e[i].firstIndex = e[j].firstIndex
	}
}
