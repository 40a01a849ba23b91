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

package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cwtools/cwtools-go/intern"
	"github.com/opencontainers/go-digest"
)

// Fingerprint is a stable structural digest of a [Type], used as a
// resolver cache key, for union deduplication, and to detect resolution
// cycles (spec §4.3). Grounded on github.com/opencontainers/go-digest,
// which the schema package's pack sibling (ociregistry) uses for
// content-addressed references — the same "canonical string, then hash"
// idiom applies here to type structure instead of blob bytes.
type Fingerprint = digest.Digest

// fingerprint hashes a canonical textual form of t. Composite types
// recurse into their members' own canonical forms rather than their
// fingerprints, so that the digest is computed in one pass over a single
// builder instead of string-concatenating already-hex-encoded digests.
func fingerprintOf(t Type) Fingerprint {
	var b strings.Builder
	writeCanonical(&b, t)
	return digest.FromString(b.String())
}

func writeCanonical(b *strings.Builder, t Type) {
	switch v := t.(type) {
	case UnknownType:
		b.WriteString("unknown")
	case AnyType:
		b.WriteString("any")
	case SimpleType:
		fmt.Fprintf(b, "simple:%s", v.Kind)
		writeDecimalRangeCanonical(b, v.Range)
	case LiteralType:
		fmt.Fprintf(b, "literal:%s", intern.Resolve(v.Value))
	case LiteralSetType:
		b.WriteString("literalset:[")
		writeSortedSyms(b, v.Values)
		b.WriteString("]")
	case *BlockType:
		writeBlockCanonical(b, v)
	case ArrayType:
		b.WriteString("array:<")
		writeCanonical(b, v.Element)
		b.WriteString(">")
	case UnionType:
		b.WriteString("union:[")
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			var mb strings.Builder
			writeCanonical(&mb, m)
			parts[i] = mb.String()
		}
		sort.Strings(parts)
		b.WriteString(strings.Join(parts, "|"))
		b.WriteString("]")
	case ComparableType:
		b.WriteString("comparable:<")
		writeCanonical(b, v.Inner)
		b.WriteString(">")
	case ReferenceType:
		writeRefCanonical(b, v.Kind)
	default:
		fmt.Fprintf(b, "unhandled:%T", t)
	}
}

func writeDecimalRangeCanonical(b *strings.Builder, r *DecimalRange) {
	if r == nil {
		return
	}
	b.WriteString(":range<")
	if r.Min != nil {
		b.WriteString(r.Min.String())
	}
	b.WriteString("..")
	if r.MaxInf {
		b.WriteString("inf")
	} else if r.Max != nil {
		b.WriteString(r.Max.String())
	}
	b.WriteString(">")
}

func writeSortedSyms(b *strings.Builder, syms []intern.Sym) {
	texts := make([]string, len(syms))
	for i, s := range syms {
		texts[i] = intern.Resolve(s)
	}
	sort.Strings(texts)
	b.WriteString(strings.Join(texts, ","))
}

func writeBlockCanonical(b *strings.Builder, bt *BlockType) {
	b.WriteString("block:{props:[")
	keys := make([]intern.Sym, 0, len(bt.Properties))
	for k := range bt.Properties {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return intern.Resolve(keys[i]) < intern.Resolve(keys[j])
	})
	for i, k := range keys {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(b, "%s=", intern.Resolve(k))
		writeCanonical(b, bt.Properties[k].Type)
	}
	b.WriteString("],patterns:[")
	b.WriteString(strings.Join(sortedPatternPropertyCanon(bt.PatternProperties), "|"))
	b.WriteString("],subtypes:[")
	b.WriteString(strings.Join(sortedSubtypeCanon(bt.Subtypes), "|"))
	b.WriteString("]}")
}

func patternPropertyCanon(pp PatternProperty) string {
	var vb strings.Builder
	writeCanonical(&vb, pp.ValueType)
	return fmt.Sprintf("%d:%s:%s", pp.Kind, resolveOrEmpty(pp.Key), vb.String())
}

func sortedPatternPropertyCanon(pps []PatternProperty) []string {
	parts := make([]string, len(pps))
	for i, pp := range pps {
		parts[i] = patternPropertyCanon(pp)
	}
	sort.Strings(parts)
	return parts
}

func subtypeCanon(key intern.Sym, st Subtype) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:inverted=%v:conditions:[", intern.Resolve(key), st.Inverted)
	condKeys := make([]intern.Sym, 0, len(st.ConditionProperties))
	for k := range st.ConditionProperties {
		condKeys = append(condKeys, k)
	}
	sort.Slice(condKeys, func(i, j int) bool {
		return intern.Resolve(condKeys[i]) < intern.Resolve(condKeys[j])
	})
	for i, k := range condKeys {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%s=", intern.Resolve(k))
		writeCanonical(&b, st.ConditionProperties[k].Type)
	}
	b.WriteString("],allowed:[")
	allowedKeys := make([]intern.Sym, 0, len(st.AllowedProperties))
	for k := range st.AllowedProperties {
		allowedKeys = append(allowedKeys, k)
	}
	sort.Slice(allowedKeys, func(i, j int) bool {
		return intern.Resolve(allowedKeys[i]) < intern.Resolve(allowedKeys[j])
	})
	for i, k := range allowedKeys {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%s=", intern.Resolve(k))
		writeCanonical(&b, st.AllowedProperties[k].Type)
	}
	b.WriteString("],allowedPatterns:[")
	b.WriteString(strings.Join(sortedPatternPropertyCanon(st.AllowedPatternProperties), "|"))
	b.WriteString("]")
	return b.String()
}

func sortedSubtypeCanon(subtypes map[intern.Sym]Subtype) []string {
	keys := make([]intern.Sym, 0, len(subtypes))
	for k := range subtypes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return intern.Resolve(keys[i]) < intern.Resolve(keys[j])
	})
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = subtypeCanon(k, subtypes[k])
	}
	return parts
}

// resolveOrEmpty resolves sym to its text, or "" for the reserved
// zero-value Sym (many RefKind fields are only populated for some tags).
func resolveOrEmpty(sym intern.Sym) string {
	if sym == 0 {
		return ""
	}
	return intern.Resolve(sym)
}

func writeRefCanonical(b *strings.Builder, r RefKind) {
	fmt.Fprintf(b, "ref:%d:%s:%s:%s:%s:%s", r.Tag,
		resolveOrEmpty(r.Key), resolveOrEmpty(r.Category), resolveOrEmpty(r.Name),
		r.Format, r.Path)
	if r.Prefix != nil {
		fmt.Fprintf(b, ":prefix=%s", *r.Prefix)
	}
	if r.Suffix != nil {
		fmt.Fprintf(b, ":suffix=%s", *r.Suffix)
	}
}

func (t UnknownType) Fingerprint() Fingerprint    { return fingerprintOf(t) }
func (t AnyType) Fingerprint() Fingerprint        { return fingerprintOf(t) }
func (t SimpleType) Fingerprint() Fingerprint     { return fingerprintOf(t) }
func (t LiteralType) Fingerprint() Fingerprint    { return fingerprintOf(t) }
func (t LiteralSetType) Fingerprint() Fingerprint { return fingerprintOf(t) }
func (t *BlockType) Fingerprint() Fingerprint     { return fingerprintOf(t) }
func (t ArrayType) Fingerprint() Fingerprint      { return fingerprintOf(t) }
func (t UnionType) Fingerprint() Fingerprint      { return fingerprintOf(t) }
func (t ComparableType) Fingerprint() Fingerprint { return fingerprintOf(t) }
func (t ReferenceType) Fingerprint() Fingerprint  { return fingerprintOf(t) }
