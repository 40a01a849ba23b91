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

package intern

import (
	"testing"

	"github.com/go-quicktest/qt"
)

func TestInternRoundTrip(t *testing.T) {
	in := New()
	sym := in.Intern("owner")
	qt.Assert(t, qt.Equals(in.Resolve(sym), "owner"))
}

func TestInternIdempotent(t *testing.T) {
	in := New()
	a := in.Intern("scope:root")
	b := in.Intern("scope:root")
	qt.Assert(t, qt.Equals(a, b))
}

func TestInternDistinctStrings(t *testing.T) {
	in := New()
	a := in.Intern("foo")
	b := in.Intern("bar")
	qt.Assert(t, qt.Not(qt.Equals(a, b)))
}

func TestLookupReportsMiss(t *testing.T) {
	in := New()
	_, ok := in.Lookup("never-interned")
	qt.Assert(t, qt.IsFalse(ok))
	in.Intern("now-interned")
	sym, ok := in.Lookup("now-interned")
	qt.Assert(t, qt.IsTrue(ok))
	qt.Assert(t, qt.Equals(in.Resolve(sym), "now-interned"))
}

func TestFoldEqualFold(t *testing.T) {
	in := New()
	lower := in.Intern("Owner")
	upper := in.Intern("OWNER")
	qt.Assert(t, qt.IsTrue(in.EqualFold(lower, upper)))

	other := in.Intern("other")
	qt.Assert(t, qt.IsFalse(in.EqualFold(lower, other)))
}

func TestResolveZeroSymPanics(t *testing.T) {
	in := New()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic resolving the zero Sym")
		}
	}()
	in.Resolve(0)
}

func TestDefaultIsSingleton(t *testing.T) {
	qt.Assert(t, qt.Equals(Default(), Default()))
}

func TestPackageLevelHelpers(t *testing.T) {
	sym := Intern("package-level-helper-case")
	qt.Assert(t, qt.Equals(Resolve(sym), "package-level-helper-case"))
}
