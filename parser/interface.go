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

package parser

import (
	"github.com/cwtools/cwtools-go/ast"
	"github.com/cwtools/cwtools-go/token"
)

// ParseScript parses a script-dialect document (spec §3 "Script AST",
// §4.1). filename is used only for diagnostics and to recognise the
// `99_README` placeholder convention (see below); it need not be a real
// path.
//
// A module whose filename contains "99_README" is treated as an empty,
// already-valid module without being scanned at all — game packs ship such
// files purely as human documentation, and they are frequently not valid
// documents in either dialect (spec §4.1, grounded on the original parser's
// early return for the same convention).
func ParseScript(filename string, src []byte) (*ast.Module, error) {
	return runParse(filename, src, false)
}

// ParseSchema parses a schema-dialect document (spec §3 "Schema AST",
// §4.1).
func ParseSchema(filename string, src []byte) (*ast.Module, error) {
	return runParse(filename, src, true)
}

func runParse(filename string, src []byte, schema bool) (m *ast.Module, err error) {
	if isReadmePlaceholder(filename) {
		empty := &ast.Module{Filename: filename, Properties: ast.NewProperties()}
		empty.SetSpan(token.Span{Start: token.Pos(1), End: token.Pos(1)})
		return empty, nil
	}

	p := newParser(filename, src, schema)
	defer func() {
		switch r := recover().(type) {
		case nil:
			// fall through; success or errors already recorded
		case bailout:
			// a fatal error was already appended to p.errs
		default:
			panic(r)
		}
		if e := p.errs.Err(); e != nil {
			err = e
			m = nil
		}
	}()

	mod := p.parseModule()
	if p.sc.Ch() >= 0 {
		p.fail(p.sc.Pos(), "EOF", "unexpected trailing input")
	}
	if e := p.errs.Err(); e != nil {
		return nil, e
	}
	return mod, nil
}

func isReadmePlaceholder(filename string) bool {
	return containsFold(filename, "99_README")
}

func containsFold(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if equalFold(s[i:i+len(substr)], substr) {
			return true
		}
	}
	return false
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
