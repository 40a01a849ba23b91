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

package ast

// Inspect traverses an AST in depth-first order, calling f for every node
// it visits (including n itself), in the shape of cue/ast.Walk /
// go/ast.Inspect. Traversal of a subtree stops early if f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *Module:
		inspectProperties(n.Properties, f)
		for _, v := range n.Items {
			Inspect(v, f)
		}
	case *Entity:
		inspectProperties(n.Properties, f)
		for _, v := range n.Items {
			Inspect(v, f)
		}
		for _, c := range n.Conditionals {
			Inspect(c, f)
		}
	case *ConditionalBlock:
		inspectProperties(n.Properties, f)
		for _, v := range n.Items {
			Inspect(v, f)
		}
	case *Expression:
		Inspect(n.Value, f)
	case *SimpleValueAtom:
		if n.Range != nil {
			Inspect(n.Range, f)
		}
	case *CommentOption:
		for _, e := range n.Entries {
			Inspect(e, f)
		}
	case *OptionEntry:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *OptionBlock:
		for _, e := range n.Entries {
			Inspect(e, f)
		}
	}
}

func inspectProperties(p *Properties, f func(Node) bool) {
	if p == nil {
		return
	}
	for _, key := range p.Keys() {
		for _, expr := range p.Get(key) {
			Inspect(expr, f)
		}
	}
}
