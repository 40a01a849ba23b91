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

package main

import (
	"fmt"
	"path/filepath"

	"github.com/cwtools/cwtools-go/ast"
	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/navigate"
	"github.com/cwtools/cwtools-go/parser"
	"github.com/cwtools/cwtools-go/query"
	"github.com/cwtools/cwtools-go/scopedtype"
	"github.com/cwtools/cwtools-go/typecache"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <script-dir>",
		Short: "validate a directory of script documents against the loaded schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigFromFlags(cmd)
			if err != nil {
				return err
			}
			cache, schemaErrs := buildCache(resolveSchemaDir(cmd, cfg), cfg.queryConfig())
			for _, e := range schemaErrs {
				fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
			}

			c := checker{cache: cache, cfg: cfg.queryConfig()}
			var diagCount int
			walkErr := walkCWTFiles(args[0], ".txt", func(path string, data []byte) error {
				mod, err := parser.ParseScript(path, data)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					diagCount++
					return nil
				}
				for _, d := range c.checkModule(path, mod) {
					fmt.Fprintln(cmd.ErrOrStderr(), d)
					diagCount++
				}
				return nil
			})
			if walkErr != nil {
				return walkErr
			}
			if diagCount > 0 {
				return fmt.Errorf("%d issue(s) found", diagCount)
			}
			return nil
		},
	}
	return cmd
}

// checker validates script modules against the type named by each
// top-level entity's containing directory (spec §6's check surface
// combined with §5's TypeDefinition.Path file/folder convention).
type checker struct {
	cache *typecache.Cache
	cfg   query.Config
}

func (c checker) checkModule(path string, mod *ast.Module) []string {
	namespace, ok := c.namespaceFor(path)
	if !ok {
		return nil
	}
	var diags []string
	for _, key := range mod.Properties.Keys() {
		for _, expr := range mod.Properties.Get(key) {
			entity, ok := expr.Value.(*ast.Entity)
			if !ok {
				continue
			}
			info, found := query.GetTypeFromAST(c.cache, namespace, entity, "")
			if !found {
				continue
			}
			diags = append(diags, c.walk(path, info.Type, entity)...)
		}
	}
	return diags
}

func (c checker) namespaceFor(path string) (intern.Sym, bool) {
	dir := filepath.ToSlash(filepath.Dir(path))
	for name, td := range c.cache.Model.Types {
		if td.Path == dir {
			return name, true
		}
	}
	return 0, false
}

// walk descends scoped's properties against entity's actual key/value
// pairs, recursing into nested entities and reporting every step that
// fails to navigate (spec §6's check surface; §4.4 for Navigate itself).
func (c checker) walk(path string, scoped scopedtype.ScopedType, entity *ast.Entity) []string {
	var diags []string
	for _, key := range entity.Properties.Keys() {
		for _, expr := range entity.Properties.Get(key) {
			result := c.cache.Navigator.Navigate(scoped, key)
			switch result.Kind {
			case navigate.NotFound:
				if c.cfg.ReportUnknownScopes {
					diags = append(diags, fmt.Sprintf("%s: unknown property %q", path, intern.Resolve(key)))
				}
			case navigate.ScopeErrorResult:
				diags = append(diags, fmt.Sprintf("%s: %s", path, result.Err.Error()))
			case navigate.Success:
				if child, ok := expr.Value.(*ast.Entity); ok {
					next := result.One
					if len(result.Union.Candidates) > 0 {
						next = result.Union.Candidates[0]
					}
					diags = append(diags, c.walk(path, next, child)...)
				}
			}
		}
	}
	return diags
}
