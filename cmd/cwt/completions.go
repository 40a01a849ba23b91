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

	"github.com/cwtools/cwtools-go/intern"
	"github.com/cwtools/cwtools-go/query"
	"github.com/spf13/cobra"
)

func newCompletionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completions <namespace> [property.path]",
		Short: "list completion candidates at a namespace and dotted property path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfigFromFlags(cmd)
			if err != nil {
				return err
			}
			cache, schemaErrs := buildCache(resolveSchemaDir(cmd, cfg), cfg.queryConfig())
			for _, e := range schemaErrs {
				fmt.Fprintln(cmd.ErrOrStderr(), e.Error())
			}

			var path string
			if len(args) == 2 {
				path = args[1]
			}
			info, ok := query.GetType(cache, intern.Intern(args[0]), path)
			if !ok || info == nil {
				return fmt.Errorf("no type found at %s.%s", args[0], path)
			}
			for _, sym := range query.Completions(cache, info.Type) {
				fmt.Fprintln(cmd.OutOrStdout(), intern.Resolve(sym))
			}
			return nil
		},
	}
	return cmd
}
