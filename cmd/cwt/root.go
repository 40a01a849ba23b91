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
	"github.com/spf13/cobra"
)

// flagSchemaDir and flagConfig are registered as persistent flags on the
// root command so every subcommand shares the same project-location
// conventions (grounded on cmd/cue/cmd's addGlobalFlags pattern).
const (
	flagSchemaDir = "schema-dir"
	flagConfig    = "config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cwt",
		Short:         "cwt inspects script documents against a loaded schema",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().String(flagConfig, "cwt.yaml", "project configuration file")
	root.PersistentFlags().String(flagSchemaDir, "", "schema directory (overrides the config file)")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newTypeCmd())
	root.AddCommand(newCompletionsCmd())
	return root
}

// resolveSchemaDir applies the --schema-dir override over the project
// config's schema_dir, matching cmd/cue/cmd's flag-overrides-config
// convention.
func resolveSchemaDir(cmd *cobra.Command, cfg projectConfig) string {
	if f := cmd.Flag(flagSchemaDir); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return cfg.SchemaDir
}

func loadConfigFromFlags(cmd *cobra.Command) (projectConfig, error) {
	path, _ := cmd.Flags().GetString(flagConfig)
	return loadProjectConfig(path)
}
