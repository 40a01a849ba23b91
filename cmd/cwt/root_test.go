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
	"testing"

	"github.com/go-quicktest/qt"
)

func TestResolveSchemaDirFlagOverridesConfig(t *testing.T) {
	root := newRootCmd()
	qt.Assert(t, qt.IsNil(root.PersistentFlags().Set(flagSchemaDir, "flag_schemas")))

	dir := resolveSchemaDir(root, projectConfig{SchemaDir: "config_schemas"})
	qt.Assert(t, qt.Equals(dir, "flag_schemas"))
}

func TestResolveSchemaDirFallsBackToConfigWhenFlagUnset(t *testing.T) {
	root := newRootCmd()
	dir := resolveSchemaDir(root, projectConfig{SchemaDir: "config_schemas"})
	qt.Assert(t, qt.Equals(dir, "config_schemas"))
}

func TestNewRootCmdRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	qt.Assert(t, qt.IsTrue(names["check"]))
	qt.Assert(t, qt.IsTrue(names["type"]))
	qt.Assert(t, qt.IsTrue(names["completions"]))
}
