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

// Package main implements the cwt command line tool: a thin terminal
// surface over this module's parser, schema loader, and query packages
// (spec §6, grounded on cuelang.org/go's cmd/cue/cmd package for command
// structure and error-printing conventions).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwtools/cwtools-go/errors"
	"github.com/cwtools/cwtools-go/parser"
	"github.com/cwtools/cwtools-go/query"
	"github.com/cwtools/cwtools-go/schema"
	"github.com/cwtools/cwtools-go/typecache"
	"gopkg.in/yaml.v3"
)

// projectConfig mirrors the query.Config bundle plus the on-disk roots a
// project file points at, loaded from a YAML file named cwt.yaml at the
// project root (spec §6 "a configuration bundle").
type projectConfig struct {
	SchemaDir            string `yaml:"schema_dir"`
	ReportUnknownScopes  bool   `yaml:"report_unknown_scopes"`
	ValidateLocalisation bool   `yaml:"validate_localisation"`
	MaxScopeDepth        int    `yaml:"max_scope_depth"`
}

func defaultProjectConfig() projectConfig {
	return projectConfig{SchemaDir: "schemas", MaxScopeDepth: 32}
}

func loadProjectConfig(path string) (projectConfig, error) {
	cfg := defaultProjectConfig()
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c projectConfig) queryConfig() query.Config {
	return query.Config{
		ReportUnknownScopes:  c.ReportUnknownScopes,
		ValidateLocalisation: c.ValidateLocalisation,
		MaxScopeDepth:        c.MaxScopeDepth,
	}
}

// walkCWTFiles calls fn for every file under dir whose name ends in ext,
// in a stable, sorted order.
func walkCWTFiles(dir, ext string, fn func(path string, data []byte) error) error {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := fn(path, data); err != nil {
			return err
		}
	}
	return nil
}

func buildCache(schemaDir string, cfg query.Config) (*typecache.Cache, errors.List) {
	var errs errors.List
	model := schema.NewModel()
	walkErr := walkCWTFiles(schemaDir, ".cwt", func(path string, data []byte) error {
		mod, err := parser.ParseSchema(path, data)
		if err != nil {
			errs.Add(asError(err))
			return nil
		}
		partial, loadErrs := schema.Load(mod)
		errs = append(errs, loadErrs...)
		mergeModel(model, partial)
		return nil
	})
	if walkErr != nil {
		errs.Addf(0, "%s: %v", schemaDir, walkErr)
	}
	return typecache.New(model, nil, cfg), errs
}

// mergeModel copies every entry of src into dst; later files win on key
// collision, matching the loader's own last-write-wins behaviour within a
// single document.
func mergeModel(dst, src *schema.Model) {
	for k, v := range src.Types {
		dst.Types[k] = v
	}
	for k, v := range src.Enums {
		dst.Enums[k] = v
	}
	for k, v := range src.ComplexEnums {
		dst.ComplexEnums[k] = v
	}
	for k, v := range src.ValueSets {
		dst.ValueSets[k] = v
	}
	for k, v := range src.SingleAliases {
		dst.SingleAliases[k] = v
	}
	for k, v := range src.Links {
		dst.Links[k] = v
	}
	for k, v := range src.Scopes {
		dst.Scopes[k] = v
	}
	for k, v := range src.ScopeGroups {
		dst.ScopeGroups[k] = v
	}
	for k, v := range src.Aliases {
		dst.Aliases[k] = v
	}
}

func asError(err error) errors.Error {
	if e, ok := err.(errors.Error); ok {
		return e
	}
	return errors.Newf(0, "%v", err)
}
