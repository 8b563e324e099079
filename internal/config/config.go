/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads pipeline files written in HCL:
//
//	target = "mips"
//	verify = true
//
//	pipeline {
//	  passes               = ["mips-prelegalizer-combiner"]
//	  erase_trivially_dead = false
//	}
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
)

// File is the decoded content of a pipeline file. Unset attributes are
// nil, so that they do not override other sources.
type File struct {
	Target   *string   `hcl:"target,optional"`
	Verify   *bool     `hcl:"verify,optional"`
	Pipeline *Pipeline `hcl:"pipeline,block"`
}

type Pipeline struct {
	Passes             []string `hcl:"passes,optional"`
	EraseTriviallyDead *bool    `hcl:"erase_trivially_dead,optional"`
}

// Load parses and decodes the pipeline file at path.
func Load(path string) (*File, error) {
	f, diags := hclparse.NewParser().ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}
	return decode(path, f.Body)
}

// Parse decodes a pipeline file held in memory, filename is only used in
// diagnostics.
func Parse(src []byte, filename string) (*File, error) {
	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decode(filename, f.Body)
}
