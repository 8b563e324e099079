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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/gcombine/internal/opts"
)

func TestLoad_Full(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
target = "mips"
verify = true

pipeline {
  passes               = ["mips-prelegalizer-combiner", "mips-prelegalizer-combiner"]
  erase_trivially_dead = true
}
`), 0o644))

	file, err := Load(path)
	require.NoError(t, err)
	o := opts.Options{Target: "other"}
	file.Apply(&o)
	assert.Equal(t, "mips", o.Target)
	assert.True(t, o.Verify)
	assert.True(t, o.EraseTriviallyDead)
	assert.Equal(t, []string{"mips-prelegalizer-combiner", "mips-prelegalizer-combiner"}, o.Passes)
}

func TestParse_Partial(t *testing.T) {
	file, err := Parse([]byte("verify = false\n"), "partial.hcl")
	require.NoError(t, err)
	o := opts.Options{Target: "mips", Verify: true, Passes: []string{"keep"}}
	file.Apply(&o)
	assert.False(t, o.Verify)
	assert.Equal(t, "mips", o.Target)
	assert.Equal(t, []string{"keep"}, o.Passes)
	assert.Nil(t, file.Pipeline)
}

func TestParse_Errors(t *testing.T) {
	for name, src := range map[string]string{
		"syntax":        "target = \n",
		"unknown_attr":  "speed = 3\n",
		"wrong_type":    "verify = \"yes\"\n",
		"empty_pass":    "pipeline {\n  passes = [\"\"]\n}\n",
		"unknown_block": "stage {}\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src), name+".hcl")
			assert.Error(t, err)
		})
	}
	_, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}
