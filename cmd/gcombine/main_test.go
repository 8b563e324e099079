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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/gcombine/internal/cli"
)

const testInput = `func @f {
bb.0:
  %0:_(p0) = COPY $a0
  %1:_(s8) = G_LOAD %0(p0) :: (load 1)
  %2:_(s32) = G_ZEXT %1(s8)
  $v0 = COPY %2(s32)
  RetRA implicit $v0
}
`

func TestRun_Stdin(t *testing.T) {
	var out, errW bytes.Buffer
	require.NoError(t, run(strings.NewReader(testInput), &out, &errW, []string{"-verify"}))
	assert.Contains(t, out.String(), "%2:_(s32) = G_ZEXTLOAD %0(p0) :: (load 1)")
	assert.NotContains(t, out.String(), "G_LOAD")
}

func TestRun_FilesAndConfig(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.gmir")
	res := filepath.Join(dir, "out.gmir")
	conf := filepath.Join(dir, "pipeline.hcl")
	require.NoError(t, os.WriteFile(in, []byte(testInput), 0o644))
	require.NoError(t, os.WriteFile(conf, []byte("verify = true\npipeline {\n  passes = [\"mips-prelegalizer-combiner\"]\n}\n"), 0o644))

	var out, errW bytes.Buffer
	require.NoError(t, run(strings.NewReader(""), &out, &errW, []string{"-config", conf, "-o", res, "-log-level", "debug", in}))
	assert.Empty(t, out.String())
	data, err := os.ReadFile(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), "G_ZEXTLOAD")
	assert.Contains(t, errW.String(), "combining finished")
}

func TestRun_Errors(t *testing.T) {
	var out, errW bytes.Buffer
	err := run(strings.NewReader(""), &out, &errW, []string{"-log-format", "xml"})
	var ee *cli.ExitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 2, exitCode(err))

	/* bad input is a runtime error */
	err = run(strings.NewReader("func @f {\n"), &out, &errW, nil)
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	/* missing files too */
	err = run(strings.NewReader(""), &out, &errW, []string{filepath.Join(t.TempDir(), "missing.gmir")})
	assert.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
}
