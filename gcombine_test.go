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

package gcombine

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/gcombine/internal/pass"
)

const testModule = `
; two functions, only the first one can be combined
func @sext {
bb.0:
  %0:_(p0) = COPY $a0
  %1:_(s8) = G_LOAD %0(p0) :: (load 1)
  %2:_(s32) = G_SEXT %1(s8)
  $v0 = COPY %2(s32)
  RetRA implicit $v0
}

func @skipped failedISel {
bb.0:
  %0:_(p0) = COPY $a0
  %1:_(s16) = G_LOAD %0(p0) :: (load 2)
  %2:_(s32) = G_ZEXT %1(s16)
  $v0 = COPY %2(s32)
  RetRA implicit $v0
}
`

func TestCombine_Module(t *testing.T) {
	out, changed, err := Combine(testModule, WithVerify(true))
	require.NoError(t, err)
	assert.True(t, changed)
	expect := `func @sext {
bb.0:
  %0:_(p0) = COPY $a0
  %2:_(s32) = G_SEXTLOAD %0(p0) :: (load 1)
  $v0 = COPY %2(s32)
  RetRA implicit $v0
}

func @skipped failedISel {
bb.0:
  %0:_(p0) = COPY $a0
  %1:_(s16) = G_LOAD %0(p0) :: (load 2)
  %2:_(s32) = G_ZEXT %1(s16)
  $v0 = COPY %2(s32)
  RetRA implicit $v0
}
`
	if diff := cmp.Diff(expect, out); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}

	/* running again changes nothing */
	again, changed, err := Combine(out)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, out, again)
}

func TestCombine_Empty(t *testing.T) {
	out, changed, err := Combine("; nothing here\n")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Empty(t, out)
}

func TestCombine_SyntaxError(t *testing.T) {
	_, _, err := Combine("func @f {\nbb.0:\n  G_NOPE\n}\n")
	var se SyntaxError
	require.True(t, errors.As(err, &se), "%v", err)
	assert.Equal(t, 3, se.Line)
	assert.Equal(t, 3, se.Col)
	assert.Contains(t, se.Error(), "line 3")
}

func TestCombine_UnknownTarget(t *testing.T) {
	_, _, err := Combine(testModule, WithTarget("sparc"))
	var pe PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Error(), "sparc")
	assert.Equal(t, []string{"mips"}, Targets())
}

func TestCombine_UnknownPass(t *testing.T) {
	_, _, err := Combine(testModule, WithPasses("mips-prelegalizer-combiner", "nope"))
	var pe PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Error(), "nope")
}

func TestCombine_EmptyPipeline(t *testing.T) {
	assert.Panics(t, func() { WithPasses("") })
	assert.Panics(t, func() { WithTarget("") })
}

func TestCombine_VerifyFailure(t *testing.T) {
	_, _, err := Combine("func @bad {\nbb.0:\n  %0:_(s32) = COPY $a0\n  %1:_(s16) = G_SEXT %0(s32)\n  RetRA\n}\n", WithVerify(true))
	var pe PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bad", pe.Func)
	var vf *pass.VerifyFailedError
	assert.True(t, errors.As(err, &vf))
}

func TestCombine_Logger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	_, changed, err := Combine(testModule, WithLogger(log), WithDeadCodeSweep(false))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, strings.Contains(buf.String(), `"pass":"MipsPreLegalizerCombiner"`), buf.String())
}
