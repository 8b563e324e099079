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

package opts

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrDefault(t *testing.T) {
	t.Setenv("GCOMBINE_TEST_BOOL", "")
	assert.True(t, parseOrDefault("GCOMBINE_TEST_BOOL", true))
	t.Setenv("GCOMBINE_TEST_BOOL", "1")
	assert.True(t, parseOrDefault("GCOMBINE_TEST_BOOL", false))
	t.Setenv("GCOMBINE_TEST_BOOL", "false")
	assert.False(t, parseOrDefault("GCOMBINE_TEST_BOOL", true))
	t.Setenv("GCOMBINE_TEST_BOOL", "maybe")
	assert.Panics(t, func() { parseOrDefault("GCOMBINE_TEST_BOOL", true) })
}

func TestStringOrDefault(t *testing.T) {
	t.Setenv("GCOMBINE_TEST_STR", "")
	assert.Equal(t, "mips", stringOrDefault("GCOMBINE_TEST_STR", "mips"))
	t.Setenv("GCOMBINE_TEST_STR", "other")
	assert.Equal(t, "other", stringOrDefault("GCOMBINE_TEST_STR", "mips"))
}

func TestGetDefaultOptions(t *testing.T) {
	o := GetDefaultOptions()
	assert.Equal(t, Target, o.Target)
	assert.Equal(t, Verify, o.Verify)
	assert.False(t, o.EraseTriviallyDead)
	assert.Nil(t, o.Passes)
	o.Debug = true
	assert.Equal(t, slog.LevelDebug, o.LogLevel())
	o.Debug = false
	assert.Equal(t, slog.LevelInfo, o.LogLevel())
}
