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

package combine

import (
    `bytes`
    `log/slog`
    `strings`
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`

    `github.com/cloudwego/gcombine/internal/gmir`
    `github.com/cloudwego/gcombine/internal/pass`
)

type loadCombinerInfo struct {
    seen []gmir.Opcode
}

func (self *loadCombinerInfo) Combine(obs Observer, mi *gmir.Instr, b *gmir.Builder) bool {
    self.seen = append(self.seen, mi.Op)
    if mi.Op.IsLoad() {
        return NewHelper(obs, b, nil).TryCombineExtendingLoads(mi)
    } else {
        return false
    }
}

type nopDelegate struct {
    n int
}

func (self *nopDelegate) InstrInserted(*gmir.Instr) { self.n++ }
func (self *nopDelegate) InstrErasing(*gmir.Instr)  { self.n++ }

const testChain = `func @f {
bb.0:
  %0:_(p0) = COPY $a0
  %1:_(s8) = G_LOAD %0(p0) :: (load 1)
  %2:_(s16) = G_SEXT %1(s8)
  %3:_(s32) = G_SEXT %2(s16)
  $v0 = COPY %3(s32)
  RetRA implicit $v0
}
`

func combineText(t *testing.T, src string, tpc *pass.TargetPassConfig) (*gmir.Func, bool, *loadCombinerInfo) {
    fn, err := gmir.ParseFunc(src)
    require.NoError(t, err)
    info := new(loadCombinerInfo)
    ok := NewCombiner(info, tpc).CombineMachineInstrs(fn)
    return fn, ok, info
}

func TestCombiner_Requeue(t *testing.T) {
    fn, ok, _ := combineText(t, testChain, pass.NewTargetPassConfig("test", nil))
    require.True(t, ok)
    requireText(t, `func @f {
bb.0:
  %0:_(p0) = COPY $a0
  %3:_(s32) = G_SEXTLOAD %0(p0) :: (load 1)
  $v0 = COPY %3(s32)
  RetRA implicit $v0
}
`, fn)
}

func TestCombiner_FixedPoint(t *testing.T) {
    tpc := pass.NewTargetPassConfig("test", nil)
    fn, ok, _ := combineText(t, testChain, tpc)
    require.True(t, ok)

    /* a second run finds nothing to do */
    text := fn.String()
    info := new(loadCombinerInfo)
    assert.False(t, NewCombiner(info, tpc).CombineMachineInstrs(fn))
    assert.Equal(t, text, fn.String())
    assert.Equal(t, []gmir.Opcode { gmir.COPY, gmir.G_SEXTLOAD, gmir.COPY, gmir.RetRA }, info.seen)
}

func TestCombiner_VisitsNewInstrs(t *testing.T) {
    _, ok, info := combineText(t, `func @f {
bb.0:
  %0:_(p0) = COPY $a0
  %1:_(s8) = G_LOAD %0(p0) :: (load 1)
  %2:_(s32) = G_ZEXT %1(s8)
  G_STORE %1(s8), %0(p0) :: (store 1)
  RetRA
}
`, pass.NewTargetPassConfig("test", nil))
    require.True(t, ok)
    assert.Contains(t, info.seen, gmir.G_TRUNC)
    assert.NotContains(t, info.seen, gmir.G_ZEXT)
}

func TestCombiner_DeadSweep(t *testing.T) {
    src := `func @f {
bb.0:
  %0:_(s32) = G_CONSTANT i32 7
  %1:_(s32) = G_ADD %0, %0
  RetRA
}
`
    /* unrelated instructions are left alone by default */
    tpc := pass.NewTargetPassConfig("test", nil)
    fn, ok, _ := combineText(t, src, tpc)
    assert.False(t, ok)
    assert.Equal(t, 3, fn.NumInstrs())

    /* the sweep erases whole dead chains */
    tpc.EraseTriviallyDead = true
    fn, ok, _ = combineText(t, src, tpc)
    assert.True(t, ok)
    assert.Equal(t, 1, fn.NumInstrs())
}

func TestCombiner_RestoresDelegate(t *testing.T) {
    fn, err := gmir.ParseFunc(testChain)
    require.NoError(t, err)
    dg := new(nopDelegate)
    fn.SetDelegate(dg)
    require.True(t, NewCombiner(new(loadCombinerInfo), pass.NewTargetPassConfig("test", nil)).CombineMachineInstrs(fn))
    assert.Same(t, dg, fn.SetDelegate(nil))
    assert.Zero(t, dg.n)
}

func TestCombiner_EmptyFunc(t *testing.T) {
    fn := gmir.NewFunc("empty")
    assert.False(t, NewCombiner(new(loadCombinerInfo), pass.NewTargetPassConfig("test", nil)).CombineMachineInstrs(fn))
}

func TestCombiner_DebugLog(t *testing.T) {
    var buf bytes.Buffer
    log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions { Level: slog.LevelDebug }))
    _, ok, _ := combineText(t, testChain, pass.NewTargetPassConfig("test", log))
    require.True(t, ok)
    out := buf.String()
    assert.True(t, strings.Contains(out, "try combining"), out)
    assert.True(t, strings.Contains(out, "msg=erasing"), out)
    assert.True(t, strings.Contains(out, "component=combiner"), out)
}
