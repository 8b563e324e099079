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

package gmir

import (
    `testing`

    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

type recordingDelegate struct {
    inserted []*Instr
    erased   []*Instr
}

func (self *recordingDelegate) InstrInserted(mi *Instr) { self.inserted = append(self.inserted, mi) }
func (self *recordingDelegate) InstrErasing(mi *Instr)  { self.erased = append(self.erased, mi) }

func TestLLT_Parse(t *testing.T) {
    for _, s := range []string { "s1", "s8", "s32", "s64", "p0", "p3" } {
        ty, ok := ParseLLT(s)
        require.True(t, ok, s)
        assert.Equal(t, s, ty.String())
    }
    for _, s := range []string { "", "s", "s0", "x8", "s-1", "p", "s99999" } {
        _, ok := ParseLLT(s)
        assert.False(t, ok, s)
    }
    assert.Equal(t, PointerSizeInBits, Pointer(0).SizeInBits())
    assert.Equal(t, 3, Pointer(3).AddressSpace())
    assert.Equal(t, "_", LLT{}.String())
    assert.Panics(t, func() { Scalar(8).AddressSpace() })
}

func TestOpcode_Table(t *testing.T) {
    ops := Opcodes()
    require.Len(t, ops, int(_OpMax) - 1)
    for _, op := range ops {
        found, ok := LookupOpcode(op.String())
        require.True(t, ok, op.String())
        assert.Equal(t, op, found)
    }
    _, ok := LookupOpcode("<invalid>")
    assert.False(t, ok)
    assert.False(t, OpInvalid.IsValid())
    assert.True(t, G_ZEXTLOAD.IsLoad())
    assert.True(t, G_ANYEXT.IsExtend())
    assert.False(t, G_TRUNC.IsExtend())
    assert.True(t, G_BRCOND.IsTerminator())
    assert.True(t, G_STORE.HasSideEffects())
    assert.Equal(t, "<opcode 999>", Opcode(999).String())
}

func TestRegInfo_Tracking(t *testing.T) {
    fn, err := ParseFunc(testLoadExt)
    require.NoError(t, err)
    regs := fn.Regs
    bb := fn.Blocks[0]

    /* use and def lists */
    ld := bb.Instrs()[1]
    ext := bb.Instrs()[2]
    v1 := ld.Operand(0).Reg()
    assert.Same(t, ld, regs.DefInstr(v1))
    assert.True(t, regs.HasOneUse(v1))
    assert.Equal(t, []*Instr { ext }, regs.UseInstrs(v1))

    /* re-pointing an operand moves it between the lists */
    v9 := regs.CloneVReg(v1)
    assert.Equal(t, Scalar(8), regs.Type(v9))
    ext.Operand(1).SetReg(v9)
    assert.True(t, regs.UseEmpty(v1))
    assert.True(t, regs.HasOneUse(v9))

    /* erasing an instruction drops its operands */
    ext.Operand(1).SetReg(v1)
    ext.EraseFromParent()
    assert.True(t, regs.UseEmpty(v1))
    assert.Nil(t, regs.DefInstr(ext.Operand(0).Reg()))
    assert.Nil(t, ext.Parent())
    assert.Equal(t, "$a0", regs.Name(regs.PhysReg("a0")))
    assert.Equal(t, "%noreg", regs.Name(NoReg))
}

func TestRegInfo_ReplaceRegWith(t *testing.T) {
    fn, err := ParseFunc("func @f {\nbb.0:\n  %0:_(s32) = COPY $a0\n  %1:_(s32) = COPY $a1\n  %2:_(s32) = G_ADD %0(s32), %0(s32)\n  $v0 = COPY %2(s32)\n}\n")
    require.NoError(t, err)
    regs := fn.Regs
    add := fn.Blocks[0].Instrs()[2]
    v0 := add.Operand(1).Reg()
    v1 := fn.Blocks[0].Instrs()[1].Operand(0).Reg()

    /* both uses and the def move over */
    regs.ReplaceRegWith(v0, v1)
    assert.Equal(t, v1, add.Operand(1).Reg())
    assert.Equal(t, v1, add.Operand(2).Reg())
    assert.Empty(t, regs.Defs(v0))
    assert.Len(t, regs.Defs(v1), 2)
    assert.Len(t, regs.Uses(v1), 2)
    assert.Equal(t, []*Instr { add }, regs.UseInstrs(v1))
}

func TestBuilder_Delegate(t *testing.T) {
    fn, err := ParseFunc(testLoadExt)
    require.NoError(t, err)
    bb := fn.Blocks[0]
    ld := bb.Instrs()[1]
    ext := bb.Instrs()[2]

    /* install a delegate */
    dg := new(recordingDelegate)
    require.Nil(t, fn.SetDelegate(dg))

    /* insertions go through the delegate */
    b := NewBuilder(fn)
    b.SetInstr(ext)
    v := fn.Regs.CreateVReg(Scalar(4))
    tr := b.BuildTrunc(v, ld.Operand(0).Reg())
    assert.Equal(t, []*Instr { tr }, dg.inserted)
    assert.Equal(t, 2, bb.Index(tr))
    assert.Same(t, tr, bb.Next(ld))
    assert.Equal(t, "%3:_(s4) = G_TRUNC %1(s8)", tr.String())

    /* and so do removals */
    tr.EraseFromParent()
    assert.Equal(t, []*Instr { tr }, dg.erased)
    assert.Panics(t, func() { tr.EraseFromParent() })

    /* restoring the old delegate */
    assert.Same(t, dg, fn.SetDelegate(nil))
    b.SetInsertPt(bb, nil)
    b.BuildCopy(fn.Regs.CloneVReg(v), v)
    assert.Len(t, dg.inserted, 1)
    assert.Equal(t, COPY, bb.Instrs()[bb.Len() - 1].Op)
}

func TestBuilder_ForeignBlock(t *testing.T) {
    f1 := NewFunc("a")
    f2 := NewFunc("b")
    bb := f2.NewBlock()
    assert.Panics(t, func() { NewBuilder(f1).SetInsertPt(bb, nil) })
    assert.Panics(t, func() { NewBuilder(f1).BuildInstr(RetRA) })
}

func TestPostOrder_Diamond(t *testing.T) {
    fn, err := ParseFunc(testBranches)
    require.NoError(t, err)
    var ids []int
    for _, bb := range PostOrder(fn) {
        ids = append(ids, bb.Id)
    }
    assert.Equal(t, []int { 3, 2, 1, 0 }, ids)
}

func TestPostOrder_Unreachable(t *testing.T) {
    fn, err := ParseFunc("func @f {\nbb.0:\n  G_BR %bb.2\nbb.1:\n  RetRA\nbb.2:\n  G_BR %bb.0\n}\n")
    require.NoError(t, err)
    var ids []int
    for _, bb := range PostOrder(fn) {
        ids = append(ids, bb.Id)
    }
    assert.Equal(t, []int { 2, 0 }, ids)
    assert.Empty(t, PostOrder(NewFunc("empty")))
}

func TestFunc_NewBlockAfterSparseLabels(t *testing.T) {
    fn, err := ParseFunc("func @f {\nbb.1:\n  G_BR %bb.4\nbb.4:\n  RetRA\n}\n")
    require.NoError(t, err)
    bb := fn.NewBlock()
    assert.Equal(t, 5, bb.Id)
    assert.Equal(t, 6, fn.NewBlock().Id)
    assert.NotPanics(t, func() { _ = Verify(fn) })
    assert.Equal(t, 0, NewFunc("empty").NewBlock().Id)
}

func TestDead_TriviallyDead(t *testing.T) {
    fn, err := ParseFunc(`func @f {
bb.0:
  %0:_(p0) = COPY $a0
  %1:_(s8) = G_LOAD %0(p0) :: (load 1)
  %2:_(s8) = G_LOAD %0(p0) :: (volatile load 1)
  %3:_(s32) = G_CONSTANT i32 7
  %4:_(s32) = G_CONSTANT i32 8
  G_STORE %4(s32), %0(p0) :: (store 4)
  $v0 = COPY %0(p0)
  RetRA implicit $v0
}
`)
    require.NoError(t, err)
    ins := fn.Blocks[0].Instrs()
    assert.False(t, IsTriviallyDead(ins[0]))
    assert.True(t, IsTriviallyDead(ins[1]))
    assert.False(t, IsTriviallyDead(ins[2]))
    assert.True(t, IsTriviallyDead(ins[3]))
    assert.False(t, IsTriviallyDead(ins[4]))
    assert.False(t, IsTriviallyDead(ins[5]))
    assert.False(t, IsTriviallyDead(ins[6]))
    assert.False(t, IsTriviallyDead(ins[7]))
}

func TestShape_Changes(t *testing.T) {
    fn, err := ParseFunc(testBranches)
    require.NoError(t, err)
    before := ShapeOf(fn)
    assert.Equal(t, Shape("0->2,1;1->3;2->3;3->;"), before)

    /* instruction changes keep the shape */
    fn.Blocks[1].Instrs()[0].SetOpcode(G_SUB)
    assert.Equal(t, before, ShapeOf(fn))

    /* retargeting a branch does not */
    fn.Blocks[1].Instrs()[1].Operand(0).Block = fn.Blocks[2]
    fn.UpdateEdges()
    assert.NotEqual(t, before, ShapeOf(fn))
}
