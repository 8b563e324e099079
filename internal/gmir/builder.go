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

// Builder creates instructions at an insertion point. Insertions go through
// the block, so the delegate of the function sees every one of them.
type Builder struct {
    fn *Func
    bb *Block
    at *Instr
}

func NewBuilder(fn *Func) *Builder {
    return &Builder { fn: fn }
}

func (self *Builder) Func() *Func {
    return self.fn
}

// SetInsertPt makes the builder insert before the instruction before, or at
// the end of bb when before is nil.
func (self *Builder) SetInsertPt(bb *Block, before *Instr) {
    if bb.fn != self.fn {
        panic("gmir: insertion point is in another function")
    } else {
        self.bb, self.at = bb, before
    }
}

// SetInstr makes the builder insert right before mi.
func (self *Builder) SetInstr(mi *Instr) {
    self.SetInsertPt(mi.bb, mi)
}

// BuildInstr creates an instruction and inserts it at the insertion point.
func (self *Builder) BuildInstr(op Opcode, ops ...*Operand) *Instr {
    if self.bb == nil {
        panic("gmir: builder has no insertion point")
    }

    /* create and insert the instruction */
    mi := NewInstr(op, ops...)
    self.bb.Insert(self.at, mi)
    return mi
}

func (self *Builder) BuildTrunc(dst Reg, src Reg) *Instr {
    return self.BuildInstr(G_TRUNC, RegDef(dst), RegUse(src))
}

func (self *Builder) BuildCopy(dst Reg, src Reg) *Instr {
    return self.BuildInstr(COPY, RegDef(dst), RegUse(src))
}
