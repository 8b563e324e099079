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
    `fmt`
    `strings`
)

type OperandKind uint8

const (
    K_reg OperandKind = iota
    K_imm
    K_block
    K_pred
)

// Operand is a single operand of an instruction. Register operands that are
// attached to an inserted instruction are kept on the use/def lists of their
// function, so the register must only be changed through SetReg.
type Operand struct {
    Kind     OperandKind
    Def      bool
    Implicit bool
    Imm      int64
    Block    *Block
    Pred     string
    reg      Reg
    mi       *Instr
}

func RegDef(r Reg) *Operand          { return &Operand { Kind: K_reg, Def: true, reg: r } }
func RegUse(r Reg) *Operand          { return &Operand { Kind: K_reg, reg: r } }
func ImplicitUse(r Reg) *Operand     { return &Operand { Kind: K_reg, Implicit: true, reg: r } }
func Imm(v int64) *Operand           { return &Operand { Kind: K_imm, Imm: v } }
func BlockRef(bb *Block) *Operand    { return &Operand { Kind: K_block, Block: bb } }
func Predicate(p string) *Operand    { return &Operand { Kind: K_pred, Pred: p } }

func (self *Operand) IsReg() bool     { return self.Kind == K_reg }
func (self *Operand) IsUse() bool     { return self.Kind == K_reg && !self.Def }
func (self *Operand) Reg() Reg        { return self.reg }
func (self *Operand) Parent() *Instr  { return self.mi }

// SetReg re-points a register operand, keeping the use/def lists current.
func (self *Operand) SetReg(r Reg) {
    if self.Kind != K_reg {
        panic("gmir: SetReg on a non-register operand")
    }

    /* detached operands are not on any list */
    regs := self.regs()
    if regs == nil {
        self.reg = r
        return
    }

    /* move between the lists */
    regs.untrack(self)
    self.reg = r
    regs.track(self)
}

func (self *Operand) regs() *RegInfo {
    if self.mi == nil || self.mi.bb == nil || self.mi.bb.fn == nil {
        return nil
    } else {
        return self.mi.bb.fn.Regs
    }
}

// MemOperand describes the memory access of a load or a store. Size is in
// bytes and always describes the memory, not the register.
type MemOperand struct {
    Store    bool
    Volatile bool
    Size     uint64
}

func (self *MemOperand) String() string {
    var sb strings.Builder
    sb.WriteByte('(')

    /* volatile access */
    if self.Volatile {
        sb.WriteString("volatile ")
    }

    /* access kind */
    if self.Store {
        sb.WriteString("store ")
    } else {
        sb.WriteString("load ")
    }

    /* access size */
    fmt.Fprintf(&sb, "%d)", self.Size)
    return sb.String()
}

// Instr is a generic instruction. Defs always come before uses in Ops.
type Instr struct {
    Op  Opcode
    Ops []*Operand
    Mem *MemOperand
    bb  *Block
}

// NewInstr creates a detached instruction, which becomes part of a function
// once inserted into one of its blocks.
func NewInstr(op Opcode, ops ...*Operand) *Instr {
    mi := &Instr { Op: op, Ops: ops }
    for _, v := range ops { v.mi = mi }
    return mi
}

func (self *Instr) Parent() *Block {
    return self.bb
}

func (self *Instr) Operand(i int) *Operand {
    return self.Ops[i]
}

func (self *Instr) NumOperands() int {
    return len(self.Ops)
}

// NumDefs counts the leading def operands.
func (self *Instr) NumDefs() int {
    n := 0
    for n < len(self.Ops) && self.Ops[n].Kind == K_reg && self.Ops[n].Def { n++ }
    return n
}

// Defs returns the def operands.
func (self *Instr) Defs() []*Operand {
    return self.Ops[:self.NumDefs()]
}

// Uses returns the register use operands, implicit ones included.
func (self *Instr) Uses() (r []*Operand) {
    for _, v := range self.Ops {
        if v.IsUse() {
            r = append(r, v)
        }
    }
    return
}

// SetOpcode changes the instruction kind in place. Callers are responsible
// for notifying any observer.
func (self *Instr) SetOpcode(op Opcode) {
    self.Op = op
}

// EraseFromParent unlinks the instruction from its block and from the
// use/def lists.
func (self *Instr) EraseFromParent() {
    if self.bb == nil {
        panic("gmir: erasing a detached instruction: " + self.String())
    } else {
        self.bb.remove(self)
    }
}

// Equal compares two instructions structurally, ignoring their positions.
func (self *Instr) Equal(other *Instr) bool {
    if self.Op != other.Op || len(self.Ops) != len(other.Ops) {
        return false
    }

    /* compare memory operands */
    if (self.Mem == nil) != (other.Mem == nil) || (self.Mem != nil && *self.Mem != *other.Mem) {
        return false
    }

    /* compare every operand */
    for i, a := range self.Ops {
        if b := other.Ops[i]; a.Kind != b.Kind || a.Def != b.Def || a.Implicit != b.Implicit || a.reg != b.reg || a.Imm != b.Imm || a.Block != b.Block || a.Pred != b.Pred {
            return false
        }
    }

    /* all checked ok */
    return true
}

func (self *Instr) String() string {
    if self.bb != nil && self.bb.fn != nil {
        return self.format(self.bb.fn.Regs)
    } else {
        return self.format(nil)
    }
}
