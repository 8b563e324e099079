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
)

// Block is a basic block. Instructions are only added and removed through
// its methods so that the owning function can track them.
type Block struct {
    Id   int
    Pred []*Block
    Succ []*Block
    ins  []*Instr
    fn   *Func
}

func (self *Block) String() string {
    return fmt.Sprintf("bb.%d", self.Id)
}

// Parent returns the function the block belongs to.
func (self *Block) Parent() *Func {
    return self.fn
}

// Instrs returns the instructions of the block. The slice must not be
// modified, and is invalidated by any insertion or removal.
func (self *Block) Instrs() []*Instr {
    return self.ins
}

func (self *Block) Len() int {
    return len(self.ins)
}

func (self *Block) Empty() bool {
    return len(self.ins) == 0
}

// Index returns the position of mi within the block, or -1.
func (self *Block) Index(mi *Instr) int {
    for i, v := range self.ins {
        if v == mi {
            return i
        }
    }
    return -1
}

// FirstTerminator returns the first terminator, or nil.
func (self *Block) FirstTerminator() *Instr {
    for _, v := range self.ins {
        if v.Op.IsTerminator() {
            return v
        }
    }
    return nil
}

// FirstNonPHI returns the first instruction that is not a G_PHI, or nil.
func (self *Block) FirstNonPHI() *Instr {
    for _, v := range self.ins {
        if v.Op != G_PHI {
            return v
        }
    }
    return nil
}

// Next returns the instruction right after mi, or nil.
func (self *Block) Next(mi *Instr) *Instr {
    if i := self.Index(mi); i < 0 || i == len(self.ins) - 1 {
        return nil
    } else {
        return self.ins[i + 1]
    }
}

// Insert inserts mi before the instruction before, or at the end of the
// block when before is nil.
func (self *Block) Insert(before *Instr, mi *Instr) {
    if mi.bb != nil {
        panic("gmir: instruction is already inserted: " + mi.String())
    }

    /* find the insertion point */
    i := len(self.ins)
    if before != nil {
        if i = self.Index(before); i < 0 {
            panic("gmir: insertion point is not in " + self.String())
        }
    }

    /* insert the instruction */
    self.ins = append(self.ins, nil)
    copy(self.ins[i + 1:], self.ins[i:])
    self.ins[i] = mi
    mi.bb = self

    /* track the register operands, and notify the delegate */
    if self.fn != nil {
        for _, v := range mi.Ops {
            self.fn.Regs.track(v)
        }
        if self.fn.delegate != nil {
            self.fn.delegate.InstrInserted(mi)
        }
    }
}

// Append adds mi at the end of the block.
func (self *Block) Append(mi *Instr) {
    self.Insert(nil, mi)
}

func (self *Block) remove(mi *Instr) {
    i := self.Index(mi)
    if i < 0 {
        panic("gmir: instruction is not in " + self.String())
    }

    /* notify before the instruction goes away */
    if self.fn != nil {
        if self.fn.delegate != nil {
            self.fn.delegate.InstrErasing(mi)
        }
        for _, v := range mi.Ops {
            self.fn.Regs.untrack(v)
        }
    }

    /* remove from the list */
    copy(self.ins[i:], self.ins[i + 1:])
    self.ins[len(self.ins) - 1] = nil
    self.ins = self.ins[:len(self.ins) - 1]
    mi.bb = nil
}

func (self *Block) addSucc(bb *Block) {
    for _, v := range self.Succ {
        if v == bb {
            return
        }
    }
    self.Succ = append(self.Succ, bb)
    bb.Pred = append(bb.Pred, self)
}
