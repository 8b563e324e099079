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

// Reg is either a virtual register or a physical register, the two spaces
// are distinguished by the top bit.
type Reg uint32

const (
    _B_phys  = 31
    _R_phys  = 1 << _B_phys
    _R_index = _R_phys - 1
)

// NoReg is never allocated by RegInfo.
const NoReg Reg = _R_index

func mkvreg(i int) Reg {
    if i < 0 || i >= _R_index {
        panic(fmt.Sprintf("gmir: virtual register index out of range: %d", i))
    } else {
        return Reg(i)
    }
}

func mkpreg(i int) Reg {
    if i < 0 || i >= _R_index {
        panic(fmt.Sprintf("gmir: physical register index out of range: %d", i))
    } else {
        return Reg(i) | _R_phys
    }
}

func (self Reg) IsPhysical() bool { return self & _R_phys != 0 }
func (self Reg) IsVirtual() bool  { return self != NoReg && self & _R_phys == 0 }
func (self Reg) Index() int       { return int(self & _R_index) }

// RegInfo keeps the types of virtual registers together with their def and
// use lists. Only operands of instructions that are inserted into a block
// are on the lists.
type RegInfo struct {
    types []LLT
    defs  [][]*Operand
    uses  [][]*Operand
    phys  []string
    pmap  map[string]Reg
}

func newRegInfo() *RegInfo {
    return &RegInfo {
        pmap: make(map[string]Reg),
    }
}

// NumVRegs returns the number of virtual registers ever created.
func (self *RegInfo) NumVRegs() int {
    return len(self.types)
}

// CreateVReg allocates a new virtual register of type ty.
func (self *RegInfo) CreateVReg(ty LLT) Reg {
    r := mkvreg(len(self.types))
    self.types = append(self.types, ty)
    self.defs = append(self.defs, nil)
    self.uses = append(self.uses, nil)
    return r
}

// CloneVReg allocates a new virtual register with the same type as r.
func (self *RegInfo) CloneVReg(r Reg) Reg {
    return self.CreateVReg(self.Type(r))
}

// vreg makes sure virtual register #i exists, used when reading textual IR
// where register numbers are explicit. Every register below i is created as
// well, so callers must bound i.
func (self *RegInfo) vreg(i int) Reg {
    for len(self.types) <= i {
        self.CreateVReg(LLT{})
    }
    return mkvreg(i)
}

// PhysReg interns a physical register by name.
func (self *RegInfo) PhysReg(name string) Reg {
    if r, ok := self.pmap[name]; ok {
        return r
    }

    /* allocate a new one */
    r := mkpreg(len(self.phys))
    self.pmap[name] = r
    self.phys = append(self.phys, name)
    return r
}

func (self *RegInfo) Type(r Reg) LLT {
    if !r.IsVirtual() || r.Index() >= len(self.types) {
        return LLT{}
    } else {
        return self.types[r.Index()]
    }
}

func (self *RegInfo) SetType(r Reg, ty LLT) {
    if !r.IsVirtual() {
        panic("gmir: cannot set type of non-virtual register " + self.Name(r))
    } else {
        self.types[r.Index()] = ty
    }
}

// Name formats r the way the text format spells it.
func (self *RegInfo) Name(r Reg) string {
    switch {
        case r == NoReg                               : return "%noreg"
        case r.IsVirtual()                            : return fmt.Sprintf("%%%d", r.Index())
        case r.Index() < len(self.phys)               : return "$" + self.phys[r.Index()]
        default                                       : return fmt.Sprintf("$phys%d", r.Index())
    }
}

// Uses returns the use operands of r in list order.
func (self *RegInfo) Uses(r Reg) []*Operand {
    if !r.IsVirtual() || r.Index() >= len(self.uses) {
        return nil
    } else {
        return append([]*Operand(nil), self.uses[r.Index()]...)
    }
}

// UseInstrs returns the instructions using r, each reported once.
func (self *RegInfo) UseInstrs(r Reg) []*Instr {
    var ret []*Instr
    var set map[*Instr]struct{}

    /* deduplicate by the parent instruction */
    for _, op := range self.Uses(r) {
        if _, ok := set[op.mi]; !ok {
            if set == nil {
                set = make(map[*Instr]struct{})
            }
            set[op.mi] = struct{}{}
            ret = append(ret, op.mi)
        }
    }
    return ret
}

func (self *RegInfo) UseEmpty(r Reg) bool {
    return len(self.Uses(r)) == 0
}

func (self *RegInfo) HasOneUse(r Reg) bool {
    return len(self.Uses(r)) == 1
}

// Defs returns every def operand of r, more than one only when the function
// is not in SSA form or is in the middle of a rewrite.
func (self *RegInfo) Defs(r Reg) []*Operand {
    if !r.IsVirtual() || r.Index() >= len(self.defs) {
        return nil
    } else {
        return append([]*Operand(nil), self.defs[r.Index()]...)
    }
}

// DefInstr returns the unique defining instruction of r, or nil.
func (self *RegInfo) DefInstr(r Reg) *Instr {
    if d := self.Defs(r); len(d) != 1 {
        return nil
    } else {
        return d[0].mi
    }
}

// ReplaceRegWith rewrites every operand referring to from, defs included.
func (self *RegInfo) ReplaceRegWith(from Reg, to Reg) {
    for _, op := range self.Defs(from) { op.SetReg(to) }
    for _, op := range self.Uses(from) { op.SetReg(to) }
}

func (self *RegInfo) track(op *Operand) {
    if op.Kind != K_reg || !op.reg.IsVirtual() {
        return
    }

    /* make sure the register exists */
    i := op.reg.Index()
    self.vreg(i)

    /* add to the corresponding list */
    if op.Def {
        self.defs[i] = append(self.defs[i], op)
    } else {
        self.uses[i] = append(self.uses[i], op)
    }
}

func (self *RegInfo) untrack(op *Operand) {
    if op.Kind != K_reg || !op.reg.IsVirtual() || op.reg.Index() >= len(self.types) {
        return
    }

    /* select the list */
    i := op.reg.Index()
    p := &self.uses[i]

    /* def operands are on another list */
    if op.Def {
        p = &self.defs[i]
    }

    /* remove the operand, preserving the order */
    for j, v := range *p {
        if v == op {
            *p = append((*p)[:j], (*p)[j + 1:]...)
            return
        }
    }
}
