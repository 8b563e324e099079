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
    `strings`
)

// Property is a boolean fact about a function, set by earlier stages.
type Property uint8

const (
    FailedISel Property = 1 << iota
    Legalized
    RegBankSelected
    Selected
)

var _PropNames = [...]struct {
    p Property
    s string
} {
    { FailedISel      , "failedISel"      },
    { Legalized       , "legalized"       },
    { RegBankSelected , "regBankSelected" },
    { Selected        , "selected"        },
}

// LookupProperty finds a property by its textual name.
func LookupProperty(name string) (Property, bool) {
    for _, v := range _PropNames {
        if v.s == name {
            return v.p, true
        }
    }
    return 0, false
}

func (self Property) String() string {
    var ret []string
    for _, v := range _PropNames {
        if self & v.p != 0 {
            ret = append(ret, v.s)
        }
    }
    return strings.Join(ret, " ")
}

// Delegate observes every instruction inserted into or erased from a
// function, regardless of who makes the change.
type Delegate interface {
    InstrInserted(mi *Instr)
    InstrErasing(mi *Instr)
}

// Func is a function body: an ordered list of blocks, the first one being
// the entry block.
type Func struct {
    Name     string
    Blocks   []*Block
    Regs     *RegInfo
    props    Property
    delegate Delegate
}

func NewFunc(name string) *Func {
    return &Func {
        Name: name,
        Regs: newRegInfo(),
    }
}

// NewBlock appends a new empty block to the layout. Its ID is one past the
// largest ID in use, parsed labels may skip numbers.
func (self *Func) NewBlock() *Block {
    id := 0
    for _, v := range self.Blocks {
        if v.Id >= id {
            id = v.Id + 1
        }
    }
    bb := &Block { Id: id, fn: self }
    self.Blocks = append(self.Blocks, bb)
    return bb
}

// Entry returns the entry block, or nil for an empty function.
func (self *Func) Entry() *Block {
    if len(self.Blocks) == 0 {
        return nil
    } else {
        return self.Blocks[0]
    }
}

func (self *Func) Properties() Property        { return self.props }
func (self *Func) HasProperty(p Property) bool { return self.props & p == p }
func (self *Func) SetProperty(p Property)      { self.props |= p }
func (self *Func) ClearProperty(p Property)    { self.props &^= p }

// SetDelegate installs d and returns the previously installed delegate,
// which the caller is expected to restore.
func (self *Func) SetDelegate(d Delegate) Delegate {
    old := self.delegate
    self.delegate = d
    return old
}

// NumInstrs counts the instructions in all blocks.
func (self *Func) NumInstrs() (n int) {
    for _, bb := range self.Blocks {
        n += bb.Len()
    }
    return
}

// ForEachInstr calls fn on every instruction in layout order. The
// instructions must not be inserted or removed while iterating.
func (self *Func) ForEachInstr(fn func(mi *Instr)) {
    for _, bb := range self.Blocks {
        for _, mi := range bb.ins {
            fn(mi)
        }
    }
}

// UpdateEdges recomputes the successor and predecessor lists from the block
// operands of terminators. A block without an unconditional terminator falls
// through into the next block in the layout.
func (self *Func) UpdateEdges() {
    for _, bb := range self.Blocks {
        bb.Pred = bb.Pred[:0]
        bb.Succ = bb.Succ[:0]
    }

    /* scan every block */
    for i, bb := range self.Blocks {
        falls := true

        /* add the explicit edges */
        for _, mi := range bb.ins {
            if mi.Op.IsTerminator() {
                for _, v := range mi.Ops {
                    if v.Kind == K_block {
                        bb.addSucc(v.Block)
                    }
                }
                if mi.Op == G_BR || mi.Op == RetRA {
                    falls = false
                }
            }
        }

        /* add the fall-through edge */
        if falls && i + 1 < len(self.Blocks) {
            bb.addSucc(self.Blocks[i + 1])
        }
    }
}
