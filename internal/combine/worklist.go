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
    `github.com/oleiade/lane`

    `github.com/cloudwego/gcombine/internal/gmir`
)

type _WorkItem struct {
    mi *gmir.Instr
    id uint64
}

// WorkList is a LIFO of instructions without duplicates. Removal is lazy:
// the stack keeps the stale entry, which is skipped when it surfaces.
type WorkList struct {
    st *lane.Stack
    in map[*gmir.Instr]uint64
    id uint64
}

func NewWorkList() *WorkList {
    return &WorkList {
        st: lane.NewStack(),
        in: make(map[*gmir.Instr]uint64),
    }
}

func (self *WorkList) Empty() bool {
    return len(self.in) == 0
}

func (self *WorkList) Size() int {
    return len(self.in)
}

func (self *WorkList) Contains(mi *gmir.Instr) bool {
    _, ok := self.in[mi]
    return ok
}

// Insert adds mi unless it is already queued.
func (self *WorkList) Insert(mi *gmir.Instr) {
    if _, ok := self.in[mi]; !ok {
        self.id++
        self.in[mi] = self.id
        self.st.Push(&_WorkItem { mi: mi, id: self.id })
    }
}

func (self *WorkList) Remove(mi *gmir.Instr) {
    delete(self.in, mi)
}

// Pop removes and returns the most recently inserted instruction, or nil
// when the list is empty.
func (self *WorkList) Pop() *gmir.Instr {
    for !self.Empty() {
        v := self.st.Pop().(*_WorkItem)
        if id, ok := self.in[v.mi]; ok && id == v.id {
            delete(self.in, v.mi)
            return v.mi
        }
    }
    return nil
}

// WorkListMaintainer keeps a WorkList in sync with the changes made by the
// rules: erased instructions leave the list, changed instructions join it,
// and new instructions join it once ReportFullyCreatedInstrs is called.
type WorkListMaintainer struct {
    wl  *WorkList
    new []*gmir.Instr
}

func NewWorkListMaintainer(wl *WorkList) *WorkListMaintainer {
    return &WorkListMaintainer { wl: wl }
}

func (self *WorkListMaintainer) ErasingInstr(mi *gmir.Instr) {
    self.wl.Remove(mi)
    for i, v := range self.new {
        if v == mi {
            self.new = append(self.new[:i], self.new[i + 1:]...)
            break
        }
    }
}

func (self *WorkListMaintainer) CreatedInstr(mi *gmir.Instr) {
    self.new = append(self.new, mi)
}

func (self *WorkListMaintainer) ChangingInstr(_ *gmir.Instr) {}

func (self *WorkListMaintainer) ChangedInstr(mi *gmir.Instr) {
    self.wl.Insert(mi)
}

// ReportFullyCreatedInstrs queues the instructions created since the last
// call. Instructions are only queued once their operands are final.
func (self *WorkListMaintainer) ReportFullyCreatedInstrs() {
    for _, mi := range self.new {
        self.wl.Insert(mi)
    }
    self.new = self.new[:0]
}
