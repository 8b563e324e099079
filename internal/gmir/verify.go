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

    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/simple`
    `gonum.org/v1/gonum/graph/traverse`
)

// VerifyError lists every problem found in a function.
type VerifyError struct {
    Func     string
    Problems []string
}

func (self *VerifyError) Error() string {
    return fmt.Sprintf("gmir: bad function @%s: %s", self.Func, strings.Join(self.Problems, "; "))
}

type _Verifier struct {
    fn   *Func
    errs []string
}

func (self *_Verifier) reportf(format string, args ...interface{}) {
    self.errs = append(self.errs, fmt.Sprintf(format, args...))
}

// Verify checks the structural invariants of fn.
func Verify(fn *Func) error {
    v := &_Verifier { fn: fn }
    v.checkLayout()
    v.checkDefs()
    v.checkReachability()

    /* check every instruction */
    fn.ForEachInstr(v.checkInstr)
    if len(v.errs) == 0 {
        return nil
    } else {
        return &VerifyError { Func: fn.Name, Problems: v.errs }
    }
}

func (self *_Verifier) checkLayout() {
    for _, bb := range self.fn.Blocks {
        term := false
        body := false

        /* Phi nodes first, terminators last */
        for _, mi := range bb.ins {
            if mi.bb != bb {
                self.reportf("%s: instruction %q has a wrong parent", bb, mi)
            }
            switch {
                case mi.Op == G_PHI && body   : self.reportf("%s: G_PHI after non-Phi instructions", bb)
                case mi.Op.IsTerminator()     : term = true
                case term                     : self.reportf("%s: %q after a terminator", bb, mi)
            }
            if mi.Op != G_PHI {
                body = true
            }
        }
    }
}

func (self *_Verifier) checkDefs() {
    regs := self.fn.Regs
    for i := 0; i < regs.NumVRegs(); i++ {
        r := mkvreg(i)
        d := regs.Defs(r)

        /* SSA form requires exactly one definition */
        if len(d) > 1 {
            self.reportf("%s has %d definitions", regs.Name(r), len(d))
        } else if len(d) == 0 && !regs.UseEmpty(r) {
            self.reportf("%s is used but never defined", regs.Name(r))
        } else if len(d) == 1 && !regs.Type(r).IsValid() {
            self.reportf("%s has no type", regs.Name(r))
        }
    }
}

func (self *_Verifier) checkReachability() {
    blocks := self.fn.Blocks
    if len(blocks) == 0 {
        return
    }

    /* graph nodes are identified by block IDs */
    node := func(bb *Block) graph.Node {
        return simple.Node(bb.Id)
    }

    /* build the block graph, self loops do not affect reachability */
    cfg := simple.NewDirectedGraph()
    for _, bb := range blocks {
        cfg.AddNode(node(bb))
    }
    for _, bb := range blocks {
        for _, s := range bb.Succ {
            if s != bb {
                cfg.SetEdge(cfg.NewEdge(node(bb), node(s)))
            }
        }
    }

    /* walk from the entry block */
    dfs := traverse.DepthFirst{}
    dfs.Walk(cfg, node(blocks[0]), nil)

    /* values used in reachable code must be defined in reachable code */
    live := func(bb *Block) bool { return dfs.Visited(node(bb)) }
    for _, bb := range blocks {
        if !live(bb) {
            continue
        }
        for _, mi := range bb.ins {
            for _, op := range mi.Uses() {
                if d := self.fn.Regs.DefInstr(op.reg); d != nil && d.bb != nil && !live(d.bb) {
                    self.reportf("%s: %s is defined in unreachable %s", bb, self.fn.Regs.Name(op.reg), d.bb)
                }
            }
        }
    }
}

func (self *_Verifier) checkInstr(mi *Instr) {
    regs := self.fn.Regs
    defs := mi.Defs()
    uses := mi.Uses()

    /* the width of the i-th register operand */
    width := func(ops []*Operand, i int) int {
        if i >= len(ops) {
            return 0
        } else {
            return regs.Type(ops[i].reg).SizeInBits()
        }
    }

    /* check for opcode specific constraints */
    switch op := mi.Op; {
        case !op.IsValid(): {
            self.reportf("%q has an invalid opcode", mi)
        }

        /* extensions and truncations */
        case op.IsExtend() || op == G_TRUNC: {
            if len(defs) != 1 || len(uses) != 1 {
                self.reportf("%q must have one def and one use", mi)
            } else if !regs.Type(defs[0].reg).IsScalar() || !regs.Type(uses[0].reg).IsScalar() {
                self.reportf("%q must operate on scalars", mi)
            } else if op.IsExtend() && width(defs, 0) <= width(uses, 0) {
                self.reportf("%q must widen its operand", mi)
            } else if op == G_TRUNC && width(defs, 0) >= width(uses, 0) {
                self.reportf("%q must narrow its operand", mi)
            }
        }

        /* memory accesses */
        case op.IsLoad() || op.IsStore(): {
            if mi.Mem == nil || mi.Mem.Store != op.IsStore() {
                self.reportf("%q has a missing or mismatched memory operand", mi)
            } else if op.IsLoad() && (len(defs) != 1 || len(uses) != 1) {
                self.reportf("%q must have one def and one address", mi)
            } else if op.IsLoad() && !regs.Type(uses[0].reg).IsPointer() {
                self.reportf("%q must load from a pointer", mi)
            } else if w := uint64(width(defs, 0)); op == G_LOAD && w >= 8 && w < mi.Mem.Size * 8 {
                self.reportf("%q loads more than its result can hold", mi)
            } else if op != G_LOAD && op.IsLoad() && uint64(width(defs, 0)) <= mi.Mem.Size * 8 {
                self.reportf("%q must extend the loaded value", mi)
            }
        }
    }
}
