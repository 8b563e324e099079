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
    `github.com/cloudwego/gcombine/internal/gmir`
)

// Helper is the library of rewrite rules shared by all targets.
//
// Insertions and removals are reported by the function delegate, which the
// Combiner points at the same observer, so rules only report in-place
// modifications themselves.
type Helper struct {
    obs  Observer
    b    *gmir.Builder
    regs *gmir.RegInfo
    li   LegalizerInfo
}

// NewHelper creates a Helper. A nil li means every instruction is legal,
// which is the case before the legalizer runs.
func NewHelper(obs Observer, b *gmir.Builder, li LegalizerInfo) *Helper {
    return &Helper {
        obs  : obs,
        b    : b,
        regs : b.Func().Regs,
        li   : li,
    }
}

func (self *Helper) isLegal(q LegalityQuery) bool {
    return self.li == nil || self.li.IsLegal(q)
}

// ReplaceRegWith makes every user of from use to instead. Registers of
// different types cannot be merged, a COPY is emitted in that case.
func (self *Helper) ReplaceRegWith(from gmir.Reg, to gmir.Reg) {
    ins := ChangingAllUsesOfReg(self.obs, self.regs, from)

    /* merge the registers if possible */
    if self.regs.Type(from) == self.regs.Type(to) {
        self.regs.ReplaceRegWith(from, to)
    } else {
        self.b.BuildCopy(to, from)
    }

    /* notify the changes */
    FinishedChangingAllUsesOfReg(self.obs, ins)
}

// ReplaceRegOpWith re-points a single register operand.
func (self *Helper) ReplaceRegOpWith(op *gmir.Operand, to gmir.Reg) {
    mi := op.Parent()
    self.obs.ChangingInstr(mi)
    op.SetReg(to)
    self.obs.ChangedInstr(mi)
}

// PreferredTuple is the extend chosen to be folded into a load.
type PreferredTuple struct {
    Ty     gmir.LLT
    Opcode gmir.Opcode
    MI     *gmir.Instr
}

// choosePreferredUse picks between the current preference and a candidate
// extend of the loaded value.
func choosePreferredUse(cur PreferredTuple, ty gmir.LLT, op gmir.Opcode, mi *gmir.Instr) PreferredTuple {
    cand := PreferredTuple { Ty: ty, Opcode: op, MI: mi }

    /* the first candidate must agree with the extension already implied by the load */
    if !cur.Ty.IsValid() {
        if cur.Opcode == op || cur.Opcode == gmir.G_ANYEXT {
            return cand
        } else {
            return cur
        }
    }

    /* defined extensions are preferred over G_ANYEXT, as they are more likely
     * to reduce the number of instructions */
    if op == gmir.G_ANYEXT && cur.Opcode != gmir.G_ANYEXT {
        return cur
    } else if cur.Opcode == gmir.G_ANYEXT && op != gmir.G_ANYEXT {
        return cand
    }

    /* at the same width, sign extensions are preferred since they cost more */
    if cur.Ty == ty {
        if cur.Opcode == gmir.G_SEXT && op == gmir.G_ZEXT {
            return cur
        } else if cur.Opcode == gmir.G_ZEXT && op == gmir.G_SEXT {
            return cand
        }
    }

    /* otherwise the widest one wins, G_TRUNC is usually free */
    if ty.SizeInBits() > cur.Ty.SizeInBits() {
        return cand
    } else {
        return cur
    }
}

func extloadOf(ext gmir.Opcode) gmir.Opcode {
    switch ext {
        case gmir.G_SEXT : return gmir.G_SEXTLOAD
        case gmir.G_ZEXT : return gmir.G_ZEXTLOAD
        default          : return gmir.G_LOAD
    }
}

func extendOf(load gmir.Opcode) gmir.Opcode {
    switch load {
        case gmir.G_SEXTLOAD : return gmir.G_SEXT
        case gmir.G_ZEXTLOAD : return gmir.G_ZEXT
        default              : return gmir.G_ANYEXT
    }
}

// MatchCombineExtendingLoads finds the extend of a loaded value that can be
// folded into the load.
//
// The load is matched and its uses are followed, rather than the other way
// round, because the load must stay where it is while the extends are free
// to move. This also avoids duplicating the load.
func (self *Helper) MatchCombineExtendingLoads(mi *gmir.Instr, pref *PreferredTuple) bool {
    if !mi.Op.IsLoad() || mi.NumDefs() != 1 || len(mi.Uses()) != 1 {
        return false
    }

    /* only scalar values are considered */
    val := mi.Operand(0).Reg()
    vty := self.regs.Type(val)
    if !val.IsVirtual() || !vty.IsScalar() {
        return false
    }

    /* memory accesses narrower than a byte end up as illegal extending loads */
    if vty.SizeInBits() < 8 {
        return false
    }

    /* non power-of-two values are split by the legalizer anyway */
    if n := vty.SizeInBits(); n & (n - 1) != 0 {
        return false
    }

    /* pick the preferred extend among the users, only real widenings count */
    *pref = PreferredTuple { Opcode: extendOf(mi.Op) }
    for _, use := range self.regs.UseInstrs(val) {
        if use.Op.IsExtend() && use.NumDefs() == 1 {
            if ty := self.regs.Type(use.Operand(0).Reg()); ty.IsScalar() && ty.SizeInBits() > vty.SizeInBits() {
                *pref = choosePreferredUse(*pref, ty, use.Op, use)
            }
        }
    }

    /* there were no extends */
    if pref.MI == nil {
        return false
    }

    /* the resulting extending load must be acceptable */
    return self.isLegal(LegalityQuery {
        Opcode  : extloadOf(pref.Opcode),
        Types   : []gmir.LLT { pref.Ty, self.regs.Type(mi.Uses()[0].Reg()) },
        MemSize : memsize(mi),
    })
}

func memsize(mi *gmir.Instr) uint64 {
    if mi.Mem == nil {
        return 0
    } else {
        return mi.Mem.Size
    }
}

// insertBeforeUse calls fn with the block and position where an instruction
// feeding use should go. Uses by G_PHI are fed at the end of the incoming
// block instead of in the Phi block itself.
func (self *Helper) insertBeforeUse(def *gmir.Instr, use *gmir.Operand, fn func(bb *gmir.Block, before *gmir.Instr, use *gmir.Operand)) {
    mi := use.Parent()
    bb := mi.Parent()

    /* find the incoming block of Phi operands */
    if mi.Op == gmir.G_PHI {
        for i, v := range mi.Ops {
            if v == use && i + 1 < len(mi.Ops) && mi.Ops[i + 1].Kind == gmir.K_block {
                bb = mi.Ops[i + 1].Block
                break
            }
        }
    }

    /* in the block of the definition, go right after it; elsewhere the
     * definition dominates the whole block, so go to the top */
    if bb == def.Parent() {
        fn(bb, bb.Next(def), use)
    } else {
        fn(bb, bb.FirstNonPHI(), use)
    }
}

// ApplyCombineExtendingLoads rewrites the load into the extending load
// chosen by MatchCombineExtendingLoads, and fixes up every user.
func (self *Helper) ApplyCombineExtendingLoads(mi *gmir.Instr, pref PreferredTuple) {
    dst := pref.MI.Operand(0).Reg()
    val := mi.Operand(0).Reg()
    ins := make(map[*gmir.Block]*gmir.Instr)

    /* insert a truncate back to the original type, at most one per block */
    truncAt := func(bb *gmir.Block, before *gmir.Instr, use *gmir.Operand) {
        if prev, ok := ins[bb]; ok {
            self.ReplaceRegOpWith(use, prev.Operand(0).Reg())
            return
        }

        /* build a new truncate */
        self.b.SetInsertPt(bb, before)
        tmp := self.regs.CloneVReg(val)
        ins[bb] = self.b.BuildTrunc(tmp, dst)
        self.ReplaceRegOpWith(use, tmp)
    }

    /* rewrite the load to the chosen extending load */
    self.obs.ChangingInstr(mi)
    mi.SetOpcode(extloadOf(pref.Opcode))

    /* rewrite all the uses to fix up the types */
    for _, use := range self.regs.Uses(val) {
        umi := use.Parent()

        /* not an extend, truncate back to the loaded type, which is free on many targets */
        if umi.Op != pref.Opcode && umi.Op != gmir.G_ANYEXT {
            self.insertBeforeUse(mi, use, truncAt)
            continue
        }

        /* the chosen extend itself, the load will define its value */
        udst := umi.Operand(0).Reg()
        if udst == dst {
            umi.EraseFromParent()
            continue
        }

        /* compatible extend of the chosen type, merge the registers:
         *
         *    %1:_(s8) = G_LOAD ...
         *    %2:_(s32) = G_SEXT %1(s8)
         *    %3:_(s32) = G_ANYEXT %1(s8)
         *    ... = ... %3(s32)
         *
         * becomes
         *
         *    %2:_(s32) = G_SEXTLOAD ...
         *    ... = ... %2(s32)
         */
        uty := self.regs.Type(udst)
        if uty == pref.Ty {
            self.ReplaceRegWith(udst, dst)
            umi.EraseFromParent()
            continue
        }

        /* wider extend, extend from the result of the extending load instead:
         *
         *    %1:_(s8) = G_LOAD ...
         *    %2:_(s32) = G_SEXT %1(s8)
         *    %3:_(s64) = G_ANYEXT %1(s8)
         *
         * becomes
         *
         *    %2:_(s32) = G_SEXTLOAD ...
         *    %3:_(s64) = G_ANYEXT %2(s32)
         */
        if pref.Ty.SizeInBits() < uty.SizeInBits() {
            self.ReplaceRegOpWith(use, dst)
            continue
        }

        /* narrower extend, feed it from a truncate:
         *
         *    %1:_(s8) = G_LOAD ...
         *    %2:_(s64) = G_SEXT %1(s8)
         *    %3:_(s32) = G_ZEXT %1(s8)
         *
         * becomes
         *
         *    %2:_(s64) = G_SEXTLOAD ...
         *    %4:_(s8) = G_TRUNC %2(s64)
         *    %3:_(s32) = G_ZEXT %4(s8)
         */
        self.insertBeforeUse(mi, use, truncAt)
    }

    /* the load now defines the chosen value */
    mi.Operand(0).SetReg(dst)
    self.obs.ChangedInstr(mi)
}

// TryCombineExtendingLoads folds an extend of a loaded value into the load.
func (self *Helper) TryCombineExtendingLoads(mi *gmir.Instr) bool {
    var pref PreferredTuple
    if !self.MatchCombineExtendingLoads(mi, &pref) {
        return false
    } else {
        self.ApplyCombineExtendingLoads(mi, pref)
        return true
    }
}
