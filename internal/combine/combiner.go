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
    `context`
    `log/slog`
    `sync/atomic`

    `github.com/cloudwego/gcombine/internal/gmir`
    `github.com/cloudwego/gcombine/internal/pass`
)

var (
    FuncCount    uint64 = 0
    RoundCount   uint64 = 0
    CombineCount uint64 = 0
    ErasedCount  uint64 = 0
)

// Combiner drives a CombinerInfo over a whole function until no rule
// applies anymore.
type Combiner struct {
    info CombinerInfo
    tpc  *pass.TargetPassConfig
    log  *slog.Logger
}

func NewCombiner(info CombinerInfo, tpc *pass.TargetPassConfig) *Combiner {
    return &Combiner {
        info: info,
        tpc : tpc,
        log : tpc.Logger().With("component", "combiner"),
    }
}

// CombineMachineInstrs runs rounds over fn until a round makes no change,
// and reports whether any round did.
//
// Each round queues the instructions of all reachable blocks so that they
// are visited top-down in reverse post order. Instructions created by a rule
// are queued once the rule returns, and changed instructions are queued
// again, so a change is always visible before its users are reconsidered.
func (self *Combiner) CombineMachineInstrs(fn *gmir.Func) bool {
    var changed bool
    var mfchanged bool

    /* the builder is shared by all rounds */
    b := gmir.NewBuilder(fn)
    debug := self.log.Enabled(context.Background(), slog.LevelDebug)
    self.log.Debug("generic combiner", "func", fn.Name, "sweep", self.tpc.EraseTriviallyDead)
    atomic.AddUint64(&FuncCount, 1)

    /* retry until no more modifications */
    for round := 1; ; round++ {
        changed = false
        atomic.AddUint64(&RoundCount, 1)
        wl := NewWorkList()
        wm := NewWorkListMaintainer(wl)
        ob := NewObserverWrapper(wm)

        /* log every change when debugging */
        if debug {
            ob.AddObserver(NewLoggingObserver(self.log))
        }

        /* every insertion or removal in the function goes to the observer */
        old := fn.SetDelegate(ob)

        /* queue instructions bottom-up so that popping walks top-down in RPO */
        for _, bb := range gmir.PostOrder(fn) {
            ins := bb.Instrs()
            for i := len(ins) - 1; i >= 0; i-- {
                mi := ins[i]

                /* erase dead instructions before even adding them to the list */
                if self.tpc.EraseTriviallyDead && gmir.IsTriviallyDead(mi) {
                    self.log.Debug("is dead, erasing", "instr", mi.String())
                    mi.EraseFromParent()
                    atomic.AddUint64(&ErasedCount, 1)
                    changed = true
                    continue
                }

                /* add to work list */
                wl.Insert(mi)
            }
        }

        /* main loop */
        for !wl.Empty() {
            mi := wl.Pop()
            self.log.Debug("try combining", "round", round, "instr", mi.String())
            if self.info.Combine(ob, mi, b) {
                atomic.AddUint64(&CombineCount, 1)
                changed = true
            }
            wm.ReportFullyCreatedInstrs()
        }

        /* restore the delegate */
        fn.SetDelegate(old)
        mfchanged = mfchanged || changed

        /* stop at the fixed point */
        if !changed {
            self.log.Debug("combiner reached fixed point", "func", fn.Name, "rounds", round, "changed", mfchanged)
            return mfchanged
        }
    }
}
