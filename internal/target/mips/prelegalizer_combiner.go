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

package mips

import (
    `github.com/cloudwego/gcombine/internal/combine`
    `github.com/cloudwego/gcombine/internal/gmir`
    `github.com/cloudwego/gcombine/internal/pass`
)

const (
    PreLegalizerCombinerName = "MipsPreLegalizerCombiner"
    PreLegalizerCombinerArg  = "mips-prelegalizer-combiner"
    PreLegalizerCombinerDesc = "Combine Mips machine instrs before legalization"
)

type preLegalizerCombinerInfo struct {
    combine.Info
}

// Illegal operations are fine here, the legalizer runs afterwards.
func newPreLegalizerCombinerInfo() *preLegalizerCombinerInfo {
    return &preLegalizerCombinerInfo {
        Info: combine.NewInfo(true, false, nil, false, false, false),
    }
}

func (self *preLegalizerCombinerInfo) Combine(obs combine.Observer, mi *gmir.Instr, b *gmir.Builder) bool {
    h := combine.NewHelper(obs, b, self.Legality())
    switch mi.Op {
        default: {
            return false
        }
        case gmir.G_LOAD, gmir.G_SEXTLOAD, gmir.G_ZEXTLOAD: {
            return h.TryCombineExtendingLoads(mi)
        }
    }
}

// PreLegalizerCombiner folds extends into loads before legalization.
type PreLegalizerCombiner struct{}

func NewPreLegalizerCombiner() *PreLegalizerCombiner {
    return new(PreLegalizerCombiner)
}

func (self *PreLegalizerCombiner) Name() string {
    return PreLegalizerCombinerName
}

func (self *PreLegalizerCombiner) GetAnalysisUsage(au *pass.AnalysisUsage) {
    au.AddRequired(pass.TargetPassConfigID)
    au.SetPreservesCFG()
}

func (self *PreLegalizerCombiner) Run(fn *gmir.Func, r pass.Resolver) bool {
    if fn.HasProperty(gmir.FailedISel) {
        return false
    }
    tpc := r.Analysis(pass.TargetPassConfigID).(*pass.TargetPassConfig)
    return combine.NewCombiner(newPreLegalizerCombinerInfo(), tpc).CombineMachineInstrs(fn)
}

// Register adds the Mips passes to reg.
func Register(reg *pass.Registry) error {
    return reg.Register(pass.Info {
        Arg         : PreLegalizerCombinerArg,
        Description : PreLegalizerCombinerDesc,
        Requires    : []pass.AnalysisID { pass.TargetPassConfigID },
        New         : func() pass.FunctionPass { return NewPreLegalizerCombiner() },
    })
}

// DefaultPipeline lists the passes run by default on Mips.
func DefaultPipeline() []string {
    return []string { PreLegalizerCombinerArg }
}
