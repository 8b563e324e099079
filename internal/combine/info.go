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

// LegalityQuery describes an instruction that a rule would like to create.
type LegalityQuery struct {
    Opcode  gmir.Opcode
    Types   []gmir.LLT
    MemSize uint64
}

// LegalizerInfo answers whether the target supports an instruction as is.
type LegalizerInfo interface {
    IsLegal(q LegalityQuery) bool
}

// CombinerInfo is the target specific part of a combiner: it decides which
// rules apply to an instruction. Combine reports whether anything changed,
// and must make every change through b so that obs hears about it.
type CombinerInfo interface {
    Combine(obs Observer, mi *gmir.Instr, b *gmir.Builder) bool
}

// Info carries the settings shared by all combiners. Only AllowIllegalOps
// and LegalizerInfo are consulted so far, the remaining flags are recorded
// for rules that will need them.
type Info struct {
    AllowIllegalOps       bool
    ShouldLegalizeIllegal bool
    LegalizerInfo         LegalizerInfo
    EnableOpt             bool
    EnableOptSize         bool
    EnableMinSize         bool
}

func NewInfo(allowIllegalOps bool, shouldLegalizeIllegal bool, li LegalizerInfo, enableOpt bool, enableOptSize bool, enableMinSize bool) Info {
    if shouldLegalizeIllegal && li == nil {
        panic("combine: legalizing illegal operations requires a LegalizerInfo")
    }
    return Info {
        AllowIllegalOps       : allowIllegalOps,
        ShouldLegalizeIllegal : shouldLegalizeIllegal,
        LegalizerInfo         : li,
        EnableOpt             : enableOpt,
        EnableOptSize         : enableOptSize,
        EnableMinSize         : enableMinSize,
    }
}

// Legality returns the LegalizerInfo rules must consult before creating an
// instruction, or nil when illegal operations are allowed.
func (self *Info) Legality() LegalizerInfo {
    if self.AllowIllegalOps {
        return nil
    } else {
        return self.LegalizerInfo
    }
}
