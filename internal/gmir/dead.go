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

// IsSafeToMove reports whether mi has no effect other than defining its
// registers.
func IsSafeToMove(mi *Instr) bool {
    if mi.Op.HasSideEffects() || mi.Op == G_PHI {
        return false
    } else if mi.Mem != nil && (mi.Mem.Volatile || mi.Mem.Store) {
        return false
    } else {
        return true
    }
}

// IsTriviallyDead reports whether mi can be erased without changing the
// behavior of the function: it is safe to move, and all of its definitions
// are unused virtual registers.
func IsTriviallyDead(mi *Instr) bool {
    if !IsSafeToMove(mi) || mi.bb == nil || mi.bb.fn == nil {
        return false
    }

    /* instructions without definitions are kept for their effects */
    defs := mi.Defs()
    if len(defs) == 0 {
        return false
    }

    /* all definitions must be dead */
    for _, v := range defs {
        if !v.reg.IsVirtual() || !mi.bb.fn.Regs.UseEmpty(v.reg) {
            return false
        }
    }

    /* all checked ok */
    return true
}
