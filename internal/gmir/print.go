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
)

func (self *Instr) format(regs *RegInfo) string {
    var sb strings.Builder
    var ds []string
    var us []string

    /* register names */
    name := func(r Reg) string {
        if regs != nil {
            return regs.Name(r)
        } else if r.IsVirtual() {
            return fmt.Sprintf("%%%d", r.Index())
        } else {
            return fmt.Sprintf("$phys%d", r.Index())
        }
    }

    /* register types */
    typeof := func(r Reg) LLT {
        if regs != nil {
            return regs.Type(r)
        } else {
            return LLT{}
        }
    }

    /* format every operand */
    for _, v := range self.Ops {
        switch v.Kind {
            case K_imm   : us = append(us, fmt.Sprintf("%d", v.Imm))
            case K_block : us = append(us, fmt.Sprintf("%%bb.%d", v.Block.Id))
            case K_pred  : us = append(us, fmt.Sprintf("intpred(%s)", v.Pred))
            case K_reg   : {
                s := name(v.reg)
                t := typeof(v.reg)

                /* definitions carry the register class, uses the type */
                if v.Def {
                    if v.reg.IsVirtual() {
                        s += fmt.Sprintf(":_(%s)", t)
                    }
                    ds = append(ds, s)
                } else {
                    if v.Implicit {
                        s = "implicit " + s
                    } else if v.reg.IsVirtual() && t.IsValid() {
                        s += fmt.Sprintf("(%s)", t)
                    }
                    us = append(us, s)
                }
            }
        }
    }

    /* definitions */
    if len(ds) != 0 {
        sb.WriteString(strings.Join(ds, ", "))
        sb.WriteString(" = ")
    }

    /* opcode and operands */
    sb.WriteString(self.Op.String())
    if len(us) != 0 {
        sb.WriteByte(' ')
        sb.WriteString(strings.Join(us, ", "))
    }

    /* memory operand */
    if self.Mem != nil {
        sb.WriteString(" :: ")
        sb.WriteString(self.Mem.String())
    }
    return sb.String()
}

func (self *Func) String() string {
    var sb strings.Builder
    sb.WriteString("func @")
    sb.WriteString(self.Name)

    /* function properties */
    if self.props != 0 {
        sb.WriteByte(' ')
        sb.WriteString(self.props.String())
    }

    /* dump every block */
    sb.WriteString(" {\n")
    for _, bb := range self.Blocks {
        fmt.Fprintf(&sb, "bb.%d:\n", bb.Id)
        for _, mi := range bb.ins {
            sb.WriteString("  ")
            sb.WriteString(mi.format(self.Regs))
            sb.WriteByte('\n')
        }
    }

    /* close the function */
    sb.WriteString("}\n")
    return sb.String()
}
