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

// Opcode is the kind of a generic instruction.
type Opcode uint16

const (
    OpInvalid Opcode = iota
    COPY
    G_IMPLICIT_DEF
    G_CONSTANT
    G_FRAME_INDEX
    G_GEP
    G_ADD
    G_SUB
    G_MUL
    G_AND
    G_OR
    G_XOR
    G_SHL
    G_LSHR
    G_ASHR
    G_ICMP
    G_SELECT
    G_LOAD
    G_SEXTLOAD
    G_ZEXTLOAD
    G_STORE
    G_SEXT
    G_ZEXT
    G_ANYEXT
    G_TRUNC
    G_PHI
    G_BR
    G_BRCOND
    RetRA
    _OpMax
)

const (
    _F_term uint8 = 1 << iota
    _F_load
    _F_store
    _F_ext
    _F_side
)

var _OpNames = [...]string {
    OpInvalid      : "<invalid>",
    COPY           : "COPY",
    G_IMPLICIT_DEF : "G_IMPLICIT_DEF",
    G_CONSTANT     : "G_CONSTANT",
    G_FRAME_INDEX  : "G_FRAME_INDEX",
    G_GEP          : "G_GEP",
    G_ADD          : "G_ADD",
    G_SUB          : "G_SUB",
    G_MUL          : "G_MUL",
    G_AND          : "G_AND",
    G_OR           : "G_OR",
    G_XOR          : "G_XOR",
    G_SHL          : "G_SHL",
    G_LSHR         : "G_LSHR",
    G_ASHR         : "G_ASHR",
    G_ICMP         : "G_ICMP",
    G_SELECT       : "G_SELECT",
    G_LOAD         : "G_LOAD",
    G_SEXTLOAD     : "G_SEXTLOAD",
    G_ZEXTLOAD     : "G_ZEXTLOAD",
    G_STORE        : "G_STORE",
    G_SEXT         : "G_SEXT",
    G_ZEXT         : "G_ZEXT",
    G_ANYEXT       : "G_ANYEXT",
    G_TRUNC        : "G_TRUNC",
    G_PHI          : "G_PHI",
    G_BR           : "G_BR",
    G_BRCOND       : "G_BRCOND",
    RetRA          : "RetRA",
}

var _OpFlags = [...]uint8 {
    G_LOAD     : _F_load,
    G_SEXTLOAD : _F_load,
    G_ZEXTLOAD : _F_load,
    G_STORE    : _F_store | _F_side,
    G_SEXT     : _F_ext,
    G_ZEXT     : _F_ext,
    G_ANYEXT   : _F_ext,
    G_BR       : _F_term | _F_side,
    G_BRCOND   : _F_term | _F_side,
    RetRA      : _F_term | _F_side,
    _OpMax     : 0,
}

var _OpByName = make(map[string]Opcode, len(_OpNames))

func init() {
    for op, name := range _OpNames {
        if Opcode(op) != OpInvalid {
            _OpByName[name] = Opcode(op)
        }
    }
}

// Opcodes returns every valid opcode, in declaration order.
func Opcodes() []Opcode {
    ret := make([]Opcode, 0, _OpMax - 1)
    for op := OpInvalid + 1; op < _OpMax; op++ {
        ret = append(ret, op)
    }
    return ret
}

// LookupOpcode finds an opcode by its textual name.
func LookupOpcode(name string) (Opcode, bool) {
    op, ok := _OpByName[name]
    return op, ok
}

func (self Opcode) IsValid() bool {
    return self > OpInvalid && self < _OpMax
}

func (self Opcode) String() string {
    if self.IsValid() {
        return _OpNames[self]
    } else {
        return fmt.Sprintf("<opcode %d>", uint16(self))
    }
}

func (self Opcode) flags() uint8 {
    if self.IsValid() {
        return _OpFlags[self]
    } else {
        return 0
    }
}

func (self Opcode) IsTerminator() bool   { return self.flags() & _F_term != 0 }
func (self Opcode) IsLoad() bool         { return self.flags() & _F_load != 0 }
func (self Opcode) IsStore() bool        { return self.flags() & _F_store != 0 }
func (self Opcode) IsExtend() bool       { return self.flags() & _F_ext != 0 }
func (self Opcode) HasSideEffects() bool { return self.flags() & _F_side != 0 }
