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
    `strconv`
)

// PointerSizeInBits is the width of every address space on the target.
const PointerSizeInBits = 32

const (
    _T_invalid uint8 = iota
    _T_scalar
    _T_pointer
)

// LLT is a low-level type: a plain scalar of a given width, or a pointer
// into an address space. Registers are not typed beyond this.
type LLT struct {
    kind uint8
    bits uint16
}

func Scalar(bits int) LLT {
    if bits <= 0 || bits > 0xffff {
        panic(fmt.Sprintf("gmir: invalid scalar width: %d", bits))
    } else {
        return LLT { kind: _T_scalar, bits: uint16(bits) }
    }
}

func Pointer(space int) LLT {
    if space < 0 || space > 0xffff {
        panic(fmt.Sprintf("gmir: invalid address space: %d", space))
    } else {
        return LLT { kind: _T_pointer, bits: uint16(space) }
    }
}

func (self LLT) IsValid() bool   { return self.kind != _T_invalid }
func (self LLT) IsScalar() bool  { return self.kind == _T_scalar }
func (self LLT) IsPointer() bool { return self.kind == _T_pointer }

func (self LLT) SizeInBits() int {
    switch self.kind {
        case _T_scalar  : return int(self.bits)
        case _T_pointer : return PointerSizeInBits
        default         : return 0
    }
}

func (self LLT) AddressSpace() int {
    if self.kind != _T_pointer {
        panic("gmir: address space of non-pointer type " + self.String())
    } else {
        return int(self.bits)
    }
}

func (self LLT) String() string {
    switch self.kind {
        case _T_scalar  : return "s" + strconv.Itoa(int(self.bits))
        case _T_pointer : return "p" + strconv.Itoa(int(self.bits))
        default         : return "_"
    }
}

// ParseLLT parses the textual form produced by LLT.String.
func ParseLLT(s string) (LLT, bool) {
    if len(s) < 2 {
        return LLT{}, false
    }

    /* parse the width or address space */
    v, err := strconv.ParseUint(s[1:], 10, 16)
    if err != nil {
        return LLT{}, false
    }

    /* check for type kind */
    switch s[0] {
        case 's' : if v == 0 { return LLT{}, false } else { return Scalar(int(v)), true }
        case 'p' : return Pointer(int(v)), true
        default  : return LLT{}, false
    }
}
