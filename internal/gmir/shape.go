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
    `strconv`
    `strings`
)

// Shape is a fingerprint of the block layout and the CFG edges of a
// function, two shapes compare equal iff neither changed.
type Shape string

func ShapeOf(fn *Func) Shape {
    var sb strings.Builder
    for _, bb := range fn.Blocks {
        sb.WriteString(strconv.Itoa(bb.Id))
        sb.WriteString("->")
        for i, s := range bb.Succ {
            if i != 0 {
                sb.WriteByte(',')
            }
            sb.WriteString(strconv.Itoa(s.Id))
        }
        sb.WriteByte(';')
    }
    return Shape(sb.String())
}
