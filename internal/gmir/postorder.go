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
    `github.com/oleiade/lane`
)

type _Frame struct {
    bb *Block
    nx int
}

// PostOrder returns the blocks reachable from the entry block, in post order
// of a depth-first walk along the successor lists.
func PostOrder(fn *Func) []*Block {
    var ret []*Block
    var ent *Block

    /* nothing to walk */
    if ent = fn.Entry(); ent == nil {
        return nil
    }

    /* walk the blocks */
    st := lane.NewStack()
    vis := map[*Block]struct{} { ent: {} }

    /* scan until the stack is empty */
    for st.Push(&_Frame { bb: ent }); !st.Empty(); {
        fr := st.Head().(*_Frame)

        /* all the successors are visited, pop the current node */
        if fr.nx >= len(fr.bb.Succ) {
            st.Pop()
            ret = append(ret, fr.bb)
            continue
        }

        /* descend into the next unvisited successor */
        bb := fr.bb.Succ[fr.nx]
        fr.nx++

        /* skip visited blocks */
        if _, ok := vis[bb]; !ok {
            vis[bb] = struct{}{}
            st.Push(&_Frame { bb: bb })
        }
    }

    /* all done */
    return ret
}
