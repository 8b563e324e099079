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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/gcombine/internal/combine"
)

// A Stats records statistics about the combiners.
type Stats struct {
	Combiner CombinerStats
}

// A CombinerStats counts the work done by all combiners in this process.
type CombinerStats struct {
	Funcs    int
	Rounds   int
	Combines int
	Erased   int
}

// GetStats returns statistics of the combiners.
func GetStats() Stats {
	return Stats{
		Combiner: CombinerStats{
			Funcs:    int(atomic.LoadUint64(&combine.FuncCount)),
			Rounds:   int(atomic.LoadUint64(&combine.RoundCount)),
			Combines: int(atomic.LoadUint64(&combine.CombineCount)),
			Erased:   int(atomic.LoadUint64(&combine.ErasedCount)),
		},
	}
}
