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

package pass

import (
	"github.com/cloudwego/gcombine/internal/gmir"
)

// AnalysisID identifies an analysis that passes may depend on.
type AnalysisID string

const (
	TargetPassConfigID AnalysisID = "targetpassconfig"
)

// AnalysisUsage is filled in by a pass to declare what it needs and what it
// keeps intact.
type AnalysisUsage struct {
	required     []AnalysisID
	preservesCFG bool
}

func (self *AnalysisUsage) AddRequired(id AnalysisID) {
	self.required = append(self.required, id)
}

// SetPreservesCFG declares that the pass never adds, removes or reorders
// blocks, nor changes the edges between them.
func (self *AnalysisUsage) SetPreservesCFG() {
	self.preservesCFG = true
}

func (self *AnalysisUsage) Required() []AnalysisID { return self.required }
func (self *AnalysisUsage) PreservesCFG() bool     { return self.preservesCFG }

// Resolver hands analyses to a running pass. Asking for an analysis that the
// pass did not declare as required is a programming error.
type Resolver interface {
	Analysis(id AnalysisID) interface{}
}

// FunctionPass is a pass that runs on one function body at a time.
type FunctionPass interface {
	Name() string
	GetAnalysisUsage(au *AnalysisUsage)
	Run(fn *gmir.Func, r Resolver) bool
}
