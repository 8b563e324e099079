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
	"fmt"
	"log/slog"

	"github.com/cloudwego/gcombine/internal/gmir"
)

// DependencyError is returned when a pass requires an analysis that the
// manager cannot provide.
type DependencyError struct {
	Pass     string
	Analysis AnalysisID
}

func (self *DependencyError) Error() string {
	return fmt.Sprintf("pass %s requires unavailable analysis %q", self.Pass, self.Analysis)
}

// CFGChangedError is returned when a pass that declared it preserves the CFG
// changed it anyway.
type CFGChangedError struct {
	Pass   string
	Func   string
	Before gmir.Shape
	After  gmir.Shape
}

func (self *CFGChangedError) Error() string {
	return fmt.Sprintf("pass %s changed the CFG of @%s: %q -> %q", self.Pass, self.Func, self.Before, self.After)
}

// VerifyFailedError wraps the verifier failure that follows a pass.
type VerifyFailedError struct {
	Pass string
	Err  error
}

func (self *VerifyFailedError) Error() string {
	return fmt.Sprintf("verification failed after %s: %v", self.Pass, self.Err)
}

func (self *VerifyFailedError) Unwrap() error {
	return self.Err
}

type _Resolver struct {
	pass  string
	avail map[AnalysisID]interface{}
	decl  map[AnalysisID]bool
}

func (self *_Resolver) Analysis(id AnalysisID) interface{} {
	if !self.decl[id] {
		panic(fmt.Sprintf("pass %s asked for undeclared analysis %q", self.pass, id))
	}
	return self.avail[id]
}

// Manager runs an ordered list of function passes.
type Manager struct {
	reg    *Registry
	tpc    *TargetPassConfig
	verify bool
	passes []FunctionPass
	log    *slog.Logger
}

func NewManager(reg *Registry, tpc *TargetPassConfig) *Manager {
	return &Manager{
		reg: reg,
		tpc: tpc,
		log: tpc.Logger().With("component", "pass-manager"),
	}
}

// SetVerify makes the manager verify the function after every pass.
func (self *Manager) SetVerify(v bool) {
	self.verify = v
}

func (self *Manager) AddPass(p FunctionPass) {
	self.passes = append(self.passes, p)
}

// AddByName instantiates a registered pass and appends it.
func (self *Manager) AddByName(arg string) error {
	if info, ok := self.reg.Lookup(arg); !ok {
		return fmt.Errorf("unknown pass %q", arg)
	} else {
		self.AddPass(info.New())
		return nil
	}
}

func (self *Manager) Passes() []FunctionPass {
	return self.passes
}

func (self *Manager) analyses() map[AnalysisID]interface{} {
	return map[AnalysisID]interface{}{
		TargetPassConfigID: self.tpc,
	}
}

// Run runs every pass on fn in order and reports whether any of them
// changed it. The first error aborts the pipeline.
func (self *Manager) Run(fn *gmir.Func) (bool, error) {
	var changed bool
	avail := self.analyses()

	/* run every pass in order */
	for _, p := range self.passes {
		var au AnalysisUsage
		p.GetAnalysisUsage(&au)

		/* resolve the required analyses */
		rs := &_Resolver{
			pass:  p.Name(),
			avail: avail,
			decl:  make(map[AnalysisID]bool),
		}
		for _, id := range au.Required() {
			if _, ok := avail[id]; !ok {
				return changed, &DependencyError{Pass: p.Name(), Analysis: id}
			}
			rs.decl[id] = true
		}

		/* run the pass */
		before := gmir.ShapeOf(fn)
		ok := p.Run(fn, rs)
		self.log.Debug("pass finished", "pass", p.Name(), "func", fn.Name, "changed", ok)
		changed = changed || ok

		/* passes that preserve the CFG must not touch it */
		if au.PreservesCFG() {
			fn.UpdateEdges()
			if after := gmir.ShapeOf(fn); after != before {
				return changed, &CFGChangedError{Pass: p.Name(), Func: fn.Name, Before: before, After: after}
			}
		}

		/* verify the result if requested */
		if self.verify {
			if err := gmir.Verify(fn); err != nil {
				return changed, &VerifyFailedError{Pass: p.Name(), Err: err}
			}
		}
	}
	return changed, nil
}
