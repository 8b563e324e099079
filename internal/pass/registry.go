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
	"sort"
)

// Info is the registration record of a pass.
type Info struct {
	Arg         string
	Description string
	Requires    []AnalysisID
	New         func() FunctionPass
}

// Registry maps pass arguments to their registration records. Registries are
// built explicitly and handed to the pipeline, there is no global one.
type Registry struct {
	infos map[string]*Info
}

func NewRegistry() *Registry {
	return &Registry{infos: make(map[string]*Info)}
}

// Register adds info to the registry. Arguments must be unique.
func (self *Registry) Register(info Info) error {
	if info.Arg == "" || info.New == nil {
		return fmt.Errorf("pass: incomplete registration for %q", info.Arg)
	} else if _, ok := self.infos[info.Arg]; ok {
		return fmt.Errorf("pass: %q is already registered", info.Arg)
	} else {
		self.infos[info.Arg] = &info
		return nil
	}
}

// Lookup finds a registration record by pass argument.
func (self *Registry) Lookup(arg string) (*Info, bool) {
	info, ok := self.infos[arg]
	return info, ok
}

// Args returns the registered pass arguments in sorted order.
func (self *Registry) Args() []string {
	ret := make([]string, 0, len(self.infos))
	for k := range self.infos {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
