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

package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"

	"github.com/cloudwego/gcombine/internal/opts"
)

func decode(filename string, body hcl.Body) (*File, error) {
	var ret File
	if diags := gohcl.DecodeBody(body, nil, &ret); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}
	if ret.Pipeline != nil {
		for _, v := range ret.Pipeline.Passes {
			if v == "" {
				return nil, fmt.Errorf("%s: empty pass name in pipeline", filename)
			}
		}
	}
	return &ret, nil
}

// Apply overrides the fields of o that the file sets.
func (self *File) Apply(o *opts.Options) {
	if self.Target != nil {
		o.Target = *self.Target
	}
	if self.Verify != nil {
		o.Verify = *self.Verify
	}
	if p := self.Pipeline; p != nil {
		if len(p.Passes) != 0 {
			o.Passes = append([]string(nil), p.Passes...)
		}
		if p.EraseTriviallyDead != nil {
			o.EraseTriviallyDead = *p.EraseTriviallyDead
		}
	}
}
