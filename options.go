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

package gcombine

import (
	"fmt"
	"log/slog"

	"github.com/cloudwego/gcombine/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithTarget selects the target whose passes are run.
//
// This value can also be configured with the `GCOMBINE_TARGET` environment
// variable.
//
// The default value of this option is "mips".
func WithTarget(name string) Option {
	if name == "" {
		panic("gcombine: empty target name")
	} else {
		return func(o *opts.Options) { o.Target = name }
	}
}

// WithVerify makes the pipeline verify every function after each pass.
//
// This value can also be configured with the `GCOMBINE_VERIFY` environment
// variable.
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithLogger sets the logger used by the passes. Without it nothing is
// logged.
func WithLogger(log *slog.Logger) Option {
	return func(o *opts.Options) { o.Logger = log }
}

// WithPasses replaces the default pipeline of the target with the passes
// named by their arguments, run in the given order.
func WithPasses(args ...string) Option {
	for _, v := range args {
		if v == "" {
			panic(fmt.Sprintf("gcombine: empty pass name in %q", args))
		}
	}
	return func(o *opts.Options) { o.Passes = append([]string(nil), args...) }
}

// WithDeadCodeSweep makes combiners erase trivially dead instructions before
// each round.
//
// The default value of this option is "false".
func WithDeadCodeSweep(v bool) Option {
	return func(o *opts.Options) { o.EraseTriviallyDead = v }
}
