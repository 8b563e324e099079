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

// Package gcombine runs generic machine IR combiners over textual modules.
package gcombine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/cloudwego/gcombine/internal/gmir"
	"github.com/cloudwego/gcombine/internal/opts"
	"github.com/cloudwego/gcombine/internal/pass"
	"github.com/cloudwego/gcombine/internal/target/mips"
)

type _Target struct {
	register func(*pass.Registry) error
	pipeline func() []string
}

var targets = map[string]_Target{
	"mips": {register: mips.Register, pipeline: mips.DefaultPipeline},
}

// Targets returns the names of the supported targets.
func Targets() []string {
	ret := make([]string, 0, len(targets))
	for k := range targets {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// Combine parses every function in src, runs the pass pipeline of the
// selected target over each of them, and prints the result. The returned
// flag reports whether any function changed.
func Combine(src string, options ...Option) (string, bool, error) {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}

	/* build the pipeline before touching the input */
	mgr, err := newManager(&o)
	if err != nil {
		return "", false, err
	}

	/* parse the module */
	fns, err := gmir.Parse(src)
	if err != nil {
		var pe *gmir.ParseError
		if errors.As(err, &pe) {
			return "", false, SyntaxError{Line: pe.Line, Col: pe.Col, Reason: pe.Reason}
		}
		return "", false, err
	}

	/* run the pipeline over every function */
	var changed bool
	var out []string
	for _, fn := range fns {
		ok, err := mgr.Run(fn)
		if err != nil {
			return "", changed, PipelineError{Func: fn.Name, Err: err}
		}
		changed = changed || ok
		out = append(out, fn.String())
	}
	return strings.Join(out, "\n"), changed, nil
}

func newManager(o *opts.Options) (*pass.Manager, error) {
	tg, ok := targets[o.Target]
	if !ok {
		return nil, PipelineError{Err: fmt.Errorf("unknown target %q", o.Target)}
	}

	/* register the passes of the target */
	reg := pass.NewRegistry()
	if err := tg.register(reg); err != nil {
		return nil, PipelineError{Err: err}
	}

	/* GCOMBINE_DEBUG logs to stderr when no logger was given */
	log := o.Logger
	if log == nil && o.Debug {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: o.LogLevel()}))
	}

	/* configure the target */
	tpc := pass.NewTargetPassConfig(o.Target, log)
	tpc.EraseTriviallyDead = o.EraseTriviallyDead
	mgr := pass.NewManager(reg, tpc)
	mgr.SetVerify(o.Verify)

	/* use the default pipeline unless told otherwise */
	names := o.Passes
	if len(names) == 0 {
		names = tg.pipeline()
	}
	for _, v := range names {
		if err := mgr.AddByName(v); err != nil {
			return nil, PipelineError{Err: err}
		}
	}
	return mgr, nil
}
