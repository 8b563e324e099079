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
	"io"
	"log/slog"
)

// AbortMode controls what happens when instruction selection fails.
type AbortMode int

const (
	AbortDisable AbortMode = iota
	AbortEnable
	AbortDisableWithDiag
)

// TargetPassConfig is the read-only configuration of the code generation
// pipeline for one target.
type TargetPassConfig struct {
	Target          string
	GlobalISelAbort AbortMode

	// EraseTriviallyDead makes combiners erase unused side-effect free
	// instructions before each round.
	EraseTriviallyDead bool

	log *slog.Logger
}

func NewTargetPassConfig(target string, log *slog.Logger) *TargetPassConfig {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TargetPassConfig{
		Target: target,
		log:    log,
	}
}

func (self *TargetPassConfig) Logger() *slog.Logger {
	return self.log
}

func (self *TargetPassConfig) IsGlobalISelAbortEnabled() bool {
	return self.GlobalISelAbort == AbortEnable
}

func (self *TargetPassConfig) ReportDiagsOnError() bool {
	return self.GlobalISelAbort == AbortDisableWithDiag
}
