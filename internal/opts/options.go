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

package opts

import (
	"log/slog"
)

type Options struct {
	Target             string
	Verify             bool
	Debug              bool
	EraseTriviallyDead bool
	Passes             []string
	Logger             *slog.Logger
}

// LogLevel is the minimum level implied by the Debug flag.
func (self *Options) LogLevel() slog.Level {
	if self.Debug {
		return slog.LevelDebug
	} else {
		return slog.LevelInfo
	}
}

func GetDefaultOptions() Options {
	return Options{
		Target: Target,
		Verify: Verify,
		Debug:  Debug,
	}
}
