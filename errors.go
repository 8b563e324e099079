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
    `fmt`
)

// SyntaxError occures when failed to parse the input module.
type SyntaxError struct {
    Line   int
    Col    int
    Reason string
}

func (self SyntaxError) Error() string {
    return fmt.Sprintf("Syntax error at line %d, column %d: %s", self.Line, self.Col, self.Reason)
}

// PipelineError occures when a pass could not be set up or broke a function.
type PipelineError struct {
    Func string
    Err  error
}

func (self PipelineError) Error() string {
    if self.Func == "" {
        return fmt.Sprintf("Pipeline error: %v", self.Err)
    } else {
        return fmt.Sprintf("Pipeline error in @%s: %v", self.Func, self.Err)
    }
}

func (self PipelineError) Unwrap() error {
    return self.Err
}
