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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cloudwego/gcombine"
	"github.com/cloudwego/gcombine/internal/cli"
	"github.com/cloudwego/gcombine/internal/config"
)

func main() {
	if err := run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps usage errors to their own code and everything else to 1.
func exitCode(err error) int {
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

func run(in io.Reader, outW io.Writer, errW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	log := cli.NewLogger(cfg, errW)
	options := []gcombine.Option{gcombine.WithLogger(log)}

	/* the pipeline file comes first, explicit flags override it */
	if cfg.ConfigPath != "" {
		file, err := config.Load(cfg.ConfigPath)
		if err != nil {
			return err
		}
		options = append(options, file.Apply)
	}
	if cfg.VerifySet {
		options = append(options, gcombine.WithVerify(cfg.Verify))
	}

	/* read the module */
	if cfg.Input != "" {
		fp, err := os.Open(cfg.Input)
		if err != nil {
			return err
		}
		defer fp.Close()
		in = fp
	}
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}

	/* combine it */
	res, changed, err := gcombine.Combine(string(src), options...)
	if err != nil {
		return err
	}
	log.Debug("combining finished", "changed", changed)

	/* write the result */
	if cfg.Output == "" {
		_, err = io.WriteString(outW, res)
		return err
	}
	return os.WriteFile(cfg.Output, []byte(res), 0o644)
}
