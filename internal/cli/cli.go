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

package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError is an error that carries the exit code of the process.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Config is the validated command line.
type Config struct {
	Input      string
	Output     string
	ConfigPath string
	Verify     bool
	VerifySet  bool
	LogLevel   string
	LogFormat  string
}

// Parse processes command-line arguments. It returns the Config, whether
// the program should exit cleanly right away, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	fs := flag.NewFlagSet("gcombine", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.Usage = func() {
		fmt.Fprint(output, `
gcombine - runs generic machine IR combiners over a textual module.

Usage:
  gcombine [options] [FILE]

Arguments:
  FILE
    Module to combine. Standard input is read when omitted.

Options:
`)
		fs.PrintDefaults()
	}

	configFlag := fs.String("config", "", "Path to an HCL pipeline file.")
	verifyFlag := fs.Bool("verify", false, "Verify every function after each pass.")
	outFlag := fs.String("o", "", "Write the result to this file instead of standard output.")
	logFormatFlag := fs.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := fs.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if fs.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "at most one input file may be given"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	cfg := &Config{
		Input:      fs.Arg(0),
		Output:     *outFlag,
		ConfigPath: *configFlag,
		Verify:     *verifyFlag,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
	}

	/* an explicit -verify=false must still override the config file */
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "verify" {
			cfg.VerifySet = true
		}
	})
	return cfg, false, nil
}

// NewLogger creates a logger writing to w with the configured level and
// format.
func NewLogger(cfg *Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	} else {
		return slog.New(slog.NewTextHandler(w, handlerOpts))
	}
}
