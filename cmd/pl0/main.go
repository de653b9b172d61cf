// This file is part of pl0 - https://github.com/dcrane/pl0
//
// Copyright 2026 Danny Crane
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command pl0 is a thin CLI front end over package pl0 and the vm/asmtext
// packages: compile and run PL/0 source, or assemble and run hand-written
// p-code assembly text directly, grounded on this codebase's own
// command-line driver conventions (os.Args handling replaced by a proper
// subcommand framework, file I/O errors wrapped with github.com/pkg/errors).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/dcrane/pl0/internal/asmtext"
	"github.com/dcrane/pl0/pl0"
	"github.com/dcrane/pl0/vm"
)

func main() {
	app := &cli.App{
		Name:  "pl0",
		Usage: "compile, assemble and run PL/0 programs",
		Commands: []*cli.Command{
			compileCommand(),
			disasmCommand(),
			runCommand(),
			asmCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pl0:", err)
		os.Exit(1)
	}
}

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "compile PL/0 source to p-code assembly text",
		ArgsUsage: "<source.pl0>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-optimize", Usage: "skip the optimizer pass"},
		},
		Action: func(c *cli.Context) error {
			src, err := readSourceArg(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			res := pl0.Compile(src, pl0.Options{SkipOptimizer: c.Bool("no-optimize")})
			if res.Diags.HasErrors() {
				return cli.Exit(res.Diags.Error(), 1)
			}
			fmt.Print(asmtext.Disassemble(res.Code))
			return nil
		},
	}
}

func disasmCommand() *cli.Command {
	return &cli.Command{
		Name:      "disasm",
		Usage:     "parse assembly text and re-emit it in canonical form",
		ArgsUsage: "<program.asm>",
		Action: func(c *cli.Context) error {
			text, err := readSourceArg(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			code, err := asmtext.Assemble(text)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Print(asmtext.Disassemble(code))
			return nil
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "compile and execute PL/0 source, reading read() input from stdin",
		ArgsUsage: "<source.pl0>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-optimize", Usage: "skip the optimizer pass"},
		},
		Action: func(c *cli.Context) error {
			src, err := readSourceArg(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			res := pl0.Compile(src, pl0.Options{SkipOptimizer: c.Bool("no-optimize")})
			if res.Diags.HasErrors() {
				return cli.Exit(res.Diags.Error(), 1)
			}
			return execute(res.Code)
		},
	}
}

func asmCommand() *cli.Command {
	return &cli.Command{
		Name:      "asm",
		Usage:     "assemble p-code assembly text and execute it, reading RED input from stdin",
		ArgsUsage: "<program.asm>",
		Action: func(c *cli.Context) error {
			text, err := readSourceArg(c)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			code, err := asmtext.Assemble(text)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return execute(code)
		},
	}
}

func readSourceArg(c *cli.Context) (string, error) {
	path := c.Args().First()
	if path == "" {
		return "", errors.New("missing source file argument")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(b), nil
}

// execute drives a VM instance to completion, mirroring output to stdout as
// it is produced and pulling one integer per line from stdin whenever the
// VM suspends on RED (§5's cooperative-suspension contract applied to an
// interactive terminal driver). Every failure past this point is a runtime
// error in the §6 sense, so it exits 2.
func execute(code []vm.Instruction) error {
	inst := vm.New(code, vm.WithOutputSink(os.Stdout))
	stdin := bufio.NewScanner(os.Stdin)
	for {
		if err := inst.Run(); err != nil {
			return cli.Exit(err.Error(), 2)
		}
		switch inst.Status() {
		case vm.Halted:
			return nil
		case vm.WaitingForInput:
			if !stdin.Scan() {
				return cli.Exit("unexpected end of input", 2)
			}
			v, err := strconv.ParseInt(strings.TrimSpace(stdin.Text()), 10, 64)
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid input %q: %v", stdin.Text(), err), 2)
			}
			inst.PushInput(v)
		default:
			return cli.Exit(fmt.Sprintf("unexpected VM status %v", inst.Status()), 2)
		}
	}
}
